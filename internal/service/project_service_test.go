package service

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/resource-planner-api/internal/dto"
	"github.com/noah-isme/resource-planner-api/internal/models"
	appErrors "github.com/noah-isme/resource-planner-api/pkg/errors"
)

type mockProjectRepo struct {
	projects  map[string]models.Project
	deleteErr error
}

func (m *mockProjectRepo) FindByID(ctx context.Context, id string) (*models.Project, error) {
	if p, ok := m.projects[id]; ok {
		return &p, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockProjectRepo) ExistsByCode(ctx context.Context, code, excludeID string) (bool, error) {
	for id, p := range m.projects {
		if strings.EqualFold(p.Code, code) && id != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockProjectRepo) Create(ctx context.Context, project *models.Project) error {
	project.ID = uuid.NewString()
	m.projects[project.ID] = *project
	return nil
}

func (m *mockProjectRepo) Update(ctx context.Context, project *models.Project) error {
	m.projects[project.ID] = *project
	return nil
}

func (m *mockProjectRepo) Delete(ctx context.Context, id string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	delete(m.projects, id)
	return nil
}

type mockBudgetRepo struct {
	budgets map[string]models.Budget
}

func (m *mockBudgetRepo) FindByID(ctx context.Context, id string) (*models.Budget, error) {
	if b, ok := m.budgets[id]; ok {
		return &b, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockBudgetRepo) Create(ctx context.Context, budget *models.Budget) error {
	budget.ID = uuid.NewString()
	m.budgets[budget.ID] = *budget
	return nil
}

func (m *mockBudgetRepo) Update(ctx context.Context, budget *models.Budget) error {
	m.budgets[budget.ID] = *budget
	return nil
}

func (m *mockBudgetRepo) Delete(ctx context.Context, id string) error {
	if _, ok := m.budgets[id]; !ok {
		return sql.ErrNoRows
	}
	delete(m.budgets, id)
	return nil
}

func newTestProjectService() (*ProjectService, *mockProjectRepo, *mockBudgetRepo) {
	projects := &mockProjectRepo{projects: map[string]models.Project{}}
	budgets := &mockBudgetRepo{budgets: map[string]models.Budget{}}
	return NewProjectService(projects, budgets, nil, nil, nil), projects, budgets
}

func TestProjectServiceCreateNormalisesCode(t *testing.T) {
	svc, _, _ := newTestProjectService()
	start := models.NewDate(mustParse("2024-01-01"))

	project, err := svc.CreateProject(context.Background(), dto.CreateProjectRequest{Code: " apollo ", Name: "Apollo", StartDate: &start})
	require.NoError(t, err)
	assert.Equal(t, "APOLLO", project.Code)
	assert.True(t, project.Active)

	_, err = svc.CreateProject(context.Background(), dto.CreateProjectRequest{Code: "Apollo", Name: "Other", StartDate: &start})
	require.ErrorIs(t, err, appErrors.ErrConflict)
}

func TestProjectServicePartialUpdateKeepsFields(t *testing.T) {
	svc, _, _ := newTestProjectService()
	start := models.NewDate(mustParse("2024-01-01"))
	project, err := svc.CreateProject(context.Background(), dto.CreateProjectRequest{Code: "APL", Name: "Apollo", Client: "NASA", StartDate: &start})
	require.NoError(t, err)

	inactive := false
	updated, err := svc.UpdateProject(context.Background(), project.ID, dto.UpdateProjectRequest{Active: &inactive})
	require.NoError(t, err)
	assert.False(t, updated.Active)
	assert.Equal(t, "Apollo", updated.Name)
	assert.Equal(t, "NASA", updated.Client)

	before := models.NewDate(mustParse("2023-01-01"))
	_, err = svc.UpdateProject(context.Background(), project.ID, dto.UpdateProjectRequest{EndDate: &before})
	require.ErrorIs(t, err, appErrors.ErrValidation)
}

func TestProjectServiceDeleteReferencedIsConflict(t *testing.T) {
	svc, projects, _ := newTestProjectService()
	projects.deleteErr = fmt.Errorf("delete project: %w", &pq.Error{Code: "23503"})

	err := svc.DeleteProject(context.Background(), "p-1")
	require.ErrorIs(t, err, appErrors.ErrConflict)
}

func TestProjectServiceBudgetNeedsProject(t *testing.T) {
	svc, _, budgets := newTestProjectService()
	start := models.NewDate(mustParse("2024-01-01"))
	req := dto.CreateBudgetRequest{ProjectID: uuid.NewString(), Name: "Fase 1", Amount: 1000, Currency: "clp", StartDate: &start}

	_, err := svc.CreateBudget(context.Background(), req)
	require.ErrorIs(t, err, appErrors.ErrNotFound)

	project, err := svc.CreateProject(context.Background(), dto.CreateProjectRequest{Code: "APL", Name: "Apollo", StartDate: &start})
	require.NoError(t, err)
	req.ProjectID = project.ID
	budget, err := svc.CreateBudget(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "CLP", budget.Currency)
	assert.Len(t, budgets.budgets, 1)

	require.NoError(t, svc.DeleteBudget(context.Background(), budget.ID))
	require.ErrorIs(t, svc.DeleteBudget(context.Background(), budget.ID), appErrors.ErrNotFound)
}
