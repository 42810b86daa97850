package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/resource-planner-api/internal/dto"
	"github.com/noah-isme/resource-planner-api/internal/models"
	appErrors "github.com/noah-isme/resource-planner-api/pkg/errors"
)

type planningRepoStub struct {
	cells  []models.HeatmapCell
	err    error
	calls  int
	filter models.HeatmapFilter
}

func (p *planningRepoStub) WeeklyHours(ctx context.Context, filter models.HeatmapFilter) ([]models.HeatmapCell, error) {
	p.calls++
	p.filter = filter
	return p.cells, p.err
}

func cell(personID, name, week string, hours float64) models.HeatmapCell {
	return models.HeatmapCell{PersonID: personID, PersonName: name, Week: models.NewDate(mustParse(week)), Hours: hours}
}

func TestPlanningServiceHeatmapPivotsAndCaches(t *testing.T) {
	repo := &planningRepoStub{cells: []models.HeatmapCell{
		cell("p-1", "Ana", "2024-05-06", 30),
		cell("p-1", "Ana", "2024-05-20", 10),
		cell("p-2", "Beto", "2024-05-13", 45),
	}}
	cache := &cacheStub{}
	svc := NewPlanningService(repo, cache, PlanningConfig{}, nil, nil)
	admin := &models.JWTClaims{UserID: "u-1", Role: models.RoleAdmin}

	heatmap, hit, err := svc.Heatmap(context.Background(), dto.HeatmapQuery{From: "2024-05-08", To: "2024-05-22"}, admin)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, []string{"2024-05-06", "2024-05-13", "2024-05-20"}, heatmap.Weeks)
	assert.Equal(t, "2024-05-06", repo.filter.From.String())
	require.Len(t, heatmap.Rows, 2)
	assert.Equal(t, "Ana", heatmap.Rows[0].PersonName)
	assert.Equal(t, 40.0, heatmap.Rows[0].Total)
	assert.Equal(t, 0.0, heatmap.Rows[0].Weeks["2024-05-13"])
	assert.Equal(t, 45.0, heatmap.Rows[1].Weeks["2024-05-13"])

	cached, hit, err := svc.Heatmap(context.Background(), dto.HeatmapQuery{From: "2024-05-08", To: "2024-05-22"}, admin)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, heatmap.Rows, cached.Rows)
	assert.Equal(t, 1, repo.calls)
	assert.Contains(t, cache.entries, "planning:heatmap:2024-05-06:2024-05-20:all")
}

func TestPlanningServiceEmployeeScopedToSelf(t *testing.T) {
	repo := &planningRepoStub{}
	svc := NewPlanningService(repo, nil, PlanningConfig{}, nil, nil)

	heatmap, _, err := svc.Heatmap(context.Background(), dto.HeatmapQuery{From: "2024-05-06", To: "2024-05-06"}, employee(planPerson))
	require.NoError(t, err)
	assert.Equal(t, planPerson, repo.filter.PersonID)
	assert.NotNil(t, heatmap.Rows)
	assert.Empty(t, heatmap.Rows)

	_, _, err = svc.Heatmap(context.Background(), dto.HeatmapQuery{From: "2024-05-06", To: "2024-05-06", PersonID: planProject}, employee(planPerson))
	require.ErrorIs(t, err, appErrors.ErrForbidden)
}

func TestPlanningServiceRejectsBadRanges(t *testing.T) {
	svc := NewPlanningService(&planningRepoStub{}, nil, PlanningConfig{MaxWeeks: 4}, nil, nil)
	admin := &models.JWTClaims{UserID: "u-1", Role: models.RoleAdmin}

	_, _, err := svc.Heatmap(context.Background(), dto.HeatmapQuery{From: "2024-05-20", To: "2024-05-06"}, admin)
	require.ErrorIs(t, err, appErrors.ErrValidation)

	_, _, err = svc.Heatmap(context.Background(), dto.HeatmapQuery{From: "2024-01-01", To: "2024-03-01"}, admin)
	require.ErrorIs(t, err, appErrors.ErrValidation)

	_, _, err = svc.Heatmap(context.Background(), dto.HeatmapQuery{From: "05/06/2024", To: "2024-05-06"}, admin)
	require.ErrorIs(t, err, appErrors.ErrValidation)
}

func TestPlanningServiceRepositoryError(t *testing.T) {
	svc := NewPlanningService(&planningRepoStub{err: errors.New("boom")}, nil, PlanningConfig{}, nil, nil)
	_, _, err := svc.Heatmap(context.Background(), dto.HeatmapQuery{From: "2024-05-06", To: "2024-05-06"}, &models.JWTClaims{Role: models.RoleAdmin})
	require.ErrorIs(t, err, appErrors.ErrInternal)
}
