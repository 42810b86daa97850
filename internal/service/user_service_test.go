package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/resource-planner-api/internal/models"
	appErrors "github.com/noah-isme/resource-planner-api/pkg/errors"
)

type mockUserRepo struct {
	users     map[string]*models.User
	auditLogs []*models.AuditLog
}

func (m *mockUserRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	if user, ok := m.users[id]; ok {
		copy := *user
		return &copy, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			copy := *u
			return &copy, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockUserRepo) Create(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = "u-" + user.Email
	}
	copy := *user
	m.users[user.ID] = &copy
	return nil
}

func (m *mockUserRepo) Update(ctx context.Context, user *models.User) error {
	copy := *user
	m.users[user.ID] = &copy
	return nil
}

func (m *mockUserRepo) Deactivate(ctx context.Context, id string) error {
	if user, ok := m.users[id]; ok {
		user.Active = false
		return nil
	}
	return sql.ErrNoRows
}

func (m *mockUserRepo) CreateAuditLog(ctx context.Context, log *models.AuditLog) error {
	m.auditLogs = append(m.auditLogs, log)
	return nil
}

func newTestUserService(users map[string]*models.User) (*UserService, *mockUserRepo) {
	repo := &mockUserRepo{users: users}
	people := &personStub{people: map[string]*models.Person{hrPersonID: {ID: hrPersonID, Name: "Ana"}}}
	return NewUserService(repo, people, validator.New(), zap.NewNop()), repo
}

func TestUserServiceCreate(t *testing.T) {
	svc, repo := newTestUserService(map[string]*models.User{})
	personID := hrPersonID
	user, err := svc.Create(context.Background(), CreateUserRequest{Email: "ANA@EXAMPLE.COM", FullName: "Ana", Password: "secret123", Role: models.RoleEmployee, PersonID: &personID, Active: true}, "admin", models.LoginRequest{})
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", user.Email)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("secret123")))
	require.Len(t, repo.auditLogs, 1)
	assert.Equal(t, models.AuditActionCreate, repo.auditLogs[0].Action)

	_, err = svc.Create(context.Background(), CreateUserRequest{Email: "ana@example.com", FullName: "Ana", Password: "secret123", Role: models.RoleHR}, "admin", models.LoginRequest{})
	require.ErrorIs(t, err, appErrors.ErrConflict)
}

func TestUserServiceCreateEmployeeNeedsPerson(t *testing.T) {
	svc, _ := newTestUserService(map[string]*models.User{})
	_, err := svc.Create(context.Background(), CreateUserRequest{Email: "x@example.com", FullName: "X", Password: "secret123", Role: models.RoleEmployee}, "admin", models.LoginRequest{})
	require.ErrorIs(t, err, appErrors.ErrValidation)

	missing := "6f1c4a8e-0000-4000-8000-000000000000"
	_, err = svc.Create(context.Background(), CreateUserRequest{Email: "x@example.com", FullName: "X", Password: "secret123", Role: models.RoleEmployee, PersonID: &missing}, "admin", models.LoginRequest{})
	require.ErrorIs(t, err, appErrors.ErrNotFound)
}

func TestUserServiceUpdate(t *testing.T) {
	svc, repo := newTestUserService(map[string]*models.User{"1": {ID: "1", Email: "a@example.com", FullName: "Old", Role: models.RoleHR, Active: true}})
	role := models.RoleManager
	name := "New"
	user, err := svc.Update(context.Background(), "1", UpdateUserRequest{FullName: &name, Role: &role}, "admin", models.LoginRequest{})
	require.NoError(t, err)
	assert.Equal(t, models.RoleManager, user.Role)
	assert.Equal(t, "New", user.FullName)
	assert.True(t, user.Active)
	assert.NotEmpty(t, repo.auditLogs)

	employee := models.RoleEmployee
	_, err = svc.Update(context.Background(), "1", UpdateUserRequest{Role: &employee}, "admin", models.LoginRequest{})
	require.ErrorIs(t, err, appErrors.ErrValidation)
}

func TestUserServiceDelete(t *testing.T) {
	svc, repo := newTestUserService(map[string]*models.User{"1": {ID: "1", Email: "a@example.com", FullName: "Old", Role: models.RoleHR, Active: true}})
	require.NoError(t, svc.Delete(context.Background(), "1", "admin", models.LoginRequest{}))
	assert.False(t, repo.users["1"].Active)
	assert.NotEmpty(t, repo.auditLogs)

	require.ErrorIs(t, svc.Delete(context.Background(), "admin", "admin", models.LoginRequest{}), appErrors.ErrValidation)
	require.ErrorIs(t, svc.Delete(context.Background(), "ghost", "admin", models.LoginRequest{}), appErrors.ErrNotFound)
}
