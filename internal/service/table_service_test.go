package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/resource-planner-api/internal/models"
	appErrors "github.com/noah-isme/resource-planner-api/pkg/errors"
	"github.com/noah-isme/resource-planner-api/pkg/table"
)

type tableRepoStub struct {
	result *table.Result
	err    error
	last   table.Request
}

func (r *tableRepoStub) Query(ctx context.Context, def table.Definition, req table.Request) (*table.Result, error) {
	r.last = req
	if r.err != nil {
		return nil, r.err
	}
	if _, err := table.Build(def, req); err != nil {
		return nil, err
	}
	return r.result, nil
}

var testDefinitions = map[string]table.Definition{
	"persons":    {Name: "persons", Base: "SELECT id, name FROM persons", Columns: []string{"id", "name"}},
	"residences": {Name: "residences", Base: "SELECT id, person_id, city FROM residences", Columns: []string{"id", "person_id", "city"}},
}

func newTestTableService(repo *tableRepoStub) *TableService {
	return NewTableService(repo, testDefinitions, nil)
}

func TestTableServiceQuery(t *testing.T) {
	repo := &tableRepoStub{result: &table.Result{Count: 2, Data: []map[string]interface{}{{"id": "1", "name": "Ana"}, {"id": "2", "name": "Banana"}}}}
	svc := newTestTableService(repo)
	admin := &models.JWTClaims{UserID: "u-1", Role: models.RoleAdmin}

	result, err := svc.Query(context.Background(), "persons", table.Request{Search: map[string]string{"name": "ana"}}, admin)
	require.NoError(t, err)
	assert.EqualValues(t, 2, result.Count)

	_, err = svc.Query(context.Background(), "persons", table.Request{Search: map[string]string{"password": "x"}}, admin)
	require.ErrorIs(t, err, appErrors.ErrValidation)

	_, err = svc.Query(context.Background(), "persons", table.Request{Page: -1}, admin)
	require.ErrorIs(t, err, appErrors.ErrValidation)

	_, err = svc.Query(context.Background(), "nope", table.Request{}, admin)
	require.ErrorIs(t, err, appErrors.ErrNotFound)
}

func TestTableServiceScopesEmployees(t *testing.T) {
	repo := &tableRepoStub{result: &table.Result{Data: []map[string]interface{}{}}}
	svc := newTestTableService(repo)

	_, err := svc.Query(context.Background(), "residences", table.Request{Search: map[string]string{"city": "san"}}, employee(planPerson))
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"city": "san", "person_id": planPerson}, repo.last.Search)

	_, err = svc.Query(context.Background(), "persons", table.Request{}, employee(planPerson))
	require.ErrorIs(t, err, appErrors.ErrForbidden)
}

func TestTableServiceRepositoryFailure(t *testing.T) {
	svc := newTestTableService(&tableRepoStub{err: errors.New("connection reset")})
	_, err := svc.Query(context.Background(), "persons", table.Request{}, &models.JWTClaims{Role: models.RoleHR})
	require.ErrorIs(t, err, appErrors.ErrInternal)
}

func TestTableServiceExportCSV(t *testing.T) {
	repo := &tableRepoStub{result: &table.Result{Count: 1, Data: []map[string]interface{}{{"id": "1", "name": "Ana"}}}}
	svc := newTestTableService(repo)

	file, err := svc.Export(context.Background(), "persons", table.Request{}, ExportFormatCSV, &models.JWTClaims{Role: models.RoleAdmin})
	require.NoError(t, err)
	assert.Equal(t, "text/csv", file.ContentType)
	assert.True(t, strings.HasPrefix(file.Filename, "persons_"))
	assert.True(t, strings.HasSuffix(file.Filename, ".csv"))
	assert.Contains(t, string(file.Data), "id,name")
	assert.Contains(t, string(file.Data), "1,Ana")

	_, err = svc.Export(context.Background(), "persons", table.Request{}, ExportFormat("xlsx"), &models.JWTClaims{Role: models.RoleAdmin})
	require.ErrorIs(t, err, appErrors.ErrValidation)
}
