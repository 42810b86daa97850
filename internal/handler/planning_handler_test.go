package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/resource-planner-api/internal/dto"
	"github.com/noah-isme/resource-planner-api/internal/middleware"
	"github.com/noah-isme/resource-planner-api/internal/models"
	appErrors "github.com/noah-isme/resource-planner-api/pkg/errors"
)

type fakePlanningSrv struct {
	heatmap *models.Heatmap
	hit     bool
	err     error
	query   dto.HeatmapQuery
	actor   *models.JWTClaims
}

func (f *fakePlanningSrv) Heatmap(_ context.Context, query dto.HeatmapQuery, actor *models.JWTClaims) (*models.Heatmap, bool, error) {
	f.query = query
	f.actor = actor
	return f.heatmap, f.hit, f.err
}

type responseEnvelope struct {
	Data  map[string]interface{} `json:"data"`
	Meta  map[string]interface{} `json:"meta"`
	Error map[string]interface{} `json:"error"`
}

func newTestContext(method, target string, body *string) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	if body != nil {
		c.Request = httptest.NewRequest(method, target, strings.NewReader(*body))
		c.Request.Header.Set("Content-Type", "application/json")
	} else {
		c.Request = httptest.NewRequest(method, target, nil)
	}
	return c, rec
}

func TestPlanningHandlerHeatmapReportsCacheHit(t *testing.T) {
	srv := &fakePlanningSrv{
		heatmap: &models.Heatmap{Weeks: []string{"2024-03-04"}, Rows: []models.HeatmapRow{{PersonID: "p-1", PersonName: "Ana", Weeks: map[string]float64{"2024-03-04": 40}, Total: 40}}},
		hit:     true,
	}
	handler := NewPlanningHandler(srv)
	c, rec := newTestContext(http.MethodGet, "/planning/heatmap?from=2024-03-04&to=2024-03-10&person_id=p-1", nil)
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "u-1", Role: models.RoleManager})

	handler.Heatmap(c)

	require.Equal(t, http.StatusOK, rec.Code)
	var envelope responseEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, true, envelope.Meta["cache_hit"])
	assert.Equal(t, []interface{}{"2024-03-04"}, envelope.Data["weeks"])
	assert.Equal(t, "2024-03-04", srv.query.From)
	assert.Equal(t, "p-1", srv.query.PersonID)
	require.NotNil(t, srv.actor)
	assert.Equal(t, "u-1", srv.actor.UserID)
}

func TestPlanningHandlerHeatmapError(t *testing.T) {
	handler := NewPlanningHandler(&fakePlanningSrv{err: appErrors.Clone(appErrors.ErrValidation, "from must not be after to")})
	c, rec := newTestContext(http.MethodGet, "/planning/heatmap?from=2024-03-10&to=2024-03-04", nil)

	handler.Heatmap(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var envelope responseEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, "from must not be after to", envelope.Error["message"])
}
