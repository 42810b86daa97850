package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/resource-planner-api/internal/middleware"
	"github.com/noah-isme/resource-planner-api/internal/models"
)

type fakeSubscriber struct {
	personIDs []string
	pending   []string
}

func (f *fakeSubscriber) SubscribePerson(ctx context.Context, personID string, onMessage func(string)) error {
	f.personIDs = append(f.personIDs, personID)
	for _, payload := range f.pending {
		onMessage(payload)
	}
	return nil
}

// streamRecorder reports the client as gone after the first flush.
type streamRecorder struct {
	*httptest.ResponseRecorder
	gone chan bool
}

func (r *streamRecorder) CloseNotify() <-chan bool { return r.gone }

func (r *streamRecorder) Flush() {
	r.ResponseRecorder.Flush()
	select {
	case r.gone <- true:
	default:
	}
}

func TestNotificationStreamSubscribesToOwnPerson(t *testing.T) {
	gin.SetMode(gin.TestMode)
	sub := &fakeSubscriber{pending: []string{`{"event":"review","reference":"r-1"}`}}
	h := NewNotificationHandler(sub)

	rec := &streamRecorder{ResponseRecorder: httptest.NewRecorder(), gone: make(chan bool, 1)}
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/notifications/stream", nil)
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "u-1", PersonID: "p-1", Role: models.RoleEmployee})

	h.Stream(c)

	assert.Equal(t, []string{"p-1"}, sub.personIDs)
	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "event:notification")
	assert.Contains(t, rec.Body.String(), `"reference":"r-1"`)
}

func TestNotificationStreamRequiresPerson(t *testing.T) {
	sub := &fakeSubscriber{}
	h := NewNotificationHandler(sub)

	c, w := newTestContext(http.MethodGet, "/notifications/stream", nil)
	h.Stream(c)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	c, w = newTestContext(http.MethodGet, "/notifications/stream", nil)
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "u-1", Role: models.RoleAdmin})
	h.Stream(c)
	require.Equal(t, http.StatusForbidden, w.Code)
	assert.Empty(t, sub.personIDs)
}
