package handler

import (
	"context"
	"io"
	"time"

	"github.com/gin-gonic/gin"

	appErrors "github.com/noah-isme/resource-planner-api/pkg/errors"
	"github.com/noah-isme/resource-planner-api/pkg/response"
)

type notificationSubscriber interface {
	SubscribePerson(ctx context.Context, personID string, onMessage func(payload string)) error
}

// NotificationHandler streams in-app notifications over server-sent events.
type NotificationHandler struct {
	subscriber notificationSubscriber
	keepAlive  time.Duration
}

// NewNotificationHandler constructs the handler.
func NewNotificationHandler(subscriber notificationSubscriber) *NotificationHandler {
	return &NotificationHandler{subscriber: subscriber, keepAlive: 25 * time.Second}
}

// Stream godoc
// @Summary Stream notifications of the caller's person
// @Tags Notifications
// @Produce text/event-stream
// @Success 200
// @Router /notifications/stream [get]
func (h *NotificationHandler) Stream(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	if claims.PersonID == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrForbidden, "user has no person"))
		return
	}

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	events := make(chan string, 16)
	err := h.subscriber.SubscribePerson(ctx, claims.PersonID, func(payload string) {
		select {
		case events <- payload:
		default:
		}
	})
	if err != nil {
		response.Error(c, appErrors.Internal(err, "failed to subscribe to notifications"))
		return
	}

	ticker := time.NewTicker(h.keepAlive)
	defer ticker.Stop()
	c.Header("Cache-Control", "no-cache")
	c.Header("X-Accel-Buffering", "no")
	c.Stream(func(w io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case payload := <-events:
			c.SSEvent("notification", payload)
			return true
		case <-ticker.C:
			c.SSEvent("ping", time.Now().UTC().Format(time.RFC3339))
			return true
		}
	})
}
