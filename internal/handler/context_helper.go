package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/resource-planner-api/internal/middleware"
	"github.com/noah-isme/resource-planner-api/internal/models"
	appErrors "github.com/noah-isme/resource-planner-api/pkg/errors"
	"github.com/noah-isme/resource-planner-api/pkg/response"
)

func claimsFromContext(c *gin.Context) *models.JWTClaims {
	return middleware.Claims(c)
}

// reviewerFromContext returns the acting user id, writing 401 when there is none.
func reviewerFromContext(c *gin.Context) (string, bool) {
	claims := claimsFromContext(c)
	if claims == nil || claims.UserID == "" {
		response.Error(c, appErrors.ErrUnauthorized)
		return "", false
	}
	return claims.UserID, true
}

// bindJSON decodes the body into dst, writing a validation error on failure.
func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return false
	}
	return true
}
