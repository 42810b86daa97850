package main

import (
	"context"
	"sort"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/resource-planner-api/api/swagger"
	"github.com/noah-isme/resource-planner-api/internal/handler"
	"github.com/noah-isme/resource-planner-api/internal/middleware"
	"github.com/noah-isme/resource-planner-api/internal/models"
	"github.com/noah-isme/resource-planner-api/internal/service"
	"github.com/noah-isme/resource-planner-api/pkg/config"
	"github.com/noah-isme/resource-planner-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/resource-planner-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/resource-planner-api/pkg/middleware/requestid"
	"github.com/noah-isme/resource-planner-api/pkg/table"
)

type tokenValidator interface {
	ValidateToken(token string) (*models.JWTClaims, error)
}

type auditWriter interface {
	CreateAuditLog(ctx context.Context, log *models.AuditLog) error
}

type handlers struct {
	auth         *handler.AuthHandler
	user         *handler.UserHandler
	person       *handler.PersonHandler
	project      *handler.ProjectHandler
	hr           *handler.HRHandler
	review       *handler.ReviewHandler
	assignment   *handler.AssignmentHandler
	controlWeek  *handler.ControlWeekHandler
	earlyClose   *handler.EarlyCloseHandler
	planning     *handler.PlanningHandler
	document     *handler.DocumentHandler
	table        *handler.TableHandler
	notification *handler.NotificationHandler
	metrics      *handler.MetricsHandler

	tokens        tokenValidator
	audit         auditWriter
	observer      *service.MetricsService
	tableNames    map[string]table.Definition
	cookieName    string
	apiPrefix     string
	swaggerPublic bool
	logger        *zap.Logger
}

var (
	managers   = []models.UserRole{models.RoleManager}
	hrStaff    = []models.UserRole{models.RoleHR}
	backOffice = []models.UserRole{models.RoleHR, models.RoleManager}
)

// tableRoles narrows listings that are not scoped per person. Admin only when empty.
var tableRoles = map[string][]models.UserRole{
	"users":       {},
	"budgets":     managers,
	"assignments": backOffice,
	"reviews":     backOffice,
}

func newRouter(cfg *config.Config, logr *zap.Logger, h handlers) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(h.observer))
	r.Use(middleware.ResponseMeta())

	r.GET("/health", h.metrics.Health)
	r.GET("/ready", h.metrics.Ready)
	r.GET("/metrics", h.metrics.Prometheus)
	if h.swaggerPublic {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(h.apiPrefix)
	api.POST("/auth/login", h.auth.Login)
	// signed token authorises the download on its own
	api.GET("/documents/:id/download", h.document.Download)

	secured := api.Group("")
	secured.Use(middleware.JWT(h.tokens, h.cookieName))
	secured.POST("/auth/logout", h.auth.Logout)
	secured.GET("/auth/me", h.auth.Me)
	secured.PUT("/auth/password", h.auth.ChangePassword)
	secured.GET("/notifications/stream", h.notification.Stream)
	secured.GET("/planning/heatmap", h.planning.Heatmap)
	secured.GET("/reviews/:type/:reference", middleware.RequireRoles(backOffice...), h.review.Get)

	h.tableRoutes(secured)
	h.masterRoutes(secured)
	h.planningRoutes(secured)
	h.hrRoutes(secured)
	return r
}

// tableRoutes mounts POST /<resource>/table and its export for every definition.
func (h handlers) tableRoutes(rg *gin.RouterGroup) {
	names := make([]string, 0, len(h.tableNames))
	for name := range h.tableNames {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		g := rg.Group("/" + name)
		if roles, ok := tableRoles[name]; ok {
			g.Use(middleware.RequireRoles(roles...))
		}
		g.POST("/table", h.table.Query(name))
		g.POST("/table/export", h.table.Export(name))
	}
}

func (h handlers) masterRoutes(rg *gin.RouterGroup) {
	users := rg.Group("/users", middleware.RequireRoles())
	users.GET("/:id", h.user.Get)
	users.POST("", h.user.Create)
	users.PUT("/:id", h.user.Update)
	users.PATCH("/:id", h.user.Update)
	users.DELETE("/:id", h.user.Delete)

	persons := rg.Group("/persons", middleware.Audit(h.audit, "persons", h.logger))
	persons.GET("/:id", h.person.Get)
	persons.POST("", middleware.RequireRoles(hrStaff...), h.person.Create)
	persons.PUT("/:id", middleware.RequireRoles(hrStaff...), h.person.Update)
	persons.PATCH("/:id", middleware.RequireRoles(hrStaff...), h.person.Update)
	persons.DELETE("/:id", middleware.RequireRoles(hrStaff...), h.person.Delete)

	projects := rg.Group("/projects", middleware.Audit(h.audit, "projects", h.logger))
	projects.GET("/:id", h.project.GetProject)
	projects.POST("", middleware.RequireRoles(managers...), h.project.CreateProject)
	projects.PUT("/:id", middleware.RequireRoles(managers...), h.project.UpdateProject)
	projects.PATCH("/:id", middleware.RequireRoles(managers...), h.project.UpdateProject)
	projects.DELETE("/:id", middleware.RequireRoles(managers...), h.project.DeleteProject)

	budgets := rg.Group("/budgets", middleware.RequireRoles(managers...), middleware.Audit(h.audit, "budgets", h.logger))
	budgets.GET("/:id", h.project.GetBudget)
	budgets.POST("", h.project.CreateBudget)
	budgets.PUT("/:id", h.project.UpdateBudget)
	budgets.PATCH("/:id", h.project.UpdateBudget)
	budgets.DELETE("/:id", h.project.DeleteBudget)

	roles := rg.Group("/roles", middleware.Audit(h.audit, "roles", h.logger))
	roles.GET("/:id", h.project.GetRole)
	roles.POST("", middleware.RequireRoles(managers...), h.project.CreateRole)
	roles.PUT("/:id", middleware.RequireRoles(managers...), h.project.UpdateRole)
	roles.PATCH("/:id", middleware.RequireRoles(managers...), h.project.UpdateRole)
	roles.DELETE("/:id", middleware.RequireRoles(managers...), h.project.DeleteRole)
}

func (h handlers) planningRoutes(rg *gin.RouterGroup) {
	assignments := rg.Group("/assignments", middleware.RequireRoles(backOffice...), middleware.Audit(h.audit, "assignments", h.logger))
	assignments.GET("/:id", h.assignment.Get)
	assignments.POST("", middleware.RequireRoles(managers...), h.assignment.Create)
	assignments.PUT("/:id", middleware.RequireRoles(managers...), h.assignment.Update)
	assignments.PATCH("/:id", middleware.RequireRoles(managers...), h.assignment.Update)
	assignments.DELETE("/:id", middleware.RequireRoles(managers...), h.assignment.Delete)

	requests := rg.Group("/assignment-requests", middleware.Audit(h.audit, "assignment_requests", h.logger))
	requests.GET("/:id", h.assignment.GetRequest)
	requests.POST("", h.assignment.CreateRequest)
	requests.PUT("/:id/review", middleware.RequireRoles(managers...), h.assignment.ReviewRequest)
	requests.DELETE("/:id", h.assignment.DeleteRequest)

	weeks := rg.Group("/control-weeks", middleware.Audit(h.audit, "control_weeks", h.logger))
	weeks.GET("/current", h.controlWeek.Current)
	weeks.GET("/:id", h.controlWeek.Get)
	weeks.POST("", h.controlWeek.Open)
	weeks.POST("/:id/close", h.controlWeek.Close)

	earlyClose := rg.Group("/early-close-requests", middleware.Audit(h.audit, "early_close_requests", h.logger))
	earlyClose.GET("/:id", middleware.RequireRoles(managers...), h.earlyClose.Get)
	earlyClose.POST("", h.earlyClose.Create)
	earlyClose.PUT("/:id/review", middleware.RequireRoles(managers...), h.earlyClose.Review)
}

func (h handlers) hrRoutes(rg *gin.RouterGroup) {
	type crud struct {
		resource   string
		reviewType models.ReviewType
		get        gin.HandlerFunc
		create     gin.HandlerFunc
		update     gin.HandlerFunc
		remove     gin.HandlerFunc
	}
	resources := []crud{
		{"identifications", models.ReviewTypeIdentification, h.hr.GetIdentification, h.hr.CreateIdentification, h.hr.UpdateIdentification, h.hr.DeleteIdentification},
		{"residences", models.ReviewTypeResidence, h.hr.GetResidence, h.hr.CreateResidence, h.hr.UpdateResidence, h.hr.DeleteResidence},
		{"certifications", models.ReviewTypeCertification, h.hr.GetCertification, h.hr.CreateCertification, h.hr.UpdateCertification, h.hr.DeleteCertification},
		{"laboral-experiences", models.ReviewTypeLaboralExperience, h.hr.GetLaboralExperience, h.hr.CreateLaboralExperience, h.hr.UpdateLaboralExperience, h.hr.DeleteLaboralExperience},
		{"project-experiences", models.ReviewTypeProjectExperience, h.hr.GetProjectExperience, h.hr.CreateProjectExperience, h.hr.UpdateProjectExperience, h.hr.DeleteProjectExperience},
	}
	for _, res := range resources {
		g := rg.Group("/"+res.resource, middleware.Audit(h.audit, res.resource, h.logger))
		g.GET("/:id", res.get)
		g.POST("", res.create)
		g.PUT("/:id", res.update)
		g.PATCH("/:id", res.update)
		g.DELETE("/:id", res.remove)
		g.PUT("/:id/review", middleware.RequireRoles(hrStaff...), h.review.Decide(res.reviewType))
	}

	documents := rg.Group("/documents", middleware.Audit(h.audit, "documents", h.logger))
	documents.GET("/:id", h.document.Get)
	documents.POST("", h.document.Upload)
	documents.DELETE("/:id", h.document.Delete)
	documents.PUT("/:id/review", middleware.RequireRoles(hrStaff...), h.review.Decide(models.ReviewTypeDocument))
}
