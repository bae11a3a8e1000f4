package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/novahq/taskhub-backend/internal/http/handlers"
	httpMW "github.com/novahq/taskhub-backend/internal/http/middleware"
	"github.com/novahq/taskhub-backend/internal/observability"
	"github.com/novahq/taskhub-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log            *logger.Logger
	Metrics        *observability.Metrics
	ServiceName    string
	CORSOrigins    []string
	AuthMiddleware *httpMW.AuthMiddleware

	AuthHandler    *httpH.AuthHandler
	UserHandler    *httpH.UserHandler
	TeamHandler    *httpH.TeamHandler
	ProjectHandler *httpH.ProjectHandler
	TaskHandler    *httpH.TaskHandler
	HealthHandler  *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "taskhub-backend"
	}
	r.Use(otelgin.Middleware(serviceName))
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.CORS(cfg.CORSOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	api := r.Group("/api")
	{
		// Auth (public)
		if cfg.AuthHandler != nil {
			api.POST("/login", cfg.AuthHandler.Login)
		}
	}

	protected := api.Group("/")
	{
		if cfg.AuthMiddleware != nil {
			protected.Use(cfg.AuthMiddleware.RequireAuth())
		}

		// Users
		if cfg.UserHandler != nil {
			protected.GET("/me", cfg.UserHandler.GetMe)
			protected.POST("/users", cfg.UserHandler.Register)
			protected.GET("/users", cfg.UserHandler.List)
			protected.GET("/users/:id", cfg.UserHandler.Get)
			protected.PATCH("/users/:id/profile", cfg.UserHandler.UpdateProfile)
			protected.PATCH("/users/:id/role", cfg.UserHandler.ChangeRole)
			protected.POST("/users/:id/activate", cfg.UserHandler.Activate)
			protected.POST("/users/:id/deactivate", cfg.UserHandler.Deactivate)
			protected.POST("/users/:id/suspend", cfg.UserHandler.Suspend)
		}

		// Teams
		if cfg.TeamHandler != nil {
			protected.POST("/teams", cfg.TeamHandler.Create)
			protected.GET("/teams", cfg.TeamHandler.List)
			protected.GET("/teams/:id", cfg.TeamHandler.Get)
			protected.PATCH("/teams/:id", cfg.TeamHandler.UpdateDetails)
			protected.DELETE("/teams/:id", cfg.TeamHandler.Delete)
			protected.POST("/teams/:id/members", cfg.TeamHandler.AddMember)
			protected.DELETE("/teams/:id/members/:userId", cfg.TeamHandler.RemoveMember)
			protected.PATCH("/teams/:id/members/:userId/role", cfg.TeamHandler.ChangeMemberRole)
		}

		// Projects
		if cfg.ProjectHandler != nil {
			protected.POST("/projects", cfg.ProjectHandler.Create)
			protected.GET("/projects/:id", cfg.ProjectHandler.Get)
			protected.GET("/teams/:id/projects", cfg.ProjectHandler.ListByTeam)
			protected.PATCH("/projects/:id", cfg.ProjectHandler.UpdateDetails)
			protected.PATCH("/projects/:id/planned-end-date", cfg.ProjectHandler.SetPlannedEndDate)
			protected.POST("/projects/:id/start", cfg.ProjectHandler.Start)
			protected.POST("/projects/:id/hold", cfg.ProjectHandler.PutOnHold)
			protected.POST("/projects/:id/resume", cfg.ProjectHandler.Resume)
			protected.POST("/projects/:id/complete", cfg.ProjectHandler.Complete)
			protected.POST("/projects/:id/cancel", cfg.ProjectHandler.Cancel)
		}

		// Tasks
		if cfg.TaskHandler != nil {
			protected.POST("/tasks", cfg.TaskHandler.Create)
			protected.GET("/tasks/:id", cfg.TaskHandler.Get)
			protected.GET("/projects/:id/tasks", cfg.TaskHandler.ListByProject)
			protected.GET("/users/:id/tasks", cfg.TaskHandler.ListByAssignee)
			protected.PATCH("/tasks/:id", cfg.TaskHandler.UpdateDetails)
			protected.PATCH("/tasks/:id/due-date", cfg.TaskHandler.SetDueDate)
			protected.PATCH("/tasks/:id/priority", cfg.TaskHandler.ChangePriority)
			protected.POST("/tasks/:id/start", cfg.TaskHandler.Start)
			protected.POST("/tasks/:id/review", cfg.TaskHandler.SubmitForReview)
			protected.POST("/tasks/:id/complete", cfg.TaskHandler.Complete)
			protected.POST("/tasks/:id/cancel", cfg.TaskHandler.Cancel)
			protected.POST("/tasks/:id/reopen", cfg.TaskHandler.Reopen)
			protected.POST("/tasks/:id/assign", cfg.TaskHandler.AssignTo)
			protected.POST("/tasks/:id/unassign", cfg.TaskHandler.Unassign)
		}
	}

	return r
}
