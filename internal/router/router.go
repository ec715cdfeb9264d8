package router

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/justsurfingit/job-portal/internal/auth"
	"github.com/justsurfingit/job-portal/internal/handlers"
	"github.com/justsurfingit/job-portal/internal/metrics"
	"github.com/justsurfingit/job-portal/internal/middleware"
)

type Deps struct {
	Jobs         *handlers.JobHandler
	Applications *handlers.ApplicationHandler
	Health       *handlers.HealthHandler
	Verifier     auth.Verifier
	Metrics      *metrics.Metrics
	Logger       *zap.Logger
}

// New builds the engine. Only /jobs/applications and /currentUserApplication
// are guarded; every other route is public.
func New(d Deps) *gin.Engine {
	r := gin.New()

	config := cors.DefaultConfig()
	config.AllowAllOrigins = true
	config.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "X-Request-ID"}
	config.AllowMethods = []string{"GET", "POST", "PATCH", "OPTIONS"}
	config.ExposeHeaders = []string{"X-Request-ID"}

	r.Use(
		middleware.RequestID(),
		middleware.AccessLog(d.Logger),
		middleware.Recover(d.Logger),
		cors.New(config),
		d.Metrics.Middleware(),
	)

	verifyToken := middleware.VerifyToken(d.Verifier, d.Logger)
	verifyEmail := middleware.VerifyEmail()

	r.GET("/", d.Health.Root)
	r.GET("/healthz", d.Health.Healthz)
	r.GET("/metrics", gin.WrapH(d.Metrics.Handler()))

	// Job routes
	r.GET("/jobs", d.Jobs.ListJobs)
	r.GET("/jobs/applications", verifyToken, verifyEmail, d.Jobs.ListJobsWithApplicationCounts)
	r.GET("/jobs/:id", d.Jobs.GetJob)
	r.POST("/jobs", d.Jobs.CreateJob)

	// Application routes
	r.POST("/apply", d.Applications.Apply)
	r.GET("/applications", d.Applications.ListApplications)
	r.GET("/currentUserApplication", verifyToken, verifyEmail, d.Applications.CurrentUserApplications)
	r.GET("/applications/jobs/:id", d.Applications.ListByJob)
	r.PATCH("/applications/:id", d.Applications.UpdateStatus)

	return r
}
