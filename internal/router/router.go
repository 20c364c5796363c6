package router

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/kamrulislam2/rhythmverse-dance-school-server/internal/handler"
	"github.com/kamrulislam2/rhythmverse-dance-school-server/internal/middleware"
	"github.com/kamrulislam2/rhythmverse-dance-school-server/internal/service"
	"github.com/kamrulislam2/rhythmverse-dance-school-server/pkg/logger"
	corsmiddleware "github.com/kamrulislam2/rhythmverse-dance-school-server/pkg/middleware/cors"
	reqidmiddleware "github.com/kamrulislam2/rhythmverse-dance-school-server/pkg/middleware/requestid"
)

// Handlers groups every HTTP handler the API exposes.
type Handlers struct {
	Token     *handler.TokenHandler
	Class     *handler.ClassHandler
	User      *handler.UserHandler
	Selection *handler.SelectionHandler
	Payment   *handler.PaymentHandler
	System    *handler.SystemHandler
}

// Options carries the cross-cutting dependencies of the engine.
type Options struct {
	Logger         *zap.Logger
	Metrics        *service.MetricsService
	Tokens         middleware.TokenVerifier
	Users          middleware.RoleChecker
	Report         middleware.ReportFunc
	AllowedOrigins []string
	EnableDocs     bool
}

// New assembles the gin engine with the full route table.
func New(h Handlers, opts Options) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	if opts.Logger != nil {
		r.Use(logger.GinMiddleware(opts.Logger))
	}
	r.Use(middleware.Metrics(opts.Metrics))
	r.Use(corsmiddleware.New(opts.AllowedOrigins))
	if opts.Report != nil {
		r.Use(middleware.ErrorReporter(opts.Report))
	}

	auth := middleware.RequireAuth(opts.Tokens)
	admin := middleware.RequireAdmin(opts.Users)

	r.GET("/", h.System.Root)
	r.GET("/health", h.System.Health)
	r.GET("/ready", h.System.Ready)
	r.GET("/metrics", h.System.Prometheus)
	if opts.EnableDocs {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	r.POST("/jwt", h.Token.Issue)

	r.GET("/classes", h.Class.List)
	r.GET("/popular-classes", h.Class.Popular)
	r.POST("/classes", h.Class.Create)
	r.GET("/classes/:id", h.Class.Get)
	r.PATCH("/classes/:id", h.Class.Enroll)
	r.GET("/myClasses", auth, h.Class.Mine)
	r.PATCH("/myClasses/:id", auth, h.Class.UpdateMine)
	r.DELETE("/myClasses/:id", auth, h.Class.DeleteMine)
	r.GET("/manageClasses", auth, admin, h.Class.Pending)
	r.PATCH("/manageClasses/:id", auth, admin, h.Class.SetStatus)
	r.GET("/updatedClasses", auth, admin, h.Class.Updates)
	r.PUT("/updateFeedback/:id", auth, admin, h.Class.SetFeedback)

	r.GET("/users", auth, admin, h.User.List)
	r.PUT("/users", h.User.Upsert)
	r.GET("/users/export", auth, admin, h.User.Export)
	r.GET("/users/admin/:email", auth, h.User.IsAdmin)
	r.GET("/users/instructor/:email", auth, h.User.IsInstructor)
	r.PATCH("/user/:id", h.User.SetRole)

	r.GET("/selected", auth, h.Selection.List)
	r.GET("/selected/:id", auth, h.Selection.Get)
	r.POST("/selected", h.Selection.Create)
	r.DELETE("/selected/:id", auth, h.Selection.Delete)

	r.POST("/create-payment-intent", auth, h.Payment.CreateIntent)
	r.GET("/payment", auth, h.Payment.List)
	r.POST("/payments", auth, h.Payment.Record)
	r.GET("/payments/:id/receipt", auth, h.Payment.Receipt)

	return r
}
