package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/poultrypms/internal/server/handlers"
	"github.com/mamadbah2/poultrypms/internal/server/middleware"
)

// Handlers bundles every HTTP adapter the router mounts.
type Handlers struct {
	Auth       *handlers.AuthHandler
	Feed       *handlers.FeedHandler
	Production *handlers.ProductionHandler
	Payroll    *handlers.PayrollHandler
	Worker     *handlers.WorkerHandler
	Attendance *handlers.AttendanceHandler
	Poultry    *handlers.PoultryHandler
	Report     *handlers.ReportHandler
}

// New wires the Gin engine with required routes and middlewares. Everything
// under /api except registration and login requires a bearer token.
func New(h Handlers, validator middleware.TokenValidator, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger))

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	r.Use(cors.New(corsConfig))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := r.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.POST("/register", h.Auth.Register)
	authGroup.POST("/login", h.Auth.Login)

	secured := api.Group("")
	secured.Use(middleware.RequireAuth(validator))

	secured.POST("/auth/logout", h.Auth.Logout)
	secured.PUT("/auth/update/password", h.Auth.UpdatePassword)

	feed := secured.Group("/feed")
	feed.POST("", h.Feed.CreatePurchase)
	feed.GET("", h.Feed.ListPurchases)
	feed.GET("/stocks", h.Feed.StockLevels)
	feed.GET("/:id", h.Feed.GetPurchase)
	feed.PATCH("/:id", h.Feed.UpdatePurchase)
	feed.DELETE("/:id", h.Feed.DeletePurchase)

	consume := secured.Group("/feedconsume")
	consume.POST("", h.Feed.CreateConsumption)
	consume.GET("", h.Feed.ListConsumptions)
	consume.GET("/:id", h.Feed.GetConsumption)
	consume.PATCH("/:id", h.Feed.UpdateConsumption)
	consume.DELETE("/:id", h.Feed.DeleteConsumption)

	production := secured.Group("/production")
	production.POST("", h.Production.Create)
	production.GET("", h.Production.List)
	production.GET("/summary", h.Production.Summary)
	production.GET("/:id", h.Production.Get)
	production.PATCH("/:id", h.Production.Update)
	production.DELETE("/:id", h.Production.Delete)

	payroll := secured.Group("/payroll")
	payroll.POST("", h.Payroll.Create)
	payroll.GET("", h.Payroll.List)
	payroll.GET("/:id", h.Payroll.Get)
	payroll.PATCH("/:id", h.Payroll.Update)
	payroll.DELETE("/:id", h.Payroll.Delete)

	worker := secured.Group("/worker")
	worker.POST("", h.Worker.Create)
	worker.GET("", h.Worker.List)
	worker.GET("/:id", h.Worker.Get)
	worker.PATCH("/:id", h.Worker.Update)
	worker.DELETE("/:id", h.Worker.Delete)

	attendance := secured.Group("/attendance")
	attendance.POST("", h.Attendance.Create)
	attendance.GET("", h.Attendance.List)
	attendance.GET("/search", h.Attendance.Search)
	attendance.PATCH("/:id/records/:recordId", h.Attendance.UpdateRecord)
	attendance.DELETE("/:id/records/:recordId", h.Attendance.DeleteRecord)

	batch := secured.Group("/batch")
	batch.POST("", h.Poultry.CreateBatch)
	batch.GET("", h.Poultry.ListBatches)
	batch.GET("/:id", h.Poultry.GetBatch)
	batch.PATCH("/:id", h.Poultry.UpdateBatch)
	batch.DELETE("/:id", h.Poultry.DeleteBatch)

	record := secured.Group("/poultryrecord")
	record.POST("", h.Poultry.CreateRecord)
	record.GET("", h.Poultry.ListRecords)
	record.GET("/:id", h.Poultry.GetRecord)
	record.PATCH("/:id", h.Poultry.UpdateRecord)
	record.DELETE("/:id", h.Poultry.DeleteRecord)

	vaccination := secured.Group("/vaccination")
	vaccination.POST("", h.Poultry.CreateVaccination)
	vaccination.GET("/due", h.Poultry.Due)
	vaccination.GET("/schedule/:id", h.Poultry.Schedule)
	vaccination.PATCH("/:id", h.Poultry.UpdateVaccination)
	vaccination.DELETE("/:id", h.Poultry.DeleteVaccination)

	secured.GET("/insights", h.Report.Insights)
	secured.GET("/reports/snapshot", h.Report.Snapshot)
	secured.GET("/reports/:kind", h.Report.Report)

	if logger != nil {
		logger.Info("router initialized")
	}

	return r
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request completed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()))
	}
}
