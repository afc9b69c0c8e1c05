package routes

import (
	"net/http"
	"time"

	"beautyconsult-backend/config"
	"beautyconsult-backend/controllers"
	"beautyconsult-backend/models"
	"beautyconsult-backend/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Controllers groups every handler set the router mounts.
type Controllers struct {
	Auth          *controllers.AuthController
	Catalog       *controllers.CatalogController
	Intake        *controllers.IntakeController
	History       *controllers.HistoryController
	Notifications *controllers.NotificationController
	Visuals       *controllers.VisualController
}

func SetupRouter(origins []string, jwtSecret string, h Controllers) *gin.Engine {
	r := gin.New()
	r.MaxMultipartMemory = 64 << 20

	r.Use(config.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(config.PerformanceLogger())
	r.Use(config.Metrics())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", config.MetricsHandler())

	authMW := utils.AuthMiddleware(jwtSecret)
	adminOnly := utils.RequireRole(models.RoleAdmin)

	auth := r.Group("/auth")
	{
		auth.POST("/register", h.Auth.Register)
		auth.POST("/login", h.Auth.Login)

		auth.Use(authMW)
		auth.GET("/me", h.Auth.Me)

		profile := auth.Group("/profile")
		{
			profile.GET("", h.Auth.GetProfile)
			profile.PUT("", h.Auth.UpdateProfile)
			profile.PUT("/notifications", h.Auth.UpdateNotifications)
		}
	}

	api := r.Group("/api")
	api.Use(authMW)
	{
		api.POST("/users", adminOnly, h.Auth.CreateUser)

		catalog := api.Group("/catalog")
		{
			catalog.GET("", h.Catalog.GetCatalog)
			catalog.GET("/options", h.Catalog.GetOptions)
		}

		intake := api.Group("/intake")
		{
			intake.GET("", h.Intake.GetState)
			intake.GET("/overview", h.Intake.GetOverview)
			intake.POST("/reset", h.Intake.Reset)

			intake.PUT("/customer", h.Intake.UpdateCustomer)
			intake.POST("/customer/install-dates", h.Intake.AddInstallDate)
			intake.DELETE("/customer/install-dates", h.Intake.RemoveInstallDate)

			intake.PUT("/consult", h.Intake.UpdateConsult)
			intake.POST("/selector", h.Intake.Select)

			intake.GET("/rows", h.Intake.ListRows)
			intake.POST("/rows", h.Intake.AddRow)
			intake.POST("/rows/move", h.Intake.MoveRow)
			intake.PUT("/rows/:key", h.Intake.UpdateRow)
			intake.DELETE("/rows/:key", h.Intake.DeleteRow)
			intake.PUT("/view", h.Intake.SetView)

			intake.POST("/products", h.Intake.UploadProducts)
			intake.GET("/products", h.Intake.SearchProducts)
			intake.POST("/products/pick", h.Intake.PickProducts)

			intake.POST("/snapshot/save", h.Intake.SaveSnapshot)
			intake.POST("/snapshot/load", h.Intake.LoadSnapshot)
		}

		history := api.Group("/history")
		{
			history.GET("", h.History.ListHistory)
			history.POST("", h.History.SaveHistory)
			history.GET("/export", h.History.ExportHistory)
			history.GET("/report", h.History.GetReport)
			history.DELETE("/:id", h.History.DeleteHistory)
		}

		visuals := api.Group("/visual-details")
		{
			visuals.GET("", h.Visuals.GetVisualDetails)
			visuals.POST("", h.Visuals.CreateVisualDetail)
			visuals.DELETE("/:id", h.Visuals.DeleteVisualDetail)
		}

		templates := api.Group("/notification-templates", adminOnly)
		{
			templates.GET("", h.Notifications.GetTemplates)
			templates.POST("", h.Notifications.CreateTemplate)
			templates.POST("/preview", h.Notifications.PreviewTemplate)
			templates.PUT("/:id", h.Notifications.UpdateTemplate)
			templates.DELETE("/:id", h.Notifications.DeleteTemplate)
		}
	}

	return r
}
