package routes

import (
	"atelier-backend/config"
	"atelier-backend/controllers"
	"atelier-backend/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Dependencies are the controllers the router dispatches to.
type Dependencies struct {
	Config   config.Config
	Log      *utils.Logger
	Tickets  *controllers.TicketController
	Sequence *controllers.SequenceController
	Catalog  *controllers.CatalogController
	Profile  *controllers.CompanyProfileController
}

func SetupRouter(deps Dependencies) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     deps.Config.CORSAllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", config.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", config.RequestIDHeader},
		AllowCredentials: true,
	}))

	r.Use(config.PerformanceLogger(deps.Log, deps.Config.SlowRequestThreshold))

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	{
		// Ticket line routes
		tickets := api.Group("/tickets/:id")
		{
			tickets.GET("/lines", deps.Tickets.GetLines)
			tickets.POST("/lines", deps.Tickets.MergeLines)
			tickets.DELETE("/lines", deps.Tickets.ClearLines)
			tickets.DELETE("/lines/:kind/:lineId", deps.Tickets.DeleteLine)
			tickets.GET("/totals", deps.Tickets.GetTotals)
		}

		// Document numbering routes
		sequences := api.Group("/sequences")
		{
			sequences.GET("/:name", deps.Sequence.GetSequence)
			sequences.POST("/:name/next", deps.Sequence.NextNumber)
		}

		// Catalog routes
		catalog := api.Group("/catalog")
		{
			catalog.GET("", deps.Catalog.GetCatalog)
			catalog.GET("/:id", deps.Catalog.GetCatalogEntry)
		}

		// Company settings routes
		profile := api.Group("/company-profile")
		{
			profile.GET("", deps.Profile.GetProfile)
			profile.PUT("", deps.Profile.UpdateProfile)
			profile.POST("/invalidate", deps.Profile.InvalidateProfile)
		}
	}

	return r
}
