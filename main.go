package main

import (
	"fmt"
	"log"

	"atelier-backend/config"
	"atelier-backend/controllers"
	"atelier-backend/routes"
	"atelier-backend/services"
	"atelier-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}
	cfg := config.Load()

	logg, err := utils.NewLogger(cfg.AppEnv)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logg.Sync()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := config.ConnectDB(cfg.DB, logg)
	if err != nil {
		logg.Fatal("database connection failed", "error", err)
	}
	if cfg.DB.AutoMigrate {
		if err := config.Migrate(db, logg); err != nil {
			logg.Fatal("migration failed", "error", err)
		}
	}
	caps := config.ProbeCapabilities(db, logg)

	catalog := services.NewCatalogService(db, caps, cfg.Catalog, logg)
	lines := services.NewLineStore(db, caps, logg)
	tickets := services.NewTicketStore(db)

	r := routes.SetupRouter(routes.Dependencies{
		Config: cfg,
		Log:    logg,
		Tickets: &controllers.TicketController{
			Aggregator: services.NewLineAggregator(catalog, lines, tickets, logg),
			Lines:      lines,
			Tickets:    tickets,
			Log:        logg,
		},
		Sequence: &controllers.SequenceController{
			Numbering: services.NewNumberingService(db, cfg.Numbering, logg),
		},
		Catalog: &controllers.CatalogController{Catalog: catalog},
		Profile: &controllers.CompanyProfileController{
			Profiles: services.NewCompanyProfileCache(db, cfg.ProfileCacheTTL, logg),
		},
	})
	printRoutes(r)

	logg.Info("listening", "port", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		logg.Fatal("server stopped", "error", err)
	}
}

func printRoutes(r *gin.Engine) {
	for _, route := range r.Routes() {
		fmt.Printf("%-6s %s\n", route.Method, route.Path)
	}
}
