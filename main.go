package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/ParthPrakashSaini/military-asset-management-system/cmd"
	"github.com/ParthPrakashSaini/military-asset-management-system/internal/container"
	"github.com/ParthPrakashSaini/military-asset-management-system/internal/database"
	"github.com/ParthPrakashSaini/military-asset-management-system/internal/logger"
	"github.com/ParthPrakashSaini/military-asset-management-system/internal/middleware"
	"github.com/ParthPrakashSaini/military-asset-management-system/internal/routes"
)

func main() {
	// Load .env file, but don't overwrite system environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: No .env file found, falling back to system environment variables.")
	}

	// Subcommands (migrate, seed) run and exit
	if len(os.Args) > 1 {
		cmd.Execute()
		return
	}

	zapLogger := logger.NewLogger()
	defer zapLogger.Sync()

	if err := database.RunMigrations("./migrations", zapLogger); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	db, err := database.NewPostgresConnection(os.Getenv("DATABASE_URL"))
	if err != nil {
		log.Fatalf("Error: %v", err)
	}
	defer db.Close()

	log.Println("Connected to the database successfully!")

	appContainer := container.NewAppContainer(db)

	router := gin.Default()
	router.Use(middleware.RecoveryMiddleware(zapLogger))

	routes.RegisterUtilityRoutes(router)
	routes.RegisterPublicRoutes(router, appContainer)
	routes.RegisterProtectedRoutes(router, appContainer)

	appHost := os.Getenv("APP_HOST")
	if appHost == "" {
		appHost = ":8080"
	}

	if err := router.Run(appHost); err != nil {
		panic(err)
	}
}
