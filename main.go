package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"

	"backend/internal/catalog"
	"backend/internal/config"
	"backend/internal/database"
	"backend/internal/handlers"
	"backend/internal/middleware"
	"backend/internal/wizard"
)

func main() {
	config.Load()

	client, err := database.Connect(config.AppEnv.MongoURI)
	if err != nil {
		log.Fatal(err)
	}

	db := client.Database(config.AppEnv.DBName)

	log.Println("MongoDB connected to:", db.Name())

	if err := database.EnsureSessionIndexes(db, config.AppEnv.SessionTTL); err != nil {
		log.Printf("⚠️ session index warning: %v", err)
	}

	api := catalog.New(config.AppEnv.CatalogBaseURL, config.AppEnv.CatalogTimeout)
	sessions := database.NewSessionStore(db)
	manager := wizard.NewManager(
		api,
		sessions,
		config.AppEnv.SuggestDebounce,
		handlers.StagingReleaser(config.AppEnv.StagingDir),
	)

	r := gin.Default()

	r.POST("/onboarding/start", handlers.StartOnboarding(manager, config.AppEnv.JWTSecret, config.AppEnv.SessionTokenTTL))
	r.GET("/onboarding/provinces", handlers.ListProvinces(api))

	onboarding := r.Group("/onboarding")
	onboarding.Use(middleware.SessionAuth(config.AppEnv.JWTSecret))
	{
		onboarding.GET("/state", handlers.GetOnboardingState(manager))
		onboarding.DELETE("", handlers.AbandonOnboarding(manager))

		onboarding.POST("/address/province", handlers.SelectProvince(manager))
		onboarding.POST("/address/district", handlers.SelectDistrict(manager))
		onboarding.POST("/address/ward", handlers.SelectWard(manager))
		onboarding.POST("/address/restore", handlers.RestoreAddress(manager))

		onboarding.PUT("/tags/query", handlers.SetTagQuery(manager))
		onboarding.GET("/tags/suggestions", handlers.GetTagSuggestions(manager))
		onboarding.POST("/tags", handlers.ConfirmTag(manager))
		onboarding.DELETE("/tags/:tag", handlers.RemoveTag(manager))

		onboarding.POST("/media/:slot", handlers.StageSlotFiles(manager, config.AppEnv.StagingDir))

		onboarding.POST("/steps/register", handlers.CommitRegisterStep(manager))
		onboarding.POST("/steps/category", handlers.CommitCategoryStep(manager))
		onboarding.POST("/steps/media", handlers.CommitMediaStep(manager))
		onboarding.POST("/steps/info", handlers.CommitDetailsStep(manager))
		onboarding.POST("/finalize", handlers.FinalizeOnboarding(manager))
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	r.Run(":" + port)
}
