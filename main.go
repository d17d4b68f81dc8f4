package main

import (
	"go.uber.org/zap"

	"gazequest/internal/config"
	"gazequest/internal/database"
	logger "gazequest/internal/logging"
	"gazequest/internal/models"
	"gazequest/internal/router"
	"gazequest/internal/services"
)

func main() {
	// Initialize Logger
	log, err := logger.Init(".")
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer log.Sync()

	// Load configuration (file, env vars, defaults)
	if err := config.Init(".", log); err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	// Initialize Database
	database.Init(log)

	// Load the questionnaire definition at startup
	qn, err := models.LoadQuestionnaire(config.Conf.Questionnaire)
	if err != nil {
		log.Fatal("Failed to load questionnaire", zap.Error(err))
	}
	log.Info("Questionnaire loaded",
		zap.String("title", qn.Title),
		zap.Int("questions", len(qn.Questions)))

	// Background sweep of abandoned runs
	services.NewJanitor(log).Start()

	// Setup router, passing the logger to it
	r := router.Setup(log, qn)

	// Start the Gin server
	port := ":" + config.Conf.Server.Port
	log.Info("Server listening on http://localhost" + port)
	if err := r.Run(port); err != nil {
		log.Fatal("Failed to run Gin server", zap.Error(err))
	}
}
