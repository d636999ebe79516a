package main

import (
	"os"

	"github.com/betexcr/pokemon-sub007/internal/api"
	"github.com/betexcr/pokemon-sub007/internal/constants"
	"github.com/betexcr/pokemon-sub007/internal/game"
	"github.com/betexcr/pokemon-sub007/internal/logging"
	"github.com/betexcr/pokemon-sub007/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Optional .env for local development; real deployments set env vars.
	_ = godotenv.Load()
	checkEnvVars([]string{constants.EnvSessionSecret})

	configPath := os.Getenv(constants.EnvConfigPath)
	if configPath == "" {
		configPath = "./pokebattle_config.json"
	}
	cfg := loadConfigOrExit(configPath)
	catalog := game.NewCatalog(cfg.Species, cfg.Moves)

	dbPath := os.Getenv(constants.EnvDatabasePath)
	if dbPath == "" {
		dbPath = "./data/pokebattle.db"
	}
	repo := createRepositoryOrExit(dbPath)

	policy := service.TimeoutPolicy(cfg.TimeoutPolicy)
	handler := api.NewBattleHandler(repo, catalog, cfg.TurnTimeout)

	scheduler, err := startSchedulers(repo, catalog, cfg.TurnTimeout, cfg.SweepInterval, policy, cfg.Regions)
	if err != nil {
		logging.Fatal("Failed to start background schedulers", err, nil)
	}
	defer func() { _ = scheduler.Shutdown() }()

	router := gin.Default()

	apiRoutes := router.Group(constants.RouteAPIPrefix)
	{
		// Public endpoints
		apiRoutes.GET(constants.RouteVersion, api.Version)
		apiRoutes.POST("/session", handler.CreateSession)

		// Authenticated endpoints
		protected := apiRoutes.Group("")
		protected.Use(api.AuthRequired())

		protected.POST(constants.RouteLobbyQueue, handler.JoinQueue)
		protected.DELETE(constants.RouteLobbyQueue, handler.LeaveQueue)
		protected.GET(constants.RouteBattleByID, handler.GetBattle)
		protected.POST(constants.RouteBattleChoice, handler.SubmitChoice)
		protected.GET(constants.RouteBattleLog, handler.GetBattleLog)
		protected.GET(constants.RouteProfileMe, handler.GetMe)
		protected.PUT(constants.RouteProfileTeam, handler.SaveTeam)
	}

	addr := cfg.ServerAddress
	logging.Info("Server started", logging.Fields{constants.LogFieldAddr: addr})
	if err := router.Run(addr); err != nil {
		logging.Fatal("Failed to start server", err, nil)
	}
}

func checkEnvVars(vars []string) {
	for _, v := range vars {
		if os.Getenv(v) == "" {
			logging.Fatal("Required environment variable not set", nil, logging.Fields{"var": v})
		}
	}
}
