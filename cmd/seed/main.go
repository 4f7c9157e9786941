package main

import (
	"os"

	"github.com/smartedu/smartedu/internal/config"
	"github.com/smartedu/smartedu/internal/logging"
	"github.com/smartedu/smartedu/internal/seeds"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		os.Exit(1)
	}
	logger := logging.New(cfg.LOG_LEVEL)

	db, err := config.InitDB(cfg)
	if err != nil {
		logger.Error("db init failed", "error", err)
		os.Exit(1)
	}

	modelNames := []string{
		"user", "role", "permission",
		"teacher_profile", "student_profile", "subject",
		"schedule_slot", "booking", "payment", "review",
		"lesson", "question", "answer",
		"chat", "message", "group",
	}
	if err := seeds.GenerateModelPermissions(db, modelNames); err != nil {
		logger.Error("permission seed failed", "error", err)
		os.Exit(1)
	}
	logger.Info("permissions seeded", "models", len(modelNames))
}
