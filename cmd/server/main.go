package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/smartedu/smartedu/internal/chatws"
	"github.com/smartedu/smartedu/internal/config"
	"github.com/smartedu/smartedu/internal/es"
	"github.com/smartedu/smartedu/internal/handlers"
	"github.com/smartedu/smartedu/internal/logging"
	authmw "github.com/smartedu/smartedu/internal/middleware/auth"
	loggingmw "github.com/smartedu/smartedu/internal/middleware/logging"
	"github.com/smartedu/smartedu/internal/mykafka"
	httpserver "github.com/smartedu/smartedu/internal/transport/http"
)

const teacherIndex = "teacher_profiles"

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

	var producer *mykafka.Producer
	if cfg.KAFKA_ADDRESS != "" {
		producer = mykafka.NewProducer([]string{cfg.KAFKA_ADDRESS})
		defer producer.Close()
	} else {
		logger.Warn("KAFKA_ADDRESS is empty, domain events disabled")
	}

	var esClient *elasticsearch.Client
	if cfg.ES_URL != "" {
		client, err := es.NewClient(cfg)
		if err != nil {
			logger.Error("elasticsearch init failed", "error", err)
			os.Exit(1)
		}
		esClient = client
	} else {
		logger.Warn("ES_URL is empty, teacher text search disabled")
	}

	e := echo.New()
	e.HideBanner = true
	e.Pre(echomw.RemoveTrailingSlash())
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(loggingmw.RequestLogger(logger))

	auth := &authmw.Middleware{DB: db, JWTSecret: []byte(cfg.JWT_SECRET)}
	hub := chatws.NewHub()

	deps := &httpserver.Deps{
		Auth:     auth,
		Accounts: &handlers.AuthHandler{DB: db, JWTSecret: []byte(cfg.JWT_SECRET), Producer: producer},
		Teachers: &handlers.TeacherHandler{DB: db, ES: esClient, Index: teacherIndex},
		Students: &handlers.StudentHandler{DB: db},
		Subjects: &handlers.SubjectHandler{DB: db},
		Schedule: &handlers.ScheduleHandler{DB: db},
		Bookings: &handlers.BookingHandler{DB: db, Producer: producer},
		Payments: &handlers.PaymentHandler{DB: db, Producer: producer},
		Reviews:  &handlers.ReviewHandler{DB: db},
		Parents:  &handlers.ParentHandler{DB: db},
		Lessons:  &handlers.LessonHandler{DB: db},
		Chats:    &handlers.ChatHandler{DB: db, Hub: hub, Producer: producer},
		Groups:   &handlers.GroupHandler{DB: db},
		Search:   &handlers.SearchHandler{ES: esClient, Index: teacherIndex},
	}
	httpserver.Register(e, deps)

	srv := &http.Server{
		Addr:              cfg.HTTP_ADDR,
		Handler:           e,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", cfg.HTTP_ADDR)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server stopped", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("shutdown failed", "error", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
}
