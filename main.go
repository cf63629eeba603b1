package main

import (
	"context"
	"fmt"
	"log"
	"os/signal"
	"syscall"
	"time"

	"funnel-coach-api/analyzer"
	"funnel-coach-api/gemini"
	"funnel-coach-api/handlers"
	"funnel-coach-api/prompt"
	"funnel-coach-api/subscriber"
	"funnel-coach-api/utils"
	valkeystore "funnel-coach-api/valkey"
	"funnel-coach-api/web"

	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.EncoderConfig.TimeKey = ""
	cfg.EncoderConfig.EncodeDuration = zapcore.MillisDurationEncoder
	return cfg.Build()
}

func main() {
	cfg := utils.LoadConfig()

	logger, err := newLogger(cfg.Debug)
	if err != nil {
		log.Fatalf("cannot initialize logger: %v", err)
	}
	defer logger.Sync()
	sugar := logger.Sugar()

	if !cfg.CredentialPresent() {
		sugar.Warn("GEMINI_API_KEY environment variable not set; analysis requests will fail")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Prompt template, optionally replaced from object storage
	tpl := prompt.Default()
	if cfg.PromptTemplateURI != "" {
		if err := utils.InitS3(logger); err != nil {
			sugar.Fatalw("failed to init s3",
				"error", err)
		}
		text, err := utils.LoadPromptTemplate(ctx, cfg.PromptTemplateURI)
		if err != nil {
			sugar.Fatalw("failed to load prompt template",
				"uri", cfg.PromptTemplateURI,
				"error", err)
		}
		if tpl, err = prompt.NewTemplate(text); err != nil {
			sugar.Fatalw("invalid prompt template",
				"uri", cfg.PromptTemplateURI,
				"error", err)
		}
		sugar.Infow("Loaded prompt template from object storage",
			"uri", cfg.PromptTemplateURI,
			"bytes", len(text))
	} else {
		sugar.Infow("Using embedded prompt template",
			"version", prompt.Version)
	}

	// Gemini relay; left nil when no key is configured
	var gen analyzer.Generator
	model := ""
	if cfg.CredentialPresent() {
		client, err := gemini.NewClient(ctx, gemini.Config{
			APIKey:  cfg.GeminiAPIKey,
			Model:   cfg.GeminiModel,
			BaseURL: cfg.GeminiBaseURL,
		})
		if err != nil {
			sugar.Fatalw("failed to init gemini client",
				"error", err)
		}
		gen = client
		model = client.Model()
		sugar.Infow("AI service configured",
			"model", model)
	}

	opts := []analyzer.Option{analyzer.WithModel(model)}

	// Outcome audit
	if cfg.PostgresEnabled() {
		if err := utils.InitDB(logger); err != nil {
			sugar.Fatalw("failed to init database",
				"error", err)
		}
		defer utils.CloseDB(logger)

		if err := utils.CreateSchema(logger); err != nil {
			sugar.Fatalw("failed to create database schema",
				"error", err)
		}
		opts = append(opts, analyzer.WithRecorder(utils.OutcomeStore{}))
	}

	a := analyzer.New(logger, tpl, gen, opts...)

	// Queue ingress
	if cfg.ValkeyEnabled() {
		if err := valkeystore.InitValkey(logger); err != nil {
			sugar.Fatalw("failed to init valkey",
				"error", err)
		}
		defer valkeystore.Close()
		go subscriber.New(logger, a, subscriber.ValkeyPublisher{}).Start(ctx)
	}

	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	sugar.Info("Creating router")

	r.Use(ginzap.Ginzap(logger, time.RFC3339, true))
	r.Use(ginzap.RecoveryWithZap(logger, true))
	r.Use(handlers.RequestIDMiddleware())

	// Routes
	web.RegisterRoutes(r, "/")
	r.POST("/analyze", handlers.HandleAnalyze(logger, a))

	var cachePing handlers.PingFunc
	if cfg.ValkeyEnabled() {
		cachePing = valkeystore.Ping
	}
	r.GET("/healthcheck", handlers.HandleHealthcheck(a.Configured(), cachePing))
	r.GET("/metrics", handlers.HandleMetrics())
	if cfg.PostgresEnabled() {
		r.GET("/db-status", handlers.HandleDBStatus())
		r.GET("/analysis-outcomes", handlers.HandleListOutcomes(logger))
	}

	sugar.Infow("Running on port",
		"port", cfg.Port)
	if err := r.Run(fmt.Sprintf(":%s", cfg.Port)); err != nil {
		sugar.Fatalw("server stopped",
			"error", err)
	}
}
