package main

import (
	"context"

	"go.uber.org/zap"

	"github.com/DeonBratus/small-transcriptor/internal/clients"
	"github.com/DeonBratus/small-transcriptor/internal/config"
	logger "github.com/DeonBratus/small-transcriptor/internal/logging"
	"github.com/DeonBratus/small-transcriptor/internal/router"
	"github.com/DeonBratus/small-transcriptor/internal/session"
	"github.com/DeonBratus/small-transcriptor/internal/status"
)

func main() {
	// Initialize Logger
	log, err := logger.Init(".")
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer log.Sync()

	// Load configuration (file + env), with hot reload
	if err := config.Init(".", log); err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}
	cfg := config.Conf

	// Remote service clients
	transcriptor := clients.NewTranscriptor(cfg.Services.Transcriptor, cfg.Transcribe.Timeout(), log)
	judgeClient := clients.NewJudge(cfg.Services.Judge, cfg.Evaluate.Timeout(), log)
	ollama := clients.NewOllama(cfg.Services.Ollama, cfg.Status.ProbeTimeout())

	// Background health poller; first probe fires immediately
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	poller := status.New(transcriptor, judgeClient, ollama,
		cfg.Status.PollInterval(), cfg.Status.ProbeTimeout(), log)
	poller.Start(ctx)

	// Session-scoped state
	transcript := session.NewTranscription()
	evaluation := session.NewEvaluation()

	// Setup router, passing the logger to it
	r := router.Setup(router.Deps{
		Log:          log,
		Transcriptor: transcriptor,
		Judge:        judgeClient,
		Poller:       poller,
		Transcript:   transcript,
		Evaluation:   evaluation,
	})

	// Start the Gin server
	port := ":" + cfg.Server.Port
	log.Info("Dashboard listening on http://localhost" + port)
	if err := r.Run(port); err != nil {
		log.Fatal("Failed to run Gin server", zap.Error(err))
	}
}
