package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/wb-go/wbf/dbpg"
	"github.com/wb-go/wbf/retry"
	"github.com/wb-go/wbf/zlog"

	"regdesk/cmd/buildCFG"
	"regdesk/internal/api/api"
	"regdesk/internal/auth"
	rabbitReader "regdesk/internal/consumerWorker"
	"regdesk/internal/legacy"
	"regdesk/internal/mailer"
	"regdesk/internal/rabbit"
	"regdesk/internal/repo"
	"regdesk/internal/service"
	"regdesk/internal/storage/blob"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the YAML config file")
	flag.Parse()

	zlog.Init()
	log := zlog.Logger
	cfg, err := buildCFG.Load(*configPath, &log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}
	logCfg := buildCFG.BuildLogConfig(cfg)
	if logCfg.Pretty {
		zlog.InitConsole()
	}
	if err := zlog.SetLevel(logCfg.Level); err != nil {
		zlog.Logger.Warn().Str("level", logCfg.Level).Msg("unknown log level, keeping the default")
	}
	log = zlog.Logger

	serverCfg := buildCFG.BuildServerConfig(cfg, &log)
	dbCfg := buildCFG.BuildDBConfig(cfg, &log)
	authCfg := buildCFG.BuildAuthConfig(cfg, &log)
	mailCfg := buildCFG.BuildMailConfig(cfg, &log)
	rabbitCfg := buildCFG.BuildRabbitConfig(cfg, &log)
	storageCfg, maxUpload := buildCFG.BuildStorageConfig(cfg, &log)
	rule := buildCFG.BuildRoutingConfig(cfg, &log)

	db, err := dbpg.New(dbCfg.MasterDSN, dbCfg.SlaveDSNs, dbCfg.Options)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open DB pool")
	}
	defer db.Master.Close()

	var repository repo.Repository
	err = retry.Do(func() error {
		var err error
		repository, err = repo.NewRepository(db, &log)
		return err
	}, dbCfg.Connect)
	if err != nil {
		log.Error().Err(err).Msg("database is unreachable, store calls will fail until it is")
		repository = repo.Unchecked(db, &log)
	} else {
		log.Info().Msg("Database connected successfully")
		if err := repository.MigrateUp(dbCfg.MigrationsDir); err != nil {
			log.Fatal().Err(err).Msg("migration failed")
		}
	}

	legacyStore, err := legacy.NewStore(db.Master, &log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize legacy store")
	}

	dispatcher := mailer.NewDispatcher(buildSender(mailCfg, &log), repository, &log, mailCfg.CurrencySymbol)

	var jobs service.Publisher
	var reader *rabbitReader.Reader
	workerCtx, cancelWorkers := context.WithCancel(context.Background())
	defer cancelWorkers()
	if rabbitCfg.Url != "" {
		rmq, err := rabbit.NewRabbit(rabbit.Config{URL: rabbitCfg.Url, Exchange: rabbitCfg.Exchange, Queue: rabbitCfg.Queue}, &log)
		if err != nil {
			log.Error().Err(err).Msg("failed to connect to RabbitMQ, reminders are sent inline")
		} else {
			defer rmq.Close()
			jobs = rmq
			reader = rabbitReader.NewReader(rmq, repository, dispatcher)
			reader.Start(workerCtx)
		}
	}

	store, err := blob.NewS3Store(storageCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize image storage")
	}

	app := api.NewRouters(&api.Routers{
		Campaigns:      service.NewCampaigns(repository, &log),
		Registrations:  service.NewRegistrations(repository, dispatcher, jobs, &log),
		Auth:           service.NewAuth(legacyStore, auth.NewManager(authCfg.JWTSecret, authCfg.TokenTTL), &log),
		Legacy:         service.NewLegacy(legacyStore, &log),
		Uploads:        service.NewUploads(store, maxUpload, &log),
		Rule:           rule,
		GinMode:        serverCfg.GinMode,
		CookieSecure:   authCfg.CookieSecure,
		MaxUploadBytes: maxUpload,
		Log:            &log,
	})

	srv := &http.Server{Addr: ":" + serverCfg.Port, Handler: app}
	serverErrChan := make(chan error, 1)
	go func() {
		log.Info().Msgf("Starting server on %s", serverCfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrChan <- fmt.Errorf("failed to start server: %w", err)
		}
	}()

	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-signalChan:
		log.Info().Msgf("Received signal %s. Initiating shutdown...", sig)
	case err := <-serverErrChan:
		log.Error().Err(err).Msg("Server error")
	}

	cancelWorkers()
	if reader != nil {
		reader.Stop()
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), serverCfg.ShutdownTimeout)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Error shutting down server")
	}
	log.Info().Msg("Shutdown complete")
}

func buildSender(cfg buildCFG.MailConfig, log *zerolog.Logger) mailer.Sender {
	switch cfg.Provider {
	case "smtp":
		return mailer.NewSMTPSender(cfg.SMTP)
	case "log":
		return mailer.NewLogSender(log)
	default:
		return mailer.NewResendSender(cfg.APIKey, cfg.FromEmail, cfg.FromName)
	}
}
