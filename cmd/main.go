package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/International-Combat-Archery-Alliance/event-tickets/api"
	"github.com/International-Combat-Archery-Alliance/event-tickets/artifact"
	"github.com/International-Combat-Archery-Alliance/event-tickets/config"
	"github.com/International-Combat-Archery-Alliance/event-tickets/dynamo"
	"github.com/International-Combat-Archery-Alliance/event-tickets/events"
	"github.com/International-Combat-Archery-Alliance/event-tickets/issuance"
	"github.com/International-Combat-Archery-Alliance/event-tickets/metrics"
	"github.com/International-Combat-Archery-Alliance/event-tickets/notification"
	"github.com/International-Combat-Archery-Alliance/event-tickets/registration"
	"github.com/International-Combat-Archery-Alliance/event-tickets/sqlite"
	"github.com/International-Combat-Archery-Alliance/event-tickets/ticket"
	"github.com/International-Combat-Archery-Alliance/event-tickets/token"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error running server: %s\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger := newLogger(cfg)
	awsCfg := sync.OnceValues(func() (aws.Config, error) {
		c, err := awsconfig.LoadDefaultConfig(ctx)
		if err != nil {
			return aws.Config{}, fmt.Errorf("failed to get aws config: %w", err)
		}
		return c, nil
	})

	if cfg.NeedsSSM() {
		c, err := awsCfg()
		if err != nil {
			return err
		}
		if err := cfg.ResolveSecrets(ctx, ssm.NewFromConfig(c)); err != nil {
			return err
		}
	}

	repo, catalog, closeStore, err := createStore(ctx, cfg, awsCfg)
	if err != nil {
		return err
	}
	defer closeStore()

	artifacts, err := createArtifactStore(cfg.Artifacts, awsCfg)
	if err != nil {
		return err
	}

	encoder, err := token.NewQREncoder(cfg.Ticket.QRLevel, cfg.Ticket.QRSize)
	if err != nil {
		return err
	}

	renderOpts := ticket.DefaultOptions()
	renderOpts.Compress = cfg.Ticket.Compress
	renderOpts.QRFraction = cfg.Ticket.QRFraction
	renderOpts.Footer = cfg.Ticket.Footer
	renderOpts.WriteTimeout = cfg.Artifacts.WriteTimeout
	renderer, err := ticket.NewRenderer(artifacts, renderOpts)
	if err != nil {
		return err
	}

	labels := notification.DefaultLabelTable()
	if cfg.RoleLabelsFile != "" {
		labels, err = notification.LoadLabelTable(cfg.RoleLabelsFile)
		if err != nil {
			return err
		}
	}

	sender, err := createEmailSender(cfg.Mail, logger, awsCfg)
	if err != nil {
		return err
	}

	dispatcher := notification.NewDispatcher(sender, artifacts, labels, cfg.Mail.FromAddress, cfg.Mail.Timeout, logger)
	issuer := issuance.NewIssuer(repo, catalog, token.NewMinter(encoder, repo), renderer, dispatcher, logger)

	env := api.LOCAL
	if cfg.Environment == config.ENV_PROD {
		env = api.PROD
	}
	apiHandler, err := api.NewAPI(issuer, repo, logger, env, cfg.AdminToken, cfg.AllowedOrigins).NewHandler()
	if err != nil {
		return fmt.Errorf("failed to create api handler: %w", err)
	}

	r := http.NewServeMux()
	r.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	r.Handle("GET /metrics", metrics.Handler())
	r.Handle("/", apiHandler)

	s := &http.Server{
		Handler:           r,
		Addr:              net.JoinHostPort(cfg.Host, cfg.Port),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting server", slog.String("addr", s.Addr), slog.String("env", cfg.Environment))
		errCh <- s.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.Shutdown(shutdownCtx)
}

func newLogger(cfg config.Config) *slog.Logger {
	if cfg.Environment == config.ENV_PROD {
		return slog.New(slog.NewJSONHandler(os.Stdout, nil))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func createStore(ctx context.Context, cfg config.Config, awsCfg func() (aws.Config, error)) (registration.Repository, events.Catalog, func(), error) {
	fallback := cfg.Event.DefaultEvent()

	switch cfg.Store.Backend {
	case "dynamo":
		c, err := awsCfg()
		if err != nil {
			return nil, nil, nil, err
		}
		client := dynamodb.NewFromConfig(c, func(o *dynamodb.Options) {
			if cfg.Store.DynamoEndpoint != "" {
				o.BaseEndpoint = aws.String(cfg.Store.DynamoEndpoint)
				if cfg.Environment == config.ENV_LOCAL {
					o.Credentials = credentials.NewStaticCredentialsProvider("local", "local", "")
				}
			}
		})
		db := dynamo.NewDB(client, cfg.Store.DynamoTable)

		catalog, err := createCatalog(cfg.Event, db, fallback)
		if err != nil {
			return nil, nil, nil, err
		}
		return db, catalog, func() {}, nil
	case "sqlite":
		store, err := sqlite.Open(ctx, cfg.Store.SQLitePath)
		if err != nil {
			return nil, nil, nil, err
		}

		catalog, err := createCatalog(cfg.Event, nil, fallback)
		if err != nil {
			store.Close()
			return nil, nil, nil, err
		}
		return store, catalog, func() { store.Close() }, nil
	}

	return nil, nil, nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
}

func createCatalog(cfg config.EventConfig, db *dynamo.DB, fallback events.Event) (events.Catalog, error) {
	if cfg.Catalog == "dynamo" && db != nil {
		return events.WithFallback(db, fallback), nil
	}

	var evts []events.Event
	if cfg.File != "" {
		var err error
		evts, err = events.LoadEventsFile(cfg.File)
		if err != nil {
			return nil, err
		}
	}
	return events.NewStaticCatalog(evts, &fallback), nil
}

func createArtifactStore(cfg config.ArtifactConfig, awsCfg func() (aws.Config, error)) (artifact.Store, error) {
	switch cfg.Backend {
	case "s3":
		c, err := awsCfg()
		if err != nil {
			return nil, err
		}
		return artifact.NewS3Store(s3.NewFromConfig(c), cfg.Bucket, cfg.Prefix), nil
	case "fs":
		store, err := artifact.NewFSStore(cfg.Dir)
		if err != nil {
			return nil, err
		}
		return store, nil
	}

	return nil, fmt.Errorf("unknown artifact backend %q", cfg.Backend)
}
