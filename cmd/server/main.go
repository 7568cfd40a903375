// Command server wires the felling licence external web service: configuration,
// stores, application services, the HTTP router, and the background audit
// pipeline. Business logic lives in the internal service packages.
package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/twmb/franz-go/pkg/kgo"
	"golang.org/x/sync/errgroup"

	id "fellgate/pkg/domain"
	"fellgate/pkg/platform/audit"
	"fellgate/pkg/platform/audit/relay"
	auditmem "fellgate/pkg/platform/audit/store/memory"
	auditpg "fellgate/pkg/platform/audit/store/postgres"
	"fellgate/pkg/platform/sentinel"

	"fellgate/internal/agentauthority"
	"fellgate/internal/document"
	"fellgate/internal/eia"
	"fellgate/internal/filestorage"
	"fellgate/internal/flapp"
	"fellgate/internal/invite"
	"fellgate/internal/paws"
	"fellgate/internal/platform/config"
	"fellgate/internal/platform/httpserver"
	"fellgate/internal/platform/logger"
	"fellgate/internal/platform/metrics"
	"fellgate/internal/property"
	"fellgate/internal/tenyear"
	httptransport "fellgate/internal/transport/http"
	"fellgate/internal/upload"
	"fellgate/internal/useraccess"
	"fellgate/internal/woodlandowner"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		return err
	}

	log := logger.New(slog.LevelInfo)
	slog.SetDefault(log)
	m := metrics.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Stores. A configured database backs accounts and the audit outbox; the
	// remaining aggregates are in-process until their schemas land.
	var (
		db         *sql.DB
		accounts   useraccess.Store
		auditStore audit.Store
	)
	if cfg.Database.URL != "" {
		db, err = sql.Open("pgx", cfg.Database.URL)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer db.Close()
		if err := db.PingContext(ctx); err != nil {
			return fmt.Errorf("ping database: %w", err)
		}
		for _, schema := range []string{useraccess.Schema, auditpg.Schema} {
			if _, err := db.ExecContext(ctx, schema); err != nil {
				return fmt.Errorf("apply schema: %w", err)
			}
		}
		accounts = useraccess.NewPostgres(db)
		auditStore = auditpg.New(db)
	} else {
		log.Info("no DATABASE_URL configured, using in-memory stores")
		accounts = useraccess.NewInMemoryStore()
		auditStore = auditmem.NewInMemoryStore()
	}

	applications := flapp.NewInMemoryStore()
	profiles := property.NewInMemoryStore()
	authorities := agentauthority.NewInMemoryStore()
	owners := woodlandowner.NewInMemoryStore()
	assessments := eia.NewInMemoryStore()
	files := filestorage.NewInMemoryStore()

	auditor := audit.NewPublisher(auditStore, audit.WithLogger(log), audit.WithAsyncBuffer(256))
	defer auditor.Close()

	resolver, err := useraccess.NewResolver(accounts, authorities)
	if err != nil {
		return err
	}

	getter, err := flapp.NewExternalGetter(applications, log)
	if err != nil {
		return err
	}
	updater, err := flapp.NewExternalUpdater(applications, log)
	if err != nil {
		return err
	}

	validator := upload.NewValidator(cfg.Upload)

	documents, err := document.New(resolver, getter, updater, files, validator, auditor,
		document.WithLogger(log), document.WithMetrics(m))
	if err != nil {
		return err
	}
	tenYear, err := tenyear.New(resolver, getter, updater, auditor,
		tenyear.WithLogger(log), tenyear.WithMetrics(m))
	if err != nil {
		return err
	}
	eiaService, err := eia.New(resolver, getter, updater, assessments, files, validator, auditor,
		eia.WithLogger(log), eia.WithMetrics(m))
	if err != nil {
		return err
	}
	propertyService, err := property.New(resolver, profiles, auditor,
		property.WithLogger(log), property.WithMetrics(m))
	if err != nil {
		return err
	}
	authorityService, err := agentauthority.New(resolver, authorities, authorities, files, validator, auditor,
		agentauthority.WithLogger(log), agentauthority.WithMetrics(m))
	if err != nil {
		return err
	}
	ownerService, err := woodlandowner.New(owners, accounts, auditor,
		woodlandowner.WithLogger(log), woodlandowner.WithMetrics(m))
	if err != nil {
		return err
	}

	inviteOpts := []invite.Option{invite.WithLogger(log), invite.WithMetrics(m)}
	if len(cfg.FcAgency.PermittedEmailDomains) > 0 {
		fcAgencyID, err := ensureFcAgency(ctx, owners)
		if err != nil {
			return err
		}
		inviteOpts = append(inviteOpts, invite.WithFcAgency(fcAgencyID, cfg.FcAgency))
	}
	inviteService, err := invite.New(accounts, invite.NewLogNotifications(log), auditor, cfg.Invite, inviteOpts...)
	if err != nil {
		return err
	}

	handler, err := httptransport.NewHandler(httptransport.Deps{
		Access:         resolver,
		Applications:   getter,
		Documents:      documents,
		TenYear:        tenYear,
		Assessments:    eiaService,
		Properties:     propertyService,
		Authorities:    authorityService,
		Owners:         ownerService,
		Invites:        inviteService,
		MaxUploadBytes: cfg.Upload.MaxFileSizeBytes,
		Logger:         log,
	})
	if err != nil {
		return err
	}

	srv := httpserver.New(cfg.HTTP.Addr, httptransport.NewRouter(handler, cfg.Auth.JWTSigningKey))

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("starting http server", "addr", cfg.HTTP.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if cfg.Kafka.Brokers != "" {
		brokers := strings.Split(cfg.Kafka.Brokers, ",")

		if outbox, ok := auditStore.(*auditpg.Store); ok {
			producer, err := kgo.NewClient(kgo.SeedBrokers(brokers...))
			if err != nil {
				return fmt.Errorf("create kafka producer: %w", err)
			}
			defer producer.Close()
			auditRelay := relay.New(outbox, producer, cfg.Kafka.AuditTopic, log)
			g.Go(func() error {
				err := auditRelay.Run(ctx)
				if errors.Is(err, context.Canceled) {
					return nil
				}
				return err
			})
		} else {
			log.Warn("audit relay disabled: outbox requires a database")
		}

		if cfg.LandInformation.BaseURL != "" {
			pawsService, err := paws.New(profiles, paws.NewHTTPChecker(cfg.LandInformation.BaseURL), updater, auditor,
				paws.WithLogger(log), paws.WithMetrics(m))
			if err != nil {
				return err
			}
			consumerClient, err := kgo.NewClient(
				kgo.SeedBrokers(brokers...),
				kgo.ConsumeTopics(cfg.Kafka.PawsTopic),
				kgo.ConsumerGroup("fellgate-paws"),
			)
			if err != nil {
				return fmt.Errorf("create kafka consumer: %w", err)
			}
			defer consumerClient.Close()
			consumer := paws.NewConsumer(consumerClient, pawsService, log)
			g.Go(func() error {
				err := consumer.Run(ctx)
				if errors.Is(err, context.Canceled) {
					return nil
				}
				return err
			})
		}
	}

	return g.Wait()
}

// ensureFcAgency creates (or finds) the Forestry Commission agency that
// approved FC staff are assigned to. The id is fixed, so assignments already
// persisted in the account store remain valid across restarts.
func ensureFcAgency(ctx context.Context, owners *woodlandowner.InMemoryStore) (id.AgencyID, error) {
	agency := woodlandowner.Agency{
		ID:        woodlandowner.FcAgencyID(),
		Name:      "Forestry Commission",
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if err := owners.SaveAgency(ctx, agency); err != nil && !errors.Is(err, sentinel.ErrConflict) {
		return id.AgencyID{}, fmt.Errorf("create fc agency: %w", err)
	}
	return agency.ID, nil
}
