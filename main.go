package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"food-ordering-api/config"
	"food-ordering-api/handlers"
	"food-ordering-api/jobs"
	"food-ordering-api/location"
	"food-ordering-api/logger"
	"food-ordering-api/mail"
	"food-ordering-api/middleware"
	"food-ordering-api/routes"
	"food-ordering-api/service"
	"food-ordering-api/store"
	"food-ordering-api/store/mongostore"
	"food-ordering-api/store/sqlstore"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logg := logger.New(logger.Config{
		Development: cfg.Development(),
		File:        cfg.LogFile,
		MaxSizeMB:   cfg.LogMaxSizeMB,
		MaxBackups:  cfg.LogMaxBackups,
		MaxAgeDays:  cfg.LogMaxAgeDays,
	})
	defer logg.Sync()

	if err := run(cfg, logg); err != nil {
		logg.Fatalw("server stopped", "error", err)
	}
}

func run(cfg *config.Config, logg *zap.SugaredLogger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	} else if !cfg.Development() {
		gin.SetMode(gin.ReleaseMode)
	}

	st, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := st.Close(closeCtx); err != nil {
			logg.Warnw("failed to close store", "error", err)
		}
	}()
	logg.Infow("store ready", "driver", cfg.DBDriver)

	var tracker location.Tracker
	if cfg.RedisAddr != "" {
		rt, err := location.NewRedisTracker(ctx, location.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			TTL:      cfg.LocationTTL,
		}, logg)
		if err != nil {
			return err
		}
		defer rt.Close()
		tracker = rt
		logg.Infow("location tracking on redis", "addr", cfg.RedisAddr)
	} else {
		tracker = location.NewMemoryTracker(cfg.LocationTTL)
		logg.Warn("REDIS_ADDR not set, staff positions are kept in memory")
	}

	var mailer mail.Mailer
	if cfg.SMTPHost != "" {
		mailer = mail.NewSMTPMailer(mail.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			User:     cfg.SMTPUser,
			Password: cfg.SMTPPassword,
			From:     cfg.MailFrom,
		})
	} else {
		mailer = mail.NewLogMailer(logg)
		logg.Warn("SMTP_HOST not set, outgoing mail is logged only")
	}

	svc := service.New(st, tracker, mailer, service.Options{
		StrictTransitions: cfg.StrictTransitions,
		FrontendURL:       cfg.FrontendURL,
	}, logg)
	auth := middleware.NewAuth(cfg.JWTSecret, cfg.JWTTTL).WithUsers(st.Users)
	router := routes.NewRouter(handlers.New(svc, auth, logg), auth, logg)

	scheduler, err := jobs.New(st.Users, cfg.ResetTokenSweep, logg)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logg.Infow("server running", "addr", "http://localhost:"+cfg.Port, "strictTransitions", cfg.StrictTransitions)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		return scheduler.Run(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		logg.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func openStore(ctx context.Context, cfg *config.Config) (*store.Store, error) {
	switch cfg.DBDriver {
	case "mongo":
		storage, err := mongostore.New(mongostore.Config{
			URI:      cfg.MongoURI,
			Database: cfg.MongoDB,
			Timeout:  cfg.MongoTimeout,
		})
		if err != nil {
			return nil, err
		}
		if err := storage.CreateIndexes(ctx); err != nil {
			_ = storage.Close(ctx)
			return nil, err
		}
		return mongostore.NewStore(storage), nil
	default:
		dsn := cfg.SQLitePath
		if cfg.DBDriver == "postgres" {
			dsn = cfg.PostgresDSN
		}
		db, err := sqlstore.Open(sqlstore.Config{Driver: cfg.DBDriver, DSN: dsn})
		if err != nil {
			return nil, err
		}
		return sqlstore.New(db), nil
	}
}
