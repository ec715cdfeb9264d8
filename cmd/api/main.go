package main

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"github.com/justsurfingit/job-portal/internal/auth"
	"github.com/justsurfingit/job-portal/internal/config"
	"github.com/justsurfingit/job-portal/internal/handlers"
	"github.com/justsurfingit/job-portal/internal/logging"
	"github.com/justsurfingit/job-portal/internal/metrics"
	"github.com/justsurfingit/job-portal/internal/repository"
	"github.com/justsurfingit/job-portal/internal/router"
	"github.com/justsurfingit/job-portal/internal/services"
	"github.com/justsurfingit/job-portal/internal/store"
)

func main() {
	app := fx.New(
		fx.WithLogger(func(logger *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: logger.Named("fx")}
		}),
		fx.Provide(
			config.Load,
			newLogger,
			newStore,
			newVerifier,
			metrics.New,
			func(s *store.Store) repository.JobRepository { return s.Jobs },
			func(s *store.Store) repository.ApplicationRepository { return s.Applications },
			services.NewJobService,
			services.NewApplicationService,
			handlers.NewJobHandler,
			handlers.NewApplicationHandler,
			func(s *store.Store, logger *zap.Logger) *handlers.HealthHandler {
				return handlers.NewHealthHandler(s.Ping, logger)
			},
			newRouter,
			newServer,
		),
		fx.Invoke(func(*http.Server) {}),
	)

	if err := app.Start(context.Background()); err != nil {
		log.Fatal(err)
	}

	<-app.Done()

	if err := app.Stop(context.Background()); err != nil {
		log.Fatal(err)
	}
}

func newLogger(lc fx.Lifecycle, cfg *config.Config) (*zap.Logger, error) {
	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			_ = logger.Sync()
			return nil
		},
	})
	return logger, nil
}

func newStore(lc fx.Lifecycle, cfg *config.Config, logger *zap.Logger) (*store.Store, error) {
	s, err := store.Open(context.Background(), cfg, logger)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			logger.Info("closing store")
			return s.Close(ctx)
		},
	})
	return s, nil
}

func newVerifier(cfg *config.Config) (auth.Verifier, error) {
	if cfg.AuthProvider == config.AuthJWT {
		v, err := auth.NewJWTVerifier(cfg.JWTSecret)
		if err != nil {
			return nil, err
		}
		return v, nil
	}
	v, err := auth.NewFirebaseVerifier(context.Background(), cfg.FirebaseCredentialsFile)
	if err != nil {
		return nil, err
	}
	return v, nil
}

type routerParams struct {
	fx.In

	Config       *config.Config
	Jobs         *handlers.JobHandler
	Applications *handlers.ApplicationHandler
	Health       *handlers.HealthHandler
	Verifier     auth.Verifier
	Metrics      *metrics.Metrics
	Logger       *zap.Logger
}

func newRouter(p routerParams) *gin.Engine {
	gin.SetMode(p.Config.GinMode)
	return router.New(router.Deps{
		Jobs:         p.Jobs,
		Applications: p.Applications,
		Health:       p.Health,
		Verifier:     p.Verifier,
		Metrics:      p.Metrics,
		Logger:       p.Logger,
	})
}

func newServer(lc fx.Lifecycle, cfg *config.Config, engine *gin.Engine, logger *zap.Logger) *http.Server {
	srv := &http.Server{
		Addr:    cfg.Addr(),
		Handler: engine,
	}

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			ln, err := net.Listen("tcp", srv.Addr)
			if err != nil {
				return err
			}
			logger.Info("job portal server listening", zap.String("addr", srv.Addr))
			go func() {
				if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Error("server stopped", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			ctx, cancel := context.WithTimeout(ctx, cfg.ShutdownTimeout)
			defer cancel()
			logger.Info("shutting down server")
			return srv.Shutdown(ctx)
		},
	})
	return srv
}
