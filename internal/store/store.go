package store

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"

	"github.com/justsurfingit/job-portal/internal/config"
	"github.com/justsurfingit/job-portal/internal/database"
	"github.com/justsurfingit/job-portal/internal/repository"
)

// Store is the process-wide document store: both repositories plus the
// hooks the health check and shutdown need.
type Store struct {
	Jobs         repository.JobRepository
	Applications repository.ApplicationRepository

	ping  func(ctx context.Context) error
	close func(ctx context.Context) error
}

func (s *Store) Ping(ctx context.Context) error {
	return s.ping(ctx)
}

func (s *Store) Close(ctx context.Context) error {
	return s.close(ctx)
}

// Open connects the backend named by cfg.StoreDriver.
func Open(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Store, error) {
	switch cfg.StoreDriver {
	case config.StorePostgres, config.StoreSQLite:
		opts := database.SQLOptions{Driver: cfg.StoreDriver, DSN: cfg.SQLDSN()}
		if cfg.StoreDriver == config.StoreSQLite {
			opts.MaxOpenConns = 1
		}
		db, err := database.Connect(ctx, opts, logger)
		if err != nil {
			return nil, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		return &Store{
			Jobs:         repository.NewGormJobRepository(db),
			Applications: repository.NewGormApplicationRepository(db),
			ping:         sqlDB.PingContext,
			close:        func(context.Context) error { return database.Close(db) },
		}, nil

	case config.StoreMongo:
		client, err := database.ConnectMongo(ctx, cfg.MongoConnectionURI(), logger)
		if err != nil {
			return nil, err
		}
		mdb := client.Database(cfg.MongoDatabase)
		return &Store{
			Jobs:         repository.NewMongoJobRepository(mdb),
			Applications: repository.NewMongoApplicationRepository(mdb),
			ping: func(ctx context.Context) error {
				return client.Database("admin").RunCommand(ctx, bson.D{{Key: "ping", Value: 1}}).Err()
			},
			close: client.Disconnect,
		}, nil
	}
	return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
}
