// Package backend builds the record store and expense service selected by
// configuration.
package backend

import (
	"context"
	"fmt"

	"expensetracker/internal/amqp"
	applog "expensetracker/internal/log"
	"expensetracker/internal/services"
	"expensetracker/internal/store"
	"expensetracker/internal/store/memory"
	"expensetracker/internal/storage"
)

var _ Factory = (*DefaultFactory)(nil)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *applog.Logger

	// newPublisher is swapped in tests.
	newPublisher func(url, exchange, queue string) (services.EventPublisher, error)
}

// NewFactory creates a new backend factory
func NewFactory(logger *applog.Logger) *DefaultFactory {
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	return &DefaultFactory{
		logger:       logger.WithComponent(applog.ComponentStorage),
		newPublisher: dialAMQP,
	}
}

func dialAMQP(url, exchange, queue string) (services.EventPublisher, error) {
	c, err := amqp.NewClient(url, exchange, queue)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// CreateBackend implements Factory.CreateBackend
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	s, err := f.openStore(config)
	if err != nil {
		return nil, err
	}
	if err := s.Ping(ctx); err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("ping %s store: %w", config.Type, err)
	}

	publisher := f.openPublisher(config)
	svc := services.NewExpenseService(s, publisher)

	f.logger.Info("Initialized backend",
		"backend", config.Type.String(),
		"amqp_enabled", publisher != nil)

	return &BackendResult{
		Store:   s,
		Service: svc,
		Cleanup: svc.Close,
	}, nil
}

func (f *DefaultFactory) openStore(config Config) (store.RecordStore, error) {
	switch config.Type {
	case MemoryBackend:
		f.logger.Warn("Using in-memory store, records are lost on restart")
		return memory.New(), nil
	case SQLiteBackend:
		repo, err := storage.NewSQLiteRepository(config.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
		}
		f.logger.Info("Opened SQLite store", "db_path", config.SQLiteDBPath)
		return repo, nil
	case PostgresBackend:
		repo, err := storage.NewPostgresRepository(config.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Postgres repository: %w", err)
		}
		f.logger.Info("Opened Postgres store")
		return repo, nil
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
}

// openPublisher returns nil when AMQP is disabled or unreachable; records are
// still stored, only the mirror falls behind until its periodic resync.
func (f *DefaultFactory) openPublisher(config Config) services.EventPublisher {
	if config.AMQPURL == "" {
		return nil
	}

	p, err := f.newPublisher(config.AMQPURL, config.AMQPExchange, config.AMQPQueue)
	if err != nil {
		f.logger.Warn("Failed to initialize AMQP client, continuing without events", "error", err)
		return nil
	}
	f.logger.Info("Initialized AMQP client",
		"exchange", config.AMQPExchange,
		"queue", config.AMQPQueue)
	return p
}
