package storage

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"github.com/carson-networks/budget-ledger/internal/config"
	"github.com/carson-networks/budget-ledger/internal/storage/memory"
	"github.com/carson-networks/budget-ledger/internal/storage/sqlconfig"
)

// LedgerStore partitions all ledger data by session.
type LedgerStore interface {
	// Read returns a view of the committed state of session.
	Read(session string) Reader
	// Write opens the session's single writer, blocking while another writer
	// for the same session is open.
	Write(ctx context.Context, session string) (Writer, error)
	Close() error
}

var (
	_ Writer = (*memory.Writer)(nil)
	_ Reader = (*memory.Reader)(nil)
	_ Writer = (*sqlconfig.Writer)(nil)
	_ Reader = (*sqlconfig.Reader)(nil)
)

type memoryStore struct {
	store *memory.Store
}

// NewMemoryStorage returns an empty in-process LedgerStore.
func NewMemoryStorage() LedgerStore {
	return &memoryStore{store: memory.NewStore()}
}

func (m *memoryStore) Read(session string) Reader {
	return m.store.Read(session)
}

func (m *memoryStore) Write(ctx context.Context, session string) (Writer, error) {
	writer, err := m.store.Write(ctx, session)
	if err != nil {
		return nil, err
	}
	return writer, nil
}

func (m *memoryStore) Close() error {
	return nil
}

type postgresStore struct {
	db    *sql.DB
	store *sqlconfig.Store
}

func (p *postgresStore) Read(session string) Reader {
	return p.store.Read(session)
}

func (p *postgresStore) Write(ctx context.Context, session string) (Writer, error) {
	writer, err := p.store.Write(ctx, session)
	if err != nil {
		return nil, err
	}
	return writer, nil
}

func (p *postgresStore) Close() error {
	return p.db.Close()
}

// NewStorage builds the backend selected by env.StorageBackend.
func NewStorage(ctx context.Context, env *config.Config, logger logrus.FieldLogger) (LedgerStore, error) {
	switch env.StorageBackend {
	case config.StorageMemory:
		logger.Info("Storage.memory")
		return NewMemoryStorage(), nil
	case config.StoragePostgres:
	default:
		return nil, fmt.Errorf("unknown storage backend %q", env.StorageBackend)
	}

	db, err := sql.Open("postgres", env.PostgresURL())
	if err != nil {
		return nil, fmt.Errorf("sql.Open: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	if env.MigrateOnStart {
		migration, err := sqlconfig.RunMigrations(env.PostgresURL())
		if err != nil {
			_ = db.Close()
			return nil, err
		}
		logger.WithFields(logrus.Fields{
			"preMigrationVersion":  migration.Before,
			"postMigrationVersion": migration.After,
		}).Info("Storage.migrated")
	}

	logger.WithField("address", env.PostgresAddress).Info("Storage.postgres")
	return &postgresStore{db: db, store: sqlconfig.NewStore(db)}, nil
}
