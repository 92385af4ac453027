package sqlconfig

import (
	"context"
	"database/sql"
	"errors"

	"github.com/gofrs/uuid/v5"
	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/dialect"

	"github.com/carson-networks/budget-ledger/internal/ledger"
)

// Store keeps every session in one Postgres schema, keyed by session_id.
type Store struct {
	db bob.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: bob.NewDB(db)}
}

// Read returns a Reader over the committed rows of session.
func (s *Store) Read(session string) *Reader {
	return &Reader{exec: s.db, session: session}
}

// Write begins a transaction holding the session's advisory lock. The lock is
// released when the transaction commits or rolls back.
func (s *Store) Write(ctx context.Context, session string) (*Writer, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, ledger.StoreError("begin transaction", err)
	}

	lock := psql.RawQuery("SELECT pg_advisory_xact_lock(hashtext(?))", session)
	if _, err := bob.Exec(ctx, tx, lock); err != nil {
		_ = tx.Rollback()
		return nil, ledger.StoreError("lock session", err)
	}

	return &Writer{
		tx: tx,
		Reader: Reader{
			exec:    tx,
			session: session,
		},
	}, nil
}

func column(name string) dialect.Expression {
	return psql.Quote(name)
}

func idIs(id uuid.UUID) dialect.Expression {
	return column("id").EQ(psql.Arg(id))
}

func lookupError(err error, kind string, id uuid.UUID) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ledger.NotFoundError(kind, id)
	}
	return ledger.StoreError("get "+kind, err)
}

func affectedOne(result sql.Result, err error, kind string, id uuid.UUID) error {
	if err != nil {
		return ledger.StoreError("write "+kind, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return ledger.StoreError("write "+kind, err)
	}
	if n == 0 {
		return ledger.NotFoundError(kind, id)
	}
	return nil
}
