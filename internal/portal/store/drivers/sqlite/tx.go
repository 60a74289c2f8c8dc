package sqlite

import (
	"context"
	"database/sql"

	"github.com/silveracademy/familyportal/internal/portal/store"
)

type txStore struct {
	tx *sql.Tx
}

func newTx(tx *sql.Tx) *txStore {
	return &txStore{tx: tx}
}

func (t *txStore) Commit() error   { return t.tx.Commit() }
func (t *txStore) Rollback() error { return t.tx.Rollback() }

func (t *txStore) Close() error { return nil } // caller will commit/rollback and outer DB stays open

// Ping is a no-op for transactions; the connection is already established.
func (t *txStore) Ping(ctx context.Context) error {
	return nil
}

func (t *txStore) Tx(ctx context.Context) (store.Tx, error) {
	// Nested tx not supported; could emulate with SAVEPOINT if needed
	return nil, sql.ErrTxDone
}

func (t *txStore) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	// Nested tx not supported; could emulate with SAVEPOINT if needed
	return sql.ErrTxDone
}

func (t *txStore) ApplyMigrations() error { return nil } // no-op; migrations run before transactions start

func (t *txStore) AccessCodes() store.AccessCodes { return &accessCodesRepo{q: t.tx} }
func (t *txStore) Students() store.Students       { return &studentsRepo{q: t.tx} }
func (t *txStore) Parents() store.Parents         { return &parentsRepo{q: t.tx} }
func (t *txStore) Links() store.Links             { return &linksRepo{q: t.tx} }
