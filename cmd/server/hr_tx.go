package main

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"kadry/internal/history"
	hrservice "kadry/internal/hr/service"
	hrstore "kadry/internal/hr/store"
	"kadry/internal/notify"
)

const defaultHRTxTimeout = 10 * time.Second

// hrPostgresTx runs HR write paths in one database transaction, handing the
// service stores bound to that transaction.
type hrPostgresTx struct {
	db      *sql.DB
	timeout time.Duration
}

func newHRPostgresTx(db *sql.DB) *hrPostgresTx {
	return &hrPostgresTx{db: db}
}

func (t *hrPostgresTx) RunInTx(ctx context.Context, fn func(s hrservice.Stores) error) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("transaction aborted: %w", err)
	}

	timeout := t.timeout
	if timeout == 0 {
		timeout = defaultHRTxTimeout
	}
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	tx, err := t.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	stores := hrservice.Stores{
		HR:      hrstore.NewPostgresTx(tx),
		History: history.NewPostgresTx(tx),
		Notify:  notify.NewPostgresTx(tx),
	}
	if err := fn(stores); err != nil {
		return err
	}
	return tx.Commit()
}
