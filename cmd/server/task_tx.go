package main

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"kadry/internal/task"
)

const defaultTaskTxTimeout = 5 * time.Second

type taskPostgresTx struct {
	db      *sql.DB
	timeout time.Duration
}

func newTaskPostgresTx(db *sql.DB) *taskPostgresTx {
	return &taskPostgresTx{db: db}
}

func (t *taskPostgresTx) RunInTx(ctx context.Context, fn func(s task.Store) error) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("transaction aborted: %w", err)
	}

	timeout := t.timeout
	if timeout == 0 {
		timeout = defaultTaskTxTimeout
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

	if err := fn(task.NewPostgresTx(tx)); err != nil {
		return err
	}
	return tx.Commit()
}
