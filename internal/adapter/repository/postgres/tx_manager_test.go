package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
)

func TestTxManagerCommitsOnSuccess(t *testing.T) {
	mockPool := newMockPool(t)
	mockPool.ExpectBegin()
	mockPool.ExpectCommit()

	manager := NewTxManager(mockPool, fastRetrier())
	called := false
	err := manager.WithTx(context.Background(), func(tx pgx.Tx) error {
		called = true
		return nil
	})

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !called {
		t.Fatalf("expected fn to run")
	}
	assertExpectations(t, mockPool)
}

func TestTxManagerRollsBackOnError(t *testing.T) {
	mockPool := newMockPool(t)
	mockPool.ExpectBegin()
	mockPool.ExpectRollback()

	fnErr := errors.New("boom")
	manager := NewTxManager(mockPool, fastRetrier())
	err := manager.WithTx(context.Background(), func(tx pgx.Tx) error {
		return fnErr
	})

	if !errors.Is(err, fnErr) {
		t.Fatalf("expected fn error, got %v", err)
	}
	assertExpectations(t, mockPool)
}

func TestTxManagerRetriesSerializationFailure(t *testing.T) {
	mockPool := newMockPool(t)
	mockPool.ExpectBegin()
	mockPool.ExpectRollback()
	mockPool.ExpectBegin()
	mockPool.ExpectCommit()

	attempts := 0
	manager := NewTxManager(mockPool, fastRetrier())
	err := manager.WithTx(context.Background(), func(tx pgx.Tx) error {
		attempts++
		if attempts == 1 {
			return &pgconn.PgError{Code: pgErrSerializationFailure}
		}
		return nil
	})

	if err != nil {
		t.Fatalf("expected success after retry, got %v", err)
	}
	if attempts != 2 {
		t.Fatalf("expected 2 attempts, got %d", attempts)
	}
	assertExpectations(t, mockPool)
}

func TestTxManagerBeginError(t *testing.T) {
	mockPool := newMockPool(t)
	mockErr := errors.New("begin failed")
	mockPool.ExpectBegin().WillReturnError(mockErr)

	manager := NewTxManager(mockPool, fastRetrier())
	err := manager.WithTx(context.Background(), func(tx pgx.Tx) error {
		t.Fatalf("fn must not run when begin fails")
		return nil
	})

	if !errors.Is(err, mockErr) {
		t.Fatalf("expected begin error, got %v", err)
	}
}

func newMockPool(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	pool, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherEqual))
	if err != nil {
		t.Fatalf("failed to create pgxmock pool: %v", err)
	}
	t.Cleanup(pool.Close)
	return pool
}

func assertExpectations(t *testing.T, pool pgxmock.PgxPoolIface) {
	t.Helper()
	if err := pool.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations were not met: %v", err)
	}
}
