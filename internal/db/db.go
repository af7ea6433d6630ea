package db

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"golang.org/x/sync/singleflight"
)

var ErrMissingDSN = errors.New("db: connection string is not set")

// Pool lazily opens a single database handle and hands the same handle
// to every caller for the lifetime of the process. Concurrent
// first-time callers share one connection attempt; a failed attempt is
// not cached, so the next call starts over.
type Pool struct {
	dial  func(ctx context.Context) (*sqlx.DB, error)
	group singleflight.Group
	mu    sync.RWMutex
	db    *sqlx.DB
}

func NewPool(dsn string) (*Pool, error) {
	if dsn == "" {
		return nil, ErrMissingDSN
	}
	return &Pool{
		dial: func(ctx context.Context) (*sqlx.DB, error) {
			return dialSQLite(ctx, dsn)
		},
	}, nil
}

func dialSQLite(ctx context.Context, dsn string) (*sqlx.DB, error) {
	db, err := sqlx.ConnectContext(ctx, "sqlite3", dsn)
	if err != nil {
		return nil, err
	}

	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON;"); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

// Connect returns the cached handle, establishing it on first use.
func (p *Pool) Connect(ctx context.Context) (*sqlx.DB, error) {
	p.mu.RLock()
	db := p.db
	p.mu.RUnlock()
	if db != nil {
		return db, nil
	}

	v, err, _ := p.group.Do("connect", func() (any, error) {
		p.mu.RLock()
		cached := p.db
		p.mu.RUnlock()
		if cached != nil {
			return cached, nil
		}

		db, err := p.dial(ctx)
		if err != nil {
			return nil, err
		}

		p.mu.Lock()
		p.db = db
		p.mu.Unlock()

		slog.Info("database connected")
		return db, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*sqlx.DB), nil
}

func (p *Pool) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.db == nil {
		return nil
	}
	err := p.db.Close()
	p.db = nil
	return err
}
