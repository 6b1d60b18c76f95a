package logport

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/NaveedAshraf1/admin-phone-secure/internal/models"
	"github.com/NaveedAshraf1/admin-phone-secure/pkg/logger"
)

// SQLitePort stores channel records in a local SQLite database.
// Change notifications are in-process: both the console and the agent
// callback endpoints mutate through the same port, so every mutation
// passes through the hub.
type SQLitePort struct {
	db  *sql.DB
	hub *hub
}

// NewSQLitePort opens (or creates) the database at dsn.
func NewSQLitePort(dsn string) (*SQLitePort, error) {
	if dsn == "" {
		return nil, errors.New("database DSN is required")
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}

	if err := createTables(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &SQLitePort{db: db, hub: newHub()}, nil
}

func createTables(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS records (
			channel TEXT NOT NULL,
			key TEXT NOT NULL,
			command TEXT NOT NULL,
			commandTimestamp INTEGER NOT NULL,
			status TEXT NOT NULL,
			response TEXT,
			responseTimestamp INTEGER,
			PRIMARY KEY (channel, key)
		)
	`)
	return err
}

func (p *SQLitePort) Close() error {
	if p == nil || p.db == nil {
		return errors.New("port is closed")
	}
	err := p.db.Close()
	p.db = nil
	return err
}

// Append persists rec under a freshly allocated key and notifies the
// channel's subscribers.
func (p *SQLitePort) Append(ctx context.Context, channel string, rec models.Record) (string, error) {
	if p == nil || p.db == nil {
		return "", errors.New("port is closed")
	}

	key := uuid.NewString()
	rec.Key = key
	if err := p.upsert(ctx, channel, key, rec); err != nil {
		return "", err
	}

	p.notify(ctx, channel)
	return key, nil
}

// Write overwrites the record at key and notifies subscribers. The
// key must already exist: status transitions and agent responses only
// ever touch records the dispatcher created.
func (p *SQLitePort) Write(ctx context.Context, channel, key string, rec models.Record) error {
	if p == nil || p.db == nil {
		return errors.New("port is closed")
	}
	if key == "" {
		return ErrNotFound
	}

	var exists int
	row := p.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM records WHERE channel = ? AND key = ?", channel, key)
	if err := row.Scan(&exists); err != nil {
		return err
	}
	if exists == 0 {
		return ErrNotFound
	}

	if rec.Key == "" {
		rec.Key = key
	}
	if err := p.upsert(ctx, channel, key, rec); err != nil {
		return err
	}

	p.notify(ctx, channel)
	return nil
}

func (p *SQLitePort) upsert(ctx context.Context, channel, key string, rec models.Record) error {
	_, err := p.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO records
			(channel, key, command, commandTimestamp, status, response, responseTimestamp)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		channel,
		key,
		string(rec.Command),
		rec.CommandTimestamp,
		string(rec.Status),
		rec.Response,
		rec.ResponseTimestamp,
	)
	return err
}

// Snapshot returns the channel's full record set keyed by slot. For
// this backend the slot key and the record key coincide.
func (p *SQLitePort) Snapshot(ctx context.Context, channel string) (map[string]models.Record, error) {
	if p == nil || p.db == nil {
		return nil, errors.New("port is closed")
	}

	rows, err := p.db.QueryContext(ctx, `
		SELECT key, command, commandTimestamp, status, response, responseTimestamp
		FROM records WHERE channel = ?`, channel)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = rows.Close()
	}()

	snapshot := make(map[string]models.Record)
	for rows.Next() {
		var rec models.Record
		var response sql.NullString
		var respondedAt sql.NullInt64
		if err := rows.Scan(&rec.Key, &rec.Command, &rec.CommandTimestamp,
			&rec.Status, &response, &respondedAt); err != nil {
			return nil, err
		}
		if response.Valid {
			v := response.String
			rec.Response = &v
		}
		if respondedAt.Valid {
			v := respondedAt.Int64
			rec.ResponseTimestamp = &v
		}
		snapshot[rec.Key] = rec
	}
	return snapshot, rows.Err()
}

// Subscribe registers onChange and fires it once with the current
// snapshot before returning.
func (p *SQLitePort) Subscribe(channel string, onChange OnChange) (func(), error) {
	if p == nil || p.db == nil {
		return nil, errors.New("port is closed")
	}

	snapshot, err := p.Snapshot(context.Background(), channel)
	if err != nil {
		return nil, err
	}

	remove := p.hub.subscribe(channel, onChange)
	onChange(snapshot)
	return remove, nil
}

func (p *SQLitePort) notify(ctx context.Context, channel string) {
	snapshot, err := p.Snapshot(ctx, channel)
	if err != nil {
		logger.Warn("Failed to read snapshot for notification",
			zap.String("channel", channel),
			zap.Error(err),
		)
		return
	}
	p.hub.broadcast(channel, snapshot)
}
