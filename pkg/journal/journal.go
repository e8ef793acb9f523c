// Package journal persists closed orders of a run into a SQLite database.
package journal

import (
	"database/sql"
	"fmt"

	_ "github.com/glebarez/go-sqlite"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/TheodoreKrypton/pytrade/pkg/order"
)

const schema = `
CREATE TABLE IF NOT EXISTS trades (
	run_id       TEXT    NOT NULL,
	ticket       INTEGER NOT NULL,
	operation    TEXT    NOT NULL,
	lot          TEXT    NOT NULL,
	open_time    INTEGER NOT NULL,
	open_price   TEXT    NOT NULL,
	open_reason  TEXT    NOT NULL,
	close_time   INTEGER NOT NULL,
	close_price  TEXT    NOT NULL,
	close_reason TEXT    NOT NULL,
	profit       TEXT    NOT NULL,
	PRIMARY KEY (run_id, ticket)
)`

// Journal records every closed order of one run, keyed by a run id.
type Journal struct {
	logger *zap.Logger
	db     *sql.DB
	runID  uuid.UUID
}

func Open(path string, runID uuid.UUID, logger *zap.Logger) (*Journal, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("unable to open journal %q: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("unable to create journal schema: %w", err)
	}
	return &Journal{
		logger: logger,
		db:     db,
		runID:  runID,
	}, nil
}

func (j *Journal) Close() error {
	return j.db.Close()
}

// RecordClose inserts one closed order.
func (j *Journal) RecordClose(o *order.Order) error {
	_, err := j.db.Exec(
		`INSERT INTO trades (run_id, ticket, operation, lot, open_time, open_price, open_reason,
			close_time, close_price, close_reason, profit)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		j.runID.String(),
		int64(o.Ticket),
		o.Op.String(),
		o.Lot.String(),
		o.OpenTime,
		o.OpenPrice.String(),
		o.OpenReason.String(),
		o.CloseTime,
		o.ClosePrice.String(),
		o.CloseReason.String(),
		o.Profit().String(),
	)
	if err != nil {
		return fmt.Errorf("unable to record order #%d: %w", o.Ticket, err)
	}
	j.logger.Debug("trade recorded",
		zap.Int64("ticket", int64(o.Ticket)),
		zap.String("operation", o.Op.String()),
		zap.String("profit", o.Profit().String()))
	return nil
}

// TradeCount returns the number of trades recorded for this run.
func (j *Journal) TradeCount() (int, error) {
	var count int
	err := j.db.QueryRow(`SELECT COUNT(*) FROM trades WHERE run_id = ?`, j.runID.String()).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("unable to count trades: %w", err)
	}
	return count, nil
}
