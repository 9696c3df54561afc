package journal

import (
	"database/sql"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

type SQLiteJournal struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLiteJournal, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLiteJournal{db: db}, nil
}

func (j *SQLiteJournal) RecordTrade(t TradeRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO trades
		(trade_id, instrument, side, quantity, leverage, entry_price, exit_price, open_time, close_time, fees, realized_pl, size_clamped, reason)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.TradeID, t.Instrument, t.Side, t.Quantity, t.Leverage,
		t.EntryPrice, t.ExitPrice, t.OpenTime, t.CloseTime,
		t.Fees, t.RealizedPL, t.SizeClamped, t.Reason,
	)
	return err
}

func (j *SQLiteJournal) RecordEquity(e EquitySnapshot) error {
	_, err := j.db.Exec(`
		INSERT INTO equity
		(time, balance, peak, drawdown)
		VALUES (?, ?, ?, ?)`,
		e.Time, e.Balance, e.Peak, e.Drawdown,
	)
	return err
}

// ListTradesClosedBetween returns trades with close_time in [from, to),
// ordered by close time.
func (j *SQLiteJournal) ListTradesClosedBetween(from, to time.Time) ([]TradeRecord, error) {
	rows, err := j.db.Query(`
		SELECT trade_id, instrument, side, quantity, leverage, entry_price, exit_price,
		       open_time, close_time, fees, realized_pl, size_clamped, reason
		FROM trades
		WHERE close_time >= ? AND close_time < ?
		ORDER BY close_time`, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recs []TradeRecord
	for rows.Next() {
		var r TradeRecord
		err := rows.Scan(&r.TradeID, &r.Instrument, &r.Side, &r.Quantity, &r.Leverage,
			&r.EntryPrice, &r.ExitPrice, &r.OpenTime, &r.CloseTime,
			&r.Fees, &r.RealizedPL, &r.SizeClamped, &r.Reason)
		if err != nil {
			return nil, err
		}
		recs = append(recs, r)
	}
	return recs, rows.Err()
}

// ListEquity returns the full equity curve ordered by time.
func (j *SQLiteJournal) ListEquity() ([]EquitySnapshot, error) {
	rows, err := j.db.Query(`SELECT time, balance, peak, drawdown FROM equity ORDER BY time`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var snaps []EquitySnapshot
	for rows.Next() {
		var e EquitySnapshot
		if err := rows.Scan(&e.Time, &e.Balance, &e.Peak, &e.Drawdown); err != nil {
			return nil, err
		}
		snaps = append(snaps, e)
	}
	return snaps, rows.Err()
}

func (j *SQLiteJournal) Close() error {
	return j.db.Close()
}
