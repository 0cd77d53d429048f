package calendar

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/borgmon/fast-alarm/pkg/models"
	_ "modernc.org/sqlite"
)

const timetableSchema = `CREATE TABLE IF NOT EXISTS schedule (
	date        TEXT PRIMARY KEY,
	sahar       TEXT NOT NULL,
	iftar       TEXT NOT NULL,
	calendar_id TEXT NOT NULL DEFAULT ''
)`

// Timetable is a SQLite table of imsak and iftar times keyed by date
type Timetable struct {
	db *sql.DB
}

// OpenTimetable opens or creates the timetable database at path
func OpenTimetable(path string) (*Timetable, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create timetable dir: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open timetable: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(timetableSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create timetable schema: %w", err)
	}

	return &Timetable{db: db}, nil
}

func (t *Timetable) Close() error {
	return t.db.Close()
}

// Put inserts or replaces the times for d.Date
func (t *Timetable) Put(ctx context.Context, d models.DayEventTimes) error {
	if _, err := time.Parse(models.DateLayout, d.Date); err != nil {
		return fmt.Errorf("invalid date %q: %w", d.Date, err)
	}
	if err := d.Validate(); err != nil {
		return err
	}

	_, err := t.db.ExecContext(ctx,
		`INSERT INTO schedule (date, sahar, iftar, calendar_id) VALUES (?, ?, ?, ?)
		 ON CONFLICT(date) DO UPDATE SET sahar = excluded.sahar, iftar = excluded.iftar, calendar_id = excluded.calendar_id`,
		d.Date, d.Sahar, d.Iftar, d.CalendarID)
	if err != nil {
		return fmt.Errorf("write timetable row: %w", err)
	}
	return nil
}

func (t *Timetable) DayTimes(ctx context.Context, day time.Time) (*models.DayEventTimes, error) {
	d := &models.DayEventTimes{}
	err := t.db.QueryRowContext(ctx,
		`SELECT date, sahar, iftar, calendar_id FROM schedule WHERE date = ?`,
		models.DateKey(day)).Scan(&d.Date, &d.Sahar, &d.Iftar, &d.CalendarID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read timetable row: %w", err)
	}
	return d, nil
}

// Days lists every stored day in date order
func (t *Timetable) Days(ctx context.Context) ([]models.DayEventTimes, error) {
	rows, err := t.db.QueryContext(ctx, `SELECT date, sahar, iftar, calendar_id FROM schedule ORDER BY date`)
	if err != nil {
		return nil, fmt.Errorf("list timetable: %w", err)
	}
	defer rows.Close()

	days := []models.DayEventTimes{}
	for rows.Next() {
		var d models.DayEventTimes
		if err := rows.Scan(&d.Date, &d.Sahar, &d.Iftar, &d.CalendarID); err != nil {
			return nil, fmt.Errorf("scan timetable row: %w", err)
		}
		days = append(days, d)
	}
	return days, rows.Err()
}
