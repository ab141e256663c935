package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/connorkuehl/dinklebot/internal/database"
	"github.com/connorkuehl/dinklebot/internal/dinkle"
)

//go:embed migrations/000001_create_tables.up.sql
var up string

type Path string

type DB struct {
	db *sql.DB
}

// New opens the database at path and brings its schema up to date.
func New(path Path) (*DB, func(), error) {
	db, err := sql.Open("sqlite", string(path))
	if err != nil {
		return nil, nil, err
	}

	// SQLite serializes writers anyway, and a single connection keeps
	// in-memory databases from splitting across connections.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(up); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("migrate: %w", err)
	}

	return &DB{db: db}, func() { _ = db.Close() }, nil
}

func (d *DB) Ping(ctx context.Context) error {
	return d.db.PingContext(ctx)
}

func (d *DB) PlayerByPsnID(ctx context.Context, psnID string) (dinkle.Player, error) {
	query := `SELECT id, psn_id, telegram_id FROM players WHERE psn_id = $1`
	return d.player(ctx, query, psnID)
}

func (d *DB) PlayerByTelegramID(ctx context.Context, telegramID int64) (dinkle.Player, error) {
	query := `SELECT id, psn_id, telegram_id FROM players WHERE telegram_id = $1`
	return d.player(ctx, query, telegramID)
}

func (d *DB) player(ctx context.Context, query string, args ...any) (dinkle.Player, error) {
	r := d.db.QueryRowContext(ctx, query, args...)

	var (
		p  dinkle.Player
		id sql.NullInt64
	)
	err := r.Scan(&p.ID, &p.PsnID, &id)
	if errors.Is(err, sql.ErrNoRows) {
		err = database.ErrNotFound
	}
	if err != nil {
		return dinkle.Player{}, err
	}

	if id.Valid {
		p.TelegramID = &id.Int64
	}
	return p, nil
}

// PutPlayer inserts a player unless one with the same psn id exists.
func (d *DB) PutPlayer(ctx context.Context, psnID string) (dinkle.Player, error) {
	query := `INSERT OR IGNORE INTO players (created_at, updated_at, psn_id) VALUES (datetime('now'), datetime('now'), $1)`
	if _, err := d.db.ExecContext(ctx, query, psnID); err != nil {
		return dinkle.Player{}, err
	}
	return d.PlayerByPsnID(ctx, psnID)
}

// RegisterTelegramID binds telegramID to the player. A previous binding of the
// same telegram id to another player is released first.
func (d *DB) RegisterTelegramID(ctx context.Context, playerID, telegramID int64) error {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `UPDATE players SET telegram_id = NULL, updated_at = datetime('now') WHERE telegram_id = $1 AND id != $2`
	if _, err := tx.ExecContext(ctx, query, telegramID, playerID); err != nil {
		return err
	}

	query = `UPDATE players SET telegram_id = $1, updated_at = datetime('now') WHERE id = $2`
	res, err := tx.ExecContext(ctx, query, telegramID, playerID)
	if err != nil {
		return err
	}
	if affected, _ := res.RowsAffected(); affected != 1 {
		return database.ErrNotFound
	}

	return tx.Commit()
}

func (d *DB) EventType(ctx context.Context, id int64) (dinkle.EventType, error) {
	query := `SELECT id, name FROM event_types WHERE id = $1`
	return d.eventType(ctx, query, id)
}

// EventTypeByName matches name case-insensitively.
func (d *DB) EventTypeByName(ctx context.Context, name string) (dinkle.EventType, error) {
	query := `SELECT id, name FROM event_types WHERE name = $1 COLLATE NOCASE`
	return d.eventType(ctx, query, name)
}

func (d *DB) eventType(ctx context.Context, query string, args ...any) (dinkle.EventType, error) {
	var t dinkle.EventType
	err := d.db.QueryRowContext(ctx, query, args...).Scan(&t.ID, &t.Name)
	if errors.Is(err, sql.ErrNoRows) {
		err = database.ErrNotFound
	}
	if err != nil {
		return dinkle.EventType{}, err
	}
	return t, nil
}

func (d *DB) PutEventType(ctx context.Context, name string) (dinkle.EventType, error) {
	query := `INSERT OR IGNORE INTO event_types (created_at, updated_at, name) VALUES (datetime('now'), datetime('now'), $1)`
	if _, err := d.db.ExecContext(ctx, query, name); err != nil {
		return dinkle.EventType{}, err
	}
	return d.EventTypeByName(ctx, name)
}

const selectEvents = `SELECT e.id, e.type_id, t.name, e.starts_at, e.comment, e.owner_id
	FROM events e JOIN event_types t ON t.id = e.type_id`

// Events returns every event ordered by start time.
func (d *DB) Events(ctx context.Context) ([]dinkle.Event, error) {
	query := selectEvents + ` ORDER BY e.starts_at, e.id`
	return d.events(ctx, query)
}

// EventsFor returns the events playerID participates in, ordered by start time.
func (d *DB) EventsFor(ctx context.Context, playerID int64) ([]dinkle.Event, error) {
	query := selectEvents + ` JOIN event_participants p ON p.event_id = e.id
	WHERE p.player_id = $1 ORDER BY e.starts_at, e.id`
	return d.events(ctx, query, playerID)
}

func (d *DB) Event(ctx context.Context, id int64) (dinkle.Event, error) {
	events, err := d.events(ctx, selectEvents+` WHERE e.id = $1`, id)
	if err != nil {
		return dinkle.Event{}, err
	}
	if len(events) == 0 {
		return dinkle.Event{}, database.ErrNotFound
	}
	return events[0], nil
}

func (d *DB) events(ctx context.Context, query string, args ...any) ([]dinkle.Event, error) {
	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}

	var events []dinkle.Event
	for rows.Next() {
		var (
			evt      dinkle.Event
			startsAt int64
		)
		if err := rows.Scan(&evt.ID, &evt.TypeID, &evt.Type, &startsAt, &evt.Comment, &evt.OwnerID); err != nil {
			_ = rows.Close()
			return nil, err
		}
		evt.Date = time.Unix(startsAt, 0).UTC()
		events = append(events, evt)
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return nil, err
	}
	// Participants are queried on the same connection, so the cursor must be
	// released first.
	_ = rows.Close()

	for i := range events {
		participants, err := d.participants(ctx, events[i].ID)
		if err != nil {
			return nil, err
		}
		events[i].Participants = participants
	}

	return events, nil
}

func (d *DB) participants(ctx context.Context, eventID int64) ([]string, error) {
	query := `SELECT pl.psn_id FROM event_participants p JOIN players pl ON pl.id = p.player_id
	WHERE p.event_id = $1 ORDER BY p.id`

	rows, err := d.db.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	participants := []string{}
	for rows.Next() {
		var psnID string
		if err := rows.Scan(&psnID); err != nil {
			return nil, err
		}
		participants = append(participants, psnID)
	}

	return participants, rows.Err()
}

// CreateEvent stores evt with its owner as the first participant and returns
// the new event id.
func (d *DB) CreateEvent(ctx context.Context, evt dinkle.Event) (int64, error) {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	query := `INSERT INTO events (created_at, updated_at, type_id, starts_at, comment, owner_id)
		VALUES (datetime('now'), datetime('now'), $1, $2, $3, $4)`
	args := []any{evt.TypeID, evt.Date.Unix(), evt.Comment, evt.OwnerID}
	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	query = `INSERT INTO event_participants (created_at, event_id, player_id) VALUES (datetime('now'), $1, $2)`
	if _, err := tx.ExecContext(ctx, query, id, evt.OwnerID); err != nil {
		return 0, err
	}

	return id, tx.Commit()
}

// UpdateEvent replaces the type, start time and comment of an event.
func (d *DB) UpdateEvent(ctx context.Context, evt dinkle.Event) error {
	query := `UPDATE events SET type_id = $1, starts_at = $2, comment = $3, updated_at = datetime('now') WHERE id = $4`
	args := []any{evt.TypeID, evt.Date.Unix(), evt.Comment, evt.ID}

	res, err := d.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	if affected, _ := res.RowsAffected(); affected != 1 {
		return database.ErrNotFound
	}
	return nil
}

func (d *DB) DeleteEvent(ctx context.Context, id int64) error {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM event_participants WHERE event_id = $1`, id); err != nil {
		return err
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if affected, _ := res.RowsAffected(); affected != 1 {
		return database.ErrNotFound
	}

	return tx.Commit()
}

// Join appends the player to the event's participants.
func (d *DB) Join(ctx context.Context, eventID, playerID int64) error {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var n int
	err = tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM events WHERE id = $1`, eventID).Scan(&n)
	if err != nil {
		return err
	}
	if n == 0 {
		return database.ErrNotFound
	}

	query := `INSERT OR IGNORE INTO event_participants (created_at, event_id, player_id) VALUES (datetime('now'), $1, $2)`
	res, err := tx.ExecContext(ctx, query, eventID, playerID)
	if err != nil {
		return err
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return database.ErrAlreadyJoined
	}

	return tx.Commit()
}

// Leave removes the player from the event's participants.
func (d *DB) Leave(ctx context.Context, eventID, playerID int64) error {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var n int
	err = tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM events WHERE id = $1`, eventID).Scan(&n)
	if err != nil {
		return err
	}
	if n == 0 {
		return database.ErrNotFound
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM event_participants WHERE event_id = $1 AND player_id = $2`, eventID, playerID)
	if err != nil {
		return err
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return database.ErrNotJoined
	}

	return tx.Commit()
}

func (d *DB) Secret(ctx context.Context, name string) (string, error) {
	var value string
	err := d.db.QueryRowContext(ctx, `SELECT value FROM secrets WHERE name = $1`, name).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		err = database.ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return value, nil
}

func (d *DB) PutSecret(ctx context.Context, name, value string) error {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `UPDATE secrets SET value = $1, updated_at = datetime('now') WHERE name = $2`
	res, err := tx.ExecContext(ctx, query, value, name)
	if err != nil {
		return err
	}

	if affected, _ := res.RowsAffected(); affected == 1 {
		return tx.Commit()
	}

	query = `INSERT INTO secrets (created_at, updated_at, name, value) VALUES (datetime('now'), datetime('now'), $1, $2)`
	if _, err := tx.ExecContext(ctx, query, name, value); err != nil {
		return err
	}

	return tx.Commit()
}
