package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/connorkuehl/dinklebot/internal/database"
	"github.com/connorkuehl/dinklebot/internal/dinkle"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()

	db, cleanup, err := NewInMemory()
	require.NoError(t, err)
	t.Cleanup(cleanup)
	return db
}

func TestPlayers(t *testing.T) {
	ctx := context.Background()

	t.Run("it returns ErrNotFound for unknown players", func(t *testing.T) {
		db := newTestDB(t)

		_, err := db.PlayerByPsnID(ctx, "nobody")
		assert.ErrorIs(t, err, database.ErrNotFound)

		_, err = db.PlayerByTelegramID(ctx, 42)
		assert.ErrorIs(t, err, database.ErrNotFound)
	})

	t.Run("it binds a telegram id to a player", func(t *testing.T) {
		db := newTestDB(t)

		p, err := db.PutPlayer(ctx, "abc123")
		require.NoError(t, err)
		assert.Nil(t, p.TelegramID)

		require.NoError(t, db.RegisterTelegramID(ctx, p.ID, 42))

		got, err := db.PlayerByTelegramID(ctx, 42)
		require.NoError(t, err)
		assert.Equal(t, "abc123", got.PsnID)
		require.NotNil(t, got.TelegramID)
		assert.Equal(t, int64(42), *got.TelegramID)
	})

	t.Run("it moves a telegram id between players", func(t *testing.T) {
		db := newTestDB(t)

		first, err := db.PutPlayer(ctx, "first")
		require.NoError(t, err)
		second, err := db.PutPlayer(ctx, "second")
		require.NoError(t, err)

		require.NoError(t, db.RegisterTelegramID(ctx, first.ID, 7))
		require.NoError(t, db.RegisterTelegramID(ctx, second.ID, 7))

		got, err := db.PlayerByTelegramID(ctx, 7)
		require.NoError(t, err)
		assert.Equal(t, "second", got.PsnID)

		old, err := db.PlayerByPsnID(ctx, "first")
		require.NoError(t, err)
		assert.Nil(t, old.TelegramID)
	})

	t.Run("PutPlayer is idempotent", func(t *testing.T) {
		db := newTestDB(t)

		a, err := db.PutPlayer(ctx, "abc123")
		require.NoError(t, err)
		b, err := db.PutPlayer(ctx, "abc123")
		require.NoError(t, err)
		assert.Equal(t, a.ID, b.ID)
	})
}

func TestEventTypes(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)

	raid, err := db.EventTypeByName(ctx, "raid")
	require.NoError(t, err)
	assert.Equal(t, "Raid", raid.Name)

	byID, err := db.EventType(ctx, raid.ID)
	require.NoError(t, err)
	assert.Equal(t, raid, byID)

	_, err = db.EventTypeByName(ctx, "Gambit")
	assert.ErrorIs(t, err, database.ErrNotFound)

	gambit, err := db.PutEventType(ctx, "Gambit")
	require.NoError(t, err)
	assert.Equal(t, "Gambit", gambit.Name)
}

func TestEvents(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (*DB, dinkle.Player, dinkle.Player, dinkle.EventType) {
		db := newTestDB(t)

		alice, err := db.PutPlayer(ctx, "alice")
		require.NoError(t, err)
		bob, err := db.PutPlayer(ctx, "bob")
		require.NoError(t, err)
		raid, err := db.EventTypeByName(ctx, "Raid")
		require.NoError(t, err)

		return db, alice, bob, raid
	}

	t.Run("it creates events with the owner as first participant", func(t *testing.T) {
		db, alice, bob, raid := setup(t)
		date := time.Date(2024, time.June, 3, 20, 0, 0, 0, time.UTC)

		id, err := db.CreateEvent(ctx, dinkle.Event{TypeID: raid.ID, Date: date, Comment: "bring snacks", OwnerID: alice.ID})
		require.NoError(t, err)
		require.NoError(t, db.Join(ctx, id, bob.ID))

		evt, err := db.Event(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "Raid", evt.Type)
		assert.True(t, date.Equal(evt.Date))
		assert.Equal(t, "bring snacks", evt.Comment)
		assert.Equal(t, []string{"alice", "bob"}, evt.Participants)
	})

	t.Run("it orders events by date", func(t *testing.T) {
		db, alice, _, raid := setup(t)
		late := time.Date(2024, time.June, 5, 20, 0, 0, 0, time.UTC)
		early := time.Date(2024, time.June, 4, 20, 0, 0, 0, time.UTC)

		lateID, err := db.CreateEvent(ctx, dinkle.Event{TypeID: raid.ID, Date: late, OwnerID: alice.ID})
		require.NoError(t, err)
		earlyID, err := db.CreateEvent(ctx, dinkle.Event{TypeID: raid.ID, Date: early, OwnerID: alice.ID})
		require.NoError(t, err)

		events, err := db.Events(ctx)
		require.NoError(t, err)
		require.Len(t, events, 2)
		assert.Equal(t, earlyID, events[0].ID)
		assert.Equal(t, lateID, events[1].ID)
	})

	t.Run("it lists only the events a player joined", func(t *testing.T) {
		db, alice, bob, raid := setup(t)
		date := time.Date(2024, time.June, 4, 20, 0, 0, 0, time.UTC)

		_, err := db.CreateEvent(ctx, dinkle.Event{TypeID: raid.ID, Date: date, OwnerID: alice.ID})
		require.NoError(t, err)
		bobs, err := db.CreateEvent(ctx, dinkle.Event{TypeID: raid.ID, Date: date, OwnerID: bob.ID})
		require.NoError(t, err)

		events, err := db.EventsFor(ctx, bob.ID)
		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.Equal(t, bobs, events[0].ID)
	})

	t.Run("join and leave report membership errors", func(t *testing.T) {
		db, alice, bob, raid := setup(t)

		id, err := db.CreateEvent(ctx, dinkle.Event{TypeID: raid.ID, Date: time.Now(), OwnerID: alice.ID})
		require.NoError(t, err)

		assert.ErrorIs(t, db.Join(ctx, id, alice.ID), database.ErrAlreadyJoined)
		assert.ErrorIs(t, db.Leave(ctx, id, bob.ID), database.ErrNotJoined)
		assert.ErrorIs(t, db.Join(ctx, id+100, bob.ID), database.ErrNotFound)
		assert.ErrorIs(t, db.Leave(ctx, id+100, bob.ID), database.ErrNotFound)

		require.NoError(t, db.Leave(ctx, id, alice.ID))
		evt, err := db.Event(ctx, id)
		require.NoError(t, err)
		assert.Empty(t, evt.Participants)
	})

	t.Run("it updates and deletes events", func(t *testing.T) {
		db, alice, _, raid := setup(t)
		strike, err := db.EventTypeByName(ctx, "Strike")
		require.NoError(t, err)

		id, err := db.CreateEvent(ctx, dinkle.Event{TypeID: raid.ID, Date: time.Now(), OwnerID: alice.ID})
		require.NoError(t, err)

		date := time.Date(2024, time.July, 1, 18, 30, 0, 0, time.UTC)
		require.NoError(t, db.UpdateEvent(ctx, dinkle.Event{ID: id, TypeID: strike.ID, Date: date, Comment: "moved"}))

		evt, err := db.Event(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "Strike", evt.Type)
		assert.Equal(t, "moved", evt.Comment)
		assert.True(t, date.Equal(evt.Date))

		require.NoError(t, db.DeleteEvent(ctx, id))
		_, err = db.Event(ctx, id)
		assert.ErrorIs(t, err, database.ErrNotFound)
		assert.ErrorIs(t, db.DeleteEvent(ctx, id), database.ErrNotFound)
		assert.ErrorIs(t, db.UpdateEvent(ctx, dinkle.Event{ID: id, TypeID: raid.ID}), database.ErrNotFound)
	})
}

func TestSecrets(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)

	_, err := db.Secret(ctx, dinkle.SecretGoogleSearch)
	assert.ErrorIs(t, err, database.ErrNotFound)

	require.NoError(t, db.PutSecret(ctx, dinkle.SecretGoogleSearch, "one"))
	require.NoError(t, db.PutSecret(ctx, dinkle.SecretGoogleSearch, "two"))

	got, err := db.Secret(ctx, dinkle.SecretGoogleSearch)
	require.NoError(t, err)
	assert.Equal(t, "two", got)
}

func TestDriverErrors(t *testing.T) {
	ctx := context.Background()
	errBoom := errors.New("boom")

	t.Run("query errors are returned as is", func(t *testing.T) {
		conn, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer conn.Close()

		mock.ExpectQuery("SELECT id, psn_id, telegram_id FROM players").
			WithArgs("abc123").
			WillReturnError(errBoom)

		db := &DB{db: conn}
		_, err = db.PlayerByPsnID(ctx, "abc123")
		assert.ErrorIs(t, err, errBoom)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("a failed participant insert rolls back the new event", func(t *testing.T) {
		conn, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer conn.Close()

		mock.ExpectBegin()
		mock.ExpectExec("INSERT INTO events").WillReturnResult(sqlmock.NewResult(9, 1))
		mock.ExpectExec("INSERT INTO event_participants").WillReturnError(errBoom)
		mock.ExpectRollback()

		db := &DB{db: conn}
		_, err = db.CreateEvent(ctx, dinkle.Event{TypeID: 1, Date: time.Now(), OwnerID: 1})
		assert.ErrorIs(t, err, errBoom)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("an unmatched register is reported as not found", func(t *testing.T) {
		conn, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer conn.Close()

		mock.ExpectBegin()
		mock.ExpectExec("UPDATE players SET telegram_id = NULL").WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec("UPDATE players SET telegram_id =").WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		db := &DB{db: conn}
		err = db.RegisterTelegramID(ctx, 1, 42)
		assert.ErrorIs(t, err, database.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
