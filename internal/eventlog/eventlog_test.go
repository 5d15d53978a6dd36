package eventlog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMock(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return New(db), mock
}

func TestStore_Migrate(t *testing.T) {
	s, mock := newMock(t)
	mock.ExpectExec("create table if not exists toggle_events").
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.NoError(t, s.Migrate(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_Record(t *testing.T) {
	s, mock := newMock(t)
	at := time.UnixMilli(1_700_000_000_000)
	mock.ExpectExec("insert into toggle_events").
		WithArgs("uncontrolled", true, "toggle", at.UnixMilli()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := s.Record(context.Background(), Event{Source: "uncontrolled", On: true, Action: "toggle", At: at})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_RecordStampsTime(t *testing.T) {
	s, mock := newMock(t)
	mock.ExpectExec("insert into toggle_events").
		WithArgs("x", false, "reset", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	assert.NoError(t, s.Record(context.Background(), Event{Source: "x", Action: "reset"}))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_RecordError(t *testing.T) {
	s, mock := newMock(t)
	mock.ExpectExec("insert into toggle_events").WillReturnError(errors.New("disk full"))

	err := s.Record(context.Background(), Event{Source: "x", Action: "toggle"})
	assert.ErrorContains(t, err, "record event: disk full")
}

func TestStore_Recent(t *testing.T) {
	s, mock := newMock(t)
	mock.ExpectQuery("select source, on_state, action, at from toggle_events").
		WithArgs(2).
		WillReturnRows(sqlmock.NewRows([]string{"source", "on_state", "action", "at"}).
			AddRow("uncontrolled", false, "reset", int64(2000)).
			AddRow("uncontrolled", true, "toggle", int64(1000)))

	events, err := s.Recent(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, []Event{
		{Source: "uncontrolled", On: false, Action: "reset", At: time.UnixMilli(2000)},
		{Source: "uncontrolled", On: true, Action: "toggle", At: time.UnixMilli(1000)},
	}, events)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_OpenSqlite(t *testing.T) {
	ctx := context.Background()
	s, err := Open(ctx, t.TempDir()+"/events.db")
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Record(ctx, Event{Source: "a", On: true, Action: "toggle"}))
	require.NoError(t, s.Record(ctx, Event{Source: "a", On: false, Action: "reset"}))

	events, err := s.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "reset", events[0].Action)
	assert.True(t, events[1].On)
}
