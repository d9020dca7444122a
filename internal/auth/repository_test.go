package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foodshare/foodshare/internal/shared"
)

type stubRow struct {
	values []any
	err    error
}

func (r stubRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	for i, d := range dest {
		switch target := d.(type) {
		case *int64:
			*target = r.values[i].(int64)
		case *string:
			*target = r.values[i].(string)
		case *time.Time:
			*target = r.values[i].(time.Time)
		}
	}
	return nil
}

type stubDB struct {
	row      stubRow
	tag      pgconn.CommandTag
	execErr  error
	lastSQL  string
	lastArgs []any
}

func (s *stubDB) Exec(_ context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error) {
	s.lastSQL, s.lastArgs = sql, args
	return s.tag, s.execErr
}

func (s *stubDB) QueryRow(_ context.Context, sql string, args ...interface{}) pgx.Row {
	s.lastSQL, s.lastArgs = sql, args
	return s.row
}

func TestPGRepositoryCreateUser(t *testing.T) {
	created := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	stub := &stubDB{row: stubRow{values: []any{int64(7), "alice", "a@x.com", "hash", created}}}
	repo := &PGRepository{db: stub}

	user, err := repo.CreateUser(context.Background(), "alice", "a@x.com", "hash")
	require.NoError(t, err)
	assert.Equal(t, int64(7), user.ID)
	assert.Equal(t, created, user.CreatedAt)
	assert.Equal(t, []any{"alice", "a@x.com", "hash"}, stub.lastArgs)
}

func TestPGRepositoryCreateUserDuplicate(t *testing.T) {
	stub := &stubDB{row: stubRow{err: &pgconn.PgError{Code: "23505"}}}
	repo := &PGRepository{db: stub}

	_, err := repo.CreateUser(context.Background(), "alice", "a@x.com", "hash")
	assert.ErrorIs(t, err, shared.ErrDuplicate)
}

func TestPGRepositoryFindNotFound(t *testing.T) {
	stub := &stubDB{row: stubRow{err: pgx.ErrNoRows}}
	repo := &PGRepository{db: stub}

	_, err := repo.FindByUsername(context.Background(), "ghost")
	assert.ErrorIs(t, err, shared.ErrNotFound)

	_, err = repo.FindToken(context.Background(), "abc")
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestPGRepositoryDeleteToken(t *testing.T) {
	stub := &stubDB{tag: pgconn.NewCommandTag("DELETE 1")}
	repo := &PGRepository{db: stub}

	removed, err := repo.DeleteToken(context.Background(), "abc")
	require.NoError(t, err)
	assert.True(t, removed)

	stub.tag = pgconn.NewCommandTag("DELETE 0")
	removed, err = repo.DeleteToken(context.Background(), "abc")
	require.NoError(t, err)
	assert.False(t, removed)

	stub.execErr = errors.New("conn closed")
	_, err = repo.DeleteToken(context.Background(), "abc")
	assert.ErrorContains(t, err, "auth: delete token")
}

func TestPGRepositoryDeleteTokensBeforeUsesUTC(t *testing.T) {
	stub := &stubDB{tag: pgconn.NewCommandTag("DELETE 4")}
	repo := &PGRepository{db: stub}
	cutoff := time.Date(2024, 5, 1, 14, 0, 0, 0, time.FixedZone("CEST", 2*3600))

	removed, err := repo.DeleteTokensBefore(context.Background(), cutoff)
	require.NoError(t, err)
	assert.Equal(t, int64(4), removed)
	require.Len(t, stub.lastArgs, 1)
	assert.Equal(t, time.UTC, stub.lastArgs[0].(time.Time).Location())
	assert.True(t, cutoff.Equal(stub.lastArgs[0].(time.Time)))
}
