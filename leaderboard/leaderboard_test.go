package leaderboard

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scores(records []Record) []int {
	out := make([]int, len(records))
	for i, r := range records {
		out[i] = r.Score
	}
	return out
}

func TestInsert(t *testing.T) {
	var records []Record
	var rank int

	records, rank = insert(records, Record{Player: "a", Score: 40}, 3)
	assert.Equal(t, 1, rank)
	records, rank = insert(records, Record{Player: "b", Score: 100}, 3)
	assert.Equal(t, 1, rank)
	records, rank = insert(records, Record{Player: "c", Score: 40}, 3)
	assert.Equal(t, 3, rank, "ties rank after earlier records")
	records, rank = insert(records, Record{Player: "d", Score: 300}, 3)
	assert.Equal(t, 1, rank)

	assert.Equal(t, []int{300, 100, 40}, scores(records))
	assert.Equal(t, "a", records[2].Player)

	records, rank = insert(records, Record{Score: 10}, 3)
	assert.Equal(t, 0, rank)
	assert.Len(t, records, 3)
}

func TestQualifies(t *testing.T) {
	records := []Record{{Score: 300}, {Score: 100}, {Score: 40}}

	assert.True(t, qualifies(records[:2], 3, 1))
	assert.False(t, qualifies(records[:2], 3, 0), "an empty game never makes the board")
	assert.True(t, qualifies(records, 3, 41))
	assert.False(t, qualifies(records, 3, 40))
}

func TestJSONStore(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "board.json")

	store, err := NewJSONStore(path, 3)
	require.NoError(t, err)
	_, err = os.Stat(path)
	require.NoError(t, err, "file is created on open")

	for i, score := range []int{40, 1200, 100, 300, 40} {
		ok, err := store.IsHighscore(ctx, score)
		require.NoError(t, err)

		rank, err := store.Submit(ctx, Record{Player: string(rune('a' + i)), Score: score, At: time.Unix(int64(i), 0)})
		require.NoError(t, err)
		assert.Equal(t, ok, rank > 0, "IsHighscore agrees with Submit for %d", score)
	}

	top, err := store.Top(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int{1200, 300, 100}, scores(top))

	best, err := store.Best(ctx, "d")
	require.NoError(t, err)
	assert.Equal(t, 300, best.Score)

	_, err = store.Best(ctx, "a")
	assert.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, store.Close())

	reopened, err := NewJSONStore(path, 2)
	require.NoError(t, err)
	top, err = reopened.Top(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int{1200, 300}, scores(top), "a smaller board trims on load")
}

func TestJSONStoreRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "board.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	_, err := NewJSONStore(path, 3)
	assert.Error(t, err)
}

func TestOpen(t *testing.T) {
	store, err := Open("none", "", 0)
	require.NoError(t, err)
	rank, err := store.Submit(context.Background(), Record{Score: 100})
	require.NoError(t, err)
	assert.Zero(t, rank)

	store, err = Open("json", filepath.Join(t.TempDir(), "b.json"), 0)
	require.NoError(t, err)
	assert.Equal(t, DefaultSize, store.(*JSONStore).size)

	_, err = Open("redis", "", 3)
	assert.Error(t, err)
}

func TestPostgresStore(t *testing.T) {
	dsn := os.Getenv("TETRACUBE_TEST_DSN")
	if dsn == "" {
		t.Skip("TETRACUBE_TEST_DSN not set")
	}

	ctx := context.Background()
	store, err := NewPostgresStore(dsn, 3)
	require.NoError(t, err)
	defer store.Close()

	_, err = store.db.Exec(`DELETE FROM leaderboard`)
	require.NoError(t, err)

	for _, score := range []int{40, 1200, 100, 300} {
		_, err := store.Submit(ctx, Record{Player: "p", Score: score, Field: "4x4"})
		require.NoError(t, err)
	}

	top, err := store.Top(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int{1200, 300, 100}, scores(top))

	ok, err := store.IsHighscore(ctx, 50)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = store.Best(ctx, "nobody")
	assert.ErrorIs(t, err, ErrNotFound)
}
