// Package leaderboard keeps the best scores. Only the top Size records are
// stored; anything below them is dropped on submit.
package leaderboard

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"
)

// DefaultSize is how many records a store keeps unless told otherwise.
const DefaultSize = 3

// ErrNotFound is returned when a player has no record on the board.
var ErrNotFound = errors.New("leaderboard: record not found")

// Record is one finished game.
type Record struct {
	Player string    `json:"player"`
	Score  int       `json:"score"`
	Rows   int       `json:"rows"`
	Field  string    `json:"field"`
	At     time.Time `json:"at"`
}

// Store persists the board.
type Store interface {
	// Submit stores r if it makes the board and returns its 1-based rank,
	// or 0 when it did not qualify.
	Submit(ctx context.Context, r Record) (int, error)
	// Top returns the kept records, best first.
	Top(ctx context.Context) ([]Record, error)
	// IsHighscore reports whether score would make the board.
	IsHighscore(ctx context.Context, score int) (bool, error)
	// Best returns the player's best kept record or ErrNotFound.
	Best(ctx context.Context, player string) (Record, error)
	Close() error
}

// Open picks a store by driver name: "json" takes a file path, "postgres" a
// connection string, "none" discards everything.
func Open(driver, location string, size int) (Store, error) {
	if size <= 0 {
		size = DefaultSize
	}

	switch driver {
	case "json":
		return NewJSONStore(location, size)
	case "postgres":
		return NewPostgresStore(location, size)
	case "none":
		return Discard{}, nil
	}
	return nil, fmt.Errorf("unknown leaderboard driver %q", driver)
}

// qualifies reports whether score beats the weakest of the kept records.
func qualifies(records []Record, size int, score int) bool {
	if score <= 0 {
		return false
	}
	if len(records) < size {
		return true
	}
	return score > records[len(records)-1].Score
}

// insert places r after every record with an equal or better score and
// trims the result to size. records must already be sorted.
func insert(records []Record, r Record, size int) ([]Record, int) {
	pos := sort.Search(len(records), func(i int) bool {
		return records[i].Score < r.Score
	})
	if pos >= size {
		return records, 0
	}

	records = append(records, Record{})
	copy(records[pos+1:], records[pos:])
	records[pos] = r

	if len(records) > size {
		records = records[:size]
	}
	return records, pos + 1
}

func best(records []Record, player string) (Record, error) {
	for _, r := range records {
		if r.Player == player {
			return r, nil
		}
	}
	return Record{}, ErrNotFound
}

// Discard is a Store that keeps nothing.
type Discard struct{}

func (Discard) Submit(context.Context, Record) (int, error)    { return 0, nil }
func (Discard) Top(context.Context) ([]Record, error)          { return nil, nil }
func (Discard) IsHighscore(context.Context, int) (bool, error) { return false, nil }
func (Discard) Best(context.Context, string) (Record, error)   { return Record{}, ErrNotFound }
func (Discard) Close() error                                   { return nil }
