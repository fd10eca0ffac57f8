package leaderboard

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/lib/pq"
)

// PostgresStore keeps the board in a PostgreSQL table.
type PostgresStore struct {
	db   *sql.DB
	size int
}

// NewPostgresStore connects and creates the table if needed.
func NewPostgresStore(connectionString string, size int) (*PostgresStore, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	store := &PostgresStore{db: db, size: size}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return store, nil
}

func (ps *PostgresStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS leaderboard (
		id SERIAL PRIMARY KEY,
		player TEXT NOT NULL,
		score INTEGER NOT NULL,
		rows_cleared INTEGER NOT NULL,
		field TEXT NOT NULL,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	);

	CREATE INDEX IF NOT EXISTS leaderboard_score_idx ON leaderboard (score DESC, id ASC);
	`

	_, err := ps.db.Exec(schema)
	return err
}

func (ps *PostgresStore) Submit(ctx context.Context, r Record) (int, error) {
	tx, err := ps.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin submit: %w", err)
	}
	defer tx.Rollback()

	records, err := top(ctx, tx, ps.size)
	if err != nil {
		return 0, err
	}
	if !qualifies(records, ps.size, r.Score) {
		return 0, nil
	}
	_, rank := insert(records, r, ps.size)

	var at sql.NullTime
	if !r.At.IsZero() {
		at = sql.NullTime{Time: r.At, Valid: true}
	}

	_, err = tx.ExecContext(ctx, `
	INSERT INTO leaderboard (player, score, rows_cleared, field, created_at)
	VALUES ($1, $2, $3, $4, COALESCE($5::timestamptz, NOW()))
	`, r.Player, r.Score, r.Rows, r.Field, at)
	if err != nil {
		return 0, fmt.Errorf("insert record: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
	DELETE FROM leaderboard WHERE id NOT IN (
		SELECT id FROM leaderboard ORDER BY score DESC, id ASC LIMIT $1
	)
	`, ps.size)
	if err != nil {
		return 0, fmt.Errorf("trim leaderboard: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit submit: %w", err)
	}
	return rank, nil
}

type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func top(ctx context.Context, q queryer, size int) ([]Record, error) {
	rows, err := q.QueryContext(ctx, `
	SELECT player, score, rows_cleared, field, created_at
	FROM leaderboard ORDER BY score DESC, id ASC LIMIT $1
	`, size)
	if err != nil {
		return nil, fmt.Errorf("query leaderboard: %w", err)
	}
	defer rows.Close()

	records := []Record{}
	for rows.Next() {
		var r Record
		if err := rows.Scan(&r.Player, &r.Score, &r.Rows, &r.Field, &r.At); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

func (ps *PostgresStore) Top(ctx context.Context) ([]Record, error) {
	return top(ctx, ps.db, ps.size)
}

func (ps *PostgresStore) IsHighscore(ctx context.Context, score int) (bool, error) {
	records, err := ps.Top(ctx)
	if err != nil {
		return false, err
	}
	return qualifies(records, ps.size, score), nil
}

func (ps *PostgresStore) Best(ctx context.Context, player string) (Record, error) {
	var r Record
	err := ps.db.QueryRowContext(ctx, `
	SELECT player, score, rows_cleared, field, created_at
	FROM leaderboard WHERE player = $1 ORDER BY score DESC, id ASC LIMIT 1
	`, player).Scan(&r.Player, &r.Score, &r.Rows, &r.Field, &r.At)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, fmt.Errorf("load best record: %w", err)
	}
	return r, nil
}

func (ps *PostgresStore) Close() error {
	return ps.db.Close()
}
