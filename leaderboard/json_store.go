package leaderboard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"
)

// JSONStore keeps the board in a local JSON file, rewritten on every change.
type JSONStore struct {
	filePath string
	size     int
	mutex    sync.RWMutex
	data     *jsonData
}

type jsonData struct {
	Records []Record `json:"records"`
}

// NewJSONStore opens filePath, creating it when it does not exist yet.
func NewJSONStore(filePath string, size int) (*JSONStore, error) {
	store := &JSONStore{
		filePath: filePath,
		size:     size,
		data:     &jsonData{Records: []Record{}},
	}

	_, err := os.Stat(filePath)
	switch {
	case err == nil:
		if err := store.loadFromFile(); err != nil {
			return nil, fmt.Errorf("load leaderboard: %w", err)
		}
	case errors.Is(err, fs.ErrNotExist):
		if err := store.saveToFile(); err != nil {
			return nil, fmt.Errorf("create leaderboard file: %w", err)
		}
	default:
		return nil, fmt.Errorf("stat leaderboard: %w", err)
	}

	return store, nil
}

func (js *JSONStore) loadFromFile() error {
	js.mutex.Lock()
	defer js.mutex.Unlock()

	file, err := os.ReadFile(js.filePath)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(file, js.data); err != nil {
		return err
	}

	// a file written with a larger size keeps only what fits
	var kept []Record
	for _, r := range js.data.Records {
		kept, _ = insert(kept, r, js.size)
	}
	js.data.Records = append([]Record{}, kept...)
	return nil
}

func (js *JSONStore) saveToFile() error {
	js.mutex.RLock()
	data, err := json.MarshalIndent(js.data, "", "  ")
	js.mutex.RUnlock()
	if err != nil {
		return err
	}

	return os.WriteFile(js.filePath, data, 0644)
}

func (js *JSONStore) Submit(ctx context.Context, r Record) (int, error) {
	js.mutex.Lock()
	if !qualifies(js.data.Records, js.size, r.Score) {
		js.mutex.Unlock()
		return 0, nil
	}
	var rank int
	js.data.Records, rank = insert(js.data.Records, r, js.size)
	js.mutex.Unlock()

	if err := js.saveToFile(); err != nil {
		return 0, fmt.Errorf("save leaderboard: %w", err)
	}
	return rank, nil
}

func (js *JSONStore) Top(ctx context.Context) ([]Record, error) {
	js.mutex.RLock()
	defer js.mutex.RUnlock()

	return append([]Record{}, js.data.Records...), nil
}

func (js *JSONStore) IsHighscore(ctx context.Context, score int) (bool, error) {
	js.mutex.RLock()
	defer js.mutex.RUnlock()

	return qualifies(js.data.Records, js.size, score), nil
}

func (js *JSONStore) Best(ctx context.Context, player string) (Record, error) {
	js.mutex.RLock()
	defer js.mutex.RUnlock()

	return best(js.data.Records, player)
}

// Close is a no-op; every change is already on disk.
func (js *JSONStore) Close() error {
	return nil
}
