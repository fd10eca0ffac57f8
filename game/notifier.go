package game

import "github.com/plus3/tetracube/shape"

// Notifier receives state changes a user interface cares about. Calls happen
// on the goroutine that ticks the session.
type Notifier interface {
	ScoreChanged(score int)
	NextPiece(next shape.Type)
	GameOver(score int)
	RowsCleared(rows int)
}

// NopNotifier ignores every notification.
type NopNotifier struct{}

func (NopNotifier) ScoreChanged(int)     {}
func (NopNotifier) NextPiece(shape.Type) {}
func (NopNotifier) GameOver(int)         {}
func (NopNotifier) RowsCleared(int)      {}
