package game

import (
	"fmt"
	"strings"
)

// Action is a set of player inputs. Pressing the same action twice before a
// tick counts once.
type Action uint32

const (
	MoveXPos Action = 1 << iota
	MoveXNeg
	MoveZPos
	MoveZNeg
	RotateXPos
	RotateXNeg
	RotateYPos
	RotateYNeg
	RotateZPos
	RotateZNeg
	HardDrop
	ToggleGravity
	Restart
	SpawnIPiece

	lastAction
)

var actionNames = map[Action]string{
	MoveXPos:      "move_x_pos",
	MoveXNeg:      "move_x_neg",
	MoveZPos:      "move_z_pos",
	MoveZNeg:      "move_z_neg",
	RotateXPos:    "rotate_x_pos",
	RotateXNeg:    "rotate_x_neg",
	RotateYPos:    "rotate_y_pos",
	RotateYNeg:    "rotate_y_neg",
	RotateZPos:    "rotate_z_pos",
	RotateZNeg:    "rotate_z_neg",
	HardDrop:      "hard_drop",
	ToggleGravity: "toggle_gravity",
	Restart:       "restart",
	SpawnIPiece:   "spawn_i_piece",
}

// Actions lists every single action in processing order.
func Actions() []Action {
	var all []Action
	for a := Action(1); a < lastAction; a <<= 1 {
		all = append(all, a)
	}
	return all
}

// Has reports whether a contains every action in other.
func (a Action) Has(other Action) bool {
	return a&other == other && other != 0
}

func (a Action) String() string {
	if a == 0 {
		return "none"
	}

	var parts []string
	for _, single := range Actions() {
		if a.Has(single) {
			parts = append(parts, actionNames[single])
		}
	}
	return strings.Join(parts, "+")
}

// ParseAction maps a wire name such as "rotate_y_neg" to its Action.
func ParseAction(name string) (Action, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for a, n := range actionNames {
		if n == name {
			return a, nil
		}
	}
	return 0, fmt.Errorf("unknown action %q", name)
}

// InputState collects actions pressed between ticks.
type InputState struct {
	pending Action
}

// Press queues an action for the next tick.
func (s *InputState) Press(a Action) {
	s.pending |= a
}

// Take returns the queued actions and clears the queue.
func (s *InputState) Take() Action {
	a := s.pending
	s.pending = 0
	return a
}
