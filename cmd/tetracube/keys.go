package main

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/plus3/tetracube/game"
)

type modifier int

const (
	anyShift modifier = iota
	withShift
	withoutShift
)

type binding struct {
	keys     []ebiten.Key
	modifier modifier
	action   game.Action
}

func (m modifier) matches(shift bool) bool {
	switch m {
	case withShift:
		return shift
	case withoutShift:
		return !shift
	}
	return true
}

// Rotations use the axis letter, with shift for the negative direction.
var bindings = []binding{
	{keys: []ebiten.Key{ebiten.KeyD, ebiten.KeyArrowRight}, action: game.MoveXPos},
	{keys: []ebiten.Key{ebiten.KeyA, ebiten.KeyArrowLeft}, action: game.MoveXNeg},
	{keys: []ebiten.Key{ebiten.KeyS, ebiten.KeyArrowDown}, action: game.MoveZPos},
	{keys: []ebiten.Key{ebiten.KeyW, ebiten.KeyArrowUp}, action: game.MoveZNeg},
	{keys: []ebiten.Key{ebiten.KeyX}, modifier: withoutShift, action: game.RotateXPos},
	{keys: []ebiten.Key{ebiten.KeyX}, modifier: withShift, action: game.RotateXNeg},
	{keys: []ebiten.Key{ebiten.KeyY}, modifier: withoutShift, action: game.RotateYPos},
	{keys: []ebiten.Key{ebiten.KeyY}, modifier: withShift, action: game.RotateYNeg},
	{keys: []ebiten.Key{ebiten.KeyZ}, modifier: withoutShift, action: game.RotateZPos},
	{keys: []ebiten.Key{ebiten.KeyZ}, modifier: withShift, action: game.RotateZNeg},
	{keys: []ebiten.Key{ebiten.KeySpace}, action: game.HardDrop},
	{keys: []ebiten.Key{ebiten.KeyP}, action: game.ToggleGravity},
	{keys: []ebiten.Key{ebiten.KeyR}, action: game.Restart},
}

// pressedActions collects the actions whose keys went down this frame.
func pressedActions() game.Action {
	shift := ebiten.IsKeyPressed(ebiten.KeyShift)

	var actions game.Action
	for _, b := range bindings {
		if !b.modifier.matches(shift) {
			continue
		}
		for _, key := range b.keys {
			if inpututil.IsKeyJustPressed(key) {
				actions |= b.action
				break
			}
		}
	}

	// Holding period and comma together deals an I piece.
	if ebiten.IsKeyPressed(ebiten.KeyPeriod) && ebiten.IsKeyPressed(ebiten.KeyComma) &&
		(inpututil.IsKeyJustPressed(ebiten.KeyPeriod) || inpututil.IsKeyJustPressed(ebiten.KeyComma)) {
		actions |= game.SpawnIPiece
	}
	return actions
}
