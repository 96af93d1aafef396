// Package ebitensource reads input for an input.Driver from ebiten.
package ebitensource

import (
	"github.com/hajimehoshi/ebiten/v2"

	xr "github.com/pmndrs/xr-sub001"
	"github.com/pmndrs/xr-sub001/input"
)

// Source polls ebiten's global input state. Use it from within the game's
// Update.
type Source struct {
	touchBuf []ebiten.TouchID
}

// New returns an ebiten source.
func New() *Source {
	return &Source{}
}

func (s *Source) CursorPosition() (x, y float64) {
	mx, my := ebiten.CursorPosition()
	return float64(mx), float64(my)
}

func (s *Source) IsMouseButtonPressed(button int) bool {
	switch button {
	case xr.ButtonPrimary:
		return ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	case xr.ButtonAuxiliary:
		return ebiten.IsMouseButtonPressed(ebiten.MouseButtonMiddle)
	case xr.ButtonSecondary:
		return ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight)
	default:
		return false
	}
}

func (s *Source) Wheel() (dx, dy float64) {
	return ebiten.Wheel()
}

func (s *Source) AppendTouchIDs(ids []int) []int {
	s.touchBuf = ebiten.AppendTouchIDs(s.touchBuf[:0])
	for _, id := range s.touchBuf {
		ids = append(ids, int(id))
	}
	return ids
}

func (s *Source) TouchPosition(id int) (x, y float64) {
	tx, ty := ebiten.TouchPosition(ebiten.TouchID(id))
	return float64(tx), float64(ty)
}

func (s *Source) Modifiers() input.KeyModifiers {
	var mods input.KeyModifiers
	if ebiten.IsKeyPressed(ebiten.KeyShift) {
		mods |= input.ModShift
	}
	if ebiten.IsKeyPressed(ebiten.KeyControl) {
		mods |= input.ModCtrl
	}
	if ebiten.IsKeyPressed(ebiten.KeyAlt) {
		mods |= input.ModAlt
	}
	if ebiten.IsKeyPressed(ebiten.KeyMeta) {
		mods |= input.ModMeta
	}
	return mods
}

var _ input.Source = (*Source)(nil)
