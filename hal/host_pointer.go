//go:build cgo

package hal

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// poll reports presses and releases of the left mouse button or the first
// touch. Positions are in framebuffer pixels because the window layout
// matches the framebuffer size.
func (p *hostPointer) poll() {
	x, y := ebiten.CursorPosition()
	down := ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)

	if !down {
		touches := ebiten.AppendTouchIDs(nil)
		if len(touches) > 0 {
			x, y = ebiten.TouchPosition(touches[0])
			down = true
		} else if released := inpututil.AppendJustReleasedTouchIDs(nil); len(released) > 0 {
			x, y = inpututil.TouchPositionInPreviousTick(released[0])
		}
	}

	if down == p.down {
		return
	}
	p.down = down
	p.emit(PointerEvent{X: x, Y: y, Press: down})
}
