package motion

import "github.com/soocke/pong-tracker-go/domain/frame"

// Player identifies a side of the table.
type Player int

const (
	PlayerNone Player = iota
	Player1
	Player2
)

func (p Player) String() string {
	switch p {
	case Player1:
		return "player1"
	case Player2:
		return "player2"
	default:
		return "none"
	}
}

// Attributor assigns movement to the player who last struck the ball:
// rightward travel left of the midline belongs to player 1, leftward travel
// right of it to player 2.
type Attributor struct {
	midline float64
	last    Player
}

// NewAttributor returns an attributor splitting the field at x = midline.
func NewAttributor(midline float64) *Attributor {
	return &Attributor{midline: midline}
}

// SetMidline moves the split, e.g. when the frame size becomes known.
func (a *Attributor) SetMidline(x float64) { a.midline = x }

// Midline returns the current split.
func (a *Attributor) Midline() float64 { return a.midline }

// Attribute evaluates one displacement v observed at pos. It returns the
// current player and whether it differs from the previously recorded one.
func (a *Attributor) Attribute(pos frame.Position, v frame.Vector) (Player, bool) {
	var next Player
	switch {
	case v.DX > 0 && pos.X < a.midline:
		next = Player1
	case v.DX < 0 && pos.X > a.midline:
		next = Player2
	}
	if next == PlayerNone || next == a.last {
		return a.last, false
	}
	a.last = next
	return next, true
}

// Last returns the most recently attributed player.
func (a *Attributor) Last() Player { return a.last }

// Reset forgets the last player.
func (a *Attributor) Reset() { a.last = PlayerNone }
