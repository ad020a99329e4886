package model

import "time"

// ---- Decoded replay, as produced by the parser ----

// PlayerMeta is the identity metadata for one participant.
// Code is empty when the replay carries no identity code for the slot.
type PlayerMeta struct {
	Port int // 1-based controller port
	Code string
}

// PlayerStart is a participant's selection from the game start block.
type PlayerStart struct {
	Port        int
	CharacterID int
}

// PortState is a participant's post-frame state.
type PortState struct {
	Stocks  int
	Percent float32
}

// Frame holds one snapshot per participant, in slot order.
type Frame struct {
	Index int
	Ports []PortState
}

// Termination is an early-termination signal (LRAStart) and the 1-based
// port that initiated it.
type Termination struct {
	Initiator int
}

// Game is the decoded replay. Players, Starts and each Frame's Ports share
// the same slot order (ascending port). Frames is nil after a
// metadata-only decode.
type Game struct {
	Path        string
	StartAt     time.Time
	Players     []PlayerMeta
	Starts      []PlayerStart
	StageID     int
	Frames      []Frame
	Termination *Termination
}

// LastFrame returns the final recorded frame, or nil when there is none.
func (g *Game) LastFrame() *Frame {
	if len(g.Frames) == 0 {
		return nil
	}
	return &g.Frames[len(g.Frames)-1]
}
