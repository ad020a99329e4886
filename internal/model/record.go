package model

import (
	"fmt"
	"time"
)

// MatchRecord is the classified result of one replay, from the tracked
// player's point of view. Records are never modified after classification.
type MatchRecord struct {
	PlayerCharacter   Character `json:"player_character"`
	OpponentCharacter Character `json:"opponent_character"`
	Stage             Stage     `json:"stage"`
	Outcome           Outcome   `json:"outcome"`
	Timestamp         time.Time `json:"timestamp"`
}

// IsVictory reports whether the tracked player won this match.
func (r MatchRecord) IsVictory() bool { return r.Outcome.IsVictory() }

func (r MatchRecord) String() string {
	return fmt.Sprintf("%s vs %s on %s. %s", r.PlayerCharacter, r.OpponentCharacter, r.Stage, r.Outcome)
}
