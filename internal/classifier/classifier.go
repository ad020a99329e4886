// Package classifier turns a decoded replay into a MatchRecord for one
// tracked player: it locates the player's slot, decides the outcome and
// validates the character and stage selections.
package classifier

import (
	"fmt"

	"github.com/pable/slp-stats/internal/model"
)

// HasPlayer reports whether code appears in the replay's identity metadata.
// It only needs a metadata-only decode, so the scanner uses it to skip
// foreign replays before the full decode.
func HasPlayer(g *model.Game, code string) (bool, error) {
	_, err := ResolveSlot(g, code)
	switch err {
	case nil:
		return true, nil
	case model.ErrGameDoesNotContainPlayer:
		return false, nil
	default:
		return false, err
	}
}

// ResolveSlot returns the 0-based slot of the participant whose identity
// code equals code.
func ResolveSlot(g *model.Game, code string) (int, error) {
	if len(g.Players) != 2 {
		return 0, model.ErrIncorrectPlayerCount
	}
	for _, p := range g.Players {
		if p.Code == "" {
			return 0, model.ErrCorruptedPlayerData
		}
	}
	for slot, p := range g.Players {
		if p.Code == code {
			return slot, nil
		}
	}
	return 0, model.ErrGameDoesNotContainPlayer
}

// ClassifyOutcome decides the match result for the participant in slot.
//
// Order matters: an early-termination signal wins over everything, then the
// final stock counts, then (only on equal stocks) accumulated damage, where
// less damage taken wins the timeout.
func ClassifyOutcome(g *model.Game, slot int) (model.Outcome, error) {
	last := g.LastFrame()
	if last == nil || len(last.Ports) != 2 {
		return model.Outcome{}, model.ErrIncorrectPlayerCount
	}

	if g.Termination != nil {
		return model.EarlyEnd(g.Termination.Initiator), nil
	}

	mine, opp := last.Ports[slot], last.Ports[1-slot]
	switch {
	case mine.Stocks > opp.Stocks:
		return model.Victory(model.Stocks), nil
	case mine.Stocks < opp.Stocks:
		return model.Loss(model.Stocks), nil
	case mine.Percent < opp.Percent:
		return model.Victory(model.Timeout), nil
	case mine.Percent > opp.Percent:
		return model.Loss(model.Timeout), nil
	default:
		return model.Tie(), nil
	}
}

// Classify runs the full pipeline for one fully decoded replay.
func Classify(g *model.Game, code string) (model.MatchRecord, error) {
	slot, err := ResolveSlot(g, code)
	if err != nil {
		return model.MatchRecord{}, err
	}
	outcome, err := ClassifyOutcome(g, slot)
	if err != nil {
		return model.MatchRecord{}, err
	}
	playerChar, err := ValidateCharacter(g, slot)
	if err != nil {
		return model.MatchRecord{}, fmt.Errorf("player character: %w", err)
	}
	opponentChar, err := ValidateCharacter(g, 1-slot)
	if err != nil {
		return model.MatchRecord{}, fmt.Errorf("opponent character: %w", err)
	}
	stage, err := ValidateStage(g.StageID)
	if err != nil {
		return model.MatchRecord{}, err
	}
	if g.StartAt.IsZero() {
		return model.MatchRecord{}, model.ErrMissingTimestamp
	}

	return model.MatchRecord{
		PlayerCharacter:   playerChar,
		OpponentCharacter: opponentChar,
		Stage:             stage,
		Outcome:           outcome,
		Timestamp:         g.StartAt.UTC(),
	}, nil
}
