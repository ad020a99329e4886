// Package query answers win/loss questions over a classified corpus.
// Engines only read records; the corpus is owned by the scan that built it.
package query

import (
	"errors"
	"fmt"

	"github.com/pable/slp-stats/internal/aggregator"
	"github.com/pable/slp-stats/internal/model"
)

var (
	// ErrNoData is returned when a query matches no games.
	ErrNoData = errors.New("no data for given input")
	// ErrNotEnoughRecords is returned by Last when n exceeds the corpus size.
	ErrNotEnoughRecords = fmt.Errorf("not enough records: %w", ErrNoData)
)

// Filter selects the records a query covers.
type Filter interface {
	Matches(r model.MatchRecord) bool
	Label() string
}

// CharacterFilter matches games the tracked player played as a character.
type CharacterFilter model.Character

func (f CharacterFilter) Matches(r model.MatchRecord) bool {
	return r.PlayerCharacter == model.Character(f)
}

func (f CharacterFilter) Label() string { return "As " + model.Character(f).String() }

// StageFilter matches games played on a stage.
type StageFilter model.Stage

func (f StageFilter) Matches(r model.MatchRecord) bool { return r.Stage == model.Stage(f) }

func (f StageFilter) Label() string { return "On " + model.Stage(f).String() }

// Overall matches every game.
type Overall struct{}

func (Overall) Matches(model.MatchRecord) bool { return true }

func (Overall) Label() string { return "Overall" }

// Engine runs queries over a fixed record slice.
type Engine struct {
	records []model.MatchRecord
}

// New returns an engine over records, which must not be modified afterwards.
func New(records []model.MatchRecord) *Engine {
	return &Engine{records: records}
}

// Len returns the corpus size.
func (e *Engine) Len() int { return len(e.records) }

// Winrate tallies every game matching f.
func (e *Engine) Winrate(f Filter) (aggregator.WinLoss, error) {
	var wl aggregator.WinLoss
	for _, r := range e.records {
		if f.Matches(r) {
			wl.Add(r.IsVictory())
		}
	}
	if wl.Games == 0 {
		return wl, ErrNoData
	}
	return wl, nil
}

// Matchups buckets the games matching f by opponent character.
func (e *Engine) Matchups(f Filter) *aggregator.Aggregator[model.Character] {
	agg := aggregator.ForCharacters()
	e.each(f, func(r model.MatchRecord) { agg.AddGame(r.IsVictory(), r.OpponentCharacter) })
	return agg
}

// Stages buckets the games matching f by stage.
func (e *Engine) Stages(f Filter) *aggregator.Aggregator[model.Stage] {
	agg := aggregator.ForStages()
	e.each(f, func(r model.MatchRecord) { agg.AddGame(r.IsVictory(), r.Stage) })
	return agg
}

// Characters buckets the games matching f by the character the tracked
// player used.
func (e *Engine) Characters(f Filter) *aggregator.Aggregator[model.Character] {
	agg := aggregator.ForCharacters()
	e.each(f, func(r model.MatchRecord) { agg.AddGame(r.IsVictory(), r.PlayerCharacter) })
	return agg
}

// MatchupReport is a head-to-head breakdown between two characters.
type MatchupReport struct {
	Player   model.Character
	Opponent model.Character
	Total    aggregator.WinLoss
	Stages   *aggregator.Aggregator[model.Stage]
}

// Matchup reports games played as player against opponent, by stage.
func (e *Engine) Matchup(player, opponent model.Character) (*MatchupReport, error) {
	rep := &MatchupReport{Player: player, Opponent: opponent, Stages: aggregator.ForStages()}
	for _, r := range e.records {
		if r.PlayerCharacter != player || r.OpponentCharacter != opponent {
			continue
		}
		rep.Total.Add(r.IsVictory())
		rep.Stages.AddGame(r.IsVictory(), r.Stage)
	}
	if rep.Total.Games == 0 {
		return nil, ErrNoData
	}
	return rep, nil
}

// Last returns the n most recently scanned records in scan order.
func (e *Engine) Last(n int) ([]model.MatchRecord, error) {
	if n < 0 || n > len(e.records) {
		return nil, ErrNotEnoughRecords
	}
	return e.records[len(e.records)-n:], nil
}

// Summary is the favorite and best value of one dimension.
type Summary[T ~uint8] struct {
	Favorite aggregator.Pick[T]
	Best     aggregator.Pick[T]
}

func summarize[T ~uint8](a *aggregator.Aggregator[T]) Summary[T] {
	return Summary[T]{Favorite: a.Favorite(), Best: a.Best()}
}

// Overview holds favorite/best picks for the characters played, opponents
// faced and stages played within a filter.
type Overview struct {
	Label      string
	Total      aggregator.WinLoss
	Characters Summary[model.Character]
	Opponents  Summary[model.Character]
	Stages     Summary[model.Stage]
}

// Overview summarizes the games matching f.
func (e *Engine) Overview(f Filter) (*Overview, error) {
	total, err := e.Winrate(f)
	if err != nil {
		return nil, err
	}
	return &Overview{
		Label:      f.Label(),
		Total:      total,
		Characters: summarize(e.Characters(f)),
		Opponents:  summarize(e.Matchups(f)),
		Stages:     summarize(e.Stages(f)),
	}, nil
}

func (e *Engine) each(f Filter, fn func(model.MatchRecord)) {
	for _, r := range e.records {
		if f.Matches(r) {
			fn(r)
		}
	}
}
