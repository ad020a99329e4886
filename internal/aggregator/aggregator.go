// Package aggregator buckets match results by the values of a closed domain
// (characters, stages) and picks favorite and best values from the buckets.
package aggregator

import "github.com/pable/slp-stats/internal/model"

// MinBestGames is the sample size a bucket must exceed before it can be
// reported as best.
const MinBestGames = 20

// Domain is what an Aggregator needs from a value set: a fixed size and a
// total mapping between values and indices. *model.Domain satisfies it.
type Domain[T ~uint8] interface {
	Len() int
	At(i int) T
	Index(v T) (int, bool)
	Name(v T) string
}

// Aggregator holds one WinLoss bucket per domain value.
type Aggregator[T ~uint8] struct {
	domain  Domain[T]
	buckets []WinLoss
}

// Row is one non-empty bucket, for rendering.
type Row[T ~uint8] struct {
	Value T
	Label string
	WinLoss
}

// Pick is a favorite or best selection. OK is false when no bucket qualified.
type Pick[T ~uint8] struct {
	Value T
	Label string
	WinLoss
	OK bool
}

// New returns an empty aggregator over d.
func New[T ~uint8](d Domain[T]) *Aggregator[T] {
	return &Aggregator[T]{domain: d, buckets: make([]WinLoss, d.Len())}
}

// ForCharacters returns an aggregator bucketed by character.
func ForCharacters() *Aggregator[model.Character] { return New[model.Character](model.Characters) }

// ForStages returns an aggregator bucketed by stage.
func ForStages() *Aggregator[model.Stage] { return New[model.Stage](model.Stages) }

// AddGame records one game for v. Values outside the domain are ignored;
// records are validated before they reach an aggregator.
func (a *Aggregator[T]) AddGame(win bool, v T) {
	i, ok := a.domain.Index(v)
	if !ok {
		return
	}
	a.buckets[i].Add(win)
}

// Bucket returns the tally for v.
func (a *Aggregator[T]) Bucket(v T) WinLoss {
	i, ok := a.domain.Index(v)
	if !ok {
		return WinLoss{}
	}
	return a.buckets[i]
}

// Total sums every bucket.
func (a *Aggregator[T]) Total() WinLoss {
	var t WinLoss
	for _, b := range a.buckets {
		t.Games += b.Games
		t.Wins += b.Wins
	}
	return t
}

// Empty reports whether no game was recorded.
func (a *Aggregator[T]) Empty() bool { return a.Total().Games == 0 }

// Rows returns the buckets with at least one game, in domain order.
func (a *Aggregator[T]) Rows() []Row[T] {
	var rows []Row[T]
	for i, b := range a.buckets {
		if b.Games == 0 {
			continue
		}
		v := a.domain.At(i)
		rows = append(rows, Row[T]{Value: v, Label: a.domain.Name(v), WinLoss: b})
	}
	return rows
}

// Favorite returns the value with strictly the most games. Ties keep the
// lowest index.
func (a *Aggregator[T]) Favorite() Pick[T] {
	best := -1
	for i, b := range a.buckets {
		if b.Games == 0 {
			continue
		}
		if best < 0 || b.Games > a.buckets[best].Games {
			best = i
		}
	}
	return a.pick(best)
}

// Best returns the value with strictly the highest winrate among buckets
// with more than MinBestGames games. Ties keep the lowest index.
func (a *Aggregator[T]) Best() Pick[T] {
	best := -1
	var bestRate float64
	for i, b := range a.buckets {
		if b.Games <= MinBestGames {
			continue
		}
		rate, _ := b.Winrate()
		if best < 0 || rate > bestRate {
			best, bestRate = i, rate
		}
	}
	return a.pick(best)
}

func (a *Aggregator[T]) pick(i int) Pick[T] {
	if i < 0 {
		return Pick[T]{}
	}
	v := a.domain.At(i)
	return Pick[T]{Value: v, Label: a.domain.Name(v), WinLoss: a.buckets[i], OK: true}
}
