package aggregator

import (
	"math"
	"testing"

	"github.com/pable/slp-stats/internal/model"
)

// addN records wins victories and losses defeats for v.
func addN[T ~uint8](a *Aggregator[T], v T, wins, losses int) {
	for i := 0; i < wins; i++ {
		a.AddGame(true, v)
	}
	for i := 0; i < losses; i++ {
		a.AddGame(false, v)
	}
}

// ---- WinLoss ----

func TestWinrate(t *testing.T) {
	w := WinLoss{Games: 8, Wins: 3}
	rate, ok := w.Winrate()
	if !ok || math.Abs(rate-37.5) > 1e-9 {
		t.Errorf("expected 37.5%%, got %v (ok=%v)", rate, ok)
	}
	if w.Losses() != 5 {
		t.Errorf("expected 5 losses, got %d", w.Losses())
	}
}

func TestWinrateNoGames(t *testing.T) {
	if _, ok := (WinLoss{}).Winrate(); ok {
		t.Error("winrate of zero games should be undefined")
	}
}

// ---- Buckets ----

func TestAddGameBuckets(t *testing.T) {
	a := ForCharacters()
	addN(a, model.Fox, 2, 1)
	addN(a, model.Marth, 0, 4)

	if got := a.Bucket(model.Fox); got != (WinLoss{Games: 3, Wins: 2}) {
		t.Errorf("fox bucket: %+v", got)
	}
	if got := a.Bucket(model.Marth); got != (WinLoss{Games: 4, Wins: 0}) {
		t.Errorf("marth bucket: %+v", got)
	}
	if got := a.Total(); got != (WinLoss{Games: 7, Wins: 2}) {
		t.Errorf("total: %+v", got)
	}
}

func TestRowsDomainOrder(t *testing.T) {
	a := ForStages()
	addN(a, model.PokemonStadium, 1, 0)
	addN(a, model.FountainOfDreams, 0, 1)
	addN(a, model.Battlefield, 1, 1)

	rows := a.Rows()
	want := []model.Stage{model.FountainOfDreams, model.PokemonStadium, model.Battlefield}
	if len(rows) != len(want) {
		t.Fatalf("expected %d rows, got %d", len(want), len(rows))
	}
	for i, r := range rows {
		if r.Value != want[i] {
			t.Errorf("row %d: got %v, want %v", i, r.Value, want[i])
		}
	}
	if rows[2].Label != "Battlefield" {
		t.Errorf("label: got %q", rows[2].Label)
	}
}

func TestEmpty(t *testing.T) {
	a := ForCharacters()
	if !a.Empty() {
		t.Error("new aggregator should be empty")
	}
	if a.Favorite().OK || a.Best().OK {
		t.Error("empty aggregator should have no favorite or best")
	}
}

// ---- Favorite ----

func TestFavoriteMostGames(t *testing.T) {
	a := ForCharacters()
	addN(a, model.Fox, 1, 14)
	addN(a, model.Marth, 10, 0)

	fav := a.Favorite()
	if !fav.OK || fav.Value != model.Fox || fav.Games != 15 {
		t.Errorf("expected Fox with 15 games, got %+v", fav)
	}
}

func TestFavoriteTieKeepsLowestIndex(t *testing.T) {
	a := ForCharacters()
	addN(a, model.Marth, 5, 0)
	addN(a, model.Fox, 5, 0)

	// Fox (2) precedes Marth (9) in the character domain.
	if fav := a.Favorite(); fav.Value != model.Fox {
		t.Errorf("expected Fox on tie, got %v", fav.Value)
	}
}

// ---- Best ----

func TestBestRequiresSample(t *testing.T) {
	a := ForCharacters()
	addN(a, model.Marth, 20, 0) // 100% but exactly MinBestGames games
	addN(a, model.Fox, 11, 10)  // 21 games, 52%

	best := a.Best()
	if !best.OK || best.Value != model.Fox {
		t.Errorf("expected Fox as only qualifying bucket, got %+v", best)
	}
}

func TestBestNoneQualify(t *testing.T) {
	a := ForStages()
	addN(a, model.Battlefield, 20, 0)
	if a.Best().OK {
		t.Error("no bucket exceeds the sample size; best should be absent")
	}
}

func TestBestHighestWinrate(t *testing.T) {
	a := ForStages()
	addN(a, model.Battlefield, 15, 10)
	addN(a, model.DreamLandN64, 20, 5)
	addN(a, model.YoshisStory, 20, 5)

	// Yoshi's Story (8) precedes Dream Land (28) in the stage domain.
	best := a.Best()
	if best.Value != model.YoshisStory {
		t.Errorf("expected Yoshi's Story (first of tied 80%%), got %v", best.Value)
	}
	if rate, _ := best.Winrate(); math.Abs(rate-80) > 1e-9 {
		t.Errorf("expected 80%%, got %v", rate)
	}
}

func TestAddGameIgnoresUnknownValue(t *testing.T) {
	a := ForStages()
	a.AddGame(true, model.Stage(21))
	if !a.Empty() {
		t.Error("reserved stage id should not be counted")
	}
}
