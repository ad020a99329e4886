package classifier

import (
	"errors"
	"testing"
	"time"

	"github.com/pable/slp-stats/internal/model"
)

const (
	me  = "FLOS#497"
	opp = "ABCD#123"
)

// makeGame builds a two-player game where the tracked player sits in slot
// mySlot and the final frame carries the given stocks/percent pairs.
func makeGame(mySlot int, myStocks, oppStocks int, myPct, oppPct float32) *model.Game {
	players := []model.PlayerMeta{{Port: 1, Code: opp}, {Port: 2, Code: opp}}
	players[mySlot].Code = me

	ports := make([]model.PortState, 2)
	ports[mySlot] = model.PortState{Stocks: myStocks, Percent: myPct}
	ports[1-mySlot] = model.PortState{Stocks: oppStocks, Percent: oppPct}

	return &model.Game{
		Path:    "Game_20210115T023412.slp",
		StartAt: time.Date(2021, 1, 15, 2, 34, 12, 0, time.UTC),
		Players: players,
		Starts: []model.PlayerStart{
			{Port: 1, CharacterID: int(model.Fox)},
			{Port: 2, CharacterID: int(model.Marth)},
		},
		StageID: int(model.Battlefield),
		Frames: []model.Frame{
			{Index: -123, Ports: []model.PortState{{Stocks: 4}, {Stocks: 4}}},
			{Index: 5000, Ports: ports},
		},
	}
}

func TestResolveSlot(t *testing.T) {
	for slot := 0; slot < 2; slot++ {
		g := makeGame(slot, 1, 0, 0, 0)
		got, err := ResolveSlot(g, me)
		if err != nil {
			t.Fatalf("slot %d: %v", slot, err)
		}
		if got != slot {
			t.Errorf("expected slot %d, got %d", slot, got)
		}
	}
}

func TestResolveSlotErrors(t *testing.T) {
	g := makeGame(0, 1, 0, 0, 0)
	g.Players = append(g.Players, model.PlayerMeta{Port: 3, Code: "XYZ#1"})
	if _, err := ResolveSlot(g, me); !errors.Is(err, model.ErrIncorrectPlayerCount) {
		t.Errorf("three players: expected ErrIncorrectPlayerCount, got %v", err)
	}

	g = makeGame(0, 1, 0, 0, 0)
	g.Players[1].Code = ""
	if _, err := ResolveSlot(g, me); !errors.Is(err, model.ErrCorruptedPlayerData) {
		t.Errorf("missing code: expected ErrCorruptedPlayerData, got %v", err)
	}

	g = makeGame(0, 1, 0, 0, 0)
	if _, err := ResolveSlot(g, "NOPE#000"); !errors.Is(err, model.ErrGameDoesNotContainPlayer) {
		t.Errorf("absent player: expected ErrGameDoesNotContainPlayer, got %v", err)
	}
}

func TestHasPlayer(t *testing.T) {
	g := makeGame(1, 1, 0, 0, 0)
	ok, err := HasPlayer(g, me)
	if err != nil || !ok {
		t.Errorf("HasPlayer(me) = %v, %v", ok, err)
	}
	ok, err = HasPlayer(g, "NOPE#000")
	if err != nil || ok {
		t.Errorf("HasPlayer(other) = %v, %v; want false, nil", ok, err)
	}
	g.Players[0].Code = ""
	if _, err := HasPlayer(g, me); !errors.Is(err, model.ErrCorruptedPlayerData) {
		t.Errorf("expected ErrCorruptedPlayerData, got %v", err)
	}
}

func TestClassifyOutcome(t *testing.T) {
	cases := []struct {
		name                string
		myStocks, oppStocks int
		myPct, oppPct       float32
		want                model.Outcome
	}{
		{"more stocks wins", 2, 0, 80, 10, model.Victory(model.Stocks)},
		{"fewer stocks loses", 0, 3, 0, 150, model.Loss(model.Stocks)},
		{"timeout less damage wins", 1, 1, 45.0, 60.0, model.Victory(model.Timeout)},
		{"timeout more damage loses", 1, 1, 60.0, 45.0, model.Loss(model.Timeout)},
		{"equal everything ties", 1, 1, 30.0, 30.0, model.Tie()},
	}
	for _, c := range cases {
		for slot := 0; slot < 2; slot++ {
			g := makeGame(slot, c.myStocks, c.oppStocks, c.myPct, c.oppPct)
			got, err := ClassifyOutcome(g, slot)
			if err != nil {
				t.Fatalf("%s (slot %d): %v", c.name, slot, err)
			}
			if got != c.want {
				t.Errorf("%s (slot %d): got %v, want %v", c.name, slot, got, c.want)
			}
		}
	}
}

func TestEarlyEndPreemptsStocksAndDamage(t *testing.T) {
	// Equal stocks and damage would be a tie; more stocks would be a win.
	for _, g := range []*model.Game{
		makeGame(0, 1, 1, 30, 30),
		makeGame(0, 4, 1, 0, 90),
	} {
		g.Termination = &model.Termination{Initiator: 2}
		got, err := ClassifyOutcome(g, 0)
		if err != nil {
			t.Fatalf("ClassifyOutcome: %v", err)
		}
		if got != model.EarlyEnd(2) {
			t.Errorf("expected EarlyEnd(2), got %v", got)
		}
	}
}

func TestClassifyOutcomeWrongFrameShape(t *testing.T) {
	g := makeGame(0, 1, 0, 0, 0)
	g.Frames[len(g.Frames)-1].Ports = append(g.Frames[len(g.Frames)-1].Ports, model.PortState{})
	if _, err := ClassifyOutcome(g, 0); !errors.Is(err, model.ErrIncorrectPlayerCount) {
		t.Errorf("expected ErrIncorrectPlayerCount, got %v", err)
	}

	g.Frames = nil
	if _, err := ClassifyOutcome(g, 0); !errors.Is(err, model.ErrIncorrectPlayerCount) {
		t.Errorf("no frames: expected ErrIncorrectPlayerCount, got %v", err)
	}
}

func TestClassify(t *testing.T) {
	g := makeGame(1, 2, 0, 10, 0)
	rec, err := Classify(g, me)
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if rec.PlayerCharacter != model.Marth || rec.OpponentCharacter != model.Fox {
		t.Errorf("characters: got %v vs %v", rec.PlayerCharacter, rec.OpponentCharacter)
	}
	if rec.Stage != model.Battlefield {
		t.Errorf("stage: got %v", rec.Stage)
	}
	if rec.Outcome != model.Victory(model.Stocks) {
		t.Errorf("outcome: got %v", rec.Outcome)
	}
	if !rec.Timestamp.Equal(g.StartAt) {
		t.Errorf("timestamp: got %v", rec.Timestamp)
	}
}

func TestClassifyInvalidCharacter(t *testing.T) {
	g := makeGame(0, 2, 0, 0, 0)
	g.Starts[1].CharacterID = 27
	_, err := Classify(g, me)
	var charErr *model.CorruptedCharDataError
	if !errors.As(err, &charErr) || charErr.ID != 27 {
		t.Errorf("expected CorruptedCharDataError(27), got %v", err)
	}

	g = makeGame(0, 2, 0, 0, 0)
	g.Starts = g.Starts[:1]
	if _, err := Classify(g, me); !errors.Is(err, model.ErrEmptyCharData) {
		t.Errorf("expected ErrEmptyCharData, got %v", err)
	}
}

func TestValidateStage(t *testing.T) {
	for _, id := range []int{0, 1, 21, 33, 200} {
		_, err := ValidateStage(id)
		var stageErr *model.CorruptedStageDataError
		if !errors.As(err, &stageErr) || stageErr.ID != id {
			t.Errorf("stage %d: expected CorruptedStageDataError(%d), got %v", id, id, err)
		}
	}
	s, err := ValidateStage(26)
	if err != nil || s != model.Icetop {
		t.Errorf("stage 26: got %v, %v", s, err)
	}
}

func TestClassifyReservedStage(t *testing.T) {
	g := makeGame(0, 2, 0, 0, 0)
	g.StageID = 21
	_, err := Classify(g, me)
	var stageErr *model.CorruptedStageDataError
	if !errors.As(err, &stageErr) || stageErr.ID != 21 {
		t.Errorf("expected CorruptedStageDataError(21), got %v", err)
	}
}
