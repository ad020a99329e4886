package model

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func TestCharacterFromID(t *testing.T) {
	c, ok := Characters.FromID(0)
	if !ok || c != CaptainFalcon {
		t.Fatalf("FromID(0) = %v, %v; want Captain Falcon", c, ok)
	}
	if _, ok := Characters.FromID(26); ok {
		t.Error("id 26 must not be a selectable character")
	}
	if Characters.Len() != 26 {
		t.Errorf("expected 26 characters, got %d", Characters.Len())
	}
}

func TestCharacterParseAliases(t *testing.T) {
	cases := map[string]Character{
		"captain falcon":     CaptainFalcon,
		"Captain  Falcon":    CaptainFalcon,
		"FALCON":             CaptainFalcon,
		"gnw":                MrGameAndWatch,
		"Mr. Game and Watch": MrGameAndWatch,
		"puff":               Jigglypuff,
		"doc":                DrMario,
		" ganon ":            Ganondorf,
	}
	for in, want := range cases {
		got, err := ParseCharacter(in)
		if err != nil {
			t.Errorf("ParseCharacter(%q): %v", in, err)
			continue
		}
		if got != want {
			t.Errorf("ParseCharacter(%q) = %v, want %v", in, got, want)
		}
	}
	if _, err := ParseCharacter("waluigi"); err == nil {
		t.Error("expected error for unknown character")
	}
}

func TestStageFromID(t *testing.T) {
	s, ok := Stages.FromID(2)
	if !ok || s != FountainOfDreams {
		t.Fatalf("FromID(2) = %v, %v; want Fountain of Dreams", s, ok)
	}
	for _, id := range []int{0, 1, 21, 33, 255} {
		if _, ok := Stages.FromID(id); ok {
			t.Errorf("stage id %d should not be in the domain", id)
		}
	}
}

func TestStageDomainOrder(t *testing.T) {
	vals := Stages.Values()
	for i := 1; i < len(vals); i++ {
		if vals[i] <= vals[i-1] {
			t.Fatalf("stage domain not ascending at %d: %d after %d", i, vals[i], vals[i-1])
		}
	}
	if idx, ok := Stages.Index(FountainOfDreams); !ok || idx != 0 {
		t.Errorf("Fountain of Dreams should be index 0, got %d", idx)
	}
}

func TestReservedStageIDs(t *testing.T) {
	for _, id := range []int{0, 1, 21, 33} {
		if !IsReservedStageID(id) {
			t.Errorf("expected %d to be reserved", id)
		}
	}
	for _, id := range []int{2, 26, 31, 32} {
		if IsReservedStageID(id) {
			t.Errorf("expected %d to be valid", id)
		}
	}
}

func TestNewDomainPanicsOnDuplicateAlias(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for alias shared by two ids")
		}
	}()
	NewDomain("test", []Entry[Character]{
		{0, "One", []string{"x"}},
		{1, "Two", []string{"X"}},
	})
}

func TestOutcomeStrings(t *testing.T) {
	cases := []struct {
		o    Outcome
		want string
	}{
		{Victory(Stocks), "Won by stocks."},
		{Loss(Timeout), "Lost by timeout."},
		{EarlyEnd(2), "Match ended early by player 2."},
		{Tie(), "Ended in a tie."},
	}
	for _, c := range cases {
		if got := c.o.String(); got != c.want {
			t.Errorf("got %q, want %q", got, c.want)
		}
	}
}

func TestRecordJSON(t *testing.T) {
	rec := MatchRecord{
		PlayerCharacter:   Fox,
		OpponentCharacter: Marth,
		Stage:             Battlefield,
		Outcome:           EarlyEnd(2),
		Timestamp:         time.Date(2021, 1, 15, 2, 34, 12, 0, time.UTC),
	}
	b, err := json.Marshal(rec)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"player_character":2,"opponent_character":9,"stage":31,"outcome":{"result":"early_end","initiator":2},"timestamp":"2021-01-15T02:34:12Z"}`
	if string(b) != want {
		t.Errorf("json:\n got %s\nwant %s", b, want)
	}

	var back MatchRecord
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back.PlayerCharacter != rec.PlayerCharacter || back.OpponentCharacter != rec.OpponentCharacter ||
		back.Stage != rec.Stage || back.Outcome != rec.Outcome || !back.Timestamp.Equal(rec.Timestamp) {
		t.Errorf("round trip mismatch: %+v", back)
	}
	if back.String() != "Fox vs Marth on Battlefield. Match ended early by player 2." {
		t.Errorf("unexpected display %q", back.String())
	}
}

func TestRecordJSONRejectsInvalidIDs(t *testing.T) {
	var rec MatchRecord
	err := json.Unmarshal([]byte(`{"player_character":40,"opponent_character":1,"stage":31,"outcome":{"result":"tie"}}`), &rec)
	var charErr *CorruptedCharDataError
	if !errors.As(err, &charErr) || charErr.ID != 40 {
		t.Errorf("expected CorruptedCharDataError(40), got %v", err)
	}

	err = json.Unmarshal([]byte(`{"player_character":1,"opponent_character":1,"stage":21,"outcome":{"result":"tie"}}`), &rec)
	var stageErr *CorruptedStageDataError
	if !errors.As(err, &stageErr) || stageErr.ID != 21 {
		t.Errorf("expected CorruptedStageDataError(21), got %v", err)
	}
}
