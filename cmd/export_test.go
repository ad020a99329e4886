package cmd

import (
	"testing"
	"time"

	"github.com/pable/slp-stats/internal/model"
	"github.com/pable/slp-stats/internal/storage"
)

func TestVerifyMirror(t *testing.T) {
	db, err := storage.Open(":memory:")
	if err != nil {
		t.Fatalf("open in-memory db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	t0 := time.Date(2021, 1, 15, 2, 0, 0, 0, time.UTC)
	recs := []model.MatchRecord{
		{PlayerCharacter: model.Fox, OpponentCharacter: model.Marth, Stage: model.Battlefield,
			Outcome: model.Victory(model.Stocks), Timestamp: t0},
		{PlayerCharacter: model.Falco, OpponentCharacter: model.Sheik, Stage: model.YoshisStory,
			Outcome: model.EarlyEnd(2), Timestamp: t0.Add(time.Minute)},
	}
	if err := db.ReplaceMatches("FLOS#497", recs); err != nil {
		t.Fatal(err)
	}
	if err := verifyMirror(db, "FLOS#497", recs); err != nil {
		t.Errorf("verifyMirror on a fresh mirror: %v", err)
	}

	if err := db.ReplaceMatches("FLOS#497", recs[:1]); err != nil {
		t.Fatal(err)
	}
	if err := verifyMirror(db, "FLOS#497", recs); err == nil {
		t.Error("expected a count mismatch")
	}

	changed := []model.MatchRecord{recs[0]}
	changed[0].Outcome = model.Loss(model.Stocks)
	if err := verifyMirror(db, "FLOS#497", changed); err == nil {
		t.Error("expected a row mismatch")
	}
}
