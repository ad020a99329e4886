package parser

import (
	"encoding/binary"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pable/slp-stats/internal/model"
)

const (
	gameStartSize = 0x1A0
	postFrameSize = 0x40
	gameEndSize   = 0x02
)

func ubKey(s string) []byte {
	return append([]byte{'U', byte(len(s))}, s...)
}

func ubStr(s string) []byte {
	return append([]byte{'S'}, ubKey(s)...)
}

func payloadsEvent() []byte {
	ev := []byte{cmdEventPayloads, 10}
	for _, e := range []struct {
		cmd  byte
		size uint16
	}{{cmdGameStart, gameStartSize}, {cmdPostFrame, postFrameSize}, {cmdGameEnd, gameEndSize}} {
		ev = append(ev, e.cmd, byte(e.size>>8), byte(e.size))
	}
	return ev
}

func gameStartEvent(stage uint16, chars map[int]byte) []byte {
	ev := make([]byte, 1+gameStartSize)
	ev[0] = cmdGameStart
	binary.BigEndian.PutUint16(ev[offStage:], stage)
	for port := 0; port < maxPorts; port++ {
		ev[offPlayerType+playerBlockStride*port] = playerTypeEmpty
	}
	for port, c := range chars {
		ev[offPlayerType+playerBlockStride*port] = 0
		ev[offPlayerChar+playerBlockStride*port] = c
	}
	return ev
}

func postFrameEvent(frame int32, port byte, follower bool, stocks byte, pct float32) []byte {
	ev := make([]byte, 1+postFrameSize)
	ev[0] = cmdPostFrame
	binary.BigEndian.PutUint32(ev[offFrameNumber:], uint32(frame))
	ev[offPlayerIndex] = port
	if follower {
		ev[offIsFollower] = 1
	}
	binary.BigEndian.PutUint32(ev[offPercent:], math.Float32bits(pct))
	ev[offStocks] = stocks
	return ev
}

func gameEndEvent(lras int8) []byte {
	return []byte{cmdGameEnd, 2, byte(lras)}
}

func metadataObject(startAt string, codes map[int]string) []byte {
	b := []byte{'{'}
	b = append(b, ubKey("startAt")...)
	b = append(b, ubStr(startAt)...)
	b = append(b, ubKey("players")...)
	b = append(b, '{')
	for port := 0; port < maxPorts; port++ {
		code, ok := codes[port]
		if !ok {
			continue
		}
		b = append(b, ubKey(string(rune('0'+port)))...)
		b = append(b, '{')
		b = append(b, ubKey("names")...)
		b = append(b, '{')
		b = append(b, ubKey("netplay")...)
		b = append(b, ubStr("player")...)
		if code != "" {
			b = append(b, ubKey("code")...)
			b = append(b, ubStr(code)...)
		}
		b = append(b, '}', '}')
	}
	b = append(b, '}', '}')
	return b
}

func envelope(raw, metadata []byte) []byte {
	b := []byte{'{'}
	b = append(b, ubKey("raw")...)
	b = append(b, '[', '$', 'U', '#', 'l', 0, 0, 0, 0)
	binary.BigEndian.PutUint32(b[len(b)-4:], uint32(len(raw)))
	b = append(b, raw...)
	b = append(b, ubKey("metadata")...)
	b = append(b, metadata...)
	return append(b, '}')
}

// buildReplay assembles a two-player replay on ports 1 and 2 (0-based 0 and 1).
func buildReplay(lras int8) []byte {
	var raw []byte
	raw = append(raw, payloadsEvent()...)
	raw = append(raw, gameStartEvent(uint16(model.Battlefield), map[int]byte{0: byte(model.Fox), 1: byte(model.Marth)})...)
	raw = append(raw, postFrameEvent(-123, 0, false, 4, 0)...)
	raw = append(raw, postFrameEvent(-123, 1, false, 4, 0)...)
	raw = append(raw, postFrameEvent(-122, 0, false, 3, 12.5)...)
	raw = append(raw, postFrameEvent(-122, 1, false, 2, 40)...)
	// Rollback: frame -122 re-sent with corrected values.
	raw = append(raw, postFrameEvent(-122, 0, false, 2, 45)...)
	raw = append(raw, postFrameEvent(-122, 1, false, 2, 60)...)
	raw = append(raw, gameEndEvent(lras)...)
	return envelope(raw, metadataObject("2021-01-15T02:34:12Z", map[int]string{0: "FLOS#497", 1: "ABCD#123"}))
}

func TestParseFull(t *testing.T) {
	g, err := Parse(buildReplay(-1), false)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if g.StageID != int(model.Battlefield) {
		t.Errorf("stage: got %d", g.StageID)
	}
	if len(g.Starts) != 2 || g.Starts[0].CharacterID != int(model.Fox) || g.Starts[1].CharacterID != int(model.Marth) {
		t.Errorf("starts: %+v", g.Starts)
	}
	if len(g.Players) != 2 || g.Players[0].Code != "FLOS#497" || g.Players[1].Code != "ABCD#123" {
		t.Errorf("players: %+v", g.Players)
	}
	want := time.Date(2021, 1, 15, 2, 34, 12, 0, time.UTC)
	if !g.StartAt.Equal(want) {
		t.Errorf("startAt: got %v", g.StartAt)
	}
	if len(g.Frames) != 2 {
		t.Fatalf("expected 2 frames after rollback, got %d", len(g.Frames))
	}
	last := g.LastFrame()
	if last.Ports[0] != (model.PortState{Stocks: 2, Percent: 45}) || last.Ports[1] != (model.PortState{Stocks: 2, Percent: 60}) {
		t.Errorf("last frame: %+v", last.Ports)
	}
	if g.Termination != nil {
		t.Errorf("expected no termination, got %+v", g.Termination)
	}
}

func TestParseTermination(t *testing.T) {
	g, err := Parse(buildReplay(1), false)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if g.Termination == nil || g.Termination.Initiator != 2 {
		t.Errorf("expected LRAS initiator port 2, got %+v", g.Termination)
	}
}

func TestParseSkipFrames(t *testing.T) {
	g, err := Parse(buildReplay(1), true)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if g.Frames != nil || g.Termination != nil {
		t.Errorf("metadata-only decode should carry no frame data: %d frames, %+v", len(g.Frames), g.Termination)
	}
	if len(g.Players) != 2 || g.StartAt.IsZero() {
		t.Errorf("metadata missing: %+v", g)
	}
}

func TestParseFollowerIgnored(t *testing.T) {
	var raw []byte
	raw = append(raw, payloadsEvent()...)
	raw = append(raw, gameStartEvent(uint16(model.FinalDestination), map[int]byte{0: byte(model.IceClimbers), 2: byte(model.Fox)})...)
	raw = append(raw, postFrameEvent(10, 0, false, 1, 20)...)
	raw = append(raw, postFrameEvent(10, 0, true, 0, 99)...)
	raw = append(raw, postFrameEvent(10, 2, false, 1, 30)...)
	raw = append(raw, gameEndEvent(-1)...)
	data := envelope(raw, metadataObject("2021-01-15T02:34:12Z", map[int]string{0: "A#1", 2: "B#2"}))

	g, err := Parse(data, false)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(g.Players) != 2 || g.Players[1].Port != 3 || g.Players[1].Code != "B#2" {
		t.Errorf("players: %+v", g.Players)
	}
	last := g.LastFrame()
	if last.Ports[0] != (model.PortState{Stocks: 1, Percent: 20}) {
		t.Errorf("follower overwrote leader state: %+v", last.Ports[0])
	}
}

func TestParseReplayWrapsDecodeError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.slp")
	if err := os.WriteFile(path, []byte("not a replay"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := ParseReplay(path, true)
	var decErr *model.DecodeError
	if !errors.As(err, &decErr) || decErr.Path != path {
		t.Errorf("expected DecodeError for %s, got %v", path, err)
	}
}
