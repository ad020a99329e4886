// Package parser decodes Slippi .slp replay files into model.Game.
package parser

import (
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/pable/slp-stats/internal/model"
)

// Event command bytes in the raw replay stream.
const (
	cmdEventPayloads = 0x35
	cmdGameStart     = 0x36
	cmdPostFrame     = 0x38
	cmdGameEnd       = 0x39
)

// Byte offsets inside events, counted from the command byte.
const (
	offStage          = 0x13
	offPlayerChar     = 0x65
	offPlayerType     = 0x66
	playerBlockStride = 0x24

	offFrameNumber = 0x01
	offPlayerIndex = 0x05
	offIsFollower  = 0x06
	offPercent     = 0x16
	offStocks      = 0x21

	offLRAS = 0x02
)

const (
	playerTypeEmpty = 3
	maxPorts        = 4
)

// Decoder reads .slp files from disk.
type Decoder struct{}

// Decode implements corpus.Decoder.
func (Decoder) Decode(path string, skipFrames bool) (*model.Game, error) {
	return ParseReplay(path, skipFrames)
}

// ParseReplay decodes the replay at path. With skipFrames set only the game
// start block and metadata are read; Frames and Termination stay empty.
func ParseReplay(path string, skipFrames bool) (*model.Game, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &model.DecodeError{Path: path, Err: err}
	}
	g, err := Parse(data, skipFrames)
	if err != nil {
		return nil, &model.DecodeError{Path: path, Err: err}
	}
	g.Path = path
	return g, nil
}

// Parse decodes an in-memory replay.
func Parse(data []byte, skipFrames bool) (*model.Game, error) {
	u := &ubjson{buf: data}
	if m, err := u.marker(); err != nil || m != '{' {
		return nil, fmt.Errorf("not a replay: missing top-level object")
	}
	root, err := u.object()
	if err != nil {
		return nil, fmt.Errorf("read envelope: %w", err)
	}
	raw, ok := root["raw"].([]byte)
	if !ok {
		return nil, fmt.Errorf("replay has no raw event stream")
	}

	g := &model.Game{}
	ports, err := parseEvents(raw, g, skipFrames)
	if err != nil {
		return nil, err
	}

	meta, _ := root["metadata"].(map[string]any)
	if err := applyMetadata(g, meta, ports); err != nil {
		return nil, err
	}
	return g, nil
}

// parseEvents walks the raw event stream and returns the participating
// ports (0-based) in ascending order.
func parseEvents(raw []byte, g *model.Game, skipFrames bool) ([]int, error) {
	sizes, pos, err := payloadSizes(raw)
	if err != nil {
		return nil, err
	}

	var (
		ports    []int
		slotOf   = make(map[int]int, maxPorts)
		sawStart bool
	)

	for pos < len(raw) {
		cmd := raw[pos]
		size, ok := sizes[cmd]
		if !ok {
			return nil, fmt.Errorf("unknown event 0x%02x at %d", cmd, pos)
		}
		end := pos + 1 + size
		if end > len(raw) {
			return nil, fmt.Errorf("event 0x%02x at %d truncated", cmd, pos)
		}
		ev := raw[pos:end]
		pos = end

		switch cmd {
		case cmdGameStart:
			if ports, err = parseGameStart(ev, g); err != nil {
				return nil, err
			}
			for slot, port := range ports {
				slotOf[port] = slot
			}
			sawStart = true
			if skipFrames {
				return ports, nil
			}
		case cmdPostFrame:
			if !sawStart || len(ev) <= offStocks || ev[offIsFollower] != 0 {
				continue
			}
			slot, ok := slotOf[int(ev[offPlayerIndex])]
			if !ok {
				continue
			}
			idx := int(int32(binary.BigEndian.Uint32(ev[offFrameNumber:])))
			f := frameAt(g, idx, len(ports))
			f.Ports[slot] = model.PortState{
				Stocks:  int(ev[offStocks]),
				Percent: math.Float32frombits(binary.BigEndian.Uint32(ev[offPercent:])),
			}
		case cmdGameEnd:
			if len(ev) > offLRAS {
				if initiator := int8(ev[offLRAS]); initiator >= 0 {
					g.Termination = &model.Termination{Initiator: int(initiator) + 1}
				}
			}
		}
	}

	if !sawStart {
		return nil, fmt.Errorf("replay has no game start event")
	}
	return ports, nil
}

// payloadSizes reads the leading Event Payloads event, which gives the
// payload size of every other command.
func payloadSizes(raw []byte) (map[byte]int, int, error) {
	if len(raw) < 2 || raw[0] != cmdEventPayloads {
		return nil, 0, fmt.Errorf("raw stream does not start with event payloads")
	}
	size := int(raw[1])
	if 1+size > len(raw) {
		return nil, 0, fmt.Errorf("event payloads truncated")
	}
	sizes := map[byte]int{cmdEventPayloads: size}
	for i := 2; i+2 < 1+size; i += 3 {
		sizes[raw[i]] = int(binary.BigEndian.Uint16(raw[i+1:]))
	}
	return sizes, 1 + size, nil
}

func parseGameStart(ev []byte, g *model.Game) ([]int, error) {
	need := offPlayerType + playerBlockStride*(maxPorts-1)
	if len(ev) <= need {
		return nil, fmt.Errorf("game start event too short: %d bytes", len(ev))
	}
	g.StageID = int(binary.BigEndian.Uint16(ev[offStage:]))

	var ports []int
	for port := 0; port < maxPorts; port++ {
		if ev[offPlayerType+playerBlockStride*port] == playerTypeEmpty {
			continue
		}
		ports = append(ports, port)
		g.Starts = append(g.Starts, model.PlayerStart{
			Port:        port + 1,
			CharacterID: int(ev[offPlayerChar+playerBlockStride*port]),
		})
	}
	return ports, nil
}

// frameAt returns the frame for idx, appending a new one if idx is past the
// end. Rollback replays re-send earlier frames; those truncate everything
// after them so the last frame is always the final confirmed state.
func frameAt(g *model.Game, idx, nports int) *model.Frame {
	n := len(g.Frames)
	if n > 0 && g.Frames[n-1].Index == idx {
		return &g.Frames[n-1]
	}
	if n > 0 && g.Frames[n-1].Index > idx {
		cut := sort.Search(n, func(i int) bool { return g.Frames[i].Index >= idx })
		if cut < n && g.Frames[cut].Index == idx {
			g.Frames = g.Frames[:cut+1]
			return &g.Frames[cut]
		}
		g.Frames = g.Frames[:cut]
	}
	g.Frames = append(g.Frames, model.Frame{Index: idx, Ports: make([]model.PortState, nports)})
	return &g.Frames[len(g.Frames)-1]
}

func applyMetadata(g *model.Game, meta map[string]any, ports []int) error {
	if meta == nil {
		return nil
	}
	if s, ok := meta["startAt"].(string); ok && s != "" {
		t, err := parseStartAt(s)
		if err != nil {
			return fmt.Errorf("metadata startAt: %w", err)
		}
		g.StartAt = t
	}

	players, _ := meta["players"].(map[string]any)
	for _, port := range ports {
		pm := model.PlayerMeta{Port: port + 1}
		if p, ok := players[strconv.Itoa(port)].(map[string]any); ok {
			if names, ok := p["names"].(map[string]any); ok {
				pm.Code, _ = names["code"].(string)
			}
		}
		g.Players = append(g.Players, pm)
	}
	return nil
}

// parseStartAt accepts RFC 3339 and the zone-less form older Slippi
// versions wrote (interpreted as UTC).
func parseStartAt(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02T15:04:05", s)
}
