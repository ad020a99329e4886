package model

import "fmt"

// EndCause says how a decided match ended.
type EndCause uint8

const (
	CauseNone EndCause = iota
	Stocks
	Timeout
)

func (c EndCause) String() string {
	switch c {
	case Stocks:
		return "stocks"
	case Timeout:
		return "timeout"
	default:
		return ""
	}
}

func (c EndCause) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

func (c *EndCause) UnmarshalText(b []byte) error {
	switch string(b) {
	case "stocks":
		*c = Stocks
	case "timeout":
		*c = Timeout
	case "":
		*c = CauseNone
	default:
		return fmt.Errorf("unknown end cause %q", b)
	}
	return nil
}

// Result is the tag of an Outcome.
type Result uint8

const (
	ResultUnknown Result = iota
	ResultVictory
	ResultLoss
	ResultEarlyEnd
	ResultTie
)

func (r Result) String() string {
	switch r {
	case ResultVictory:
		return "victory"
	case ResultLoss:
		return "loss"
	case ResultEarlyEnd:
		return "early_end"
	case ResultTie:
		return "tie"
	default:
		return "unknown"
	}
}

func (r Result) MarshalText() ([]byte, error) { return []byte(r.String()), nil }

func (r *Result) UnmarshalText(b []byte) error {
	switch string(b) {
	case "victory":
		*r = ResultVictory
	case "loss":
		*r = ResultLoss
	case "early_end":
		*r = ResultEarlyEnd
	case "tie":
		*r = ResultTie
	default:
		return fmt.Errorf("unknown match result %q", b)
	}
	return nil
}

// Outcome is the tracked player's result for one match.
//
//	Victory(cause) | Loss(cause) | EarlyEnd(initiator) | Tie
//
// Cause is set only for Victory and Loss; Initiator (a 1-based port number)
// only for EarlyEnd.
type Outcome struct {
	Result    Result   `json:"result"`
	Cause     EndCause `json:"end_cause,omitempty"`
	Initiator int      `json:"initiator,omitempty"`
}

func Victory(cause EndCause) Outcome { return Outcome{Result: ResultVictory, Cause: cause} }

func Loss(cause EndCause) Outcome { return Outcome{Result: ResultLoss, Cause: cause} }

func EarlyEnd(initiator int) Outcome { return Outcome{Result: ResultEarlyEnd, Initiator: initiator} }

func Tie() Outcome { return Outcome{Result: ResultTie} }

// IsVictory reports whether the outcome counts as a win. Early ends and ties
// count as played games but not wins.
func (o Outcome) IsVictory() bool { return o.Result == ResultVictory }

func (o Outcome) String() string {
	switch o.Result {
	case ResultVictory:
		return fmt.Sprintf("Won by %s.", o.Cause)
	case ResultLoss:
		return fmt.Sprintf("Lost by %s.", o.Cause)
	case ResultEarlyEnd:
		return fmt.Sprintf("Match ended early by player %d.", o.Initiator)
	case ResultTie:
		return "Ended in a tie."
	default:
		return "Unknown result."
	}
}
