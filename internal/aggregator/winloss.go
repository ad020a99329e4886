package aggregator

import "fmt"

// WinLoss is a running tally of games and wins. 0 <= Wins <= Games.
type WinLoss struct {
	Games int
	Wins  int
}

// Add records one game.
func (w *WinLoss) Add(win bool) {
	w.Games++
	if win {
		w.Wins++
	}
}

// Winrate returns wins/games*100. ok is false when no games were played.
func (w WinLoss) Winrate() (rate float64, ok bool) {
	if w.Games == 0 {
		return 0, false
	}
	return float64(w.Wins) / float64(w.Games) * 100, true
}

// Losses counts every non-win, including ties and early ends.
func (w WinLoss) Losses() int { return w.Games - w.Wins }

func (w WinLoss) String() string {
	rate, ok := w.Winrate()
	if !ok {
		return "no games"
	}
	return fmt.Sprintf("won %d of %d games (%.2f%%)", w.Wins, w.Games, rate)
}
