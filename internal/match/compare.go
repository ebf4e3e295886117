package match

import (
	"context"
	"fmt"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/janpfeifer/connect4go/internal/players"
	. "github.com/janpfeifer/connect4go/internal/state"
	"golang.org/x/sync/errgroup"
	"k8s.io/klog/v2"
)

// Tally accumulates the results of matches between two AIs, identified by their index (0 or 1) in
// the comparison. It is safe for concurrent use.
type Tally struct {
	mu    sync.Mutex
	start time.Time

	// Names of the 2 AIs compared.
	Names [2]string

	// WinsAs1st and WinsAs2nd for each AI.
	WinsAs1st, WinsAs2nd [2]int

	// Draws indexed by the AI that played first.
	Draws [2]int

	// ThinkingTime and NumMoves for each AI, over all matches.
	ThinkingTime [2]time.Duration
	NumMoves     [2]int

	Played, Total int
}

// NewTally creates a Tally for total matches between AIs with the given names.
func NewTally(names [2]string, total int) *Tally {
	return &Tally{start: time.Now(), Names: names, Total: total}
}

// Add the result of a match where the AI with index firstAI played first.
func (t *Tally) Add(result *Result, firstAI int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	aiOf := func(p PlayerNum) int {
		if p == PlayerFirst {
			return firstAI
		}
		return 1 - firstAI
	}
	switch result.Winner {
	case PlayerInvalid:
		t.Draws[firstAI]++
	case PlayerFirst:
		t.WinsAs1st[aiOf(PlayerFirst)]++
	case PlayerSecond:
		t.WinsAs2nd[aiOf(PlayerSecond)]++
	}
	for _, p := range []PlayerNum{PlayerFirst, PlayerSecond} {
		t.ThinkingTime[aiOf(p)] += result.ThinkingTime[p]
		t.NumMoves[aiOf(p)] += result.NumMoves[p]
	}
	t.Played++
}

// Wins of the AI, either as first or second player.
func (t *Tally) Wins(ai int) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.WinsAs1st[ai] + t.WinsAs2nd[ai]
}

// WinRate of the AI over the played matches.
func (t *Tally) WinRate(ai int) float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.Played == 0 {
		return 0
	}
	return float64(t.WinsAs1st[ai]+t.WinsAs2nd[ai]) / float64(t.Played)
}

// DrawRate over the played matches.
func (t *Tally) DrawRate() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.Played == 0 {
		return 0
	}
	return float64(t.Draws[0]+t.Draws[1]) / float64(t.Played)
}

// AverageMoveTime of the AI over all its moves.
func (t *Tally) AverageMoveTime(ai int) time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.NumMoves[ai] == 0 {
		return 0
	}
	return t.ThinkingTime[ai] / time.Duration(t.NumMoves[ai])
}

// String implements fmt.Stringer, with a one line summary.
func (t *Tally) String() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	var parts []string
	parts = append(parts, fmt.Sprintf("Played %d of %d: ", t.Played, t.Total))
	for ai := range 2 {
		wins := t.WinsAs1st[ai] + t.WinsAs2nd[ai]
		parts = append(parts, fmt.Sprintf("AI-%d: %d Wins (1st: %d, 2nd: %d) / ",
			ai+1, wins, t.WinsAs1st[ai], t.WinsAs2nd[ai]))
	}
	parts = append(parts, fmt.Sprintf("%d draws (%d AI-1 as 1st, %d AI-2 as 1st) - ",
		t.Draws[0]+t.Draws[1], t.Draws[0], t.Draws[1]))
	parts = append(parts, time.Since(t.start).Round(time.Millisecond).String())
	return strings.Join(parts, "")
}

// Summary returns a multi-line report with the win rates and average time per move of each AI.
func (t *Tally) Summary() string {
	var sb strings.Builder
	for ai := range 2 {
		_, _ = fmt.Fprintf(&sb, "AI-%d %-30s win rate %5.1f%%, average time per move %s\n",
			ai+1, t.Names[ai], 100*t.WinRate(ai), t.AverageMoveTime(ai))
	}
	_, _ = fmt.Fprintf(&sb, "Draw rate %5.1f%%\n", 100*t.DrawRate())
	return sb.String()
}

// CompareOptions configures Compare.
type CompareOptions struct {
	// Configs of the 2 AIs, see players.New.
	Configs [2]string

	// NumMatches to play. The AIs alternate playing first.
	NumMatches int

	// Parallelism is the number of matches played simultaneously. If <= 0, runtime.GOMAXPROCS(0) is used.
	Parallelism int

	// Rows and Cols of the board, 0 for the default.
	Rows, Cols int

	// OnResult, if set, is called after each match with the index of the AI that played first.
	// Calls are serialized.
	OnResult func(matchIdx, firstAI int, result *Result, tally *Tally)
}

// Compare plays opts.NumMatches matches between the 2 configured AIs, with new players created for
// each match. Even matches are started by AI-1 and odd matches by AI-2.
//
// If ctx is cancelled, it returns the partial Tally and the context error.
func Compare(ctx context.Context, opts CompareOptions) (*Tally, error) {
	names := opts.Configs
	for ii := range names {
		if names[ii] == "" {
			names[ii] = players.DefaultPlayerConfig
		}
	}
	tally := NewTally(names, opts.NumMatches)
	parallelism := opts.Parallelism
	if parallelism <= 0 {
		parallelism = runtime.GOMAXPROCS(0)
	}

	var muResults sync.Mutex
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(parallelism)
	for matchIdx := range opts.NumMatches {
		if gCtx.Err() != nil {
			break
		}
		g.Go(func() error {
			if gCtx.Err() != nil {
				return nil
			}
			firstAI := matchIdx % 2
			matchName := fmt.Sprintf("Match-%05d", matchIdx)
			var matchPlayers [NumPlayers]players.Player
			for _, playerNum := range []PlayerNum{PlayerFirst, PlayerSecond} {
				ai := firstAI
				if playerNum == PlayerSecond {
					ai = 1 - firstAI
				}
				p, err := players.New(uint64(matchIdx), matchName, playerNum, opts.Configs[ai])
				if err != nil {
					return err
				}
				matchPlayers[playerNum] = p
			}
			result, err := Run(gCtx, matchPlayers, Options{Rows: opts.Rows, Cols: opts.Cols, Name: matchName})
			if err != nil {
				if gCtx.Err() != nil {
					// Interrupted: not an error of the match.
					return nil
				}
				return err
			}
			tally.Add(result, firstAI)
			if opts.OnResult != nil {
				muResults.Lock()
				opts.OnResult(matchIdx, firstAI, result, tally)
				muResults.Unlock()
			}
			return nil
		})
	}
	err := g.Wait()
	if err == nil && ctx.Err() != nil {
		err = ctx.Err()
	}
	klog.V(1).Infof("Compare finished: %s", tally)
	return tally, err
}
