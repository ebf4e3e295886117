package evolver

import (
	"context"
	"fmt"

	"github.com/janpfeifer/connect4go/internal/match"
	"github.com/janpfeifer/connect4go/internal/players"
	"github.com/janpfeifer/connect4go/internal/searchers/priority"
	. "github.com/janpfeifer/connect4go/internal/state"
	"github.com/pkg/errors"
)

// ReferenceBoards plays numMatches matches between seeded priority selectors, and returns every
// position reached (after each move). The result is deterministic for a given seed.
func ReferenceBoards(ctx context.Context, numMatches int, seed uint64) ([]*Board, error) {
	var boards []*Board
	for matchIdx := range numMatches {
		matchName := fmt.Sprintf("Reference-%03d", matchIdx)
		var matchPlayers [NumPlayers]players.Player
		for _, playerNum := range []PlayerNum{PlayerFirst, PlayerSecond} {
			selector := priority.New().WithSeed(seed + 2*uint64(matchIdx) + uint64(playerNum))
			matchPlayers[playerNum] = players.NewSearcherPlayer("priority", matchName, selector)
		}
		_, err := match.Run(ctx, matchPlayers, match.Options{
			Name: matchName,
			OnMove: func(board *Board, _ PlayerNum, _ int) {
				boards = append(boards, board.Clone())
			},
		})
		if err != nil {
			return nil, errors.WithMessagef(err, "failed to generate reference boards")
		}
	}
	return boards, nil
}
