// connect4 plays Connect Four on the terminal: human vs AI (default), human vs human (-hotseat)
// or AI vs AI (-watch).
package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/janpfeifer/connect4go/internal/match"
	"github.com/janpfeifer/connect4go/internal/players"
	_ "github.com/janpfeifer/connect4go/internal/players/default"
	. "github.com/janpfeifer/connect4go/internal/state"
	"github.com/janpfeifer/connect4go/internal/ui/cli"
	"github.com/janpfeifer/connect4go/internal/ui/spinning"
	"github.com/janpfeifer/must"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

var (
	flagHotseat  = flag.Bool("hotseat", false, "Hotseat match: human vs human")
	flagWatch    = flag.Bool("watch", false, "Watch mode: AI vs AI playing")
	flagFirst    = flag.String("first", "", "Who plays first: human or ai. Default is random.")
	flagAIConfig = flag.String("ai", "", "AI configuration against which to play, e.g. \"grid:weights=center\" "+
		"or \"priority:block\". Default is "+players.DefaultPlayerConfig)
	flagAIConfig2 = flag.String("ai2", "priority", "Second AI configuration, if playing AI vs AI with -watch")
	flagRows      = flag.Int("rows", DefaultRows, "Number of rows of the board.")
	flagCols      = flag.Int("cols", DefaultCols, "Number of columns of the board.")
	flagColor     = flag.Bool("color", true, "Use colors on the terminal.")
	flagClear     = flag.Bool("clear", false, "Clear the screen before printing the board.")

	matchName = "The Match"
	globalCtx = context.Background()
)

func main() {
	klog.InitFlags(nil)
	flag.Parse()
	if *flagRows < ConnectLength || *flagCols < ConnectLength {
		klog.Exitf("Invalid board size %dx%d, it must be at least %dx%d",
			*flagRows, *flagCols, ConnectLength, ConnectLength)
	}

	// Capture Control+C
	var cancel func()
	globalCtx, cancel = context.WithCancel(context.Background())
	spinning.SafeInterrupt(cancel, 3*time.Second)
	defer cancel()

	ui := cli.New(*flagColor, *flagClear)
	matchPlayers, humans := must.M2(createPlayers(ui))
	result, err := match.Run(globalCtx, matchPlayers, match.Options{
		Rows: *flagRows,
		Cols: *flagCols,
		Name: matchName,
	})
	// A human that quits (or whose input fails) makes Run return match.ErrNoMove: report the reason instead.
	for _, human := range humans {
		if human == nil || human.Err == nil {
			continue
		}
		if errors.Is(human.Err, cli.ErrQuit) {
			fmt.Println("Bye!")
			return
		}
		klog.Exitf("Failed to read move of %s: %+v", human, human.Err)
	}
	if err != nil {
		klog.Exitf("Match failed: %+v", err)
	}
	ui.Print(result.FinalBoard)
	ui.PrintWinner(result.FinalBoard)
}

// createPlayers returns the players of the match, and the human players among them (nil for AIs).
func createPlayers(ui *cli.UI) (matchPlayers [NumPlayers]players.Player, humans [NumPlayers]*cli.HumanPlayer, err error) {
	if *flagHotseat && *flagWatch {
		err = errors.New("-hotseat and -watch cannot be used together")
		return
	}
	if *flagHotseat {
		for _, playerNum := range []PlayerNum{PlayerFirst, PlayerSecond} {
			humans[playerNum] = ui.NewPlayer(fmt.Sprintf("human-%d", playerNum+1))
			matchPlayers[playerNum] = humans[playerNum]
		}
		return
	}

	var aiPlayerNum PlayerNum
	switch strings.ToLower(*flagFirst) {
	case "human":
		aiPlayerNum = PlayerSecond
	case "ai":
		aiPlayerNum = PlayerFirst
	case "":
		aiPlayerNum = PlayerNum(rand.IntN(NumPlayers))
	default:
		err = errors.Errorf("invalid -first=%q, only valid values are \"human\" or \"ai\"", *flagFirst)
		return
	}
	if *flagWatch {
		aiPlayerNum = PlayerFirst
	}
	matchPlayers[aiPlayerNum], err = newAIPlayer(ui, aiPlayerNum, *flagAIConfig)
	if err != nil {
		return
	}
	otherPlayerNum := aiPlayerNum.Opponent()
	if *flagWatch {
		matchPlayers[otherPlayerNum], err = newAIPlayer(ui, otherPlayerNum, *flagAIConfig2)
		return
	}
	humans[otherPlayerNum] = ui.NewPlayer("human")
	matchPlayers[otherPlayerNum] = humans[otherPlayerNum]
	return
}

func newAIPlayer(ui *cli.UI, playerNum PlayerNum, config string) (players.Player, error) {
	klog.V(1).Infof("Creating AI for %s player from %q", playerNum, config)
	p, err := players.New(0, matchName, playerNum, config)
	if err != nil {
		return nil, err
	}
	return &thinkingPlayer{Player: p, ui: ui}, nil
}

// thinkingPlayer shows a spinning symbol while the AI chooses its move, and prints the move chosen.
type thinkingPlayer struct {
	players.Player
	ui *cli.UI
}

func (p *thinkingPlayer) Play(board *Board) (column int, ok bool) {
	if *flagWatch {
		p.ui.Print(board)
	}
	fmt.Printf("\n\t%s AI %s thinking: ", p.ui.PlayerName(board.NextPlayer), p.Player)
	s := spinning.New(globalCtx)
	column, ok = p.Player.Play(board)
	s.Done()
	if ok {
		fmt.Printf(" column %d\n", column)
	} else {
		fmt.Println(" no move")
	}
	return
}
