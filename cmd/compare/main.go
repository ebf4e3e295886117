// compare plays a series of matches between two AI configurations, alternating who plays first,
// and reports the win rates. Optionally, it saves every match to a parquet file.
package main

import (
	"cmp"
	"context"
	"flag"
	"fmt"
	"slices"
	"time"

	"github.com/janpfeifer/connect4go/internal/match"
	_ "github.com/janpfeifer/connect4go/internal/players/default"
	"github.com/janpfeifer/connect4go/internal/profilers"
	"github.com/janpfeifer/connect4go/internal/records"
	. "github.com/janpfeifer/connect4go/internal/state"
	"github.com/janpfeifer/connect4go/internal/ui/cli"
	"github.com/janpfeifer/connect4go/internal/ui/spinning"
	"github.com/janpfeifer/must"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

var (
	flagPlayer1Config = flag.String("ai1", "grid", "1st AI configuration, e.g. \"grid:weights=center\".")
	flagPlayer2Config = flag.String("ai2", "priority", "2nd AI configuration, e.g. \"priority:block\".")
	flagNumMatches    = flag.Int("num_matches", 100, "Number of matches to play.")
	flagParallelism   = flag.Int("parallelism", 0, "If > 0 ignore GOMAXPROCS and play "+
		"these many matches simultaneously.")
	flagRows       = flag.Int("rows", DefaultRows, "Number of rows of the board.")
	flagCols       = flag.Int("cols", DefaultCols, "Number of columns of the board.")
	flagRecords    = flag.String("records", "", "If set, saves the matches to this parquet file.")
	flagPrintSteps = flag.Bool("print_steps", false, "Print the final board of each match. "+
		"Very verbose, and you probably want to set -parallelism=1.")
)

func main() {
	klog.InitFlags(nil)
	flag.Parse()

	if *flagNumMatches <= 0 {
		klog.Exitf("Invalid -num_matches=%d", *flagNumMatches)
	}

	// Capture Control+C
	ctx, cancel := context.WithCancel(context.Background())
	spinning.SafeInterrupt(cancel, 5*time.Second)
	defer cancel()

	must.M(profilers.Setup(ctx))
	defer profilers.OnQuit()

	must.M(runMatches(ctx))
}

func runMatches(ctx context.Context) error {
	configs := [NumPlayers]string{*flagPlayer1Config, *flagPlayer2Config}
	stepUI := cli.New(true, false)
	var rows []records.MatchRow
	tally, err := match.Compare(ctx, match.CompareOptions{
		Configs:     configs,
		NumMatches:  *flagNumMatches,
		Parallelism: *flagParallelism,
		Rows:        *flagRows,
		Cols:        *flagCols,
		OnResult: func(matchIdx, firstAI int, result *match.Result, tally *match.Tally) {
			if *flagPrintSteps {
				fmt.Printf("\n%s (AI-%d played first)\n", result, firstAI+1)
				stepUI.Print(result.FinalBoard)
			}
			if *flagRecords != "" {
				matchConfigs := configs
				if firstAI == 1 {
					matchConfigs[0], matchConfigs[1] = matchConfigs[1], matchConfigs[0]
				}
				startedAt := time.Now().Add(-(result.ThinkingTime[PlayerFirst] + result.ThinkingTime[PlayerSecond]))
				rows = append(rows, records.NewMatchRow(matchIdx, matchConfigs, startedAt, result))
			}
			fmt.Printf("\r%s\033[0K", tally)
		},
	})
	fmt.Println()
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	if ctx.Err() != nil {
		fmt.Printf("Interrupted: %s\n", ctx.Err())
	}
	fmt.Print(tally.Summary())

	if *flagRecords != "" && len(rows) > 0 {
		slices.SortFunc(rows, func(a, b records.MatchRow) int { return cmp.Compare(a.MatchIdx, b.MatchIdx) })
		if err := records.WriteFile(*flagRecords, rows); err != nil {
			return err
		}
		fmt.Printf("Saved %d matches to %s\n", len(rows), *flagRecords)
	}
	return nil
}
