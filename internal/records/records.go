// Package records saves and loads match records as zstd compressed parquet files, one row per match.
package records

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/janpfeifer/connect4go/internal/match"
	. "github.com/janpfeifer/connect4go/internal/state"
	"github.com/parquet-go/parquet-go"
	"github.com/parquet-go/parquet-go/compress/zstd"
	"github.com/pkg/errors"
)

// SchemaVersion is stored in the file's key/value metadata.
const SchemaVersion = "match_v1"

// MatchRow is the record of one match.
//
// Winner is 0 if the first player won, 1 if the second player won, and -1 for a draw.
type MatchRow struct {
	MatchID      string  `parquet:"match_id"`
	MatchIdx     int32   `parquet:"match_idx"`
	StartedAtMs  int64   `parquet:"started_at_ms"`
	FirstConfig  string  `parquet:"first_config,dict"`
	SecondConfig string  `parquet:"second_config,dict"`
	Rows         int32   `parquet:"rows"`
	Cols         int32   `parquet:"cols"`
	Winner       int32   `parquet:"winner"`
	Moves        []int32 `parquet:"moves"`
	FirstTimeMs  float64 `parquet:"first_time_ms"`
	SecondTimeMs float64 `parquet:"second_time_ms"`
}

// NewMatchRow creates a record for the result of a match, with a new random match id.
// configs are the configurations of the first and second players, in that order.
func NewMatchRow(matchIdx int, configs [NumPlayers]string, startedAt time.Time, result *match.Result) MatchRow {
	row := MatchRow{
		MatchID:      uuid.NewString(),
		MatchIdx:     int32(matchIdx),
		StartedAtMs:  startedAt.UnixMilli(),
		FirstConfig:  configs[PlayerFirst],
		SecondConfig: configs[PlayerSecond],
		Winner:       -1,
		Moves:        make([]int32, len(result.Moves)),
		FirstTimeMs:  float64(result.ThinkingTime[PlayerFirst].Microseconds()) / 1000,
		SecondTimeMs: float64(result.ThinkingTime[PlayerSecond].Microseconds()) / 1000,
	}
	if result.FinalBoard != nil {
		row.Rows, row.Cols = int32(result.FinalBoard.Rows()), int32(result.FinalBoard.Cols())
	} else {
		row.Rows, row.Cols = DefaultRows, DefaultCols
	}
	if !result.IsDraw() {
		row.Winner = int32(result.Winner)
	}
	for ii, col := range result.Moves {
		row.Moves[ii] = int32(col)
	}
	return row
}

// Replay the moves of the record on a new board, and check that the recorded winner matches.
// It returns the final board.
func (r *MatchRow) Replay() (*Board, error) {
	board := NewBoard(int(r.Rows), int(r.Cols))
	for ii, col := range r.Moves {
		if board.HasFourInARow() {
			return nil, errors.Errorf("match %s: move #%d played after the match was won", r.MatchID, ii)
		}
		if err := board.ApplyMove(int(col), board.NextPlayer); err != nil {
			return nil, errors.WithMessagef(err, "match %s: move #%d", r.MatchID, ii)
		}
		if ii < len(r.Moves)-1 {
			board.SwitchPlayer()
		}
	}
	winner := int32(-1)
	if w := board.Winner(); w != PlayerInvalid {
		winner = int32(w)
	}
	if winner != r.Winner {
		return nil, errors.Errorf("match %s: recorded winner %d, but replay gives %d", r.MatchID, r.Winner, winner)
	}
	return board, nil
}

// WriteFile writes the rows to outPath. It writes to a temporary file first, and renames it.
func WriteFile(outPath string, rows []MatchRow) error {
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return errors.Wrapf(err, "failed to create output dir for %s", outPath)
	}

	tmpPath := outPath + ".tmp"
	_ = os.Remove(tmpPath)
	if err := parquet.WriteFile(tmpPath, rows,
		parquet.Compression(&zstd.Codec{Level: zstd.SpeedBetterCompression}),
		parquet.KeyValueMetadata("schema", SchemaVersion),
	); err != nil {
		_ = os.Remove(tmpPath)
		return errors.Wrapf(err, "failed to write parquet file %s", tmpPath)
	}
	if err := os.Rename(tmpPath, outPath); err != nil {
		return errors.Wrapf(err, "failed to rename %s to %s", tmpPath, outPath)
	}
	return nil
}

// ReadFile reads all rows from a file written with WriteFile.
func ReadFile(path string) ([]MatchRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open %s", path)
	}
	defer func() { _ = f.Close() }()
	stat, err := f.Stat()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to stat %s", path)
	}
	pf, err := parquet.OpenFile(f, stat.Size())
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open parquet file %s", path)
	}
	if schema, ok := pf.Lookup("schema"); ok && schema != SchemaVersion {
		return nil, errors.Errorf("file %s has schema %q, expected %q", path, schema, SchemaVersion)
	}

	reader := parquet.NewGenericReader[MatchRow](pf)
	defer func() { _ = reader.Close() }()
	rows := make([]MatchRow, reader.NumRows())
	total := 0
	for total < len(rows) {
		n, err := reader.Read(rows[total:])
		total += n
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read rows from %s", path)
		}
		if n == 0 {
			break
		}
	}
	return rows[:total], nil
}
