// Package linear implements the heuristic evaluator: a weighted sum of the board features
// defined in package features.
//
// The weights are always passed explicitly, either to Score or bound to a Scorer. Nothing is
// stored on the board.
package linear

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/janpfeifer/connect4go/internal/ai"
	"github.com/janpfeifer/connect4go/internal/features"
	. "github.com/janpfeifer/connect4go/internal/state"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// Weights of the heuristic evaluator, one per feature. They must be non-negative.
type Weights struct {
	PieceCount, WinningMoves, CenterControl float64
}

// NewWeights creates Weights from a slice with exactly features.NumFeatures values, in the
// order of features.Specs.
func NewWeights(values []float64) (Weights, error) {
	if len(values) != int(features.NumFeatures) {
		return Weights{}, errors.Errorf("linear model requires %d weights, got %d", features.NumFeatures, len(values))
	}
	w := Weights{values[features.IdPieceCount], values[features.IdWinningMoves], values[features.IdCenterControl]}
	return w, w.Validate()
}

// Vector returns the weights indexed by the feature id.
func (w Weights) Vector() (v features.Vector) {
	v[features.IdPieceCount] = w.PieceCount
	v[features.IdWinningMoves] = w.WinningMoves
	v[features.IdCenterControl] = w.CenterControl
	return
}

// Validate returns an error if any of the weights is negative or not finite.
func (w Weights) Validate() error {
	wv := w.Vector()
	for _, spec := range features.Specs {
		value := wv[spec.Id]
		if !(value >= 0) || math.IsInf(value, 1) {
			return errors.Errorf("weight for %s must be finite and non-negative, got %g", spec.Name, value)
		}
	}
	return nil
}

// String returns the weights in the same "/" separated format used in configuration strings.
func (w Weights) String() string {
	return fmt.Sprintf("%g/%g/%g", w.PieceCount, w.WinningMoves, w.CenterControl)
}

// Score of the board for player, using the given weights:
//
//	PieceCount*pieceCountScore + WinningMoves*winningMovesScore + CenterControl*centerControlScore
//
// The board is not changed.
func Score(board *Board, player PlayerNum, weights Weights) float64 {
	return ScoreFeatures(features.ForBoard(board, player), weights)
}

// ScoreFeatures is like Score, but it takes the features already calculated.
func ScoreFeatures(v features.Vector, weights Weights) (sum float64) {
	wv := weights.Vector()
	for ii, value := range v {
		sum += value * wv[ii]
	}
	return
}

// Scorer binds a set of Weights to a name, and implements ai.ValueScorer.
type Scorer struct {
	name    string
	Weights Weights

	// FileName where to save/load the weights from.
	FileName string
	muSave   sync.Mutex
}

var _ ai.ValueScorer = (*Scorer)(nil)

// NewWithWeights creates a new Scorer with the given weights.
func NewWithWeights(weights Weights) *Scorer {
	return &Scorer{Weights: weights}
}

// WithName sets the name of the Scorer and returns itself.
func (s *Scorer) WithName(name string) *Scorer {
	s.name = name
	return s
}

// Clone returns a copy of the Scorer, without the FileName.
func (s *Scorer) Clone() *Scorer {
	return &Scorer{name: s.name, Weights: s.Weights}
}

// String implements ai.ValueScorer.
func (s *Scorer) String() string {
	if s.name == "" {
		return fmt.Sprintf("linear(%s)", s.Weights)
	}
	return fmt.Sprintf("linear(%s: %s)", s.name, s.Weights)
}

// Score implements ai.ValueScorer.
func (s *Scorer) Score(board *Board, player PlayerNum) float64 {
	return Score(board, player, s.Weights)
}

// Save weights to s.FileName, one value per line in the order of features.Specs.
// A previous file is kept with a "~" suffix.
func (s *Scorer) Save() error {
	s.muSave.Lock()
	defer s.muSave.Unlock()

	if s.FileName == "" {
		klog.Errorf("Linear model not saved, because no file name was specified")
		return nil
	}

	// Rename existing file, if it exists.
	file := s.FileName
	if _, err := os.Stat(file); err == nil {
		err = os.Rename(file, file+"~")
		if err != nil {
			return errors.Wrapf(err, "failed to rename %s to %s", file, file+"~")
		}
	} else if !os.IsNotExist(err) {
		return errors.Wrapf(err, "failed to stat %s", file)
	}

	wv := s.Weights.Vector()
	lines := make([]string, 0, 2*len(wv))
	for _, spec := range features.Specs {
		lines = append(lines, "# "+spec.Name, strconv.FormatFloat(wv[spec.Id], 'g', -1, 64))
	}
	err := os.WriteFile(file, []byte(strings.Join(lines, "\n")+"\n"), 0644)
	if err != nil {
		return errors.Wrapf(err, "failed to save %s", file)
	}
	return nil
}

// ParseWeights parses the contents of a weights file: one value per line, in the order of
// features.Specs. Empty lines and lines starting with "#" or "//" are ignored.
func ParseWeights(data string) (Weights, error) {
	values := make([]float64, 0, features.NumFeatures)
	for lineNum, valueStr := range strings.Split(data, "\n") {
		valueStr = strings.TrimSpace(valueStr)
		if valueStr == "" || strings.HasPrefix(valueStr, "#") || strings.HasPrefix(valueStr, "//") {
			continue
		}
		value, err := strconv.ParseFloat(valueStr, 64)
		if err != nil {
			return Weights{}, errors.Wrapf(err, "failed to parse weight at line #%d", lineNum+1)
		}
		values = append(values, value)
	}
	return NewWeights(values)
}

// Cache of linear models read from disk.
var (
	cacheLinearScorers = map[string]*Scorer{}
	muCache            sync.Mutex
)

// Load weights from fileName. The Scorer's FileName is set, so Save will write to it.
//
// A missing file is an error wrapping os.ErrNotExist. Loaded scorers are cached by fileName.
func Load(fileName string) (*Scorer, error) {
	if fileName == "" {
		return nil, errors.New("linear.Load requires a file name")
	}

	muCache.Lock()
	defer muCache.Unlock()
	if cached, ok := cacheLinearScorers[fileName]; ok {
		klog.V(1).Infof("Using cache for model %q", fileName)
		return cached, nil
	}

	data, err := os.ReadFile(fileName)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read weights file %s", fileName)
	}
	weights, err := ParseWeights(string(data))
	if err != nil {
		return nil, errors.WithMessagef(err, "failed to parse weights file %s", fileName)
	}
	s := NewWithWeights(weights).WithName(fileName)
	s.FileName = fileName
	cacheLinearScorers[fileName] = s
	return s, nil
}
