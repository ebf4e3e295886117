package linear

import (
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// Preset weights.
var (
	// PreTrainedDefault gives every feature the same importance.
	PreTrainedDefault = NewWithWeights(Weights{PieceCount: 1, WinningMoves: 1, CenterControl: 1}).WithName("default")

	// PreTrainedCenter favors occupying the center column.
	PreTrainedCenter = NewWithWeights(Weights{PieceCount: 1, WinningMoves: 2, CenterControl: 3}).WithName("center")

	// PreTrainedThreat favors creating immediate winning threats.
	PreTrainedThreat = NewWithWeights(Weights{PieceCount: 1, WinningMoves: 3, CenterControl: 1}).WithName("threat")

	// PreTrainedBest is an alias to the current best preset.
	PreTrainedBest = PreTrainedDefault.Clone().WithName("best")

	// Presets lists all named presets.
	Presets = []*Scorer{PreTrainedBest, PreTrainedDefault, PreTrainedCenter, PreTrainedThreat}
)

// PresetNames returns the names of the Presets, in order.
func PresetNames() []string {
	names := make([]string, len(Presets))
	for ii, scorer := range Presets {
		names[ii] = scorer.name
	}
	return names
}

// NewFromName returns the preset with the given name, or otherwise loads the weights from
// the file with that name (see Load). Unknown names that are not existing files are an error.
func NewFromName(name string) (*Scorer, error) {
	for _, scorer := range Presets {
		if name == scorer.name {
			return scorer, nil
		}
	}
	if name == "" {
		return nil, errors.New("empty linear model name")
	}
	scorer, err := Load(name)
	if err != nil {
		return nil, errors.WithMessagef(err, "%q is neither a preset %q nor a readable weights file",
			name, PresetNames())
	}
	klog.V(1).Infof("Linear model %s", scorer)
	return scorer, nil
}
