// Package players provides a factory of AI players from configuration strings.
// It also allows player providers to register themselves.
package players

import (
	"slices"
	"strings"

	"github.com/janpfeifer/connect4go/internal/generics"
	"github.com/janpfeifer/connect4go/internal/parameters"
	. "github.com/janpfeifer/connect4go/internal/state"
	"github.com/pkg/errors"
)

// Player is anything that is able to play the game.
type Player interface {
	// Play returns the column chosen for board.NextPlayer. ok is false only if there are no legal moves,
	// which the caller should take as a draw.
	//
	// The board must be left unchanged.
	Play(board *Board) (column int, ok bool)

	// Finalize is called at the end of a match.
	Finalize()

	// String returns a description of the player, used for logging and reports.
	String() string
}

// Module must implement NewPlayer called at the start of a match.
// matchId is unique among matches, but the Module.NewPlayer may be called twice for the same matchId,
// for different players, if the same configuration plays on both sides.
// matchName is used for logging and debugging.
type Module interface {
	NewPlayer(matchId uint64, matchName string, playerNum PlayerNum, params parameters.Params) (Player, error)
}

// moduleRegistration is a reference to the module and its name.
type moduleRegistration struct {
	Module
	Name string
}

var (
	// Registered external modules.
	keywordToModules = make(map[string]moduleRegistration)
)

// RegisterModule so it can be used by any of the front-ends to play.
func RegisterModule(name string, module Module) {
	keywordToModules[name] = moduleRegistration{Name: name, Module: module}
}

// RegisteredModules returns the sorted names of the registered modules.
func RegisteredModules() []string {
	return slices.Collect(generics.SortedKeys(keywordToModules))
}

var (
	// DefaultPlayerConfig is used if no configuration was given to the AI. The value may be changed by the
	// UI built.
	DefaultPlayerConfig = "grid"
)

// New creates a new AI player given the configuration string.
//
// Args:
//
//	config: the AI module name optionally followed by a colon (":") and a comma-separated list of parameters
//		with optional values associated. E.g.: "grid:weights=center,parallelism=4" or "priority:block".
//		If empty, the default is given by DefaultPlayerConfig.
//
// More details on the config are dependent on the module used.
func New(matchId uint64, matchName string, playerNum PlayerNum, config string) (Player, error) {
	if config == "" {
		config = DefaultPlayerConfig
	}

	// Find moduleName.
	moduleName, config, _ := strings.Cut(config, ":")
	module, ok := keywordToModules[moduleName]
	if !ok {
		if len(keywordToModules) == 0 {
			return nil, errors.Errorf("unknown AI player %q: no modules registered, perhaps you need to "+
				"import _ \"github.com/janpfeifer/connect4go/internal/players/default\" to your binary ?", moduleName)
		}
		return nil, errors.Errorf("unknown AI player %q, valid values are %q", moduleName, RegisteredModules())
	}

	params := parameters.NewFromConfigString(config)
	player, err := module.NewPlayer(matchId, matchName, playerNum, params)
	if err != nil {
		return nil, errors.WithMessagef(err, "failed to create AI player %q", moduleName)
	}
	if err = parameters.CheckAllConsumed(params); err != nil {
		return nil, errors.WithMessagef(err, "AI player %q", moduleName)
	}
	return player, nil
}
