package players

import (
	"github.com/janpfeifer/connect4go/internal/searchers"
	. "github.com/janpfeifer/connect4go/internal/state"
	"k8s.io/klog/v2"
)

// SearcherPlayer is the standard set up for an AI: a searchers.Searcher with a name.
// It implements the Player interface.
type SearcherPlayer struct {
	Searcher searchers.Searcher
	Name     string

	// MatchName is used for logging.
	MatchName string
}

// Assert that SearcherPlayer is a Player.
var _ Player = &SearcherPlayer{}

// NewSearcherPlayer creates a Player from a Searcher.
func NewSearcherPlayer(name, matchName string, searcher searchers.Searcher) *SearcherPlayer {
	return &SearcherPlayer{Searcher: searcher, Name: name, MatchName: matchName}
}

// Play implements the Player interface: it chooses a column given a Board.
func (p *SearcherPlayer) Play(b *Board) (column int, ok bool) {
	var score float64
	column, ok, score, _ = p.Searcher.Search(b)
	if klog.V(2).Enabled() {
		klog.Infof("%s: move #%d: AI (%s) playing column %d (ok=%v), score=%g",
			p.MatchName, b.NumPieces(), p.Name, column, ok, score)
	}
	return
}

// Finalize is called at the end of a match.
func (p *SearcherPlayer) Finalize() {
	if klog.V(1).Enabled() {
		klog.Infof("%s: player %s finalized", p.MatchName, p.Name)
	}
	p.Searcher = nil
}

// String implements Player.
func (p *SearcherPlayer) String() string {
	return p.Name
}
