// Package cli implements a command-line UI for the game.
package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/janpfeifer/connect4go/internal/ai"
	"github.com/janpfeifer/connect4go/internal/players"
	. "github.com/janpfeifer/connect4go/internal/state"
	"github.com/mattn/go-runewidth"
	"github.com/pkg/errors"
	"golang.org/x/term"
)

// CellWidth is the number of characters used to display one column.
const CellWidth = 3

var (
	ansiFilter = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

	// ErrQuit is returned by ReadColumn when the user asks to quit.
	ErrQuit = errors.New("user quit")

	// ErrTooManyErrors is returned by ReadColumn after 3 consecutive invalid inputs.
	ErrTooManyErrors = errors.New("failed to read column 3 times")

	discColors = [NumPlayers]lipgloss.Color{lipgloss.Color("9"), lipgloss.Color("11")}
)

// displayWidth of s removes its color/control sequences and returns the number of terminal cells
// of what is left.
func displayWidth(s string) int {
	return runewidth.StringWidth(ansiFilter.ReplaceAllString(s, ""))
}

func centerString(s string, fit int) string {
	width := displayWidth(s)
	if width >= fit {
		return s
	}
	marginLeft := (fit - width) / 2
	marginRight := fit - width - marginLeft
	return strings.Repeat(" ", marginLeft) + s + strings.Repeat(" ", marginRight)
}

// UI reads moves from a reader (usually os.Stdin) and prints the board to a writer (usually os.Stdout).
type UI struct {
	color, clearScreen bool
	reader             *bufio.Reader
	out                io.Writer
}

// New creates a UI on the standard input and output.
func New(color bool, clearScreen bool) *UI {
	return NewWithIO(os.Stdin, os.Stdout, color, clearScreen)
}

// NewWithIO creates a UI that reads from r and writes to w.
func NewWithIO(r io.Reader, w io.Writer, color bool, clearScreen bool) *UI {
	return &UI{
		color:       color,
		clearScreen: clearScreen,
		reader:      bufio.NewReader(r),
		out:         w,
	}
}

// terminalWidth returns the width of the output if it is a terminal, or 0.
func (ui *UI) terminalWidth() int {
	f, ok := ui.out.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return 0
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil {
		return 0
	}
	return width
}

func (ui *UI) printCentered(block string) {
	block = strings.TrimRight(block, "\n")
	lines := strings.Split(block, "\n")
	blockWidth := 0
	for _, line := range lines {
		blockWidth = max(blockWidth, displayWidth(line))
	}
	indent := max((ui.terminalWidth()-blockWidth)/2, 0)
	for _, line := range lines {
		if len(line) == 0 {
			_, _ = fmt.Fprintln(ui.out)
			continue
		}
		_, _ = fmt.Fprintf(ui.out, "%s%s\n", strings.Repeat(" ", indent), line)
	}
}

// disc returns the symbol of a cell, colored if the UI is in color mode.
func (ui *UI) disc(c Cell) string {
	if !ui.color {
		return c.String()
	}
	player := c.Player()
	if player == PlayerInvalid {
		return "·"
	}
	return lipgloss.NewStyle().Foreground(discColors[player]).Bold(true).Render("●")
}

// PlayerName returns "<player> Player", colored if the UI is in color mode.
func (ui *UI) PlayerName(player PlayerNum) string {
	name := fmt.Sprintf("%s Player (%s)", player, DiscOf(player))
	if !ui.color || player == PlayerInvalid {
		return name
	}
	return lipgloss.NewStyle().Foreground(discColors[player]).Bold(true).Render(name)
}

// RenderBoard returns the board drawn with column numbers on top, top row first.
func (ui *UI) RenderBoard(board *Board) string {
	var sb strings.Builder
	sb.WriteString(" ")
	for col := range board.Cols() {
		sb.WriteString(centerString(strconv.Itoa(col), CellWidth))
	}
	header := strings.TrimRight(sb.String(), " ")
	sb.Reset()
	sb.WriteString(header)
	sb.WriteString("\n")
	for row := range board.Rows() {
		sb.WriteString("|")
		for col := range board.Cols() {
			sb.WriteString(centerString(ui.disc(board.CellAt(row, col)), CellWidth))
		}
		sb.WriteString("|\n")
	}
	sb.WriteString("+" + strings.Repeat("-", CellWidth*board.Cols()) + "+\n")
	return sb.String()
}

// Print the board, preceded by the move number, and followed by whose turn it is if the game is not over.
func (ui *UI) Print(board *Board) {
	if ui.clearScreen {
		_, _ = fmt.Fprint(ui.out, "\033c")
	}
	_, _ = fmt.Fprintf(ui.out, "\nMove #%d\n\n", board.NumPieces())
	ui.printCentered(ui.RenderBoard(board))
	if isEnd, _ := ai.IsEndGame(board); !isEnd {
		_, _ = fmt.Fprintf(ui.out, "\n\tTurn to play: %s\n", ui.PlayerName(board.NextPlayer))
	}
}

// PrintWinner prints a banner with the outcome of the game. It is a no-op if the game is not over.
func (ui *UI) PrintWinner(board *Board) {
	isEnd, winner := ai.IsEndGame(board)
	if !isEnd {
		return
	}
	_, _ = fmt.Fprintln(ui.out)
	style := lipgloss.NewStyle().Padding(1, 2).Foreground(lipgloss.Color("0"))
	if winner == PlayerInvalid {
		ui.printCentered(style.Background(lipgloss.Color("13")).
			Render("*** DRAW: the board is full! ***"))
	} else {
		ui.printCentered(style.Background(discColors[winner]).
			Render(fmt.Sprintf("*** %s PLAYER WINS!! Congratulations! ***", strings.ToUpper(winner.String()))))
	}
	_, _ = fmt.Fprintln(ui.out)
}

// ReadColumn reads the column to play for board.NextPlayer. Columns are numbered from 0, as displayed.
//
// It returns ErrQuit if the user types "q" or "quit", and ErrTooManyErrors after 3 invalid inputs in a row.
// Reading errors (e.g. io.EOF) are returned wrapped.
func (ui *UI) ReadColumn(board *Board) (int, error) {
	for range 3 {
		_, _ = fmt.Fprintf(ui.out, "    %s column [0-%d] > ", ui.PlayerName(board.NextPlayer), board.Cols()-1)
		text, err := ui.reader.ReadString('\n')
		text = strings.TrimSpace(text)
		if err != nil && (err != io.EOF || text == "") {
			return -1, errors.Wrap(err, "failed to read column")
		}
		switch strings.ToLower(text) {
		case "q", "quit":
			return -1, ErrQuit
		}
		col, convErr := strconv.Atoi(text)
		if convErr != nil {
			_, _ = fmt.Fprintf(ui.out, "    * Failed to parse %q, please type the column number.\n", text)
			continue
		}
		if !board.IsLegal(col) {
			_, _ = fmt.Fprintf(ui.out, "    * Column %d is not playable, choose one of %v.\n", col, board.LegalColumns())
			continue
		}
		return col, nil
	}
	return -1, ErrTooManyErrors
}

// HumanPlayer implements players.Player by reading the columns from the UI.
//
// If reading fails, or the user quits, Play returns ok=false and Err holds the reason.
type HumanPlayer struct {
	ui   *UI
	Name string
	Err  error
}

var _ players.Player = &HumanPlayer{}

// NewPlayer returns a HumanPlayer reading from the UI.
func (ui *UI) NewPlayer(name string) *HumanPlayer {
	return &HumanPlayer{ui: ui, Name: name}
}

// Play implements players.Player.
func (p *HumanPlayer) Play(board *Board) (column int, ok bool) {
	if len(board.LegalColumns()) == 0 {
		return -1, false
	}
	for {
		p.ui.Print(board)
		_, _ = fmt.Fprintln(p.ui.out)
		col, err := p.ui.ReadColumn(board)
		if errors.Is(err, ErrTooManyErrors) {
			continue
		}
		if err != nil {
			p.Err = err
			return -1, false
		}
		return col, true
	}
}

// Finalize implements players.Player.
func (p *HumanPlayer) Finalize() {}

// String implements players.Player.
func (p *HumanPlayer) String() string {
	return p.Name
}
