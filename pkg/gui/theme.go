package gui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
)

// Terminal safe color palette is available here
// Themes should be limited to the colors defined in this reference
// https://upload.wikimedia.org/wikipedia/commons/1/15/Xterm_256color_chart.svg

// Theme is used for dynamically coloring the UI
type Theme struct {
	Name         string      `yaml:"name"`
	SquareDark   tcell.Color `yaml:"squareDark"`
	SquareLight  tcell.Color `yaml:"squareLight"`
	Selected     tcell.Color `yaml:"selected"`
	ValidMove    tcell.Color `yaml:"validMove"`
	ValidCapture tcell.Color `yaml:"validCapture"`
	EnemyMove    tcell.Color `yaml:"enemyMove"`
	EnemyCapture tcell.Color `yaml:"enemyCapture"`
	White        tcell.Color `yaml:"white"`
	Black        tcell.Color `yaml:"black"`
	Rank         tcell.Color `yaml:"rank"`
	File         tcell.Color `yaml:"file"`
	Msg          tcell.Color `yaml:"msg"`
}

// ThemeHex is a Theme as written in a settings file
type ThemeHex struct {
	Name         string `yaml:"name"`
	SquareDark   string `yaml:"squareDark"`
	SquareLight  string `yaml:"squareLight"`
	Selected     string `yaml:"selected"`
	ValidMove    string `yaml:"validMove"`
	ValidCapture string `yaml:"validCapture"`
	EnemyMove    string `yaml:"enemyMove"`
	EnemyCapture string `yaml:"enemyCapture"`
	White        string `yaml:"white"`
	Black        string `yaml:"black"`
	Rank         string `yaml:"rank"`
	File         string `yaml:"file"`
	Msg          string `yaml:"msg"`
}

// fmtHex returns a one character hex for the ColorDefault
// and otherwise it returns a standard hex. This is useful
// because it allows ColorDefault to be imported from the config
// and parsed properly rather than being interpreted as black
func fmtHex(v int32) string {
	if v == -1 {
		return "#0"
	}
	return fmt.Sprintf("#%06x", v)
}

// Hex converts a Theme to a ThemeHex
func (t Theme) Hex() ThemeHex {
	return ThemeHex{
		t.Name,
		fmtHex(t.SquareDark.Hex()),
		fmtHex(t.SquareLight.Hex()),
		fmtHex(t.Selected.Hex()),
		fmtHex(t.ValidMove.Hex()),
		fmtHex(t.ValidCapture.Hex()),
		fmtHex(t.EnemyMove.Hex()),
		fmtHex(t.EnemyCapture.Hex()),
		fmtHex(t.White.Hex()),
		fmtHex(t.Black.Hex()),
		fmtHex(t.Rank.Hex()),
		fmtHex(t.File.Hex()),
		fmtHex(t.Msg.Hex()),
	}
}

// Theme converts a ThemeHex to a Theme. Colors left out are taken from
// ThemeBasic.
func (t ThemeHex) Theme() Theme {
	b := ThemeBasic
	return Theme{
		t.Name,
		getColor(t.SquareDark, b.SquareDark),
		getColor(t.SquareLight, b.SquareLight),
		getColor(t.Selected, b.Selected),
		getColor(t.ValidMove, b.ValidMove),
		getColor(t.ValidCapture, b.ValidCapture),
		getColor(t.EnemyMove, b.EnemyMove),
		getColor(t.EnemyCapture, b.EnemyCapture),
		getColor(t.White, b.White),
		getColor(t.Black, b.Black),
		getColor(t.Rank, b.Rank),
		getColor(t.File, b.File),
		getColor(t.Msg, b.Msg),
	}
}

func getColor(hex string, fallback tcell.Color) tcell.Color {
	if strings.TrimSpace(hex) == "" {
		return fallback
	}
	return tcell.GetColor(hex)
}

// ImportThemes returns a converted Theme from a slice of ThemeHex
// entities if its name matches the want argument. The built-in
// themes are searched after the provided ones.
func ImportThemes(want string, themes []ThemeHex) (Theme, error) {
	for _, t := range themes {
		if t.Name == want {
			return t.Theme(), nil
		}
	}
	for _, t := range Themes {
		if t.Name == want {
			return t, nil
		}
	}

	return Theme{}, errors.New("theme: no theme found")
}

// ThemeBasic is the default theme
var ThemeBasic = Theme{
	"basic",        // Name
	tcell.Color137, // SquareDark
	tcell.Color223, // SquareLight
	tcell.Color226, // Selected
	tcell.Color114, // ValidMove
	tcell.Color167, // ValidCapture
	tcell.Color110, // EnemyMove
	tcell.Color175, // EnemyCapture
	tcell.Color231, // White
	tcell.Color232, // Black
	tcell.Color247, // Rank
	tcell.Color247, // File
	tcell.Color160, // Msg
}

// ThemeSlate is a low contrast theme for dark terminals
var ThemeSlate = Theme{
	"slate",            // Name
	tcell.Color238,     // SquareDark
	tcell.Color244,     // SquareLight
	tcell.Color178,     // Selected
	tcell.Color71,      // ValidMove
	tcell.Color131,     // ValidCapture
	tcell.Color67,      // EnemyMove
	tcell.Color96,      // EnemyCapture
	tcell.Color255,     // White
	tcell.Color16,      // Black
	tcell.Color245,     // Rank
	tcell.Color245,     // File
	tcell.ColorDefault, // Msg
}

// Themes are the built-in themes, selectable by name.
var Themes = []Theme{ThemeBasic, ThemeSlate}
