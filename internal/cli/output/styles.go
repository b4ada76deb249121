package output

import (
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Symbols used in status lines.
const (
	SymbolSuccess = "✓"
	SymbolError   = "✗"
	SymbolWarning = "!"
	SymbolPending = "○"
	SymbolBullet  = "•"
)

// Styles holds the lipgloss styles for text mode.
type Styles struct {
	Header        lipgloss.Style
	Header2       lipgloss.Style
	Muted         lipgloss.Style
	Bold          lipgloss.Style
	Success       lipgloss.Style
	Warning       lipgloss.Style
	Error         lipgloss.Style
	Info          lipgloss.Style
	Country       lipgloss.Style
	StatusSuccess lipgloss.Style
	StatusFailed  lipgloss.Style

	// Level styles enforcement levels 1 to 4; index 0 is a missing level.
	Level [5]lipgloss.Style
}

// NewStyles builds styles for w. Colors are dropped when w is not a
// terminal or NO_COLOR is set.
func NewStyles(w io.Writer, isTTY bool) *Styles {
	re := lipgloss.NewRenderer(w)
	if !isTTY || termenv.EnvNoColor() {
		re.SetColorProfile(termenv.Ascii)
	}

	s := &Styles{
		Header:        re.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		Header2:       re.NewStyle().Bold(true),
		Muted:         re.NewStyle().Foreground(lipgloss.Color("8")),
		Bold:          re.NewStyle().Bold(true),
		Success:       re.NewStyle().Foreground(lipgloss.Color("10")),
		Warning:       re.NewStyle().Foreground(lipgloss.Color("11")),
		Error:         re.NewStyle().Foreground(lipgloss.Color("9")),
		Info:          re.NewStyle().Foreground(lipgloss.Color("14")),
		Country:       re.NewStyle().Bold(true).Foreground(lipgloss.Color("13")),
		StatusSuccess: re.NewStyle().Foreground(lipgloss.Color("10")),
		StatusFailed:  re.NewStyle().Foreground(lipgloss.Color("9")),
	}
	s.Level = [5]lipgloss.Style{
		re.NewStyle().Foreground(lipgloss.Color("8")),
		re.NewStyle().Foreground(lipgloss.Color("10")),
		re.NewStyle().Foreground(lipgloss.Color("11")),
		re.NewStyle().Foreground(lipgloss.Color("208")),
		re.NewStyle().Bold(true).Foreground(lipgloss.Color("9")),
	}
	return s
}

// LevelStyle returns the style for an enforcement level.
func (s *Styles) LevelStyle(level int) lipgloss.Style {
	if level < 0 || level >= len(s.Level) {
		return s.Level[0]
	}
	return s.Level[level]
}
