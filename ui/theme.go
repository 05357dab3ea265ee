package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/jdziat/livejobs/pkg/core"
	"github.com/jdziat/livejobs/pkg/notify"
	"github.com/jdziat/livejobs/pkg/view"
)

// Theme defines the dashboard palette. Colors are ANSI 256-color codes.
type Theme struct {
	NormalText lipgloss.Color
	FaintText  lipgloss.Color
	Header     lipgloss.Color

	Good lipgloss.Color
	Warn lipgloss.Color
	Bad  lipgloss.Color
	Info lipgloss.Color
}

// DefaultTheme is the built-in dark-terminal palette.
var DefaultTheme = Theme{
	NormalText: lipgloss.Color("252"),
	FaintText:  lipgloss.Color("243"),
	Header:     lipgloss.Color("255"),
	Good:       lipgloss.Color("42"),
	Warn:       lipgloss.Color("214"),
	Bad:        lipgloss.Color("203"),
	Info:       lipgloss.Color("39"),
}

func (t Theme) tone(tn view.Tone) lipgloss.Style {
	s := lipgloss.NewStyle().Foreground(t.NormalText)
	switch tn {
	case view.ToneGood:
		return s.Foreground(t.Good)
	case view.ToneWarn:
		return s.Foreground(t.Warn)
	case view.ToneBad:
		return s.Foreground(t.Bad)
	}
	return s
}

func (t Theme) state(s core.ChannelState) lipgloss.Style {
	switch s {
	case core.ChannelLive:
		return lipgloss.NewStyle().Foreground(t.Good)
	case core.ChannelConnecting:
		return lipgloss.NewStyle().Foreground(t.Warn)
	default:
		return lipgloss.NewStyle().Foreground(t.Bad)
	}
}

func (t Theme) level(l notify.Level) lipgloss.Style {
	s := lipgloss.NewStyle().Bold(true)
	switch l {
	case notify.LevelSuccess:
		return s.Foreground(t.Good)
	case notify.LevelWarn:
		return s.Foreground(t.Warn)
	case notify.LevelError:
		return s.Foreground(t.Bad)
	default:
		return s.Foreground(t.Info)
	}
}

func (t Theme) faint() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.FaintText)
}

func (t Theme) header() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Header).Bold(true)
}
