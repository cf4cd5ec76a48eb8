package ui

import (
	"github.com/charmbracelet/lipgloss"
)

var styles = NewPalette(PaletteColors{
	Title: "#7D56F4",
	OK:    "#04B575",
	Err:   "#FF0000",
	Warn:  "#FFA500",
	Muted: "#626262",
})

// PaletteColors are the hex colors a [Palette] is built from.
type PaletteColors struct {
	Title, OK, Err, Warn, Muted string
}

// struct Palette is a simple stylesheet built with named [lipgloss.Style] fields
type Palette struct {
	title lipgloss.Style
	ok    lipgloss.Style
	err   lipgloss.Style
	warn  lipgloss.Style
	label lipgloss.Style
	help  lipgloss.Style
}

func NewPalette(c PaletteColors) *Palette {
	return &Palette{
		title: NewBold(c.Title).MarginBottom(1),
		ok:    NewBold(c.OK),
		err:   NewBold(c.Err),
		warn:  NewStyle(c.Warn),
		label: NewBold(c.Muted).Width(10),
		help:  NewEm(c.Muted),
	}
}

func NewStyle(fg string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(fg))
}

func NewBold(fg string) lipgloss.Style {
	return NewStyle(fg).Bold(true)
}

func NewEm(fg string) lipgloss.Style {
	return NewStyle(fg).Italic(true)
}
