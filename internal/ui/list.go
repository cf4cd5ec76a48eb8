package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/songbook/internal/models"
)

var (
	_ list.Item = artistItem{}
	_ list.Item = songItem{}
)

// artistItem wraps [models.Artist] to implement [list.Item].
type artistItem struct {
	artist *models.Artist
}

func (i artistItem) FilterValue() string { return i.artist.Name() }
func (i artistItem) Title() string       { return i.artist.Name() }
func (i artistItem) Description() string {
	if bio := i.artist.Bio(); bio != nil {
		return *bio
	}
	return fmt.Sprintf("artist #%d", i.artist.ID())
}

// songItem wraps [models.Song] to implement [list.Item].
type songItem struct {
	song *models.Song
}

func (i songItem) FilterValue() string { return i.song.Title() }
func (i songItem) Title() string       { return i.song.Title() }
func (i songItem) Description() string {
	desc := models.Deref(i.song.Album())
	if desc == "" {
		desc = "single"
	}
	if g := i.song.Genre(); g != nil {
		desc = fmt.Sprintf("%s • %s", desc, g)
	}
	return desc
}

func newList(items []list.Item, title string, width, height int) list.Model {
	l := list.New(items, list.NewDefaultDelegate(), 0, 0)
	l.Title = title
	l.KeyMap.Quit.SetEnabled(false)
	l.SetSize(max(width, 0), max(height, 0))
	return l
}
