package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/songbook/internal/models"
	"github.com/desertthunder/songbook/internal/tasks"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgArtistsFetched MsgKind = iota
	MsgSongsFetched
	MsgProgressUpdate
	MsgReindexComplete
)

type artistsFetched struct {
	artists []*models.Artist
	err     error
}

type songsFetched struct {
	artist *models.Artist
	songs  []*models.Song
	err    error
}

type reindexComplete struct {
	result *tasks.ReindexResult
	err    error
}

// artistsFetchedMsg is the constructor for [MsgArtistsFetched]
func artistsFetchedMsg(artists []*models.Artist, err error) Msg {
	return Msg{kind: MsgArtistsFetched, data: artistsFetched{artists, err}}
}

// songsFetchedMsg is the constructor for [MsgSongsFetched]
func songsFetchedMsg(artist *models.Artist, songs []*models.Song, err error) Msg {
	return Msg{kind: MsgSongsFetched, data: songsFetched{artist, songs, err}}
}

// progressUpdateMsg is the constructor for [MsgProgressUpdate]
func progressUpdateMsg(update tasks.ProgressUpdate) Msg {
	return Msg{kind: MsgProgressUpdate, data: update}
}

// reindexCompleteMsg is the constructor for [MsgReindexComplete]
func reindexCompleteMsg(result *tasks.ReindexResult, err error) Msg {
	return Msg{kind: MsgReindexComplete, data: reindexComplete{result, err}}
}
