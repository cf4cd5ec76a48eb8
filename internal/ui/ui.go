package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/songbook/internal/models"
	"github.com/desertthunder/songbook/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	ArtistListView ViewState = iota
	SongListView
	SongDetailView
	ConfirmView
	ReindexView
	ResultView
)

// ArtistSource lists artists. Implemented by services.ArtistService.
type ArtistSource interface {
	GetAll(ctx context.Context) ([]*models.Artist, error)
}

// SongSource lists one artist's songs. Implemented by services.SongService.
type SongSource interface {
	GetByArtist(ctx context.Context, artistID int64) ([]*models.Song, error)
}

// Reindexer pushes the catalog into the search index. Implemented by [tasks.Reindexer].
type Reindexer interface {
	Run(ctx context.Context, prog chan<- tasks.ProgressUpdate, opts tasks.ReindexOpts) (*tasks.ReindexResult, error)
}

// Model represents the TUI application state.
type Model struct {
	ctx            context.Context
	view           ViewState
	artists        ArtistSource
	songs          SongSource
	reindexer      Reindexer
	width          int
	height         int
	artistList     list.Model
	songList       list.Model
	selectedArtist *models.Artist
	selectedSong   *models.Song
	progressChan   chan tasks.ProgressUpdate
	doneChan       chan Msg
	progress       tasks.ProgressUpdate
	result         *tasks.ReindexResult
	err            error
	help           help.Model
	keys           keyMap
}

// NewModel creates a new TUI model. reindexer may be nil, which hides the reindex action.
func NewModel(ctx context.Context, artists ArtistSource, songs SongSource, reindexer Reindexer) *Model {
	return &Model{
		ctx:        ctx,
		view:       ArtistListView,
		artists:    artists,
		songs:      songs,
		reindexer:  reindexer,
		artistList: newList(nil, "Artists", 0, 0),
		songList:   newList(nil, "Songs", 0, 0),
		help:       help.New(),
		keys:       newKeyMap(),
	}
}

// State returns the current [ViewState].
func (m *Model) State() ViewState { return m.view }

// Init initializes the TUI by fetching artists.
func (m *Model) Init() tea.Cmd {
	return m.fetchArtists()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.artistList.SetSize(max(msg.Width-4, 0), max(msg.Height-8, 0))
		m.songList.SetSize(max(msg.Width-4, 0), max(msg.Height-8, 0))
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, key.NewBinding(key.WithKeys("ctrl+c"))) {
			return m, tea.Quit
		}
		switch m.view {
		case ArtistListView:
			return m.handleArtistListKeys(msg)
		case SongListView:
			return m.handleSongListKeys(msg)
		case SongDetailView:
			return m.handleSongDetailKeys(msg)
		case ConfirmView:
			return m.handleConfirmKeys(msg)
		case ResultView:
			return m.handleResultKeys(msg)
		}
		return m, nil

	case Msg:
		return m.handleMsg(msg)
	}

	return m.updateLists(msg)
}

func (m *Model) handleMsg(msg Msg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case MsgArtistsFetched:
		data := msg.data.(artistsFetched)
		if data.err != nil {
			m.err = data.err
			return m, nil
		}
		items := make([]list.Item, len(data.artists))
		for i, a := range data.artists {
			items[i] = artistItem{artist: a}
		}
		m.artistList = newList(items, fmt.Sprintf("Artists (%d)", len(items)), m.width-4, m.height-8)
		return m, nil

	case MsgSongsFetched:
		data := msg.data.(songsFetched)
		if data.err != nil {
			m.err = data.err
			m.view = ArtistListView
			return m, nil
		}
		m.selectedArtist = data.artist
		items := make([]list.Item, len(data.songs))
		for i, s := range data.songs {
			items[i] = songItem{song: s}
		}
		m.songList = newList(items, fmt.Sprintf("Songs by %s", data.artist.Name()), m.width-4, m.height-8)
		m.view = SongListView
		return m, nil

	case MsgProgressUpdate:
		m.progress = msg.data.(tasks.ProgressUpdate)
		return m, waitForProgress(m.progressChan, m.doneChan)

	case MsgReindexComplete:
		data := msg.data.(reindexComplete)
		m.result = data.result
		m.err = data.err
		m.progressChan = nil
		m.doneChan = nil
		m.view = ResultView
		return m, nil
	}
	return m, nil
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil && m.view != ResultView {
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress q to quit", m.err))
	}

	switch m.view {
	case ArtistListView:
		return m.renderArtistList()
	case SongListView:
		return m.renderSongList()
	case SongDetailView:
		return m.renderSongDetail()
	case ConfirmView:
		return m.renderConfirm()
	case ReindexView:
		return m.renderReindex()
	case ResultView:
		return m.renderResult()
	default:
		return ""
	}
}

func (m *Model) handleArtistListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.artistList.FilterState() != list.Filtering {
		switch {
		case key.Matches(msg, m.keys.quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.enter):
			if item, ok := m.artistList.SelectedItem().(artistItem); ok {
				return m, m.fetchSongs(item.artist)
			}
			return m, nil
		case key.Matches(msg, m.keys.reindex) && m.reindexer != nil:
			m.view = ConfirmView
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.artistList, cmd = m.artistList.Update(msg)
	return m, cmd
}

func (m *Model) handleSongListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.songList.FilterState() != list.Filtering {
		switch {
		case key.Matches(msg, m.keys.quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.back):
			m.view = ArtistListView
			m.selectedArtist = nil
			return m, nil
		case key.Matches(msg, m.keys.enter):
			if item, ok := m.songList.SelectedItem().(songItem); ok {
				m.selectedSong = item.song
				m.view = SongDetailView
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.songList, cmd = m.songList.Update(msg)
	return m, cmd
}

func (m *Model) handleSongDetailKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		m.view = SongListView
		m.selectedSong = nil
	}
	return m, nil
}

func (m *Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit), key.Matches(msg, m.keys.no), key.Matches(msg, m.keys.back):
		m.view = ArtistListView
		return m, nil
	case key.Matches(msg, m.keys.yes):
		m.view = ReindexView
		return m, m.startReindex()
	}
	return m, nil
}

func (m *Model) handleResultKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back), key.Matches(msg, m.keys.enter):
		m.view = ArtistListView
		m.result = nil
		m.err = nil
	}
	return m, nil
}

func (m *Model) updateLists(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case ArtistListView:
		m.artistList, cmd = m.artistList.Update(msg)
	case SongListView:
		m.songList, cmd = m.songList.Update(msg)
	}
	return m, cmd
}

func (m *Model) fetchArtists() tea.Cmd {
	return func() tea.Msg {
		artists, err := m.artists.GetAll(m.ctx)
		return artistsFetchedMsg(artists, err)
	}
}

func (m *Model) fetchSongs(artist *models.Artist) tea.Cmd {
	return func() tea.Msg {
		songs, err := m.songs.GetByArtist(m.ctx, artist.ID())
		return songsFetchedMsg(artist, songs, err)
	}
}

// startReindex runs the reindexer in the background.
//
// Progress arrives one update per command; the final result is delivered once the progress channel closes.
func (m *Model) startReindex() tea.Cmd {
	m.progressChan = make(chan tasks.ProgressUpdate, 50)
	m.doneChan = make(chan Msg, 1)
	m.progress = tasks.ProgressUpdate{}

	progress, done := m.progressChan, m.doneChan
	go func() {
		result, err := m.reindexer.Run(m.ctx, progress, tasks.ReindexOpts{})
		close(progress)
		done <- reindexCompleteMsg(result, err)
	}()

	return waitForProgress(progress, done)
}

func waitForProgress(progress <-chan tasks.ProgressUpdate, done <-chan Msg) tea.Cmd {
	return func() tea.Msg {
		if update, ok := <-progress; ok {
			return progressUpdateMsg(update)
		}
		return <-done
	}
}

func (m *Model) renderArtistList() string {
	helpKeys := []key.Binding{m.keys.enter, m.keys.quit}
	if m.reindexer != nil {
		helpKeys = []key.Binding{m.keys.enter, m.keys.reindex, m.keys.quit}
	}
	return fmt.Sprintf("%s\n\n%s", m.artistList.View(), m.help.ShortHelpView(helpKeys))
}

func (m *Model) renderSongList() string {
	helpKeys := []key.Binding{m.keys.enter, m.keys.back, m.keys.quit}
	return fmt.Sprintf("%s\n\n%s", m.songList.View(), m.help.ShortHelpView(helpKeys))
}

func (m *Model) renderSongDetail() string {
	if m.selectedSong == nil {
		return ""
	}
	s := m.selectedSong

	genre := "-"
	if g := s.Genre(); g != nil {
		genre = g.String()
	}
	album := models.Deref(s.Album())
	if album == "" {
		album = "-"
	}
	artist := "-"
	if m.selectedArtist != nil {
		artist = m.selectedArtist.Name()
	}

	rows := [][2]string{
		{"Artist", artist},
		{"Album", album},
		{"Genre", genre},
		{"Added", s.CreatedAt().Format(time.DateOnly)},
		{"Updated", s.UpdatedAt().Format(time.DateOnly)},
	}

	var b strings.Builder
	b.WriteString(styles.title.Render(s.Title()))
	b.WriteString("\n")
	for _, row := range rows {
		b.WriteString(fmt.Sprintf("%s %s\n", styles.label.Render(row[0]), row[1]))
	}

	helpView := m.help.ShortHelpView([]key.Binding{m.keys.back, m.keys.quit})
	return fmt.Sprintf("%s\n%s", b.String(), helpView)
}

func (m *Model) renderConfirm() string {
	title := styles.title.Render("Rebuild the search index?")
	info := "\nEvery song in the catalog will be pushed to the search index.\n"

	helpKeys := []key.Binding{m.keys.yes, m.keys.no}
	return fmt.Sprintf("%s\n%s\n%s", title, info, m.help.ShortHelpView(helpKeys))
}

func (m *Model) renderReindex() string {
	title := styles.title.Render("Reindexing Catalog")

	var phase string
	switch m.progress.Phase {
	case tasks.FetchCatalog:
		phase = "Loading catalog..."
	case tasks.PrepareIndex:
		phase = "Preparing search collection..."
	case tasks.IndexSongs:
		phase = fmt.Sprintf("Indexing songs (%d/%d)", m.progress.Step, m.progress.Total)
	default:
		phase = "Processing..."
	}

	return fmt.Sprintf("%s\n\n%s\n%s", title, phase, m.progress.Message)
}

func (m *Model) renderResult() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Reindex failed: %v\n\nPress esc to go back, q to quit", m.err))
	}

	if m.result == nil {
		return styles.err.Render("No result available\n\nPress esc to go back, q to quit")
	}

	title := styles.ok.Render("✓ Reindex Complete!")
	info := fmt.Sprintf("\nIndexed: %d/%d\nDuration: %s", m.result.Indexed, m.result.Total, m.result.Duration.Round(time.Millisecond))

	var failed string
	if m.result.Failed > 0 {
		failed = fmt.Sprintf("\n\n%s", styles.warn.Render(fmt.Sprintf("Failed to index %d songs:", m.result.Failed)))
		for _, f := range m.result.Failures {
			failed += fmt.Sprintf("\n  • %s (#%d): %v", f.Title, f.ID, f.Err)
		}
	}

	helpKeys := []key.Binding{m.keys.back, m.keys.quit}
	return fmt.Sprintf("%s\n%s%s\n\n%s", title, info, failed, m.help.ShortHelpView(helpKeys))
}
