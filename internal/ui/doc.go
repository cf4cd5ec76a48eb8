// Package ui implements a read-only terminal browser for the catalog using bubbletea's Elm architecture.
//
// The TUI walks through these views:
//  1. [ArtistListView] : Browse artists
//  2. [SongListView] : Songs recorded by the selected artist
//  3. [SongDetailView] : One song's album, genre and timestamps
//  4. [ConfirmView] : Confirm a search reindex
//  5. [ReindexView] : Live progress from the reindexer
//  6. [ResultView] : Indexed counts and failed songs
//
// The (view) [Model] implements the standard Init/Update/View pattern, receiving messages via the Msg union type.
// Reindex progress flows through a channel from [Reindexer]; the final result follows on a separate done channel
// once the progress channel closes.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, y/n, r, q) with contextual help from charmbracelet/bubbles/help.
package ui
