// package formatter exports the song catalog to various formats (CSV, Markdown, plain text, JSON)
package formatter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/desertthunder/songbook/internal/models"
	"github.com/desertthunder/songbook/internal/shared"
)

// Format is an export file format.
type Format string

const (
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "md"
	FormatText     Format = "txt"
	FormatJSON     Format = "json"
)

// ParseFormat resolves a format name, accepting common aliases
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "csv":
		return FormatCSV, nil
	case "md", "markdown":
		return FormatMarkdown, nil
	case "txt", "text":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: unknown export format %q (csv, md, txt, json)", shared.ErrInvalidFlag, s)
	}
}

// Extension returns the file extension for the format, without the dot
func (f Format) Extension() string { return string(f) }

// ExportToCSV converts songs to CSV with columns: ID, Title, Artist, Album, Genre, Updated
func ExportToCSV(songs []*models.SongDetails) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Title", "Artist", "Album", "Genre", "Updated"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, song := range songs {
		record := []string{
			strconv.FormatInt(song.ID(), 10),
			song.Title(),
			song.ArtistName(),
			models.Deref(song.Album()),
			genreName(song),
			song.UpdatedAt().UTC().Format(time.RFC3339),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts songs to Markdown with one section per artist.
// Songs are expected in artist order, as returned by the catalog.
func ExportToMarkdown(songs []*models.SongDetails) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString("# Catalog\n\n")
	buf.WriteString(fmt.Sprintf("**Songs**: %d\n", len(songs)))
	buf.WriteString(fmt.Sprintf("**Artists**: %d\n", countArtists(songs)))

	var artistID int64 = -1
	n := 0
	for _, song := range songs {
		if song.ArtistID() != artistID {
			artistID = song.ArtistID()
			n = 0
			buf.WriteString(fmt.Sprintf("\n## %s\n\n", song.ArtistName()))
		}
		n++

		details := []string{}
		if album := song.Album(); album != nil {
			details = append(details, *album)
		}
		if genre := genreName(song); genre != "" {
			details = append(details, genre)
		}

		suffix := ""
		if len(details) > 0 {
			suffix = fmt.Sprintf(" (%s)", strings.Join(details, ", "))
		}
		buf.WriteString(fmt.Sprintf("%d. %s%s\n", n, song.Title(), suffix))
	}

	return buf.Bytes(), nil
}

// ExportToText converts songs to plain text, one "Artist - Title" line per song
func ExportToText(songs []*models.SongDetails) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Songs: %d\n\n", len(songs)))
	for i, song := range songs {
		buf.WriteString(fmt.Sprintf("%d. %s - %s\n", i+1, song.ArtistName(), song.Title()))
	}

	return buf.Bytes(), nil
}

// ExportToJSON converts songs to an indented {"songs": [...], "count": n} document
func ExportToJSON(songs []*models.SongDetails) ([]byte, error) {
	data, err := json.MarshalIndent(map[string]any{"songs": songs, "count": len(songs)}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return append(data, '\n'), nil
}

// Export renders songs in format
func Export(songs []*models.SongDetails, format Format) ([]byte, error) {
	switch format {
	case FormatCSV:
		return ExportToCSV(songs)
	case FormatMarkdown:
		return ExportToMarkdown(songs)
	case FormatText:
		return ExportToText(songs)
	case FormatJSON:
		return ExportToJSON(songs)
	default:
		return nil, fmt.Errorf("%w: unknown export format %q", shared.ErrInvalidFlag, format)
	}
}

// WriteExport renders songs and writes them to w
func WriteExport(w io.Writer, songs []*models.SongDetails, format Format) error {
	data, err := Export(songs, format)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	return nil
}

// WriteExportFile renders songs into a file and returns its path.
//
// Defaults to catalog_export_{epoch}.{ext} as the filename.
func WriteExportFile(songs []*models.SongDetails, format Format, path string) (string, error) {
	if path == "" {
		path = fmt.Sprintf("catalog_export_%d.%s", time.Now().Unix(), format.Extension())
	}

	data, err := Export(songs, format)
	if err != nil {
		return "", fmt.Errorf("failed to generate export: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write export file: %w", err)
	}

	return path, nil
}

func genreName(song *models.SongDetails) string {
	if g := song.Genre(); g != nil {
		return g.String()
	}
	return ""
}

func countArtists(songs []*models.SongDetails) int {
	seen := map[int64]struct{}{}
	for _, s := range songs {
		seen[s.ArtistID()] = struct{}{}
	}
	return len(seen)
}
