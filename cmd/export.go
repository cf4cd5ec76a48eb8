package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/songbook/internal/formatter"
	"github.com/desertthunder/songbook/internal/models"
	"github.com/urfave/cli/v3"
)

// Export writes every song with its artist name in the requested format.
func (r *Runner) Export(ctx context.Context, cmd *cli.Command) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	store, db, err := r.openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	_, songs := r.catalog(store, nil)
	details, err := songs.GetAllDetails(ctx)
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}

	return r.export(details, format, cmd.String("output"))
}

// export writes songs to path, or to the runner's output when path is "-".
func (r *Runner) export(songs []*models.SongDetails, format formatter.Format, path string) error {
	if path == "-" {
		return formatter.WriteExport(r.output, songs, format)
	}

	written, err := formatter.WriteExportFile(songs, format, path)
	if err != nil {
		return err
	}

	r.logger.Info("catalog exported", "songs", len(songs), "format", format, "path", written)
	r.writePlain("✓ Exported %d songs to %s\n", len(songs), written)
	return nil
}
