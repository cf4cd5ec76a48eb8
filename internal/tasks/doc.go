// Package tasks runs long-lived catalog jobs with real-time progress reporting.
//
// # Reindexing
//
// [Reindexer.Run] pushes every song in the catalog into a search index:
//  1. loads all songs with artist names from a [Catalog]
//  2. optionally drops and recreates the collection when the index is a [Resetter]
//  3. fans documents out to a bounded worker pool, pacing dispatch with a token-bucket limiter
//  4. collects per-song failures without aborting the run
//
// # Progress Reporting
//
// Operations send [ProgressUpdate] values on an optional channel.
// Sends use select with default, so a slow or absent reader never blocks the job.
package tasks
