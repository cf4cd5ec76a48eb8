// Package repositories implements SQL persistence for the catalog's entities.
//
// Every repository wraps a shared [Store], the query-execution helper that holds the injected
// connection pool, rebinds "?" placeholders for postgres and classifies driver errors.
//
// Key Implementations:
//   - [ArtistRepository] : Artists ordered by name, with existence checks
//   - [SongRepository] : Songs with artist, genre and title-substring finders plus an artist-name join
//   - [UserRepository] : Accounts with email/username lookups and password-hash updates
//
// Writes re-read the affected row so callers always see store-assigned IDs and timestamps.
// Constraint failures surface as [ErrForeignKey] and [ErrUnique]; missing rows as [ErrNotFound].
package repositories
