// Package services implements the catalog's business rules between the HTTP handlers and the repositories.
//
// # Services
//
//   - [ArtistService] : artist CRUD with referential protection on delete
//   - [SongService] : song CRUD, artist/genre filters and title search, optionally mirrored into a [SongIndex]
//   - [UserService] : registration, login, profile updates and password changes
//
// Services depend on small store interfaces ([ArtistStore], [SongStore], [UserStore]) satisfied by the
// repositories package, so tests can run them over an in-memory database.
//
// # Validation
//
// Input is checked in a fixed order and the first failure wins, before anything is written:
//  1. required fields are present and non-empty
//  2. lengths are within bounds
//  3. referenced entities exist (a song's artist)
//  4. enumerated values are members of their set (genre)
//  5. unique values are not taken (email, then username)
//
// Updates resolve the target entity first and then check only the keys present in the payload.
// A key sent as null clears a nullable field; an omitted key leaves it untouched.
//
// # Error Handling
//
// Every failure is a [shared.Error] carrying a [shared.Kind]. Repository sentinels are translated here:
//   - [repositories.ErrForeignKey] on a song write : NotFound "Artist not found"
//   - [repositories.ErrForeignKey] on an artist delete : Conflict
//   - [repositories.ErrUnique] : Conflict
//   - [repositories.ErrNotFound] : NotFound
//
// Anything else becomes [shared.KindInternal]; the cause stays in the chain for server-side logging.
//
// # Passwords
//
// [PasswordHasher] wraps bcrypt. Plaintext passwords never reach a repository or a log line.
package services
