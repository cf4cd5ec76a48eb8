// Package models defines domain entities and persistence interfaces for the songbook music catalog.
//
// Persistent entities:
//   - [Artist] : Performer with optional biography and image
//   - [Song] : Track belonging to exactly one artist, with optional album and [Genre]
//   - [SongDetails] : A [Song] joined with its artist's name
//   - [User] : Account holding a bcrypt password hash that is never serialized
//
// All persistent entities implement the [Model] interface providing IDs, timestamps and validation.
// The [Repository] interface defines standard CRUD operations for database access.
//
// [Genre] is a closed set; [ParseGenre] is the only way to turn caller input into one.
// [Optional] records whether a JSON key was present and whether it was null, which drives partial updates.
package models
