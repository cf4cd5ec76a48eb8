// package search mirrors the song catalog into a Typesense collection for title search
package search

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/songbook/internal/models"
	"github.com/desertthunder/songbook/internal/shared"
	"github.com/typesense/typesense-go/typesense"
	"github.com/typesense/typesense-go/typesense/api"
	"github.com/typesense/typesense-go/typesense/api/pointer"
)

const (
	// CollectionName is the Typesense collection holding song documents.
	CollectionName = "songs"

	defaultTimeout = 5 * time.Second
	// perPage is the largest page Typesense serves.
	perPage = 250
	queryBy = "title"
)

// TypesenseIndex implements services.SongIndex over a Typesense collection.
type TypesenseIndex struct {
	client     *typesense.Client
	collection string
	logger     *log.Logger
}

// NewTypesenseIndex creates a client for cfg. It does not contact the server; call [TypesenseIndex.EnsureCollection] first.
func NewTypesenseIndex(cfg shared.SearchConfig, logger *log.Logger) (*TypesenseIndex, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("%w: search host is required", shared.ErrInvalidConfig)
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: search api key is required", shared.ErrInvalidConfig)
	}
	if logger == nil {
		logger = log.Default()
	}

	client := typesense.NewClient(
		typesense.WithServer(cfg.Host),
		typesense.WithAPIKey(cfg.APIKey),
		typesense.WithConnectionTimeout(defaultTimeout),
	)

	return &TypesenseIndex{client: client, collection: CollectionName, logger: logger}, nil
}

// Schema returns the collection schema for song documents
func Schema(name string) *api.CollectionSchema {
	return &api.CollectionSchema{
		Name: name,
		Fields: []api.Field{
			{Name: "id", Type: "string"},
			{Name: "title", Type: "string", Infix: pointer.True()},
			{Name: "artist_id", Type: "int64"},
			{Name: "artist_name", Type: "string"},
			{Name: "album", Type: "string", Optional: pointer.True()},
			{Name: "genre", Type: "string", Optional: pointer.True(), Facet: pointer.True()},
			{Name: "updated_at", Type: "int64"},
		},
		DefaultSortingField: pointer.String("updated_at"),
	}
}

// EnsureCollection creates the song collection when it does not exist
func (i *TypesenseIndex) EnsureCollection(ctx context.Context) error {
	if _, err := i.client.Collection(i.collection).Retrieve(ctx); err == nil {
		i.logger.Debug("search collection exists", "collection", i.collection)
		return nil
	}

	if _, err := i.client.Collections().Create(ctx, Schema(i.collection)); err != nil {
		return fmt.Errorf("failed to create collection %s: %w", i.collection, err)
	}

	i.logger.Info("search collection created", "collection", i.collection)
	return nil
}

// Recreate drops the collection, ignoring a missing one, and creates it empty
func (i *TypesenseIndex) Recreate(ctx context.Context) error {
	if _, err := i.client.Collection(i.collection).Delete(ctx); err != nil {
		i.logger.Warn("could not delete search collection", "collection", i.collection, "error", err)
	}
	return i.EnsureCollection(ctx)
}

// Upsert adds or replaces the document for song
func (i *TypesenseIndex) Upsert(ctx context.Context, song *models.SongDetails) error {
	if _, err := i.client.Collection(i.collection).Documents().Upsert(ctx, Document(song)); err != nil {
		return fmt.Errorf("failed to index song %d: %w", song.ID(), err)
	}
	return nil
}

// Delete removes the document for a song ID
func (i *TypesenseIndex) Delete(ctx context.Context, id int64) error {
	if _, err := i.client.Collection(i.collection).Document(strconv.FormatInt(id, 10)).Delete(ctx); err != nil {
		return fmt.Errorf("failed to remove song %d from index: %w", id, err)
	}
	return nil
}

// Search returns the IDs of songs whose title tokens contain the query tokens, in relevance order.
// Every page of hits is collected.
func (i *TypesenseIndex) Search(ctx context.Context, query string) ([]int64, error) {
	docs := []map[string]any{}
	for page := 1; ; page++ {
		result, err := i.client.Collection(i.collection).Documents().Search(ctx, SearchParams(query, page))
		if err != nil {
			return nil, fmt.Errorf("failed to search songs: %w", err)
		}

		hits := 0
		if result.Hits != nil {
			for _, hit := range *result.Hits {
				if hit.Document != nil {
					docs = append(docs, *hit.Document)
				}
			}
			hits = len(*result.Hits)
		}

		if lastPage(result.Found, page, hits) {
			break
		}
	}
	return DocumentIDs(docs), nil
}

// SearchParams builds the request for one page of a title search.
// Infix matching finds the query inside a word; typo tolerance and token dropping are off so hits stay literal.
func SearchParams(query string, page int) *api.SearchCollectionParams {
	return &api.SearchCollectionParams{
		Q:                   query,
		QueryBy:             queryBy,
		Infix:               pointer.String("always"),
		Prefix:              pointer.String("true"),
		NumTypos:            pointer.String("0"),
		DropTokensThreshold: pointer.Int(0),
		Page:                pointer.Int(page),
		PerPage:             pointer.Int(perPage),
	}
}

// lastPage reports whether page, which returned hits documents, ends a result set of found documents.
func lastPage(found *int, page, hits int) bool {
	if hits < perPage {
		return true
	}
	return found != nil && page*perPage >= *found
}

// Document converts song into its index document. Typesense document ids are strings.
func Document(song *models.SongDetails) map[string]any {
	doc := map[string]any{
		"id":          strconv.FormatInt(song.ID(), 10),
		"title":       song.Title(),
		"artist_id":   song.ArtistID(),
		"artist_name": song.ArtistName(),
		"updated_at":  song.UpdatedAt().Unix(),
	}

	if album := song.Album(); album != nil {
		doc["album"] = *album
	}
	if genre := song.Genre(); genre != nil {
		doc["genre"] = genre.String()
	}
	return doc
}

// DocumentIDs extracts song IDs from search hits, skipping documents without a numeric id
func DocumentIDs(docs []map[string]any) []int64 {
	ids := make([]int64, 0, len(docs))
	for _, doc := range docs {
		raw, ok := doc["id"].(string)
		if !ok {
			continue
		}
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}
