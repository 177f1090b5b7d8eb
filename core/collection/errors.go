package collection

import "errors"

var (
	// ErrAlbumNotFound indicates the album id (catalog or local) did not
	// resolve to anything.
	ErrAlbumNotFound = errors.New("collection: album not found")

	// ErrInvalidCatalogData indicates the catalog returned data that does
	// not parse, such as a malformed duration or release date.
	ErrInvalidCatalogData = errors.New("collection: invalid catalog data")

	// ErrConflict indicates a concurrent request mirrored the same catalog
	// entity first; the unique indexes on external ids rejected the write.
	ErrConflict = errors.New("collection: conflicting concurrent write")
)
