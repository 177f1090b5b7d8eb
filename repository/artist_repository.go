package repository

import (
	"context"
	"database/sql"
	"fmt"

	"waxcrate/model"
)

// ArtistRepository defines database operations for mirrored artists.
type ArtistRepository interface {
	// GetArtistByID returns the artist with the given local id, or nil.
	GetArtistByID(ctx context.Context, id int64) (*model.Artist, error)

	// GetArtistBySpotifyID returns the artist with the given external id,
	// or nil when no row exists.
	GetArtistBySpotifyID(ctx context.Context, spotifyArtistID string) (*model.Artist, error)

	// CreateArtist inserts a new artist row and returns its id.
	CreateArtist(ctx context.Context, artist *model.Artist) (int64, error)

	// CountAlbumsByArtist returns how many albums reference the artist.
	CountAlbumsByArtist(ctx context.Context, artistID int64) (int64, error)

	// DeleteArtist removes an artist row.
	DeleteArtist(ctx context.Context, artistID int64) error
}

// mysqlArtistRepository implements ArtistRepository for MySQL.
type mysqlArtistRepository struct {
	db DBTX
}

// NewMySQLArtistRepository creates a new mysqlArtistRepository.
func NewMySQLArtistRepository(db DBTX) ArtistRepository {
	return &mysqlArtistRepository{db: db}
}

func (r *mysqlArtistRepository) GetArtistByID(ctx context.Context, id int64) (*model.Artist, error) {
	query := `
		SELECT id, name, spotify_artist_id, spotify_artist_uri, created_at, updated_at
		FROM artists
		WHERE id = ?
	`
	artist := &model.Artist{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&artist.ID,
		&artist.Name,
		&artist.SpotifyArtistID,
		&artist.SpotifyArtistURI,
		&artist.CreatedAt,
		&artist.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to scan artist row for id %d: %w", id, err)
	}
	return artist, nil
}

func (r *mysqlArtistRepository) GetArtistBySpotifyID(ctx context.Context, spotifyArtistID string) (*model.Artist, error) {
	query := `
		SELECT id, name, spotify_artist_id, spotify_artist_uri, created_at, updated_at
		FROM artists
		WHERE spotify_artist_id = ?
	`
	artist := &model.Artist{}
	err := r.db.QueryRowContext(ctx, query, spotifyArtistID).Scan(
		&artist.ID,
		&artist.Name,
		&artist.SpotifyArtistID,
		&artist.SpotifyArtistURI,
		&artist.CreatedAt,
		&artist.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to scan artist row for spotify id %s: %w", spotifyArtistID, err)
	}
	return artist, nil
}

func (r *mysqlArtistRepository) CreateArtist(ctx context.Context, artist *model.Artist) (int64, error) {
	query := `
		INSERT INTO artists (name, spotify_artist_id, spotify_artist_uri, created_at, updated_at)
		VALUES (?, ?, ?, NOW(), NOW())
	`
	res, err := r.db.ExecContext(ctx, query, artist.Name, artist.SpotifyArtistID, artist.SpotifyArtistURI)
	if err != nil {
		if isDuplicate(err) {
			return 0, ErrDuplicateKey
		}
		return 0, fmt.Errorf("failed to insert artist: %w", err)
	}
	return res.LastInsertId()
}

func (r *mysqlArtistRepository) CountAlbumsByArtist(ctx context.Context, artistID int64) (int64, error) {
	var count int64
	query := "SELECT COUNT(*) FROM albums WHERE artist_id = ?"
	if err := r.db.QueryRowContext(ctx, query, artistID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count albums for artist %d: %w", artistID, err)
	}
	return count, nil
}

func (r *mysqlArtistRepository) DeleteArtist(ctx context.Context, artistID int64) error {
	query := "DELETE FROM artists WHERE id = ?"
	if _, err := r.db.ExecContext(ctx, query, artistID); err != nil {
		return fmt.Errorf("failed to delete artist %d: %w", artistID, err)
	}
	return nil
}
