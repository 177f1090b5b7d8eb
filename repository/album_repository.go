package repository

import (
	"context"
	"database/sql"
	"fmt"

	"waxcrate/model"
)

// AlbumRepository defines database operations for mirrored albums, their
// tracks, and the user-album collection links.
type AlbumRepository interface {
	// GetAlbumByID returns the album with the given local id, or nil.
	GetAlbumByID(ctx context.Context, id int64) (*model.Album, error)

	// GetAlbumBySpotifyID returns the album with the given external id, or nil.
	GetAlbumBySpotifyID(ctx context.Context, spotifyAlbumID string) (*model.Album, error)

	// CreateAlbum inserts a new album row and returns its id.
	CreateAlbum(ctx context.Context, album *model.Album) (int64, error)

	// CreateTracks inserts the album's track rows.
	CreateTracks(ctx context.Context, tracks []*model.AlbumTrack) error

	// GetAlbumTracks returns the album's tracks ordered by track number.
	GetAlbumTracks(ctx context.Context, albumID int64) ([]*model.AlbumTrack, error)

	// DeleteAlbumTracks removes all track rows of an album.
	DeleteAlbumTracks(ctx context.Context, albumID int64) error

	// DeleteAlbum removes an album row.
	DeleteAlbum(ctx context.Context, albumID int64) error

	// GetAlbumsByUserID returns all albums in a user's collection.
	GetAlbumsByUserID(ctx context.Context, userID int64) ([]*model.Album, error)

	// HasUserAlbum reports whether the album is in the user's collection.
	HasUserAlbum(ctx context.Context, userID, albumID int64) (bool, error)

	// LinkUserAlbum adds the album to the user's collection.
	LinkUserAlbum(ctx context.Context, userID, albumID int64) error

	// UnlinkUserAlbum removes the album from the user's collection and
	// reports whether a link row was actually deleted.
	UnlinkUserAlbum(ctx context.Context, userID, albumID int64) (bool, error)

	// CountAlbumUsers returns how many users hold the album.
	CountAlbumUsers(ctx context.Context, albumID int64) (int64, error)

	// UpdateCoverPath records the object path of a mirrored cover image.
	UpdateCoverPath(ctx context.Context, albumID int64, coverPath string) error
}

// mysqlAlbumRepository implements AlbumRepository for MySQL.
type mysqlAlbumRepository struct {
	db DBTX
}

// NewMySQLAlbumRepository creates a new mysqlAlbumRepository.
func NewMySQLAlbumRepository(db DBTX) AlbumRepository {
	return &mysqlAlbumRepository{db: db}
}

const albumColumns = `id, name, total_tracks, duration_secs, release_date, label,
	img_src, cover_path, spotify_album_id, spotify_album_uri, artist_id, created_at, updated_at`

func scanAlbum(row *sql.Row) (*model.Album, error) {
	album := &model.Album{}
	var coverPath sql.NullString
	err := row.Scan(
		&album.ID,
		&album.Name,
		&album.TotalTracks,
		&album.DurationSecs,
		&album.ReleaseDate,
		&album.Label,
		&album.ImgSrc,
		&coverPath,
		&album.SpotifyAlbumID,
		&album.SpotifyAlbumURI,
		&album.ArtistID,
		&album.CreatedAt,
		&album.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to scan album row: %w", err)
	}
	album.CoverPath = coverPath.String
	return album, nil
}

func (r *mysqlAlbumRepository) GetAlbumByID(ctx context.Context, id int64) (*model.Album, error) {
	query := "SELECT " + albumColumns + " FROM albums WHERE id = ?"
	return scanAlbum(r.db.QueryRowContext(ctx, query, id))
}

func (r *mysqlAlbumRepository) GetAlbumBySpotifyID(ctx context.Context, spotifyAlbumID string) (*model.Album, error) {
	query := "SELECT " + albumColumns + " FROM albums WHERE spotify_album_id = ?"
	return scanAlbum(r.db.QueryRowContext(ctx, query, spotifyAlbumID))
}

func (r *mysqlAlbumRepository) CreateAlbum(ctx context.Context, album *model.Album) (int64, error) {
	query := `
		INSERT INTO albums (name, total_tracks, duration_secs, release_date, label,
			img_src, cover_path, spotify_album_id, spotify_album_uri, artist_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, NOW(), NOW())
	`
	res, err := r.db.ExecContext(ctx, query,
		album.Name,
		album.TotalTracks,
		album.DurationSecs,
		album.ReleaseDate,
		album.Label,
		album.ImgSrc,
		album.CoverPath,
		album.SpotifyAlbumID,
		album.SpotifyAlbumURI,
		album.ArtistID,
	)
	if err != nil {
		if isDuplicate(err) {
			return 0, ErrDuplicateKey
		}
		return 0, fmt.Errorf("failed to insert album: %w", err)
	}
	return res.LastInsertId()
}

func (r *mysqlAlbumRepository) CreateTracks(ctx context.Context, tracks []*model.AlbumTrack) error {
	query := `
		INSERT INTO album_tracks (track_number, name, explicit, duration_secs,
			spotify_track_id, spotify_track_uri, album_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, NOW(), NOW())
	`
	for _, track := range tracks {
		if _, err := r.db.ExecContext(ctx, query,
			track.TrackNumber,
			track.Name,
			track.Explicit,
			track.DurationSecs,
			track.SpotifyTrackID,
			track.SpotifyTrackURI,
			track.AlbumID,
		); err != nil {
			return fmt.Errorf("failed to insert track %d of album %d: %w", track.TrackNumber, track.AlbumID, err)
		}
	}
	return nil
}

func (r *mysqlAlbumRepository) GetAlbumTracks(ctx context.Context, albumID int64) ([]*model.AlbumTrack, error) {
	query := `
		SELECT id, track_number, name, explicit, duration_secs,
			spotify_track_id, spotify_track_uri, album_id, created_at, updated_at
		FROM album_tracks
		WHERE album_id = ?
		ORDER BY track_number
	`
	rows, err := r.db.QueryContext(ctx, query, albumID)
	if err != nil {
		return nil, fmt.Errorf("failed to query tracks for album %d: %w", albumID, err)
	}
	defer rows.Close()

	var tracks []*model.AlbumTrack
	for rows.Next() {
		track := &model.AlbumTrack{}
		if err := rows.Scan(
			&track.ID,
			&track.TrackNumber,
			&track.Name,
			&track.Explicit,
			&track.DurationSecs,
			&track.SpotifyTrackID,
			&track.SpotifyTrackURI,
			&track.AlbumID,
			&track.CreatedAt,
			&track.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan track row: %w", err)
		}
		tracks = append(tracks, track)
	}
	return tracks, rows.Err()
}

func (r *mysqlAlbumRepository) DeleteAlbumTracks(ctx context.Context, albumID int64) error {
	query := "DELETE FROM album_tracks WHERE album_id = ?"
	if _, err := r.db.ExecContext(ctx, query, albumID); err != nil {
		return fmt.Errorf("failed to delete tracks of album %d: %w", albumID, err)
	}
	return nil
}

func (r *mysqlAlbumRepository) DeleteAlbum(ctx context.Context, albumID int64) error {
	query := "DELETE FROM albums WHERE id = ?"
	if _, err := r.db.ExecContext(ctx, query, albumID); err != nil {
		return fmt.Errorf("failed to delete album %d: %w", albumID, err)
	}
	return nil
}

func (r *mysqlAlbumRepository) GetAlbumsByUserID(ctx context.Context, userID int64) ([]*model.Album, error) {
	query := `
		SELECT a.id, a.name, a.total_tracks, a.duration_secs, a.release_date, a.label,
			a.img_src, a.cover_path, a.spotify_album_id, a.spotify_album_uri, a.artist_id, a.created_at, a.updated_at
		FROM albums a
		JOIN user_albums ua ON ua.album_id = a.id
		WHERE ua.user_id = ?
		ORDER BY a.created_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query albums for user %d: %w", userID, err)
	}
	defer rows.Close()

	var albums []*model.Album
	for rows.Next() {
		album := &model.Album{}
		var coverPath sql.NullString
		if err := rows.Scan(
			&album.ID,
			&album.Name,
			&album.TotalTracks,
			&album.DurationSecs,
			&album.ReleaseDate,
			&album.Label,
			&album.ImgSrc,
			&coverPath,
			&album.SpotifyAlbumID,
			&album.SpotifyAlbumURI,
			&album.ArtistID,
			&album.CreatedAt,
			&album.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan album row: %w", err)
		}
		album.CoverPath = coverPath.String
		albums = append(albums, album)
	}
	return albums, rows.Err()
}

func (r *mysqlAlbumRepository) HasUserAlbum(ctx context.Context, userID, albumID int64) (bool, error) {
	var count int64
	query := "SELECT COUNT(*) FROM user_albums WHERE user_id = ? AND album_id = ?"
	if err := r.db.QueryRowContext(ctx, query, userID, albumID).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to check link for user %d album %d: %w", userID, albumID, err)
	}
	return count > 0, nil
}

func (r *mysqlAlbumRepository) LinkUserAlbum(ctx context.Context, userID, albumID int64) error {
	query := "INSERT INTO user_albums (user_id, album_id) VALUES (?, ?)"
	if _, err := r.db.ExecContext(ctx, query, userID, albumID); err != nil {
		if isDuplicate(err) {
			return ErrDuplicateKey
		}
		return fmt.Errorf("failed to link user %d to album %d: %w", userID, albumID, err)
	}
	return nil
}

func (r *mysqlAlbumRepository) UnlinkUserAlbum(ctx context.Context, userID, albumID int64) (bool, error) {
	query := "DELETE FROM user_albums WHERE user_id = ? AND album_id = ?"
	res, err := r.db.ExecContext(ctx, query, userID, albumID)
	if err != nil {
		return false, fmt.Errorf("failed to unlink user %d from album %d: %w", userID, albumID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return affected > 0, nil
}

func (r *mysqlAlbumRepository) CountAlbumUsers(ctx context.Context, albumID int64) (int64, error) {
	var count int64
	query := "SELECT COUNT(*) FROM user_albums WHERE album_id = ?"
	if err := r.db.QueryRowContext(ctx, query, albumID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count users for album %d: %w", albumID, err)
	}
	return count, nil
}

func (r *mysqlAlbumRepository) UpdateCoverPath(ctx context.Context, albumID int64, coverPath string) error {
	query := "UPDATE albums SET cover_path = ?, updated_at = NOW() WHERE id = ?"
	if _, err := r.db.ExecContext(ctx, query, coverPath, albumID); err != nil {
		return fmt.Errorf("failed to update cover path for album %d: %w", albumID, err)
	}
	return nil
}
