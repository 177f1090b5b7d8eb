package collection

import (
	"context"
	"errors"
	"fmt"

	"waxcrate/logger"
	"waxcrate/model"
	"waxcrate/repository"
)

// Reconciler keeps the local mirror of catalog entities consistent with what
// users hold in their collections: rows are created lazily on first
// reference, shared across users, and garbage-collected when the last
// reference disappears.
type Reconciler struct {
	catalog Catalog
	uow     repository.UnitOfWork
}

// NewReconciler creates a Reconciler over the given catalog and unit of work.
func NewReconciler(catalog Catalog, uow repository.UnitOfWork) *Reconciler {
	return &Reconciler{catalog: catalog, uow: uow}
}

// AddResult reports what AddToCollection did.
type AddResult struct {
	Album               *model.Album
	AlreadyInCollection bool
	CreatedArtist       bool
	CreatedAlbum        bool
}

// RemoveResult reports what RemoveFromCollection did.
type RemoveResult struct {
	LinkRemoved   bool
	AlbumDeleted  bool
	ArtistDeleted bool
}

// AddToCollection fetches the catalog album, mirrors Artist/Album/Track rows
// that do not exist locally yet, and links the album into the user's
// collection. An album already in the collection is an informational
// outcome, not an error. The catalog fetch and all validation happen before
// the transaction opens, so a failure leaves no partial rows behind.
func (r *Reconciler) AddToCollection(ctx context.Context, userID int64, spotifyAlbumID string) (*AddResult, error) {
	info, err := r.catalog.FetchAlbum(ctx, spotifyAlbumID)
	if err != nil {
		return nil, err
	}

	albumSecs, err := ParseClockDuration(info.Duration)
	if err != nil {
		return nil, err
	}
	releaseDate, err := ParseReleaseDate(info.ReleaseDate)
	if err != nil {
		return nil, err
	}
	trackSecs := make([]int, len(info.Tracks))
	for i, track := range info.Tracks {
		secs, err := ParseClockDuration(track.Duration)
		if err != nil {
			return nil, fmt.Errorf("track %d: %w", track.TrackNumber, err)
		}
		trackSecs[i] = secs
	}

	result := &AddResult{}
	err = r.uow.WithinTx(ctx, func(artists repository.ArtistRepository, albums repository.AlbumRepository) error {
		artist, err := artists.GetArtistBySpotifyID(ctx, info.Artist.SpotifyArtistID)
		if err != nil {
			return err
		}
		if artist == nil {
			artist = &model.Artist{
				Name:             info.Artist.Name,
				SpotifyArtistID:  info.Artist.SpotifyArtistID,
				SpotifyArtistURI: info.Artist.SpotifyArtistURI,
			}
			artist.ID, err = artists.CreateArtist(ctx, artist)
			if err != nil {
				return err
			}
			result.CreatedArtist = true
		}

		album, err := albums.GetAlbumBySpotifyID(ctx, spotifyAlbumID)
		if err != nil {
			return err
		}
		if album == nil {
			album = &model.Album{
				Name:            info.Name,
				TotalTracks:     info.TotalTracks,
				DurationSecs:    albumSecs,
				ReleaseDate:     releaseDate,
				Label:           info.Label,
				ImgSrc:          info.ImgSrc,
				SpotifyAlbumID:  info.SpotifyAlbumID,
				SpotifyAlbumURI: info.SpotifyAlbumURI,
				ArtistID:        artist.ID,
			}
			album.ID, err = albums.CreateAlbum(ctx, album)
			if err != nil {
				return err
			}
			result.CreatedAlbum = true

			tracks := make([]*model.AlbumTrack, len(info.Tracks))
			for i, t := range info.Tracks {
				tracks[i] = &model.AlbumTrack{
					TrackNumber:     t.TrackNumber,
					Name:            t.Name,
					Explicit:        t.Explicit,
					DurationSecs:    trackSecs[i],
					SpotifyTrackID:  t.SpotifyTrackID,
					SpotifyTrackURI: t.SpotifyTrackURI,
					AlbumID:         album.ID,
				}
			}
			if err := albums.CreateTracks(ctx, tracks); err != nil {
				return err
			}
		}
		result.Album = album

		linked, err := albums.HasUserAlbum(ctx, userID, album.ID)
		if err != nil {
			return err
		}
		if linked {
			result.AlreadyInCollection = true
			return nil
		}
		return albums.LinkUserAlbum(ctx, userID, album.ID)
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, fmt.Errorf("%w: %v", ErrConflict, err)
		}
		return nil, err
	}

	logger.Debug("reconciled album into collection",
		logger.Int64("userId", userID),
		logger.String("spotifyAlbumId", spotifyAlbumID),
		logger.Bool("createdAlbum", result.CreatedAlbum),
		logger.Bool("createdArtist", result.CreatedArtist),
		logger.Bool("alreadyInCollection", result.AlreadyInCollection),
	)
	return result, nil
}

// RemoveFromCollection removes the user's link to a local album and
// garbage-collects rows that become unreferenced: first the album (with its
// tracks) when no user holds it anymore, then the artist when no album
// references it anymore. The whole sequence runs in one transaction.
//
// A missing link is a lenient no-op; a missing album row is ErrAlbumNotFound.
func (r *Reconciler) RemoveFromCollection(ctx context.Context, userID, albumID int64) (*RemoveResult, error) {
	result := &RemoveResult{}
	err := r.uow.WithinTx(ctx, func(artists repository.ArtistRepository, albums repository.AlbumRepository) error {
		album, err := albums.GetAlbumByID(ctx, albumID)
		if err != nil {
			return err
		}
		if album == nil {
			return ErrAlbumNotFound
		}

		result.LinkRemoved, err = albums.UnlinkUserAlbum(ctx, userID, albumID)
		if err != nil {
			return err
		}

		remaining, err := albums.CountAlbumUsers(ctx, albumID)
		if err != nil {
			return err
		}
		if remaining > 0 {
			return nil
		}

		// Orphaned album: tracks first, then the album row itself.
		if err := albums.DeleteAlbumTracks(ctx, albumID); err != nil {
			return err
		}
		if err := albums.DeleteAlbum(ctx, albumID); err != nil {
			return err
		}
		result.AlbumDeleted = true

		albumCount, err := artists.CountAlbumsByArtist(ctx, album.ArtistID)
		if err != nil {
			return err
		}
		if albumCount > 0 {
			return nil
		}
		if err := artists.DeleteArtist(ctx, album.ArtistID); err != nil {
			return err
		}
		result.ArtistDeleted = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Debug("removed album from collection",
		logger.Int64("userId", userID),
		logger.Int64("albumId", albumID),
		logger.Bool("linkRemoved", result.LinkRemoved),
		logger.Bool("albumDeleted", result.AlbumDeleted),
		logger.Bool("artistDeleted", result.ArtistDeleted),
	)
	return result, nil
}
