package collection

import (
	"fmt"
	"time"
)

const (
	clockLayout       = "15:04:05"
	releaseDateLayout = "2006-01-02"
)

// ParseClockDuration parses an HH:MM:SS string into whole seconds.
func ParseClockDuration(s string) (int, error) {
	t, err := time.Parse(clockLayout, s)
	if err != nil {
		return 0, fmt.Errorf("%w: duration %q is not HH:MM:SS", ErrInvalidCatalogData, s)
	}
	return t.Hour()*3600 + t.Minute()*60 + t.Second(), nil
}

// ParseReleaseDate parses a YYYY-MM-DD string.
func ParseReleaseDate(s string) (time.Time, error) {
	t, err := time.Parse(releaseDateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: release date %q is not YYYY-MM-DD", ErrInvalidCatalogData, s)
	}
	return t, nil
}

// FormatAlbumDuration renders an album length for display, e.g. "1 hr 5 min"
// or "42 min".
func FormatAlbumDuration(secs int) string {
	hours := secs / 3600
	minutes := (secs % 3600) / 60
	if hours > 0 {
		return fmt.Sprintf("%d hr %d min", hours, minutes)
	}
	return fmt.Sprintf("%d min", minutes)
}

// FormatTrackDuration renders a track length for display, e.g. "3:30".
// Hour-long tracks render as "1:02:03".
func FormatTrackDuration(secs int) string {
	hours := secs / 3600
	minutes := (secs % 3600) / 60
	seconds := secs % 60
	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, seconds)
	}
	return fmt.Sprintf("%d:%02d", minutes, seconds)
}

// FormatReleaseDate renders a release date for display, e.g. "May 01, 2020".
func FormatReleaseDate(t time.Time) string {
	return t.Format("Jan 02, 2006")
}
