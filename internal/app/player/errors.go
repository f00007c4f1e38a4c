package player

import "github.com/cockroachdb/errors"

// Errors. All of them leave the player state untouched and are recoverable by
// issuing a different, legal command.
var (
	// ErrInvalidTransition is returned when an operation is requested in a
	// state that forbids it.
	ErrInvalidTransition = errors.New("invalid transition")

	// ErrAlbumNotFound is returned when a scanned UID matches neither an
	// action tag nor an album.
	ErrAlbumNotFound = errors.New("no album matches uid")

	// ErrNoPlayableTitles is returned when an album load finds no audio
	// files. The load is all-or-nothing: the previous album stays active.
	ErrNoPlayableTitles = errors.New("album contains no playable titles")
)
