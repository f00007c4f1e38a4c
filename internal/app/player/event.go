package player

// EventType represents a player event type.
type EventType int

const (
	EventAlbumLoaded   EventType = iota // A new album was loaded
	EventTitleChanged                   // The current title changed
	EventModeChanged                    // Playback mode changed (pause/resume)
	EventAlbumFinished                  // The last title ended naturally
)

// String returns the string representation of the event type.
func (e EventType) String() string {
	switch e {
	case EventAlbumLoaded:
		return "album_loaded"
	case EventTitleChanged:
		return "title_changed"
	case EventModeChanged:
		return "mode_changed"
	case EventAlbumFinished:
		return "album_finished"
	default:
		return "unknown"
	}
}

// Event represents a player state change, emitted for display purposes.
type Event struct {
	Type  EventType
	Album string
	Title string
	Mode  Mode
}
