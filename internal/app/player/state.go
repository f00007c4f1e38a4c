// Package player implements the playback state machine of the music box.
//
// The machine owns all playback state: the loaded album, the title position
// inside it, and the playback mode. It consumes typed commands and RFID scan
// events, enforces which transitions are legal, and drives the audio backend.
// It is the only writer of that state.
package player

// Mode represents the playback mode.
type Mode int

const (
	ModePaused  Mode = iota // Silent: initial state, or paused in place
	ModePlaying             // A title is playing
)

// String returns the string representation of the mode.
func (m Mode) String() string {
	switch m {
	case ModePaused:
		return "paused"
	case ModePlaying:
		return "playing"
	default:
		return "unknown"
	}
}

// Status is a read-only snapshot of the player state. Album and Title are
// empty while no album has been loaded yet.
type Status struct {
	Mode       Mode
	Album      string
	Title      string
	TitleIndex int
	TitleCount int
}
