package player

import (
	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"
)

// Library is the read side of the music collection the state machine needs.
type Library interface {
	GetTitles(album string) []string
	FindAlbumByUID(uid string) (string, bool)
	GetTitlePath(album, title string) string
}

// Backend drives the audio output. All calls return immediately; actual
// playback runs on the backend's own goroutine. Starting a new stream with
// Play supersedes whatever the backend was doing.
type Backend interface {
	Play(path string) error
	Pause() error
	Unpause() error
	Stop() error
}

// ActionUIDs binds RFID tag UIDs to control actions instead of albums.
// Empty strings disable the respective action tag.
type ActionUIDs struct {
	Pause string
	Next  string
	Prev  string
}

// StateMachine owns the playback state and its transition logic.
//
// It is not internally synchronized: all calls, including OnRFIDScan and
// OnTitleEnd, must be delivered serialized from one control goroutine. The
// surrounding event loop is responsible for funnelling tag scans and
// end-of-track signals onto that goroutine.
type StateMachine struct {
	library Library
	audio   Backend
	actions ActionUIDs

	mode         Mode
	currentAlbum string // empty while no album has been loaded
	titles       []string
	titleIndex   int
	currentUID   string // last UID that loaded an album via OnRFIDScan

	events chan Event
}

// New creates a state machine in the initial state: paused, no album loaded.
func New(library Library, audio Backend, actions ActionUIDs) *StateMachine {
	return &StateMachine{
		library: library,
		audio:   audio,
		actions: actions,
		mode:    ModePaused,
		events:  make(chan Event, 16),
	}
}

// Events returns the event channel. Emission never blocks; if the consumer
// falls behind, events are dropped.
func (s *StateMachine) Events() <-chan Event {
	return s.events
}

// Status returns a snapshot of the current player state.
func (s *StateMachine) Status() Status {
	return Status{
		Mode:       s.mode,
		Album:      s.currentAlbum,
		Title:      s.CurrentTitle(),
		TitleIndex: s.titleIndex,
		TitleCount: len(s.titles),
	}
}

// Mode returns the current playback mode.
func (s *StateMachine) Mode() Mode {
	return s.mode
}

// CurrentAlbum returns the loaded album name, or "" if none is loaded.
func (s *StateMachine) CurrentAlbum() string {
	return s.currentAlbum
}

// CurrentTitle returns the active title name, or "" if no album is loaded.
func (s *StateMachine) CurrentTitle() string {
	if s.currentAlbum == "" {
		return ""
	}
	return s.titles[s.titleIndex]
}

// Play starts or resumes playback.
//
// With a non-empty album it loads that album and starts its first title from
// the beginning; the switch only commits if the album has playable titles.
// With an empty album it resumes the already loaded album in place, without
// restarting the current title.
func (s *StateMachine) Play(album string) error {
	if album == "" {
		if s.currentAlbum == "" {
			return errors.Wrap(ErrInvalidTransition, "cannot resume without an album")
		}
		if s.mode == ModePaused {
			s.callAudio("unpause", s.audio.Unpause)
		}
		s.setMode(ModePlaying)
		return nil
	}

	if err := s.loadAlbum(album); err != nil {
		return err
	}
	s.setMode(ModePlaying)
	s.startCurrentTitle()
	return nil
}

// Pause pauses playback in place. Only legal while playing.
func (s *StateMachine) Pause() error {
	if s.mode != ModePlaying {
		return errors.Wrapf(ErrInvalidTransition, "pause is only allowed while playing (mode %s)", s.mode)
	}
	s.callAudio("pause", s.audio.Pause)
	s.setMode(ModePaused)
	return nil
}

// NextTitle advances to the next title, wrapping around at the end of the
// album, and restarts playback from the beginning of the new title.
func (s *StateMachine) NextTitle() error {
	return s.stepTitle(1)
}

// PreviousTitle goes back to the previous title, wrapping around at the
// beginning of the album, and restarts playback from the beginning of the
// new title.
func (s *StateMachine) PreviousTitle() error {
	return s.stepTitle(-1)
}

func (s *StateMachine) stepTitle(delta int) error {
	if s.currentAlbum == "" {
		return errors.Wrap(ErrInvalidTransition, "no album loaded")
	}

	n := len(s.titles)
	s.titleIndex = ((s.titleIndex+delta)%n + n) % n
	s.setMode(ModePlaying)
	s.startCurrentTitle()
	s.emit(Event{Type: EventTitleChanged, Album: s.currentAlbum, Title: s.CurrentTitle(), Mode: s.mode})
	return nil
}

// OnRFIDScan handles a debounced tag detection. Action tags are matched
// before album lookup, even if an album directory happens to carry the same
// name. Re-scanning the tag that loaded the current album is a no-op, so a
// tag sitting on the reader never interrupts playback.
func (s *StateMachine) OnRFIDScan(uid string) error {
	switch {
	case s.actions.Pause != "" && uid == s.actions.Pause:
		if s.mode == ModePlaying {
			return s.Pause()
		}
		if s.currentAlbum == "" {
			return nil // nothing to resume yet
		}
		return s.Play("")

	case s.actions.Next != "" && uid == s.actions.Next:
		return s.NextTitle()

	case s.actions.Prev != "" && uid == s.actions.Prev:
		return s.PreviousTitle()
	}

	if s.currentUID != "" && uid == s.currentUID {
		return nil
	}

	album, ok := s.library.FindAlbumByUID(uid)
	if !ok {
		return errors.Wrapf(ErrAlbumNotFound, "uid %s", uid)
	}
	if err := s.Play(album); err != nil {
		return err
	}
	s.currentUID = uid
	return nil
}

// OnTitleEnd handles the backend's natural end-of-track notification.
//
// Unlike NextTitle it does not wrap: when the last title ends, the machine
// parks paused on that title instead of restarting the album.
func (s *StateMachine) OnTitleEnd() {
	if s.currentAlbum == "" {
		return
	}

	if s.titleIndex == len(s.titles)-1 {
		s.setMode(ModePaused)
		s.emit(Event{Type: EventAlbumFinished, Album: s.currentAlbum, Title: s.CurrentTitle(), Mode: s.mode})
		return
	}

	s.titleIndex++
	s.setMode(ModePlaying)
	s.startCurrentTitle()
	s.emit(Event{Type: EventTitleChanged, Album: s.currentAlbum, Title: s.CurrentTitle(), Mode: s.mode})
}

// loadAlbum fetches the album's titles and, only on success, commits it as
// the current album positioned at the first title.
func (s *StateMachine) loadAlbum(album string) error {
	titles := s.library.GetTitles(album)
	if len(titles) == 0 {
		return errors.Wrapf(ErrNoPlayableTitles, "album %q", album)
	}

	s.currentAlbum = album
	s.titles = titles
	s.titleIndex = 0
	s.emit(Event{Type: EventAlbumLoaded, Album: album, Title: titles[0], Mode: s.mode})
	return nil
}

// startCurrentTitle issues a fresh play for the current title. The transition
// has already committed at this point; a backend failure is logged at the
// adapter boundary and never rolls player state back.
func (s *StateMachine) startCurrentTitle() {
	path := s.library.GetTitlePath(s.currentAlbum, s.titles[s.titleIndex])
	if err := s.audio.Play(path); err != nil {
		zlog.Warn().Err(err).Str("path", path).Msg("player: audio backend rejected play")
	}
}

func (s *StateMachine) callAudio(op string, fn func() error) {
	if err := fn(); err != nil {
		zlog.Warn().Err(err).Msgf("player: audio backend %s failed", op)
	}
}

func (s *StateMachine) setMode(mode Mode) {
	if s.mode == mode {
		return
	}
	s.mode = mode
	s.emit(Event{Type: EventModeChanged, Album: s.currentAlbum, Title: s.CurrentTitle(), Mode: s.mode})
}

// emit sends an event without blocking.
func (s *StateMachine) emit(e Event) {
	select {
	case s.events <- e:
	default:
	}
}
