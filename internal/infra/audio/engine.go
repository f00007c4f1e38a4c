// Package audio implements the audio output engine on top of beep.
package audio

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/flac"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/gopxl/beep/v2/vorbis"
	"github.com/gopxl/beep/v2/wav"
	zlog "github.com/rs/zerolog/log"
)

// Errors
var (
	ErrUnsupportedFormat = errors.New("unsupported audio format")
	ErrNoActiveStream    = errors.New("no active stream")
)

// Engine plays one audio stream at a time through the system speaker.
//
// Starting a new stream supersedes whatever was playing. A natural end of
// stream is signalled exactly once on Done; manual Stop and superseding Play
// calls never signal. All methods return immediately, playback runs on the
// speaker's mixer goroutine.
type Engine struct {
	bufferLen time.Duration

	// generation invalidates pending end-of-stream callbacks from earlier
	// streams. Read without the mutex from the speaker goroutine.
	generation atomic.Uint64

	mu          sync.Mutex
	ctrl        *beep.Ctrl
	streamer    beep.StreamSeekCloser
	file        *os.File
	initialized bool
	sampleRate  beep.SampleRate

	done chan struct{}
}

// New creates an engine. bufferLen is the speaker buffer size; larger values
// tolerate more scheduling jitter at the cost of control latency.
func New(bufferLen time.Duration) *Engine {
	return &Engine{
		bufferLen: bufferLen,
		done:      make(chan struct{}, 1),
	}
}

// Done delivers one signal per natural end of stream.
func (e *Engine) Done() <-chan struct{} {
	return e.done
}

// Play loads path and starts playing it from the beginning, superseding any
// current stream.
func (e *Engine) Play(path string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.stopLocked()

	f, err := os.Open(path)
	if err != nil {
		return errors.Wrap(err, "failed to open title")
	}

	streamer, format, err := decode(f, path)
	if err != nil {
		f.Close()
		return err
	}

	if !e.initialized {
		if err := speaker.Init(format.SampleRate, format.SampleRate.N(e.bufferLen)); err != nil {
			streamer.Close()
			f.Close()
			return errors.Wrap(err, "failed to initialize speaker")
		}
		e.initialized = true
		e.sampleRate = format.SampleRate
	}

	// The speaker runs at the sample rate of the first stream; later streams
	// with a different rate are resampled.
	var source beep.Streamer = streamer
	if format.SampleRate != e.sampleRate {
		source = beep.Resample(4, format.SampleRate, e.sampleRate, streamer)
	}

	e.file = f
	e.streamer = streamer
	e.ctrl = &beep.Ctrl{Streamer: source}

	gen := e.generation.Add(1)
	speaker.Play(beep.Seq(e.ctrl, beep.Callback(func() {
		e.onStreamEnd(gen)
	})))

	zlog.Debug().Str("path", path).Msg("audio: stream started")
	return nil
}

// Pause pauses the current stream in place.
func (e *Engine) Pause() error {
	return e.setPaused(true)
}

// Unpause resumes a paused stream where it left off.
func (e *Engine) Unpause() error {
	return e.setPaused(false)
}

// Stop stops playback entirely. No end-of-stream signal is emitted.
func (e *Engine) Stop() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stopLocked()
	return nil
}

func (e *Engine) setPaused(paused bool) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.ctrl == nil {
		return ErrNoActiveStream
	}
	speaker.Lock()
	e.ctrl.Paused = paused
	speaker.Unlock()
	return nil
}

// stopLocked tears down the current stream. Must be called with the mutex
// held.
func (e *Engine) stopLocked() {
	e.generation.Add(1) // invalidate any pending end callback

	if e.initialized {
		speaker.Clear()
	}
	if e.streamer != nil {
		e.streamer.Close()
		e.streamer = nil
	}
	if e.file != nil {
		e.file.Close()
		e.file = nil
	}
	e.ctrl = nil
}

// onStreamEnd runs on the speaker goroutine when a stream drains. It must not
// take the engine mutex: Play holds it while calling into the speaker.
func (e *Engine) onStreamEnd(gen uint64) {
	if gen != e.generation.Load() {
		return // superseded or manually stopped
	}
	select {
	case e.done <- struct{}{}:
	default:
	}
}

// decode picks a decoder by file extension. The returned streamer owns f and
// closes it together with the stream.
func decode(f *os.File, path string) (beep.StreamSeekCloser, beep.Format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".mp3":
		s, format, err := mp3.Decode(f)
		return s, format, errors.Wrap(err, "mp3 decode failed")
	case ".flac":
		s, format, err := flac.Decode(f)
		return s, format, errors.Wrap(err, "flac decode failed")
	case ".ogg":
		s, format, err := vorbis.Decode(f)
		return s, format, errors.Wrap(err, "vorbis decode failed")
	case ".wav":
		s, format, err := wav.Decode(f)
		return s, format, errors.Wrap(err, "wav decode failed")
	default:
		// The library also admits containers (m4a, aac, wma, opus) this
		// engine has no decoder for.
		return nil, beep.Format{}, errors.Wrapf(ErrUnsupportedFormat, "%s", ext)
	}
}
