package audio

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// These tests cover the paths that do not need a sound device: Play rejects
// bad input before the speaker is ever touched.

func TestEngine_Play_MissingFile(t *testing.T) {
	e := New(100 * time.Millisecond)

	err := e.Play(filepath.Join(t.TempDir(), "missing.mp3"))
	require.Error(t, err)
}

func TestEngine_Play_UnsupportedFormat(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name  string
		title string
	}{
		{name: "wma", title: "track.wma"},
		{name: "m4a", title: "track.m4a"},
		{name: "aac", title: "track.aac"},
		{name: "opus", title: "track.opus"},
		{name: "no extension", title: "track"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.title)
			require.NoError(t, os.WriteFile(path, []byte("not audio"), 0o644))

			e := New(100 * time.Millisecond)
			err := e.Play(path)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrUnsupportedFormat))
		})
	}
}

func TestEngine_PauseWithoutStream(t *testing.T) {
	e := New(100 * time.Millisecond)

	assert.True(t, errors.Is(e.Pause(), ErrNoActiveStream))
	assert.True(t, errors.Is(e.Unpause(), ErrNoActiveStream))
}

func TestEngine_StopWithoutStream(t *testing.T) {
	e := New(100 * time.Millisecond)

	// Stop before anything played must neither fail nor signal Done.
	require.NoError(t, e.Stop())
	select {
	case <-e.Done():
		t.Fatal("unexpected end-of-stream signal")
	default:
	}
}

func TestEngine_StaleStreamEndIsDropped(t *testing.T) {
	e := New(100 * time.Millisecond)

	// An end callback from a superseded stream carries an old generation and
	// must not reach Done.
	gen := e.generation.Load()
	e.generation.Add(1)
	e.onStreamEnd(gen)

	select {
	case <-e.Done():
		t.Fatal("stale end-of-stream signal was delivered")
	default:
	}

	// The current generation does signal, exactly once.
	e.onStreamEnd(e.generation.Load())
	select {
	case <-e.Done():
	default:
		t.Fatal("expected end-of-stream signal")
	}
}
