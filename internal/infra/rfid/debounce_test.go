package rfid

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestUIDToHex(t *testing.T) {
	tests := []struct {
		name     string
		uid      []byte
		expected string
	}{
		{name: "typical uid", uid: []byte{147, 85, 167, 43, 181}, expected: "9355A72BB5"},
		{name: "leading zero byte", uid: []byte{0, 1, 255}, expected: "0001FF"},
		{name: "empty", uid: nil, expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, UIDToHex(tt.uid))
		})
	}
}

func TestDebouncer(t *testing.T) {
	now := time.Unix(1000, 0)
	d := NewDebouncer(3 * time.Second)
	d.now = func() time.Time { return now }

	// First detection always passes.
	assert.True(t, d.Pass("AAAA"))

	// Same tag held in place is suppressed within the window.
	now = now.Add(500 * time.Millisecond)
	assert.False(t, d.Pass("AAAA"))
	now = now.Add(2 * time.Second)
	assert.False(t, d.Pass("AAAA"))

	// After the cooldown the same tag fires again.
	now = now.Add(time.Second)
	assert.True(t, d.Pass("AAAA"))

	// A different tag always fires immediately.
	now = now.Add(100 * time.Millisecond)
	assert.True(t, d.Pass("BBBB"))

	// Switching back also fires: the window tracks the last reported UID.
	now = now.Add(100 * time.Millisecond)
	assert.True(t, d.Pass("AAAA"))
}
