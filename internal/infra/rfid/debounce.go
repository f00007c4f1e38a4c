package rfid

import (
	"fmt"
	"sync"
	"time"
)

// UIDToHex formats a raw tag UID as an uppercase hex string.
// [147, 85, 167, 43, 181] becomes "9355A72BB5".
func UIDToHex(uid []byte) string {
	return fmt.Sprintf("%X", uid)
}

// Debouncer suppresses repeat detections of the tag currently sitting on the
// reader. A different UID always passes; the same UID passes again once the
// cooldown window has elapsed.
type Debouncer struct {
	cooldown time.Duration
	now      func() time.Time // injectable for tests

	mu       sync.Mutex
	lastUID  string
	lastSeen time.Time
}

// NewDebouncer creates a debouncer with the given cooldown window.
func NewDebouncer(cooldown time.Duration) *Debouncer {
	return &Debouncer{cooldown: cooldown, now: time.Now}
}

// Pass reports whether a detection of uid should be delivered, recording it
// when it passes.
func (d *Debouncer) Pass(uid string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	now := d.now()
	if uid == d.lastUID && now.Sub(d.lastSeen) < d.cooldown {
		return false
	}
	d.lastUID = uid
	d.lastSeen = now
	return true
}
