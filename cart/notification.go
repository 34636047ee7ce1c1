package cart

import (
	"sync"
	"time"

	"ordrz-storefront/models"
)

// DefaultNotificationTTL is how long a cart notification stays visible
const DefaultNotificationTTL = 3 * time.Second

// Notifier holds the toast-style message shown after cart operations.
// A shown message expires on its own after ttl.
type Notifier struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	message string
	shownAt time.Time
	visible bool
}

// NewNotifier creates a Notifier; now may be nil to use the wall clock
func NewNotifier(ttl time.Duration, now func() time.Time) *Notifier {
	if ttl <= 0 {
		ttl = DefaultNotificationTTL
	}
	if now == nil {
		now = time.Now
	}
	return &Notifier{ttl: ttl, now: now}
}

// Show replaces any visible message with the new one and restarts its timer
func (n *Notifier) Show(message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.message = message
	n.shownAt = n.now()
	n.visible = true
}

// Hide dismisses the current message
func (n *Notifier) Hide() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.visible = false
}

// Current returns the message and whether it is still visible
func (n *Notifier) Current() models.Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.visible && n.now().Sub(n.shownAt) >= n.ttl {
		n.visible = false
	}
	return models.Notification{Message: n.message, Visible: n.visible}
}
