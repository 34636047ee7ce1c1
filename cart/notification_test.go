package cart

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNotifier(t *testing.T) {
	now := time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)
	n := NewNotifier(3*time.Second, func() time.Time { return now })

	assert.False(t, n.Current().Visible)

	n.Show("Item added to cart")
	assert.Equal(t, "Item added to cart", n.Current().Message)
	assert.True(t, n.Current().Visible)

	now = now.Add(2 * time.Second)
	n.Show("Item quantity updated.")
	now = now.Add(2 * time.Second)
	assert.True(t, n.Current().Visible, "showing a new message restarts the timer")

	now = now.Add(time.Second)
	current := n.Current()
	assert.False(t, current.Visible)
	assert.Equal(t, "Item quantity updated.", current.Message)

	n.Show("Cart cleared successfully.")
	n.Hide()
	assert.False(t, n.Current().Visible)
}
