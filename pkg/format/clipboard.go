package format

import (
	"sync"
	"time"

	"github.com/atotto/clipboard"
)

// Clipboard status labels.
const (
	LabelCopy   = "Copy address to clipboard"
	LabelCopied = "Copied"
)

// DefaultLabelReset is how long LabelCopied stays up after a copy.
const DefaultLabelReset = 5 * time.Second

// WriteFunc writes text to a clipboard.
type WriteFunc func(text string) error

// Clipboard copies addresses and exposes a shared status label that any
// observer can read or subscribe to.
type Clipboard struct {
	write      WriteFunc
	resetAfter time.Duration

	// notifyMu orders label changes with their notifications.
	notifyMu sync.Mutex

	mu      sync.Mutex
	label   string
	timer   *time.Timer
	gen     uint64
	nextID  int
	watches map[int]func(string)
}

// NewClipboard creates a Clipboard. A nil write uses the system clipboard;
// a non-positive resetAfter uses DefaultLabelReset.
func NewClipboard(write WriteFunc, resetAfter time.Duration) *Clipboard {
	if write == nil {
		write = clipboard.WriteAll
	}
	if resetAfter <= 0 {
		resetAfter = DefaultLabelReset
	}
	return &Clipboard{
		write:      write,
		resetAfter: resetAfter,
		label:      LabelCopy,
		watches:    make(map[int]func(string)),
	}
}

// Label returns the current status label.
func (c *Clipboard) Label() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.label
}

// Copy writes address to the clipboard and flips the label to LabelCopied
// until resetAfter elapses. A new copy restarts the countdown.
func (c *Clipboard) Copy(address string) error {
	if err := c.write(address); err != nil {
		return err
	}

	c.notifyMu.Lock()
	defer c.notifyMu.Unlock()

	c.mu.Lock()
	if c.timer != nil {
		c.timer.Stop()
	}
	c.gen++
	gen := c.gen
	watchers := c.setLabelLocked(LabelCopied)
	c.timer = time.AfterFunc(c.resetAfter, func() {
		c.notifyMu.Lock()
		defer c.notifyMu.Unlock()

		c.mu.Lock()
		if c.gen != gen {
			c.mu.Unlock()
			return
		}
		watchers := c.setLabelLocked(LabelCopy)
		c.mu.Unlock()
		notifyLabel(watchers, LabelCopy)
	})
	c.mu.Unlock()

	notifyLabel(watchers, LabelCopied)
	return nil
}

// Subscribe registers fn for label changes and returns a cancel function.
// Watchers see changes in order and must not call Copy.
func (c *Clipboard) Subscribe(fn func(label string)) func() {
	c.mu.Lock()
	id := c.nextID
	c.nextID++
	c.watches[id] = fn
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.watches, id)
		c.mu.Unlock()
	}
}

// Close stops a pending label reset.
func (c *Clipboard) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

// setLabelLocked updates the label and returns the watchers to notify,
// or nil when it did not change. c.mu must be held.
func (c *Clipboard) setLabelLocked(label string) []func(string) {
	if c.label == label {
		return nil
	}
	c.label = label
	watchers := make([]func(string), 0, len(c.watches))
	for _, fn := range c.watches {
		watchers = append(watchers, fn)
	}
	return watchers
}

func notifyLabel(watchers []func(string), label string) {
	for _, fn := range watchers {
		fn(label)
	}
}
