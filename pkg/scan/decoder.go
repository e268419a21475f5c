package scan

import (
	"iter"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	DefaultKeyGap     = 100 * time.Millisecond
	DefaultTerminator = "Enter"
)

// KeyEvent is a single keystroke as reported by the capture surface.
type KeyEvent struct {
	Key string    `json:"key"`
	At  time.Time `json:"at"`
}

// Decoder turns keystrokes into barcode tokens. Scanners type faster than
// people and always finish with the terminator key, so a pause longer than
// Gap starts a new token.
//
// A Decoder is not safe for concurrent use; Session serialises access to it.
type Decoder struct {
	Gap        time.Duration
	Terminator string

	buf  strings.Builder
	last time.Time
}

func NewDecoder(gap time.Duration, terminator string) *Decoder {
	if gap <= 0 {
		gap = DefaultKeyGap
	}
	if terminator == "" {
		terminator = DefaultTerminator
	}
	return &Decoder{Gap: gap, Terminator: terminator}
}

// Feed consumes one keystroke and returns a token when the terminator
// flushes a buffer holding more than whitespace. Tokens are trimmed.
func (d *Decoder) Feed(ev KeyEvent) (string, bool) {
	if ev.Key == d.Terminator {
		token := strings.TrimSpace(d.buf.String())
		d.buf.Reset()
		return token, token != ""
	}

	if d.last.IsZero() || ev.At.Sub(d.last) > d.Gap {
		d.buf.Reset()
	}
	d.last = ev.At

	// Named keys (Shift, Tab, ArrowLeft...) keep the burst timing but carry
	// no barcode character.
	if utf8.RuneCountInString(ev.Key) == 1 {
		d.buf.WriteString(ev.Key)
	}
	return "", false
}

// Pending returns the partially accumulated token.
func (d *Decoder) Pending() string {
	return d.buf.String()
}

// Tokens lazily decodes events into tokens. The sequence shares the
// decoder's state and cannot be restarted.
func (d *Decoder) Tokens(events iter.Seq[KeyEvent]) iter.Seq[string] {
	return func(yield func(string) bool) {
		for ev := range events {
			if token, ok := d.Feed(ev); ok {
				if !yield(token) {
					return
				}
			}
		}
	}
}
