package scan

import (
	"slices"
	"testing"
	"time"
)

func typeKeys(start time.Time, step time.Duration, keys ...string) []KeyEvent {
	events := make([]KeyEvent, len(keys))
	at := start
	for i, k := range keys {
		events[i] = KeyEvent{Key: k, At: at}
		at = at.Add(step)
	}
	return events
}

func TestDecoderFeed(t *testing.T) {
	t0 := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		events []KeyEvent
		want   []string
	}{
		{
			name:   "fast burst with terminator",
			events: typeKeys(t0, 10*time.Millisecond, "A", "B", "C", "Enter"),
			want:   []string{"ABC"},
		},
		{
			name: "slow key starts a new token",
			events: []KeyEvent{
				{Key: "X", At: t0},
				{Key: "A", At: t0.Add(500 * time.Millisecond)},
				{Key: "B", At: t0.Add(510 * time.Millisecond)},
				{Key: "Enter", At: t0.Add(520 * time.Millisecond)},
			},
			want: []string{"AB"},
		},
		{
			name: "gap exactly at threshold keeps buffer",
			events: []KeyEvent{
				{Key: "A", At: t0},
				{Key: "B", At: t0.Add(100 * time.Millisecond)},
				{Key: "Enter", At: t0.Add(110 * time.Millisecond)},
			},
			want: []string{"AB"},
		},
		{
			name:   "terminator on empty buffer",
			events: typeKeys(t0, 10*time.Millisecond, "Enter", "Enter"),
			want:   nil,
		},
		{
			name:   "named keys ignored",
			events: typeKeys(t0, 10*time.Millisecond, "Shift", "A", "Shift", "1", "Tab", "Enter"),
			want:   []string{"A1"},
		},
		{
			name:   "trailing and leading spaces trimmed",
			events: typeKeys(t0, 10*time.Millisecond, " ", "1", "0", "0", " ", "Enter"),
			want:   []string{"100"},
		},
		{
			name:   "whitespace only buffer emits nothing",
			events: typeKeys(t0, 10*time.Millisecond, " ", " ", "Enter", "7", "Enter"),
			want:   []string{"7"},
		},
		{
			name: "named key keeps the burst alive",
			events: []KeyEvent{
				{Key: "A", At: t0},
				{Key: "Shift", At: t0.Add(90 * time.Millisecond)},
				{Key: "B", At: t0.Add(180 * time.Millisecond)},
				{Key: "Enter", At: t0.Add(190 * time.Millisecond)},
			},
			want: []string{"AB"},
		},
		{
			name: "slow named key starts a new token",
			events: []KeyEvent{
				{Key: "A", At: t0},
				{Key: "Shift", At: t0.Add(500 * time.Millisecond)},
				{Key: "B", At: t0.Add(510 * time.Millisecond)},
				{Key: "Enter", At: t0.Add(520 * time.Millisecond)},
			},
			want: []string{"B"},
		},
		{
			name:   "two tokens back to back",
			events: typeKeys(t0, 10*time.Millisecond, "1", "2", "Enter", "3", "4", "Enter"),
			want:   []string{"12", "34"},
		},
		{
			name: "slow terminator still flushes",
			events: []KeyEvent{
				{Key: "A", At: t0},
				{Key: "B", At: t0.Add(10 * time.Millisecond)},
				{Key: "Enter", At: t0.Add(2 * time.Second)},
			},
			want: []string{"AB"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDecoder(0, "")
			var got []string
			for _, ev := range tt.events {
				if token, ok := d.Feed(ev); ok {
					got = append(got, token)
				}
			}
			if !slices.Equal(got, tt.want) {
				t.Errorf("tokens = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDecoderTokens(t *testing.T) {
	t0 := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	events := typeKeys(t0, 5*time.Millisecond, "P", "1", "Enter", "I", "7", "Enter", "Z")

	d := NewDecoder(DefaultKeyGap, DefaultTerminator)
	got := slices.Collect(d.Tokens(slices.Values(events)))

	if want := []string{"P1", "I7"}; !slices.Equal(got, want) {
		t.Errorf("tokens = %q, want %q", got, want)
	}
	if d.Pending() != "Z" {
		t.Errorf("Pending = %q, want %q", d.Pending(), "Z")
	}
}

func TestDecoderTokensStopsEarly(t *testing.T) {
	t0 := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	events := typeKeys(t0, 5*time.Millisecond, "A", "Enter", "B", "Enter", "C", "Enter")

	d := NewDecoder(DefaultKeyGap, DefaultTerminator)
	var got []string
	for token := range d.Tokens(slices.Values(events)) {
		got = append(got, token)
		if len(got) == 2 {
			break
		}
	}
	if want := []string{"A", "B"}; !slices.Equal(got, want) {
		t.Errorf("tokens = %q, want %q", got, want)
	}
}
