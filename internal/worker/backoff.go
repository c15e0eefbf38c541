package worker

import "time"

// Backoff doubles the pause after each consecutive failed iteration, up to
// Max. Reset after a successful iteration.
type Backoff struct {
	Initial time.Duration
	Max     time.Duration
	next    time.Duration
}

// Next returns the pause for the current failure and advances the policy.
func (b *Backoff) Next() time.Duration {
	if b.next == 0 {
		b.next = b.Initial
	}
	d := b.next
	if b.Max > 0 && d > b.Max {
		d = b.Max
	}
	b.next = d * 2
	return d
}

// Reset returns the policy to its initial pause.
func (b *Backoff) Reset() {
	b.next = 0
}
