package clock

import "time"

// Signal is a one-shot completion notice. Waiters run synchronously, in
// registration order, on the goroutine that resolves it.
type Signal struct {
	done    bool
	waiters []func()
}

func NewSignal() *Signal {
	return &Signal{}
}

// Resolved returns a signal that is already complete.
func Resolved() *Signal {
	return &Signal{done: true}
}

// Resolve completes the signal. Later calls do nothing.
func (s *Signal) Resolve() {
	if s.done {
		return
	}
	s.done = true
	waiters := s.waiters
	s.waiters = nil
	for _, fn := range waiters {
		fn()
	}
}

// Done reports whether the signal has resolved.
func (s *Signal) Done() bool { return s.done }

// Then runs fn once the signal resolves, immediately if it already has.
func (s *Signal) Then(fn func()) {
	if s.done {
		fn()
		return
	}
	s.waiters = append(s.waiters, fn)
}

// Delay returns a signal that resolves d from now.
func (s *Scheduler) Delay(d time.Duration) *Signal {
	sig := NewSignal()
	s.After(d, sig.Resolve)
	return sig
}

// Sequence starts each step only after the previous step's signal resolves.
// The returned signal resolves after the last step.
func Sequence(steps ...func() *Signal) *Signal {
	out := NewSignal()
	var run func(i int)
	run = func(i int) {
		if i == len(steps) {
			out.Resolve()
			return
		}
		sig := steps[i]()
		if sig == nil {
			sig = Resolved()
		}
		sig.Then(func() { run(i + 1) })
	}
	run(0)
	return out
}

// All resolves once every given signal has resolved.
func All(signals ...*Signal) *Signal {
	out := NewSignal()
	remaining := len(signals)
	if remaining == 0 {
		out.Resolve()
		return out
	}
	for _, sig := range signals {
		sig.Then(func() {
			remaining--
			if remaining == 0 {
				out.Resolve()
			}
		})
	}
	return out
}

// Any resolves as soon as one of the given signals resolves.
func Any(signals ...*Signal) *Signal {
	out := NewSignal()
	for _, sig := range signals {
		sig.Then(out.Resolve)
	}
	return out
}
