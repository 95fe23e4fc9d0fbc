// Package clock is a cooperative, single-goroutine scheduler for timers and
// per-frame tasks. Time only moves when the owner calls Advance or Frame, so
// the same code runs against the real frame loop and a test's manual clock.
package clock

import (
	"container/heap"
	"math"
	"sync"
	"time"
)

// Timer is a pending one-shot or repeating callback.
type Timer struct {
	at      time.Duration
	period  time.Duration
	seq     uint64
	fn      func()
	stopped bool
	fired   bool
	index   int
}

// Stop cancels the timer. It reports whether the timer was still pending.
func (t *Timer) Stop() bool {
	if t == nil || t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

// Active reports whether the timer will still fire.
func (t *Timer) Active() bool {
	return t != nil && !t.stopped && !t.fired
}

// Task is a callback run once per frame until stopped.
type Task struct {
	fn      func(dt time.Duration)
	stopped bool
}

// Stop cancels the task; it will not run on later frames.
func (t *Task) Stop() {
	if t != nil {
		t.stopped = true
	}
}

// Running reports whether the task is still scheduled.
func (t *Task) Running() bool { return t != nil && !t.stopped }

// Scheduler owns virtual time. All methods except Post must be called from
// the goroutine that drives Advance/Frame.
type Scheduler struct {
	now   time.Duration
	seq   uint64
	queue timerQueue
	tasks []*Task

	mu    sync.Mutex
	inbox []func()
}

func New() *Scheduler {
	return &Scheduler{}
}

// Now returns the virtual time elapsed since the scheduler was created.
func (s *Scheduler) Now() time.Duration { return s.now }

// After runs fn once, d from now. Non-positive delays fire on the next
// Advance.
func (s *Scheduler) After(d time.Duration, fn func()) *Timer {
	if d < 0 {
		d = 0
	}
	return s.push(&Timer{at: s.due(d), fn: fn})
}

// Repeat runs fn every d until the timer is stopped.
func (s *Scheduler) Repeat(d time.Duration, fn func()) *Timer {
	if d <= 0 {
		d = time.Millisecond
	}
	return s.push(&Timer{at: s.due(d), period: d, fn: fn})
}

// due is now+d, saturating instead of wrapping past the end of time.
func (s *Scheduler) due(d time.Duration) time.Duration {
	if d > math.MaxInt64-s.now {
		return math.MaxInt64
	}
	return s.now + d
}

func (s *Scheduler) push(t *Timer) *Timer {
	s.seq++
	t.seq = s.seq
	heap.Push(&s.queue, t)
	return t
}

// OnFrame registers fn to run on every Frame call.
func (s *Scheduler) OnFrame(fn func(dt time.Duration)) *Task {
	t := &Task{fn: fn}
	s.tasks = append(s.tasks, t)
	return t
}

// Post queues fn from any goroutine; it runs at the start of the next
// Advance.
func (s *Scheduler) Post(fn func()) {
	s.mu.Lock()
	s.inbox = append(s.inbox, fn)
	s.mu.Unlock()
}

// Advance moves time forward by d, firing due timers in order. Timers
// scheduled by callbacks fire in the same call if they fall due.
func (s *Scheduler) Advance(d time.Duration) {
	s.drainInbox()
	if d < 0 {
		d = 0
	}
	target := s.due(d)
	for s.queue.Len() > 0 {
		next := s.queue[0]
		if next.at > target {
			break
		}
		heap.Pop(&s.queue)
		if next.stopped {
			continue
		}
		s.now = next.at
		if next.period > 0 {
			next.at = s.due(next.period)
			s.push(next)
		} else {
			next.fired = true
		}
		next.fn()
	}
	s.now = target
}

// Frame advances by dt and then runs every live frame task once.
func (s *Scheduler) Frame(dt time.Duration) {
	s.Advance(dt)
	tasks := make([]*Task, len(s.tasks))
	copy(tasks, s.tasks)
	for _, t := range tasks {
		if !t.stopped {
			t.fn(dt)
		}
	}
	live := s.tasks[:0]
	for _, t := range s.tasks {
		if !t.stopped {
			live = append(live, t)
		}
	}
	for i := len(live); i < len(s.tasks); i++ {
		s.tasks[i] = nil
	}
	s.tasks = live
}

// Pending returns the number of timers that will still fire.
func (s *Scheduler) Pending() int {
	n := 0
	for _, t := range s.queue {
		if !t.stopped {
			n++
		}
	}
	return n
}

// Tasks returns the number of running frame tasks.
func (s *Scheduler) Tasks() int {
	n := 0
	for _, t := range s.tasks {
		if !t.stopped {
			n++
		}
	}
	return n
}

func (s *Scheduler) drainInbox() {
	s.mu.Lock()
	inbox := s.inbox
	s.inbox = nil
	s.mu.Unlock()
	for _, fn := range inbox {
		fn()
	}
}

// timerQueue orders timers by due time, then by scheduling order.
type timerQueue []*Timer

func (q timerQueue) Len() int { return len(q) }

func (q timerQueue) Less(i, j int) bool {
	if q[i].at == q[j].at {
		return q[i].seq < q[j].seq
	}
	return q[i].at < q[j].at
}

func (q timerQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}

func (q *timerQueue) Push(x any) {
	t := x.(*Timer)
	t.index = len(*q)
	*q = append(*q, t)
}

func (q *timerQueue) Pop() any {
	old := *q
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	t.index = -1
	*q = old[:n-1]
	return t
}
