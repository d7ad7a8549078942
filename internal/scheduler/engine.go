// Package scheduler fires events at the moments list membership can change:
// a task's start day, its deadline day, midnight and the periodic widget
// refresh.
package scheduler

import (
	"container/heap"
	"errors"
	"sync"
	"sync/atomic"
	"time"
)

var (
	ErrInvalidTriggerTime = errors.New("scheduler: invalid trigger time")
	ErrStopped            = errors.New("scheduler: engine stopped")
)

type Kind string

const (
	KindStart    Kind = "start"
	KindDeadline Kind = "deadline"
	KindRollover Kind = "rollover"
	KindRefresh  Kind = "refresh"
)

type Event struct {
	ID     string
	TaskID string
	Kind   Kind
	At     time.Time
}

type queueItem struct {
	event Event
	seq   uint64
}

type priorityQueue []queueItem

func (pq priorityQueue) Len() int { return len(pq) }

// Less breaks ties by scheduling order so equal times fire FIFO.
func (pq priorityQueue) Less(i, j int) bool {
	if pq[i].event.At.Equal(pq[j].event.At) {
		return pq[i].seq < pq[j].seq
	}
	return pq[i].event.At.Before(pq[j].event.At)
}

func (pq priorityQueue) Swap(i, j int) {
	pq[i], pq[j] = pq[j], pq[i]
}

func (pq *priorityQueue) Push(x any) {
	*pq = append(*pq, x.(queueItem))
}

func (pq *priorityQueue) Pop() any {
	old := *pq
	n := len(old)
	item := old[n-1]
	*pq = old[0 : n-1]
	return item
}

type Engine struct {
	mu      sync.Mutex
	queue   priorityQueue
	seq     uint64
	out     chan Event
	wakeup  chan struct{}
	stopCh  chan struct{}
	doneCh  chan struct{}
	started bool
	stopped bool
	dropped uint64
}

func NewEngine(bufferSize int) *Engine {
	if bufferSize <= 0 {
		bufferSize = 1
	}
	return &Engine{
		queue:  make(priorityQueue, 0),
		out:    make(chan Event, bufferSize),
		wakeup: make(chan struct{}, 1),
		stopCh: make(chan struct{}),
		doneCh: make(chan struct{}),
	}
}

// C delivers due events. It is closed after Stop.
func (e *Engine) C() <-chan Event {
	return e.out
}

func (e *Engine) Start() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.started {
		return
	}
	e.started = true
	heap.Init(&e.queue)
	go e.loop()
}

func (e *Engine) Stop() {
	e.mu.Lock()
	if !e.started || e.stopped {
		e.mu.Unlock()
		return
	}
	e.stopped = true
	close(e.stopCh)
	e.mu.Unlock()
	<-e.doneCh
}

// Schedule queues ev. An already queued event with the same ID is replaced,
// so re-planning a task's timeline never fires it twice.
func (e *Engine) Schedule(ev Event) error {
	if ev.At.IsZero() {
		return ErrInvalidTriggerTime
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.stopped {
		return ErrStopped
	}

	e.removeWhere(func(q Event) bool { return q.ID == ev.ID })
	e.push(ev)
	e.signalWakeup()
	return nil
}

// Cancel drops every queued event for taskID and reports how many went.
func (e *Engine) Cancel(taskID string) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	n := e.removeWhere(func(q Event) bool { return q.TaskID == taskID })
	if n > 0 {
		e.signalWakeup()
	}
	return n
}

// Reset drops every queued event and schedules events instead. Events with a
// zero time are skipped.
func (e *Engine) Reset(events []Event) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.stopped {
		return ErrStopped
	}

	e.queue = e.queue[:0]
	for _, ev := range events {
		if ev.At.IsZero() {
			continue
		}
		e.push(ev)
	}
	e.signalWakeup()
	return nil
}

// Pending reports how many events are queued.
func (e *Engine) Pending() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.queue)
}

func (e *Engine) Dropped() uint64 {
	return atomic.LoadUint64(&e.dropped)
}

func (e *Engine) push(ev Event) {
	e.seq++
	heap.Push(&e.queue, queueItem{event: ev, seq: e.seq})
}

func (e *Engine) removeWhere(match func(Event) bool) int {
	kept := e.queue[:0]
	for _, item := range e.queue {
		if !match(item.event) {
			kept = append(kept, item)
		}
	}
	removed := len(e.queue) - len(kept)
	if removed > 0 {
		e.queue = kept
		heap.Init(&e.queue)
	}
	return removed
}

func (e *Engine) loop() {
	defer close(e.doneCh)
	defer close(e.out)

	timer := time.NewTimer(time.Hour)
	timer.Stop()
	defer timer.Stop()

	for {
		var fire <-chan time.Time
		if next, ok := e.peek(); ok {
			timer.Reset(max(time.Until(next.At), 0))
			fire = timer.C
		}

		select {
		case now := <-fire:
			e.deliver(e.popDue(now))
		case <-e.wakeup:
			timer.Stop()
		case <-e.stopCh:
			return
		}
	}
}

// deliver never blocks; events the consumer has no room for are counted.
func (e *Engine) deliver(events []Event) {
	for _, ev := range events {
		select {
		case e.out <- ev:
		default:
			atomic.AddUint64(&e.dropped, 1)
		}
	}
}

func (e *Engine) signalWakeup() {
	select {
	case e.wakeup <- struct{}{}:
	default:
	}
}

func (e *Engine) peek() (Event, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.queue) == 0 {
		return Event{}, false
	}
	return e.queue[0].event, true
}

func (e *Engine) popDue(now time.Time) []Event {
	e.mu.Lock()
	defer e.mu.Unlock()

	var out []Event
	for len(e.queue) > 0 && !e.queue[0].event.At.After(now) {
		out = append(out, heap.Pop(&e.queue).(queueItem).event)
	}
	return out
}
