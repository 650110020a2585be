// Package event provides the lock-free queue that carries settings changes
// from the control plane into the audio goroutine.
//
// The queue is a fixed-capacity ring with one producer and one consumer and
// no locks, so the consumer can drain it inside a deadline-bound audio
// callback without risking contention with lower-priority threads. Push and
// Pop never allocate.
package event

import "sync/atomic"

// Kind is the value type carried by a Param.
type Kind uint8

const (
	// KindNum is a float64 parameter change.
	KindNum Kind = iota
	// KindInt is an int64 parameter change.
	KindInt
	// KindStr is a string parameter change. The string header is copied;
	// the bytes are immutable and safe to read from the consumer.
	KindStr
)

// Param is one queued settings change. Elements are fixed size; no payload
// is allocated per push.
type Param struct {
	// Name is the settings key.
	Name string
	// Kind selects which value field is meaningful.
	Kind Kind
	// Float is the value for KindNum.
	Float float64
	// Int is the value for KindInt.
	Int int64
	// Str is the value for KindStr.
	Str string
}

// Queue is a lock-free single-producer single-consumer ring. Exactly one
// goroutine may call Push and exactly one may call Pop/Drain.
type Queue struct {
	buf   []Param
	count atomic.Int64
	in    int // producer-owned
	out   int // consumer-owned

	dropped atomic.Int64
}

// NewQueue creates a queue holding at most capacity elements.
func NewQueue(capacity int) *Queue {
	if capacity <= 0 {
		capacity = 1
	}
	return &Queue{buf: make([]Param, capacity)}
}

// Push enqueues a parameter change. It returns false, and counts a drop,
// when the queue is full.
func (q *Queue) Push(p Param) bool {
	if int(q.count.Load()) == len(q.buf) {
		q.dropped.Add(1)
		return false
	}

	q.buf[q.in] = p
	q.in++
	if q.in == len(q.buf) {
		q.in = 0
	}
	q.count.Add(1)
	return true
}

// Pop dequeues the oldest parameter change. The second return is false when
// the queue is empty.
func (q *Queue) Pop() (Param, bool) {
	if q.count.Load() == 0 {
		return Param{}, false
	}

	p := q.buf[q.out]
	q.buf[q.out] = Param{} // release string references
	q.out++
	if q.out == len(q.buf) {
		q.out = 0
	}
	q.count.Add(-1)
	return p, true
}

// Drain pops every queued change into fn and returns how many were
// delivered. Typical use is once per audio block.
func (q *Queue) Drain(fn func(Param)) int {
	n := 0
	for {
		p, ok := q.Pop()
		if !ok {
			return n
		}
		fn(p)
		n++
	}
}

// Len returns the number of queued changes.
func (q *Queue) Len() int {
	return int(q.count.Load())
}

// Cap returns the queue capacity.
func (q *Queue) Cap() int {
	return len(q.buf)
}

// Dropped returns the number of changes discarded because the queue was
// full.
func (q *Queue) Dropped() int64 {
	return q.dropped.Load()
}
