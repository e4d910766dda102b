package intcode

// Queue is a FIFO of values moving in or out of a Machine.
// The zero value is an empty queue ready to use.
type Queue struct {
	vals []int64
	head int
}

// Push appends vals to the back of the queue.
func (q *Queue) Push(vals ...int64) {
	if q.head > 0 && q.head == len(q.vals) {
		q.vals, q.head = q.vals[:0], 0
	}
	q.vals = append(q.vals, vals...)
}

// Pop removes and returns the value at the front of the queue, and reports
// whether there was one.
func (q *Queue) Pop() (int64, bool) {
	if q.head == len(q.vals) {
		return 0, false
	}
	v := q.vals[q.head]
	q.head++
	if q.head == len(q.vals) {
		q.vals, q.head = q.vals[:0], 0
	}
	return v, true
}

// Len returns the number of values in the queue.
func (q *Queue) Len() int { return len(q.vals) - q.head }

// Drain removes and returns all values in the queue.
func (q *Queue) Drain() []int64 {
	if q.Len() == 0 {
		return nil
	}
	vals := make([]int64, q.Len())
	copy(vals, q.vals[q.head:])
	q.vals, q.head = q.vals[:0], 0
	return vals
}

func (q *Queue) clone() Queue {
	return Queue{vals: q.Values()}
}

// Values returns a copy of the values in the queue, leaving it intact.
func (q *Queue) Values() []int64 {
	vals := make([]int64, q.Len())
	copy(vals, q.vals[q.head:])
	return vals
}
