package queue

// Option applies a configuration option to the InMemoryQueue.
type Option func(*InMemoryQueue)

// WithCapacity sets the maximum number of pending settlements.
func WithCapacity(capacity int) Option {
	return func(q *InMemoryQueue) {
		if capacity > 0 {
			q.capacity = capacity
		}
	}
}

// WithDropHandler is called with every settlement a Dequeue forwarder had
// already taken off the queue when its context ended.
func WithDropHandler(fn func(Settlement)) Option {
	return func(q *InMemoryQueue) {
		q.onDrop = fn
	}
}
