package queue

import "errors"

// Sentinel kinds for enqueue failures.
var (
	ErrQueueFull   = errors.New("settlement queue is full")
	ErrQueueClosed = errors.New("settlement queue is closed")
)
