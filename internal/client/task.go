package client

import "context"

var closedDone = func() chan struct{} {
	c := make(chan struct{})
	close(c)
	return c
}()

// Task is a handle on background work started by a controller. A nil *Task
// stands for work that was never started and is always done.
type Task struct{ done chan struct{} }

func newTask() *Task { return &Task{done: make(chan struct{})} }

func (t *Task) finish() { close(t.done) }

// Done is closed once the work has settled.
func (t *Task) Done() <-chan struct{} {
	if t == nil {
		return closedDone
	}
	return t.done
}

// Wait blocks until the work settles or ctx is done.
func (t *Task) Wait(ctx context.Context) error {
	select {
	case <-t.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
