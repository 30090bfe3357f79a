package game

import (
	"github.com/google/uuid"
)

type task struct {
	id        string
	remaining int
	fn        func()
}

// taskQueue holds callbacks counted down once per completed move
type taskQueue struct {
	items []*task
}

func newTaskQueue() *taskQueue {
	return &taskQueue{}
}

func (q *taskQueue) add(moves int, fn func()) string {
	if moves < 1 {
		moves = 1
	}
	t := &task{id: uuid.New().String(), remaining: moves, fn: fn}
	q.items = append(q.items, t)
	return t.id
}

func (q *taskQueue) remove(id string) bool {
	for i, t := range q.items {
		if t.id == id {
			q.items = append(q.items[:i], q.items[i+1:]...)
			return true
		}
	}
	return false
}

// step counts every task down and runs the ones that reach zero, in registration order
func (q *taskQueue) step() {
	var due []*task
	kept := q.items[:0]
	for _, t := range q.items {
		t.remaining--
		if t.remaining <= 0 {
			due = append(due, t)
			continue
		}
		kept = append(kept, t)
	}
	q.items = kept

	for _, t := range due {
		t.fn()
	}
}
