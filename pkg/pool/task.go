package pool

import (
	"log/slog"
	"runtime/debug"
	"time"
)

// Task wraps a user computation and a non-owning back-reference to the
// Result Channel it must publish into once run. The ResultHandle owns the
// Task (strong reference); the Task's back-reference to its ResultHandle
// is unowning, which is safe because the ResultHandle is always created,
// and bound to the Task, before the Task becomes visible to any worker
// (spec §9: "Result Channel outlives Task").
type Task struct {
	run         func() Value
	result      *ResultHandle
	submittedAt time.Time
}

// NewTask wraps run for submission to a Pool. run is invoked at most once,
// on whichever worker goroutine dequeues the task.
func NewTask(run func() Value) *Task {
	return &Task{run: run}
}

// bind installs the back-reference to the Result Channel this task must
// publish into. Called by Submit before the task becomes visible to any
// worker.
func (t *Task) bind(r *ResultHandle) {
	t.result = r
}

// exec is the worker entry point: it runs the user computation, recovers
// any panic (the pool must survive a failing task — spec §7), and
// publishes the outcome through the bound Result Channel. A panicking Run
// publishes the zero Value so Get never hangs on a dead task.
func (t *Task) exec() {
	value := t.safeRun()
	if t.result != nil {
		t.result.publish(value)
	}
}

func (t *Task) safeRun() (value Value) {
	defer func() {
		if r := recover(); r != nil {
			slog.Default().Error("pool: task panicked, recovered",
				slog.Any("panic", r),
				slog.String("stack", string(debug.Stack())),
			)
			value = Value{}
		}
	}()
	return t.run()
}
