package pool

import "time"

// Observer receives lifecycle events from a Pool for metrics wiring
// (spec §6's embedding program uses this to feed internal/metrics). Every
// field is optional; a nil field is simply never called. Implementations
// must return quickly — callbacks run inline on the submitting or worker
// goroutine, never in a separate goroutine of their own.
type Observer struct {
	OnSubmitted     func()
	OnCompleted     func(latency time.Duration)
	OnOverflowed    func()
	OnWorkerSpawned func()
	OnWorkerRetired func()
}

func (o Observer) submitted() {
	if o.OnSubmitted != nil {
		o.OnSubmitted()
	}
}

func (o Observer) completed(latency time.Duration) {
	if o.OnCompleted != nil {
		o.OnCompleted(latency)
	}
}

func (o Observer) overflowed() {
	if o.OnOverflowed != nil {
		o.OnOverflowed()
	}
}

func (o Observer) workerSpawned() {
	if o.OnWorkerSpawned != nil {
		o.OnWorkerSpawned()
	}
}

func (o Observer) workerRetired() {
	if o.OnWorkerRetired != nil {
		o.OnWorkerRetired()
	}
}
