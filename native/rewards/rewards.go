package rewards

import "swaprewards/events"

// Engine represents the native swap rewards module. It turns settled swap
// outcomes into capped, per-day, per-trader point credits. The behaviour of
// the engine is fully driven by the stored policy.
type Engine struct {
	emitter events.Emitter
}

// NewEngine creates a new rewards engine.
func NewEngine() *Engine {
	return &Engine{emitter: events.NoopEmitter{}}
}

// SetEmitter configures the event emitter used to broadcast accrual activity.
// Passing nil resets the emitter to a no-op implementation.
func (e *Engine) SetEmitter(emitter events.Emitter) {
	if e == nil {
		return
	}
	if emitter == nil {
		e.emitter = events.NoopEmitter{}
		return
	}
	e.emitter = emitter
}

func (e *Engine) emit(evt events.Event) {
	if e == nil || e.emitter == nil {
		return
	}
	e.emitter.Emit(evt)
}
