package trace

import "time"

// Step is a single entry in a pipeline's reasoning trace.
// Steps are immutable once recorded and numbered in strict order.
type Step struct {
	StepNumber  int       `json:"step_number"`
	Action      string    `json:"action"`
	Description string    `json:"description"`
	Query       string    `json:"query,omitempty"`
	Result      string    `json:"result"`
	Timestamp   time.Time `json:"timestamp"`
}

// Tracer accumulates the ordered reasoning trace for one pipeline run.
// It is NOT safe for concurrent use; each request owns its own Tracer.
type Tracer struct {
	steps []Step
}

func NewTracer() *Tracer {
	return &Tracer{}
}

// Record appends a new step with the next sequential number and returns it.
func (t *Tracer) Record(action, description, result string) Step {
	step := Step{
		StepNumber:  len(t.steps) + 1,
		Action:      action,
		Description: description,
		Result:      result,
		Timestamp:   time.Now(),
	}
	t.steps = append(t.steps, step)
	return step
}

// RecordQuery is Record with the query that drove the step attached.
func (t *Tracer) RecordQuery(action, description, query, result string) Step {
	step := Step{
		StepNumber:  len(t.steps) + 1,
		Action:      action,
		Description: description,
		Query:       query,
		Result:      result,
		Timestamp:   time.Now(),
	}
	t.steps = append(t.steps, step)
	return step
}

// Steps returns a copy of the trace so callers cannot mutate recorded steps.
func (t *Tracer) Steps() []Step {
	out := make([]Step, len(t.steps))
	copy(out, t.steps)
	return out
}

// Len returns the number of recorded steps.
func (t *Tracer) Len() int {
	return len(t.steps)
}
