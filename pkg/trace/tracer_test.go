package trace

import "testing"

func TestRecordNumbersSequentially(t *testing.T) {
	tracer := NewTracer()

	tracer.Record("input_validation", "validated", "SAFE")
	tracer.RecordQuery("web_search", "searched", "solar trends", "results")
	tracer.Record("answer_synthesis", "synthesized", "answer")

	steps := tracer.Steps()
	if len(steps) != 3 {
		t.Fatalf("got %d steps, want 3", len(steps))
	}
	for i, step := range steps {
		if step.StepNumber != i+1 {
			t.Errorf("step %d has StepNumber %d", i, step.StepNumber)
		}
	}
	if steps[1].Query != "solar trends" {
		t.Errorf("Query = %q", steps[1].Query)
	}
	if steps[0].Timestamp.After(steps[2].Timestamp) {
		t.Error("timestamps are not monotonic")
	}
}

func TestStepsReturnsCopy(t *testing.T) {
	tracer := NewTracer()
	tracer.Record("a", "b", "c")

	steps := tracer.Steps()
	steps[0].Action = "mutated"

	if tracer.Steps()[0].Action != "a" {
		t.Error("mutating the returned slice changed the recorded trace")
	}
}

func TestLen(t *testing.T) {
	tracer := NewTracer()
	if tracer.Len() != 0 {
		t.Errorf("Len() = %d, want 0", tracer.Len())
	}
	tracer.Record("a", "b", "c")
	if tracer.Len() != 1 {
		t.Errorf("Len() = %d, want 1", tracer.Len())
	}
}
