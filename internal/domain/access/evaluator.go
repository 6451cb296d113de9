package access

import (
	"context"
	"fmt"
)

// Recorder observes every predicate decision.
type Recorder interface {
	RecordDecision(kind Kind, verb Verb, allowed bool)
}

type noopRecorder struct{}

func (noopRecorder) RecordDecision(Kind, Verb, bool) {}

// Evaluator selects the predicates for a table and evaluates one verb.
type Evaluator struct {
	predicates map[Kind]Predicates
	recorder   Recorder
}

func NewEvaluator(recorder Recorder) *Evaluator {
	if recorder == nil {
		recorder = noopRecorder{}
	}
	return &Evaluator{
		predicates: DefaultPredicates(),
		recorder:   recorder,
	}
}

func (e *Evaluator) Predicates(kind Kind) (Predicates, error) {
	predicates, ok := e.predicates[kind]
	if !ok {
		return nil, fmt.Errorf("access: no predicates for %q", kind)
	}
	return predicates, nil
}

func (e *Evaluator) Evaluate(ctx context.Context, caller *Caller, kind Kind, verb Verb, row Row) (bool, error) {
	predicates, err := e.Predicates(kind)
	if err != nil {
		return false, err
	}

	var allowed bool
	switch verb {
	case VerbInsert:
		allowed, err = predicates.CanInsert(ctx, caller, row)
	case VerbRead:
		allowed, err = predicates.CanRead(ctx, caller, row)
	case VerbModify:
		allowed, err = predicates.CanModify(ctx, caller, row)
	default:
		return false, fmt.Errorf("access: unknown verb %q", verb)
	}
	if err != nil {
		return false, err
	}

	e.recorder.RecordDecision(kind, verb, allowed)
	return allowed, nil
}
