// Package results carries the success-or-failure payload convention used by
// application services: business failures travel as payloads that handlers
// publish back onto the bus, transport failures travel as Go errors.
package results

// OperationResult holds either a success payload or a failure payload.
// Exactly one side should be set; both nil means the operation produced
// nothing to publish.
type OperationResult[S any, F any] struct {
	Success *S
	Failure *F
}

func (r OperationResult[S, F]) IsSuccess() bool { return r.Success != nil }

func (r OperationResult[S, F]) IsFailure() bool { return r.Failure != nil }

// SuccessResult wraps a success payload.
func SuccessResult[S any, F any](s S) OperationResult[S, F] {
	return OperationResult[S, F]{Success: &s}
}

// FailureResult wraps a failure payload.
func FailureResult[S any, F any](f F) OperationResult[S, F] {
	return OperationResult[S, F]{Failure: &f}
}
