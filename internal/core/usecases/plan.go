package usecases

import "context"

// Step is one attempt in an ordered resolution plan.
type Step[T any] struct {
	Name string
	Run  func(ctx context.Context) (T, error)
	// Accept reports whether the result ends the plan. A nil Accept accepts anything.
	Accept func(T) bool
	// Recover lets a failed run fall through to the next step. The error of
	// the last step is always returned.
	Recover bool
	// OnRecover, when set, observes errors that were recovered from.
	OnRecover func(err error)
}

// FirstAccepted runs steps in order until one is accepted and returns its result
// and index. When no step is accepted it returns the zero value and -1.
func FirstAccepted[T any](ctx context.Context, steps []Step[T]) (T, int, error) {
	var zero T
	for i, s := range steps {
		if err := ctx.Err(); err != nil {
			return zero, -1, err
		}

		res, err := s.Run(ctx)
		if err != nil {
			if s.Recover && i < len(steps)-1 {
				if s.OnRecover != nil {
					s.OnRecover(err)
				}
				continue
			}
			return zero, -1, err
		}

		if s.Accept == nil || s.Accept(res) {
			return res, i, nil
		}
	}
	return zero, -1, nil
}
