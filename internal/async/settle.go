// Package async runs batches of independent remote calls.
package async

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Result is the outcome of one call in a batch, tagged with the input it ran for
type Result[In, Out any] struct {
	Input In
	Value Out
	Err   error
}

// OK reports whether the call succeeded
func (r Result[In, Out]) OK() bool {
	return r.Err == nil
}

// Settle calls fn once per input and waits for every call to finish.
// A failing call never cancels or delays the others. At most limit calls
// run at once; limit <= 0 starts them all immediately. Results keep the
// order of inputs.
func Settle[In, Out any](ctx context.Context, limit int, inputs []In, fn func(context.Context, In) (Out, error)) []Result[In, Out] {
	results := make([]Result[In, Out], len(inputs))

	var g errgroup.Group
	if limit > 0 {
		g.SetLimit(limit)
	}

	for i, in := range inputs {
		g.Go(func() error {
			out, err := fn(ctx, in)
			results[i] = Result[In, Out]{Input: in, Value: out, Err: err}
			return nil
		})
	}
	_ = g.Wait()

	return results
}

// Split partitions results into the inputs that succeeded and the errors of those that failed
func Split[In, Out any](results []Result[In, Out]) (succeeded []Result[In, Out], failed []error) {
	for _, r := range results {
		if r.OK() {
			succeeded = append(succeeded, r)
		} else {
			failed = append(failed, r.Err)
		}
	}
	return succeeded, failed
}
