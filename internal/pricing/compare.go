package pricing

import (
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// ErrNonFinite is returned when a result overflows to Inf or NaN.
var ErrNonFinite = errors.New("quote overflows to a non-finite value")

// Compare computes in under each scenario independently. Results are returned
// in the same order as scenarios. It fails if any result is non-finite.
func Compare(in Inputs, scenarios []Scenario) ([]Result, error) {
	results := make([]Result, len(scenarios))

	var g errgroup.Group
	for i, s := range scenarios {
		i, s := i, s
		g.Go(func() error {
			res := Compute(in, s)
			if !res.IsFinite() {
				return fmt.Errorf("scenario %s: %w", s.Key, ErrNonFinite)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}
