package pipeline

import "fmt"

// InvalidStrategyError means the caller asked for a method name nobody
// recognizes. Unknown names fail fast rather than silently falling back
// to a default strategy.
type InvalidStrategyError struct {
	Method string
}

func (e *InvalidStrategyError) Error() string {
	return fmt.Sprintf("unknown extraction method %q", e.Method)
}

// AllStrategiesFailedError means every resolved strategy either raised or
// produced an empty result. LastErr carries the last underlying cause when
// one exists; it is nil when every strategy came back merely empty.
type AllStrategiesFailedError struct {
	Attempted []string
	LastErr   error
}

func (e *AllStrategiesFailedError) Error() string {
	if e.LastErr != nil {
		return fmt.Sprintf("all extraction strategies failed (tried %d): last error: %v", len(e.Attempted), e.LastErr)
	}
	return fmt.Sprintf("all extraction strategies failed (tried %d): no extractable content", len(e.Attempted))
}

func (e *AllStrategiesFailedError) Unwrap() error {
	return e.LastErr
}
