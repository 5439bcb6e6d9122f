package event

import (
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// Validate checks the quadclass and Goldstein score invariants.
func (e Event) Validate() error {
	if err := validatorInstance().Struct(e); err != nil {
		return fmt.Errorf("invalid event %q: %w", e.Source, err)
	}
	return nil
}

// Sanitize keeps the events that pass Validate. The input slice is not modified.
func Sanitize(events []Event) (kept []Event, dropped int) {
	kept = make([]Event, 0, len(events))
	for _, e := range events {
		if err := e.Validate(); err != nil {
			dropped++
			continue
		}
		kept = append(kept, e)
	}
	return kept, dropped
}
