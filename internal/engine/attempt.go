package engine

import (
	"time"

	"github.com/hisham-alam/AI-Creator-Brief-Writer/internal/gateway"
	"github.com/hisham-alam/AI-Creator-Brief-Writer/internal/models"
)

// OutcomeSuccess marks an attempt that produced usable text. Failed attempts
// carry the gateway.Kind name instead.
const OutcomeSuccess = "success"

// Attempt records one invocation of the working model with one shape.
type Attempt struct {
	Model    string
	Family   models.Family
	Number   int
	Shape    gateway.Shape
	Outcome  string
	Reason   string
	Duration time.Duration
}

// Observer receives load results and attempts as they happen.
type Observer interface {
	ObserveLoad(spec models.Spec, err error, d time.Duration)
	ObserveAttempt(a Attempt)
}

type nopObserver struct{}

func (nopObserver) ObserveLoad(models.Spec, error, time.Duration) {}
func (nopObserver) ObserveAttempt(Attempt)                        {}
