package gateway

import (
	"context"

	"github.com/hisham-alam/AI-Creator-Brief-Writer/internal/models"
)

// Tags identify the caller to the gateway for quota accounting.
type Tags struct {
	Team    string
	UseCase string
}

// Gateway hands out live model handles.
type Gateway interface {
	Acquire(ctx context.Context, spec models.Spec, tags Tags) (Handle, error)
}

// Handle is a loaded model that can generate text.
type Handle interface {
	Model() models.Spec
	Invoke(ctx context.Context, req Request) (string, error)
}
