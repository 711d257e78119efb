package engine

import "context"

// Engine loads a working model from a priority list and generates text with
// it, retrying transient failures.
type Engine interface {
	// Load probes candidates in order until one loads. A session that is
	// already loaded is returned unchanged.
	Load(ctx context.Context, sess Session) (Session, error)
	// Generate produces text of at least MinResponseLength trimmed
	// characters, loading the session first when needed.
	Generate(ctx context.Context, sess Session, content Content) (string, Session, error)
}
