package brief

import "context"

// Brief describes a saved artifact.
type Brief struct {
	Path     string
	Title    string
	DocxPath string
}

// Writer persists generated briefs under a title-derived name.
type Writer interface {
	// Save writes text to <dir>/<name><ext>. The name comes from the title
	// in text, then fallbackName, then "brief".
	Save(ctx context.Context, text, fallbackName string) (Brief, error)
}
