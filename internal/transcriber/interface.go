package transcriber

import (
	"context"
	"time"
)

// Segment is one timed piece of speech.
type Segment struct {
	Start time.Duration
	End   time.Duration
	Text  string
}

// Transcriber converts the speech in a media file to text segments.
type Transcriber interface {
	Transcribe(ctx context.Context, mediaPath string) ([]Segment, error)
}
