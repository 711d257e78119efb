package engine

import (
	"github.com/google/uuid"

	"github.com/hisham-alam/AI-Creator-Brief-Writer/internal/gateway"
	"github.com/hisham-alam/AI-Creator-Brief-Writer/internal/models"
)

// Session is the engine state for one run. It is passed by value into Load
// and Generate, which return the updated copy.
type Session struct {
	ID           string
	SystemPrompt string
	Models       models.PriorityList
	// Working is nil until a candidate loads. Once set it does not change
	// for the rest of the session.
	Working *Working
}

// Working is the model that loaded successfully.
type Working struct {
	Spec   models.Spec
	Handle gateway.Handle
}

// NewSession starts an unloaded session over the given candidates.
func NewSession(systemPrompt string, list models.PriorityList) Session {
	return Session{
		ID:           uuid.NewString(),
		SystemPrompt: systemPrompt,
		Models:       list,
	}
}

// Loaded reports whether a working model has been selected.
func (s Session) Loaded() bool {
	return s.Working != nil
}

// Content is the input of one generation: plain text, or a media file plus
// the directive that introduces it.
type Content struct {
	Text      string
	MediaPath string
	Directive string
}

// TextContent wraps plain text such as a transcript prompt.
func TextContent(text string) Content {
	return Content{Text: text}
}

// MediaContent references a media file on disk.
func MediaContent(path, directive string) Content {
	return Content{MediaPath: path, Directive: directive}
}

// IsMedia reports whether the content references a file.
func (c Content) IsMedia() bool {
	return c.MediaPath != ""
}

func (c Content) primary() gateway.Part {
	if c.IsMedia() {
		return gateway.MediaPart(c.MediaPath)
	}
	return gateway.TextPart(c.Text)
}
