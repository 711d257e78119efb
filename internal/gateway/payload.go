package gateway

import (
	"mime"
	"path/filepath"
	"strings"
)

// Shape is the calling convention a request is built with.
type Shape int

const (
	// ShapeSingle carries one primary part; the system prompt travels separately.
	ShapeSingle Shape = iota
	// ShapeArray is the two-element [instruction, media] list.
	ShapeArray
	// ShapeEnvelope nests instruction and media in a role-tagged contents envelope.
	ShapeEnvelope
)

func (s Shape) String() string {
	switch s {
	case ShapeArray:
		return "array"
	case ShapeEnvelope:
		return "envelope"
	default:
		return "single"
	}
}

// MediaRef points at a local media file.
type MediaRef struct {
	Path     string
	MIMEType string
}

// NewMediaRef builds a reference, guessing the MIME type from the extension.
func NewMediaRef(path string) *MediaRef {
	return &MediaRef{Path: path, MIMEType: MIMETypeOf(path)}
}

// MIMETypeOf returns the MIME type for path, defaulting to video/mp4 for
// unknown extensions.
func MIMETypeOf(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".mp4", ".m4v":
		return "video/mp4"
	case ".mov":
		return "video/quicktime"
	case ".avi":
		return "video/x-msvideo"
	case ".mkv":
		return "video/x-matroska"
	case ".webm":
		return "video/webm"
	}
	if t := mime.TypeByExtension(ext); t != "" {
		return t
	}
	return "video/mp4"
}

// Part is either text or a media reference.
type Part struct {
	Text  string
	Media *MediaRef
}

// TextPart returns a text part.
func TextPart(text string) Part {
	return Part{Text: text}
}

// MediaPart returns a part referencing the file at path.
func MediaPart(path string) Part {
	return Part{Media: NewMediaRef(path)}
}

// IsMedia reports whether the part references a file.
func (p Part) IsMedia() bool {
	return p.Media != nil
}

// Envelope is the provider-specific structured payload:
// {"contents":[{"role":"user","parts":[{"text":...},{"file_data":{"file_path":...}}]}]}
type Envelope struct {
	Contents []EnvelopeContent `json:"contents"`
}

type EnvelopeContent struct {
	Role  string         `json:"role"`
	Parts []EnvelopePart `json:"parts"`
}

type EnvelopePart struct {
	Text     string    `json:"text,omitempty"`
	FileData *FileData `json:"file_data,omitempty"`
}

type FileData struct {
	FilePath string `json:"file_path"`
	MIMEType string `json:"mime_type,omitempty"`
}

// Payload is what a handle sends to the model.
type Payload struct {
	Shape    Shape
	Parts    []Part
	Envelope *Envelope
}

// Request is a payload plus an optional system-level instruction.
type Request struct {
	Payload Payload
	System  string
}

// SingleRequest sends primary as the content and system as a separate parameter.
func SingleRequest(primary Part, system string) Request {
	return Request{
		Payload: Payload{Shape: ShapeSingle, Parts: []Part{primary}},
		System:  system,
	}
}

// ArrayRequest sends [instruction, primary] with no system parameter.
func ArrayRequest(instruction string, primary Part) Request {
	return Request{
		Payload: Payload{Shape: ShapeArray, Parts: []Part{TextPart(instruction), primary}},
	}
}

// EnvelopeRequest nests instruction and primary in a user-role contents envelope.
func EnvelopeRequest(instruction string, primary Part) Request {
	parts := []EnvelopePart{{Text: instruction}}
	if primary.IsMedia() {
		parts = append(parts, EnvelopePart{FileData: &FileData{
			FilePath: primary.Media.Path,
			MIMEType: primary.Media.MIMEType,
		}})
	} else {
		parts = append(parts, EnvelopePart{Text: primary.Text})
	}
	return Request{
		Payload: Payload{
			Shape: ShapeEnvelope,
			Envelope: &Envelope{Contents: []EnvelopeContent{
				{Role: "user", Parts: parts},
			}},
		},
	}
}

// describeMedia is how text-only providers see a media reference.
func describeMedia(m *MediaRef) string {
	return "Media file: " + m.Path + " (" + m.MIMEType + ")"
}
