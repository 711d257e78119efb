package engine

import (
	"github.com/hisham-alam/AI-Creator-Brief-Writer/internal/gateway"
	"github.com/hisham-alam/AI-Creator-Brief-Writer/internal/models"
)

// Shapes returns the request conventions to try for one attempt, in order.
// Later shapes are used only when the previous one fails with a
// format-incompatibility error.
func Shapes(family models.Family, system string, content Content) []gateway.Request {
	primary := content.primary()
	instruction := combineInstruction(system, content.Directive)

	switch family {
	case models.FamilyGemini:
		return []gateway.Request{
			gateway.ArrayRequest(instruction, primary),
			gateway.EnvelopeRequest(instruction, primary),
		}
	case models.FamilyClaude:
		return []gateway.Request{
			gateway.SingleRequest(primary, system),
		}
	default:
		return []gateway.Request{
			gateway.SingleRequest(primary, system),
			gateway.ArrayRequest(instruction, primary),
		}
	}
}

func combineInstruction(system, directive string) string {
	switch {
	case directive == "":
		return system
	case system == "":
		return directive
	}
	return system + "\n\n" + directive
}
