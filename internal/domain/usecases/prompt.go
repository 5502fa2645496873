// Package usecases - prompt.go assembles the generation prompt.
package usecases

import (
	"fmt"
	"strings"

	"github.com/pondworks/waldenbot/internal/domain/entities"
)

// ComposePrompt assembles a single generation payload in fixed order: persona
// instructions, few-shot exemplars, retrieved context (newline-joined, in
// retrieval order - never re-ranked), then the current turn. The ordering is
// load-bearing: exemplars anchor the persona before grounding, and context
// stays fresh relative to the question. Pure string assembly - no network
// calls, no state.
func ComposePrompt(p entities.Persona, contextChunks []string, input string) string {
	var sb strings.Builder

	sb.WriteString(p.Instructions)
	sb.WriteString("\n\nExamples:\n")
	for i, ex := range p.Exemplars {
		if i > 0 {
			sb.WriteString("\n")
		}
		fmt.Fprintf(&sb, "#Example %d\n", i+1)
		sb.WriteString(ex)
		sb.WriteString("\n")
	}

	sb.WriteString("\nContext from my works:\n")
	sb.WriteString(strings.Join(contextChunks, "\n"))

	sb.WriteString("\n\nCurrent conversation:\nUser: ")
	sb.WriteString(input)
	sb.WriteString("\n")
	sb.WriteString(TurnMarker(p))

	return sb.String()
}

// TurnMarker is the literal marker every composed prompt ends with, awaiting
// the model's completion.
func TurnMarker(p entities.Persona) string { return p.Name + ": " }
