package usecases

import (
	"strings"
	"testing"

	"github.com/pondworks/waldenbot/internal/domain/entities"
)

func testPersona() entities.Persona {
	return entities.Persona{
		Name:         "Thoreau",
		Instructions: "You are Henry David Thoreau. Answer in his voice.",
		Exemplars: []string{
			"User: What is solitude?\nThoreau: I never found the companion so companionable as solitude.",
			"User: Why the woods?\nThoreau: I wished to live deliberately.",
		},
		Greeting:          "There is more day to dawn.",
		Farewell:          "I silently smile at my incessant good fortune.",
		InterruptFarewell: "The universe is wider than our views of it.",
		Fallback:          "My thoughts wander like winter clouds. Perhaps we should try again?",
	}
}

func TestComposePrompt_IsPure(t *testing.T) {
	p := testPersona()
	chunks := []string{"passage one", "passage two"}

	first := ComposePrompt(p, chunks, "What do you think of the railroad?")
	second := ComposePrompt(p, chunks, "What do you think of the railroad?")

	if first != second {
		t.Error("same inputs must yield byte-identical prompts")
	}
}

func TestComposePrompt_SectionOrder(t *testing.T) {
	p := testPersona()
	chunks := []string{"the pond passage", "the bean-field passage"}
	input := "Tell me about your beans."

	prompt := ComposePrompt(p, chunks, input)

	positions := []int{
		strings.Index(prompt, p.Instructions),
		strings.Index(prompt, p.Exemplars[0]),
		strings.Index(prompt, p.Exemplars[1]),
		strings.Index(prompt, chunks[0]),
		strings.Index(prompt, chunks[1]),
		strings.Index(prompt, "User: "+input),
	}
	for i, pos := range positions {
		if pos < 0 {
			t.Fatalf("section %d missing from prompt", i)
		}
		if i > 0 && pos <= positions[i-1] {
			t.Errorf("section %d out of order: persona, exemplars, context, turn", i)
		}
	}
}

func TestComposePrompt_EndsWithTurnMarker(t *testing.T) {
	p := testPersona()

	prompt := ComposePrompt(p, []string{"context"}, "a question")

	if !strings.HasSuffix(prompt, TurnMarker(p)) {
		t.Errorf("prompt must end with %q, got tail %q", TurnMarker(p), prompt[len(prompt)-20:])
	}
}

func TestComposePrompt_PreservesContextOrder(t *testing.T) {
	p := testPersona()
	chunks := []string{"zebra passage", "apple passage", "mango passage"}

	prompt := ComposePrompt(p, chunks, "anything")

	joined := strings.Join(chunks, "\n")
	if !strings.Contains(prompt, joined) {
		t.Error("context chunks must appear newline-joined in retrieval order")
	}
}

func TestComposePrompt_EmptyContext(t *testing.T) {
	p := testPersona()

	prompt := ComposePrompt(p, nil, "a question with no grounding")

	if !strings.Contains(prompt, p.Instructions) {
		t.Error("instructions missing")
	}
	if !strings.HasSuffix(prompt, TurnMarker(p)) {
		t.Error("prompt must still end with the turn marker")
	}
}
