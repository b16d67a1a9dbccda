package conceptcard

import (
	"strings"
	"testing"
)

func TestSystemPrompt(t *testing.T) {
	p := SystemPrompt()
	if p != SystemPrompt() {
		t.Error("prompt should be stable across calls")
	}
	for _, want := range []string{"Why-How-What", "coreComponents", "operatingMechanism", "applicationBoundaries", "Simplified Chinese"} {
		if !strings.Contains(p, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestUserMessage(t *testing.T) {
	if got := UserMessage("Blockchain"); got != `Generate the analysis for the concept: "Blockchain"` {
		t.Errorf("unexpected message: %q", got)
	}
	if got := UserMessage("区块链"); got != `Generate the analysis for the concept: "区块链"` {
		t.Errorf("non-ASCII concepts should not be escaped: %q", got)
	}
}
