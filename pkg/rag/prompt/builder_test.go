package prompt

import (
	"strings"
	"testing"

	"erp-chatbot-be/internal/constant"
	"erp-chatbot-be/pkg/rag"
)

func TestBuildRendersFaqPairs(t *testing.T) {
	docs := []rag.RetrievedDocument{
		{
			Content: "Go to Settings > Security and click Reset Password.",
			Metadata: map[string]string{
				"source":   "faqs",
				"Question": "How do I reset my password?",
			},
		},
	}

	got := NewGroundedBuilder("How do I reset my password?", docs).Build()

	for _, want := range []string{
		"**Source: faqs**",
		"**Question:** How do I reset my password?",
		"**Answer:** Go to Settings > Security and click Reset Password.",
		"User Question: How do I reset my password?",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestBuildRendersPlainContent(t *testing.T) {
	docs := []rag.RetrievedDocument{
		{
			Content:  "The inventory module tracks stock levels in real time.",
			Metadata: map[string]string{"source": "manual"},
		},
	}

	got := NewGroundedBuilder("What does the inventory module do?", docs).Build()

	if !strings.Contains(got, "**Content:** The inventory module tracks stock levels in real time.") {
		t.Errorf("prompt missing the content block:\n%s", got)
	}
	if strings.Contains(got, "**Answer:**") {
		t.Errorf("unlabeled document should not render an answer block:\n%s", got)
	}
}

func TestBuildFallsBackToDefaultSource(t *testing.T) {
	docs := []rag.RetrievedDocument{
		{Content: "Some content.", Metadata: map[string]string{}},
	}

	got := NewGroundedBuilder("question", docs).Build()

	if !strings.Contains(got, "**Source: "+constant.DefaultSourceName+"**") {
		t.Errorf("prompt missing the default source name:\n%s", got)
	}
}

func TestBuildJoinsDocumentsWithBlankLines(t *testing.T) {
	docs := []rag.RetrievedDocument{
		{Content: "First.", Metadata: map[string]string{"source": "faqs"}},
		{Content: "Second.", Metadata: map[string]string{"source": "manual"}},
	}

	got := NewGroundedBuilder("question", docs).Build()

	if n := strings.Count(got, "**Source:"); n != 2 {
		t.Errorf("source blocks = %d, want 2", n)
	}
	if !strings.Contains(got, "**Content:** First.\n\n**Source: manual**") {
		t.Errorf("blocks not separated by a blank line:\n%s", got)
	}
}
