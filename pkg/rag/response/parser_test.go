package response

import (
	"strings"
	"testing"

	"erp-chatbot-be/internal/constant"
)

func TestClean(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "strips empty bold markers",
			raw:  "** ** Certainly, feel free to reach out.",
			want: "Certainly, feel free to reach out.",
		},
		{
			name: "bullets become dash lists",
			raw:  "The module covers: • Invoicing • Inventory, feel free to ask.",
			want: "The module covers:\n- Invoicing\n- Inventory, feel free to ask.",
		},
		{
			name: "inline dashes become list items",
			raw:  "Available reports - Sales - Purchasing, feel free to ask.",
			want: "Available reports\n- Sales\n- Purchasing, feel free to ask.",
		},
		{
			name: "blank lines are squeezed",
			raw:  "First paragraph.\n\n\nSecond paragraph, feel free to ask.",
			want: "First paragraph.\nSecond paragraph, feel free to ask.",
		},
		{
			name: "existing closing is left alone",
			raw:  "Invoices live under Billing. Please let me know if anything is unclear.",
			want: "Invoices live under Billing. Please let me know if anything is unclear.",
		},
		{
			name: "closing line appended when missing",
			raw:  "You can export the report from the Finance dashboard.",
			want: "You can export the report from the Finance dashboard.\n\n" + constant.ClosingLine,
		},
	}

	p := NewParser()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := p.Clean(tt.raw)
			if got != tt.want {
				t.Errorf("Clean(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestExtractSuggestedQuestions(t *testing.T) {
	p := NewParser()

	t.Run("dashed block extracted and removed", func(t *testing.T) {
		body := "You can reset your password from the login page.\nSuggested Questions:\n- How do I change my email?\n- Where can I see my invoices?"
		gotBody, questions := p.ExtractSuggestedQuestions(body)

		if len(questions) != 2 {
			t.Fatalf("question count = %d, want 2", len(questions))
		}
		if questions[0] != "How do I change my email?" {
			t.Errorf("questions[0] = %q, want %q", questions[0], "How do I change my email?")
		}
		if questions[1] != "Where can I see my invoices?" {
			t.Errorf("questions[1] = %q, want %q", questions[1], "Where can I see my invoices?")
		}
		if gotBody != "You can reset your password from the login page." {
			t.Errorf("body = %q, want the answer without the question block", gotBody)
		}
	})

	t.Run("numbered follow-up variant", func(t *testing.T) {
		body := "Refunds take 5 business days.\nFollow-up Questions:\n1. What is the refund window?\n2. How long does shipping take?"
		gotBody, questions := p.ExtractSuggestedQuestions(body)

		if len(questions) != 2 {
			t.Fatalf("question count = %d, want 2", len(questions))
		}
		if questions[0] != "What is the refund window?" {
			t.Errorf("questions[0] = %q, want %q", questions[0], "What is the refund window?")
		}
		if strings.Contains(gotBody, "Follow-up") {
			t.Errorf("body still contains the header: %q", gotBody)
		}
	})

	t.Run("no block leaves body untouched", func(t *testing.T) {
		body := "Plain answer without follow-ups."
		gotBody, questions := p.ExtractSuggestedQuestions(body)

		if len(questions) != 0 {
			t.Errorf("question count = %d, want 0", len(questions))
		}
		if gotBody != body {
			t.Errorf("body = %q, want %q", gotBody, body)
		}
	})

	t.Run("caps at three questions", func(t *testing.T) {
		body := "Answer.\nSuggested Questions:\n- One?\n- Two?\n- Three?\n- Four?"
		_, questions := p.ExtractSuggestedQuestions(body)

		if len(questions) != 3 {
			t.Errorf("question count = %d, want 3", len(questions))
		}
	})

	t.Run("lines without a question mark are skipped", func(t *testing.T) {
		body := "Answer.\nSuggested Questions:\n- This is a statement\n- Is this a real question?"
		_, questions := p.ExtractSuggestedQuestions(body)

		if len(questions) != 1 {
			t.Fatalf("question count = %d, want 1", len(questions))
		}
		if questions[0] != "Is this a real question?" {
			t.Errorf("questions[0] = %q, want %q", questions[0], "Is this a real question?")
		}
	})
}

func TestIsUnhelpful(t *testing.T) {
	tests := []struct {
		name string
		body string
		want bool
	}{
		{"empty body", "", true},
		{"whitespace only", "   \n ", true},
		{"admits missing information", "I couldn't find specific information about that.", true},
		{"hedges about documentation", "The answer is not explicitly stated in the manual.", true},
		{"solid answer", "You can reset your password under Settings.", false},
	}

	p := NewParser()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := p.IsUnhelpful(tt.body); got != tt.want {
				t.Errorf("IsUnhelpful(%q) = %v, want %v", tt.body, got, tt.want)
			}
		})
	}
}
