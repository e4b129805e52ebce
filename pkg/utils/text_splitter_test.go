package utils

import (
	"strings"
	"testing"
)

func TestSplitTextShortInput(t *testing.T) {
	chunks := SplitText("short answer", 1500, 200)

	if len(chunks) != 1 {
		t.Fatalf("chunks = %d, want 1", len(chunks))
	}
	if chunks[0] != "short answer" {
		t.Errorf("chunks[0] = %q, want the input unchanged", chunks[0])
	}
}

func TestSplitTextChunksOverlap(t *testing.T) {
	text := strings.Repeat("a", 250)
	chunks := SplitText(text, 100, 20)

	// step = 80: [0,100) [80,180) [160,250)
	if len(chunks) != 3 {
		t.Fatalf("chunks = %d, want 3", len(chunks))
	}
	if len(chunks[0]) != 100 || len(chunks[1]) != 100 {
		t.Errorf("chunk lengths = %d, %d, want 100, 100", len(chunks[0]), len(chunks[1]))
	}
	if len(chunks[2]) != 90 {
		t.Errorf("last chunk length = %d, want the 90-character remainder", len(chunks[2]))
	}
}

func TestSplitTextOverlapCarriesBoundaryText(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 30; i++ {
		b.WriteString("0123456789")
	}
	chunks := SplitText(b.String(), 100, 20)

	if len(chunks) < 2 {
		t.Fatalf("chunks = %d, want at least 2", len(chunks))
	}
	tail := chunks[0][len(chunks[0])-20:]
	head := chunks[1][:20]
	if tail != head {
		t.Errorf("overlap mismatch: chunk 0 ends %q, chunk 1 starts %q", tail, head)
	}
}

func TestSplitTextOverlapAtLeastChunkSize(t *testing.T) {
	text := strings.Repeat("b", 250)
	chunks := SplitText(text, 100, 100)

	// Degenerate overlap falls back to disjoint chunks instead of looping.
	if len(chunks) != 3 {
		t.Fatalf("chunks = %d, want 3", len(chunks))
	}
	for i, chunk := range chunks[:2] {
		if len(chunk) != 100 {
			t.Errorf("chunk %d length = %d, want 100", i, len(chunk))
		}
	}
}

func TestSplitTextRuneSafe(t *testing.T) {
	text := strings.Repeat("ü", 120)
	chunks := SplitText(text, 100, 10)

	// step = 90 runes: [0,100) and [90,120)
	if len(chunks) != 2 {
		t.Fatalf("chunks = %d, want 2", len(chunks))
	}
	if n := len([]rune(chunks[0])); n != 100 {
		t.Errorf("chunk 0 runes = %d, want 100", n)
	}
	if n := len([]rune(chunks[1])); n != 30 {
		t.Errorf("chunk 1 runes = %d, want 30", n)
	}
	for i, chunk := range chunks {
		if strings.ContainsRune(chunk, '�') {
			t.Errorf("chunk %d contains a broken rune", i)
		}
	}
}
