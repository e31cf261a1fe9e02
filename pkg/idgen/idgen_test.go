package idgen

import (
	"strings"
	"testing"
)

func TestGenerateNilOptions(t *testing.T) {
	if got := Generate(nil); got != "" {
		t.Errorf("Generate(nil) = %q, want empty", got)
	}
}

func TestGenerateZeroLength(t *testing.T) {
	for _, mask := range []string{"", "a", "aA#!"} {
		if got := Generate(&Options{Len: Length(0), Chars: mask}); got != "" {
			t.Errorf("Generate(len 0, %q) = %q, want empty", mask, got)
		}
	}
	if got := Generate(&Options{Len: Length(-1)}); got != "" {
		t.Errorf("Generate(len -1) = %q, want empty", got)
	}
}

func TestGenerateDefaults(t *testing.T) {
	id := Generate(&Options{})
	if len(id) != DefaultLen {
		t.Fatalf("len = %d, want %d", len(id), DefaultLen)
	}
	assertFrom(t, id, Lower+Upper+Digits)
}

func TestGenerateLengthAndAlphabet(t *testing.T) {
	g := NewSeeded(1, 2)

	tests := []struct {
		name     string
		opts     Options
		wantLen  int
		alphabet string
	}{
		{"lower only", Options{Len: Length(12), Chars: "a"}, 12, Lower},
		{"upper only", Options{Len: Length(8), Chars: "A"}, 8, Upper},
		{"digits only", Options{Len: Length(30), Chars: "#"}, 30, Digits},
		{"punctuation only", Options{Len: Length(40), Chars: "!"}, 40, Punctuation},
		{"element id mask", Options{Len: Length(6), Chars: "Aa#"}, 6, Lower + Upper + Digits},
		{"marker by containment", Options{Len: Length(10), Chars: "ab"}, 10, Lower},
		{"single char", Options{Len: Length(1), Chars: "aA#!"}, 1, Lower + Upper + Digits + Punctuation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for i := 0; i < 50; i++ {
				id := g.Generate(&tt.opts)
				if len(id) != tt.wantLen {
					t.Fatalf("len(%q) = %d, want %d", id, len(id), tt.wantLen)
				}
				assertFrom(t, id, tt.alphabet)
			}
		})
	}
}

func TestGenerateNoMarker(t *testing.T) {
	if got := Generate(&Options{Len: Length(4), Chars: "xyz"}); got != "" {
		t.Errorf("Generate with empty alphabet = %q, want empty", got)
	}
}

func TestSeededIsDeterministic(t *testing.T) {
	a := NewSeeded(7, 7).Generate(&Options{Len: Length(16)})
	b := NewSeeded(7, 7).Generate(&Options{Len: Length(16)})
	if a != b {
		t.Errorf("seeded generators diverged: %q vs %q", a, b)
	}
}

func TestAlphabet(t *testing.T) {
	if got := Alphabet("#a"); got != Lower+Digits {
		t.Errorf("Alphabet(#a) = %q", got)
	}
	if got := Alphabet(""); got != "" {
		t.Errorf("Alphabet(\"\") = %q, want empty", got)
	}
}

func assertFrom(t *testing.T, id, alphabet string) {
	t.Helper()
	for _, r := range id {
		if !strings.ContainsRune(alphabet, r) {
			t.Fatalf("id %q contains %q outside alphabet", id, r)
		}
	}
}
