// Package idgen generates short random identifiers from a character-class
// mask. The identifiers are meant as default element ids: they are not
// cryptographically secure and collisions are possible.
package idgen

import (
	"math/rand/v2"
	"strings"
	"sync"
)

const (
	// DefaultLen is used when Options.Len is nil.
	DefaultLen = 5

	// DefaultChars is used when Options.Chars is empty.
	DefaultChars = "aA#"
)

// Character classes enabled by mask markers.
const (
	Lower       = "abcdefghijklmnopqrstuvwxyz"
	Upper       = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	Digits      = "0123456789"
	Punctuation = "~`!@#$%^&*()_+-={}[]:\";'<>?,./|\\"
)

// Options configures a single id.
type Options struct {
	// Len is the number of characters. Nil selects DefaultLen; a length of
	// zero yields the empty string.
	Len *int

	// Chars is the mask. The presence of 'a', 'A', '#' and '!' anywhere in
	// the string enables lowercase letters, uppercase letters, digits and
	// punctuation respectively. Empty selects DefaultChars.
	Chars string
}

// Length returns a pointer to n, for Options.Len.
func Length(n int) *int { return &n }

// Alphabet returns the characters a mask enables, in class order.
func Alphabet(mask string) string {
	var b strings.Builder
	if strings.Contains(mask, "a") {
		b.WriteString(Lower)
	}
	if strings.Contains(mask, "A") {
		b.WriteString(Upper)
	}
	if strings.Contains(mask, "#") {
		b.WriteString(Digits)
	}
	if strings.Contains(mask, "!") {
		b.WriteString(Punctuation)
	}
	return b.String()
}

// Generator produces ids from its own random source.
type Generator struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// New creates a Generator seeded from the runtime's random source.
func New() *Generator {
	return &Generator{rng: rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))}
}

// NewSeeded creates a deterministic Generator.
func NewSeeded(seed1, seed2 uint64) *Generator {
	return &Generator{rng: rand.New(rand.NewPCG(seed1, seed2))}
}

// Generate returns a random id. A nil opts returns the empty string.
// A mask that enables no class also yields the empty string.
func (g *Generator) Generate(opts *Options) string {
	if opts == nil {
		return ""
	}
	length := DefaultLen
	if opts.Len != nil {
		length = *opts.Len
	}
	chars := opts.Chars
	if chars == "" {
		chars = DefaultChars
	}

	alphabet := Alphabet(chars)
	if alphabet == "" || length < 0 {
		return ""
	}

	out := make([]byte, length)
	g.mu.Lock()
	for i := range out {
		out[i] = alphabet[g.rng.IntN(len(alphabet))]
	}
	g.mu.Unlock()
	return string(out)
}

var defaultGenerator = New()

// Generate returns a random id from the shared generator.
func Generate(opts *Options) string {
	return defaultGenerator.Generate(opts)
}
