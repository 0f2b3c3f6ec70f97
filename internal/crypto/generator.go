package crypto

import (
	"crypto/rand"
	"io"
	"strings"
)

const (
	lowercaseChars = "abcdefghijklmnopqrstuvwxyz"
	uppercaseChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	numberChars    = "0123456789"
	// The dash is reserved for the chunk delimiter.
	symbolChars = "!@#$%^&*()_=+[]{};:,.<>/?"

	ambiguousChars = "Il1O0"

	MinLength = 8
	MaxLength = 64

	ChunkSize      = 4
	ChunkDelimiter = "-"
	// MinChunkedLength is the shortest password that gets chunked.
	MinChunkedLength = 12
)

// Policy describes which passwords the generator may produce.
type Policy struct {
	Length           int
	Lowercase        bool
	Uppercase        bool
	Numbers          bool
	Symbols          bool
	ExcludeAmbiguous bool
	Chunked          bool
}

// DefaultPolicy returns 16 characters of letters and digits, without
// ambiguous characters, split into readable chunks.
func DefaultPolicy() Policy {
	return Policy{
		Length:           16,
		Lowercase:        true,
		Uppercase:        true,
		Numbers:          true,
		ExcludeAmbiguous: true,
		Chunked:          true,
	}
}

// EnabledClasses reports how many character classes the policy turns on.
func (p Policy) EnabledClasses() int {
	n := 0
	for _, on := range []bool{p.Lowercase, p.Uppercase, p.Numbers, p.Symbols} {
		if on {
			n++
		}
	}
	return n
}

// CharacterClass is a named set of characters that can be toggled on a Policy.
type CharacterClass struct {
	Name  string
	Chars string
}

// Classes returns the enabled classes in fixed order: lowercase, uppercase,
// numbers, symbols. Ambiguous characters are already removed when the policy
// asks for it, so a class may come back empty.
func Classes(p Policy) []CharacterClass {
	var classes []CharacterClass
	add := func(on bool, name, chars string) {
		if !on {
			return
		}
		if p.ExcludeAmbiguous {
			chars = stripAmbiguous(chars)
		}
		classes = append(classes, CharacterClass{Name: name, Chars: chars})
	}
	add(p.Lowercase, "lowercase", lowercaseChars)
	add(p.Uppercase, "uppercase", uppercaseChars)
	add(p.Numbers, "numbers", numberChars)
	add(p.Symbols, "symbols", symbolChars)
	return classes
}

// Alphabet returns every character the policy may emit.
func Alphabet(p Policy) string {
	var sb strings.Builder
	for _, c := range Classes(p) {
		sb.WriteString(c.Chars)
	}
	return sb.String()
}

func stripAmbiguous(s string) string {
	return strings.Map(func(r rune) rune {
		if strings.ContainsRune(ambiguousChars, r) {
			return -1
		}
		return r
	}, s)
}

// Generator builds passwords from a secure random reader.
type Generator struct {
	reader io.Reader
}

// NewGenerator returns a Generator reading from r, or from crypto/rand when r is nil.
func NewGenerator(r io.Reader) *Generator {
	if r == nil {
		r = rand.Reader
	}
	return &Generator{reader: r}
}

var defaultGenerator = NewGenerator(nil)

// Generate creates a password from crypto/rand. See (*Generator).Generate.
func Generate(p Policy) (string, error) {
	return defaultGenerator.Generate(p)
}

// Generate creates a password for the given policy.
//
// An empty string with a nil error means the policy leaves nothing to pick
// from: no class is enabled, or the length is not positive. Callers surface
// that as an input problem. The only error is a failure of the random reader.
//
// Each enabled class contributes one character, in class order, before the
// rest is filled from the full alphabet and shuffled. When Length is smaller
// than the number of classes the later classes go unseeded.
func (g *Generator) Generate(p Policy) (string, error) {
	classes := Classes(p)
	pool := Alphabet(p)
	if pool == "" || p.Length <= 0 {
		return "", nil
	}

	// One value per position plus one per shuffle step.
	rs, err := newRandomStream(g.reader, 2*p.Length)
	if err != nil {
		return "", err
	}

	result := make([]byte, p.Length)
	idx := 0
	for _, c := range classes {
		if idx >= p.Length {
			break
		}
		if c.Chars == "" {
			continue
		}
		ch, err := pick(rs, c.Chars)
		if err != nil {
			return "", err
		}
		result[idx] = ch
		idx++
	}

	for ; idx < p.Length; idx++ {
		ch, err := pick(rs, pool)
		if err != nil {
			return "", err
		}
		result[idx] = ch
	}

	if err := shuffle(rs, result); err != nil {
		return "", err
	}

	out := string(result)
	if p.Chunked && p.Length >= MinChunkedLength {
		out = Chunk(out)
	}
	return out, nil
}

// pick chooses a random character from charset.
func pick(rs *randomStream, charset string) (byte, error) {
	n, err := rs.intn(len(charset))
	if err != nil {
		return 0, err
	}
	return charset[n], nil
}

// shuffle performs a Fisher-Yates shuffle from the last index down to 1.
func shuffle(rs *randomStream, data []byte) error {
	for i := len(data) - 1; i > 0; i-- {
		j, err := rs.intn(i + 1)
		if err != nil {
			return err
		}
		data[i], data[j] = data[j], data[i]
	}
	return nil
}

// Chunk splits s into groups of ChunkSize joined by ChunkDelimiter.
func Chunk(s string) string {
	if len(s) <= ChunkSize {
		return s
	}
	groups := make([]string, 0, (len(s)+ChunkSize-1)/ChunkSize)
	for len(s) > ChunkSize {
		groups = append(groups, s[:ChunkSize])
		s = s[ChunkSize:]
	}
	groups = append(groups, s)
	return strings.Join(groups, ChunkDelimiter)
}

// Unchunk removes chunk delimiters. It is lossless because no character
// class contains the delimiter.
func Unchunk(s string) string {
	return strings.ReplaceAll(s, ChunkDelimiter, "")
}
