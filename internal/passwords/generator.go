package passwords

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/vaultkeeper/internal/common"
)

const (
	lowerChars = "abcdefghijklmnopqrstuvwxyz"
	upperChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	digitChars = "0123456789"

	similarChars   = "l1I|O0"
	ambiguousChars = `{}[]|\/`

	suffixSymbols = "!@#$%^&*"
	consonants    = "bcdfghjklmnpqrstvwxz"
	vowels        = "aeiouy"

	MinLength    = 4
	MaxLength    = 128
	MinWordCount = 1
	MaxWordCount = 20
)

// Options controls Generate.
type Options struct {
	Length         int  `json:"length"`
	Lowercase      bool `json:"include_lowercase"`
	Uppercase      bool `json:"include_uppercase"`
	Digits         bool `json:"include_digits"`
	Symbols        bool `json:"include_symbols"`
	AvoidSimilar   bool `json:"avoid_similar"`
	AvoidAmbiguous bool `json:"avoid_ambiguous"`
}

func DefaultOptions() Options {
	return Options{
		Length:         16,
		Lowercase:      true,
		Uppercase:      true,
		Digits:         true,
		Symbols:        true,
		AvoidSimilar:   true,
		AvoidAmbiguous: true,
	}
}

// classes returns the selected alphabets after filtering.
func (o Options) classes() []string {
	var out []string
	for _, c := range []struct {
		on    bool
		chars string
	}{
		{o.Lowercase, lowerChars},
		{o.Uppercase, upperChars},
		{o.Digits, digitChars},
		{o.Symbols, SymbolChars},
	} {
		if !c.on {
			continue
		}
		chars := c.chars
		if o.AvoidSimilar {
			chars = without(chars, similarChars)
		}
		if o.AvoidAmbiguous {
			chars = without(chars, ambiguousChars)
		}
		out = append(out, chars)
	}
	return out
}

// Validate reports the first violated constraint.
func (o Options) Validate() error {
	if o.Length < MinLength || o.Length > MaxLength {
		return fmt.Errorf("%w: length %d outside [%d, %d]", common.ErrInvalidOptions, o.Length, MinLength, MaxLength)
	}
	n := len(o.classes())
	if n == 0 {
		return fmt.Errorf("%w: at least one character set must be selected", common.ErrInvalidOptions)
	}
	if o.Length < n {
		return fmt.Errorf("%w: length %d is too short for %d required character sets", common.ErrInvalidOptions, o.Length, n)
	}
	return nil
}

// MemorableOptions controls GenerateMemorable.
type MemorableOptions struct {
	WordCount      int    `json:"word_count"`
	Separator      string `json:"separator"`
	IncludeNumbers bool   `json:"include_numbers"`
	IncludeSymbols bool   `json:"include_symbols"`
}

func DefaultMemorableOptions() MemorableOptions {
	return MemorableOptions{WordCount: 4, Separator: "-", IncludeNumbers: true, IncludeSymbols: true}
}

// PronounceableOptions controls GeneratePronounceable.
type PronounceableOptions struct {
	Length         int  `json:"length"`
	IncludeNumbers bool `json:"include_numbers"`
	IncludeSymbols bool `json:"include_symbols"`
}

func DefaultPronounceableOptions() PronounceableOptions {
	return PronounceableOptions{Length: 12, IncludeNumbers: true, IncludeSymbols: true}
}

// Generator produces passwords from a cryptographically secure source.
type Generator struct {
	rand io.Reader
}

func NewGenerator() *Generator {
	return &Generator{rand: rand.Reader}
}

// Generate returns a password with at least one character of every
// selected class, the rest drawn uniformly from the union, shuffled.
func (g *Generator) Generate(o Options) (string, error) {
	if err := o.Validate(); err != nil {
		return "", err
	}

	classes := o.classes()
	pool := strings.Join(classes, "")

	out := make([]byte, 0, o.Length)
	for _, c := range classes {
		ch, err := g.pick(c)
		if err != nil {
			return "", err
		}
		out = append(out, ch)
	}
	for len(out) < o.Length {
		ch, err := g.pick(pool)
		if err != nil {
			return "", err
		}
		out = append(out, ch)
	}

	if err := g.shuffle(out); err != nil {
		return "", err
	}
	return string(out), nil
}

// GenerateMemorable joins random words, each capitalised with probability
// one half, then optionally appends a number below 100 and a symbol.
func (g *Generator) GenerateMemorable(o MemorableOptions) (string, error) {
	if o.WordCount < MinWordCount || o.WordCount > MaxWordCount {
		return "", fmt.Errorf("%w: word count %d outside [%d, %d]", common.ErrInvalidOptions, o.WordCount, MinWordCount, MaxWordCount)
	}

	words := make([]string, o.WordCount)
	for i := range words {
		n, err := g.intn(len(wordList))
		if err != nil {
			return "", err
		}
		w := wordList[n]
		upper, err := g.coin()
		if err != nil {
			return "", err
		}
		if upper {
			w = strings.ToUpper(w[:1]) + w[1:]
		}
		words[i] = w
	}

	return g.suffix(strings.Join(words, o.Separator), o.IncludeNumbers, o.IncludeSymbols)
}

// GeneratePronounceable alternates consonants (even positions) and vowels
// (odd positions), upper-casing each letter with probability one half.
func (g *Generator) GeneratePronounceable(o PronounceableOptions) (string, error) {
	if o.Length < MinLength || o.Length > MaxLength {
		return "", fmt.Errorf("%w: length %d outside [%d, %d]", common.ErrInvalidOptions, o.Length, MinLength, MaxLength)
	}

	out := make([]byte, o.Length)
	for i := range out {
		alphabet := consonants
		if i%2 == 1 {
			alphabet = vowels
		}
		ch, err := g.pick(alphabet)
		if err != nil {
			return "", err
		}
		upper, err := g.coin()
		if err != nil {
			return "", err
		}
		if upper {
			ch -= 'a' - 'A'
		}
		out[i] = ch
	}

	return g.suffix(string(out), o.IncludeNumbers, o.IncludeSymbols)
}

func (g *Generator) suffix(s string, numbers, symbols bool) (string, error) {
	if numbers {
		n, err := g.intn(100)
		if err != nil {
			return "", err
		}
		s += strconv.Itoa(n)
	}
	if symbols {
		ch, err := g.pick(suffixSymbols)
		if err != nil {
			return "", err
		}
		s += string(ch)
	}
	return s, nil
}

func (g *Generator) intn(n int) (int, error) {
	v, err := rand.Int(g.rand, big.NewInt(int64(n)))
	if err != nil {
		return 0, fmt.Errorf("random source: %w", err)
	}
	return int(v.Int64()), nil
}

func (g *Generator) pick(alphabet string) (byte, error) {
	i, err := g.intn(len(alphabet))
	if err != nil {
		return 0, err
	}
	return alphabet[i], nil
}

func (g *Generator) coin() (bool, error) {
	n, err := g.intn(2)
	return n == 1, err
}

// shuffle is Fisher-Yates over b.
func (g *Generator) shuffle(b []byte) error {
	for i := len(b) - 1; i > 0; i-- {
		j, err := g.intn(i + 1)
		if err != nil {
			return err
		}
		b[i], b[j] = b[j], b[i]
	}
	return nil
}

func without(s, remove string) string {
	return strings.Map(func(r rune) rune {
		if strings.ContainsRune(remove, r) {
			return -1
		}
		return r
	}, s)
}
