package passwords

import (
	"fmt"
	"math"
	"strings"
	"unicode"
)

// Level is a coarse strength rating derived from the score.
type Level string

const (
	VeryWeak   Level = "Very Weak"
	Weak       Level = "Weak"
	Moderate   Level = "Moderate"
	Strong     Level = "Strong"
	VeryStrong Level = "Very Strong"
)

// Levels lists every level from weakest to strongest.
var Levels = []Level{VeryWeak, Weak, Moderate, Strong, VeryStrong}

// SymbolChars is the symbol class used by both analysis and generation.
const SymbolChars = "!@#$%^&*()_+-=[]{}|;:,.<>?"

const (
	lowerSize  = 26
	upperSize  = 26
	digitSize  = 10
	symbolSize = 32

	// printableASCII is assumed when no known class is present.
	printableASCII = 95
)

var (
	weakSubstrings   = []string{"123", "abc", "qwe", "asd", "password", "123456"}
	patternSequences = []string{"123", "abc", "qwe", "asd", "password", "123456", "qwerty"}
	keyboardPatterns = []string{"qwerty", "asdfgh", "zxcvbn"}
)

// CharacterSets records which classes occur in a password.
type CharacterSets struct {
	Lowercase bool `json:"lowercase"`
	Uppercase bool `json:"uppercase"`
	Digits    bool `json:"digits"`
	Symbols   bool `json:"symbols"`
}

// Count returns how many classes are present.
func (c CharacterSets) Count() int {
	n := 0
	for _, b := range []bool{c.Lowercase, c.Uppercase, c.Digits, c.Symbols} {
		if b {
			n++
		}
	}
	return n
}

// Analysis is the result of Analyze.
type Analysis struct {
	Length        int           `json:"length"`
	Entropy       float64       `json:"entropy"`
	Score         int           `json:"strength_score"`
	Level         Level         `json:"strength_level"`
	Issues        []string      `json:"issues"`
	Suggestions   []string      `json:"suggestions"`
	CharacterSets CharacterSets `json:"character_sets"`
	Patterns      []string      `json:"common_patterns"`
}

// Analyze rates password. Length counts Unicode code points.
func Analyze(password string) Analysis {
	if password == "" {
		return Analysis{
			Level:       VeryWeak,
			Issues:      []string{"No password entered"},
			Suggestions: []string{"Enter a password to analyze"},
			Patterns:    []string{},
		}
	}

	p := inspect(password)
	score := p.score()
	return Analysis{
		Length:        p.length,
		Entropy:       p.entropy(),
		Score:         score,
		Level:         LevelFor(score),
		Issues:        p.issues(),
		Suggestions:   p.suggestions(),
		CharacterSets: p.sets,
		Patterns:      p.patterns(),
	}
}

// LevelFor maps a 0..100 score to its band.
func LevelFor(score int) Level {
	switch {
	case score >= 80:
		return VeryStrong
	case score >= 60:
		return Strong
	case score >= 40:
		return Moderate
	case score >= 20:
		return Weak
	default:
		return VeryWeak
	}
}

type profile struct {
	length   int
	distinct int
	sets     CharacterSets
	run3     bool
	run4     bool
	lower    string
}

func inspect(password string) profile {
	runes := []rune(password)
	p := profile{length: len(runes), lower: strings.ToLower(password)}

	seen := make(map[rune]struct{}, len(runes))
	run := 0
	for i, r := range runes {
		seen[r] = struct{}{}

		switch {
		case r >= 'a' && r <= 'z':
			p.sets.Lowercase = true
		case r >= 'A' && r <= 'Z':
			p.sets.Uppercase = true
		case unicode.IsDigit(r):
			p.sets.Digits = true
		case strings.ContainsRune(SymbolChars, r):
			p.sets.Symbols = true
		}

		if i > 0 && r == runes[i-1] && r != '\n' {
			run++
		} else {
			run = 1
		}
		if run >= 3 {
			p.run3 = true
		}
		if run >= 4 {
			p.run4 = true
		}
	}
	p.distinct = len(seen)
	return p
}

func (p profile) charsetSize() int {
	n := 0
	if p.sets.Lowercase {
		n += lowerSize
	}
	if p.sets.Uppercase {
		n += upperSize
	}
	if p.sets.Digits {
		n += digitSize
	}
	if p.sets.Symbols {
		n += symbolSize
	}
	if n == 0 {
		n = printableASCII
	}
	return n
}

func (p profile) entropy() float64 {
	bits := float64(p.length) * math.Log2(float64(p.charsetSize()))
	return math.Round(bits*100) / 100
}

func (p profile) hasWeakSubstring() bool {
	for _, s := range weakSubstrings {
		if strings.Contains(p.lower, s) {
			return true
		}
	}
	return false
}

func (p profile) score() int {
	score := 0
	if p.length >= 8 {
		score += min(25, p.length*2)
	}
	if p.sets.Lowercase {
		score += 8
	}
	if p.sets.Uppercase {
		score += 8
	}
	if p.sets.Digits {
		score += 8
	}
	if p.sets.Symbols {
		score += 16
	}
	if float64(p.distinct) > float64(p.length)*0.7 {
		score += 10
	}
	if !p.run3 {
		score += 10
	}

	if p.run4 {
		score -= 15
	}
	if p.hasWeakSubstring() {
		score -= 20
	}
	if p.length < 6 {
		score -= 10
	}
	return max(0, min(100, score))
}

func (p profile) lowVariety() bool {
	return float64(p.distinct) < float64(p.length)*0.5
}

func (p profile) issues() []string {
	issues := []string{}
	if p.length < 8 {
		issues = append(issues, "Too short (minimum 8 characters recommended)")
	}
	if !p.sets.Lowercase {
		issues = append(issues, "Missing lowercase letters")
	}
	if !p.sets.Uppercase {
		issues = append(issues, "Missing uppercase letters")
	}
	if !p.sets.Digits {
		issues = append(issues, "Missing numbers")
	}
	if !p.sets.Symbols {
		issues = append(issues, "Missing special characters")
	}
	if p.run4 {
		issues = append(issues, "Too many repeated characters")
	}
	if p.hasWeakSubstring() {
		issues = append(issues, "Contains common patterns")
	}
	if p.lowVariety() {
		issues = append(issues, "Low character variety")
	}
	return issues
}

func (p profile) suggestions() []string {
	s := []string{}
	if p.length < 8 {
		s = append(s, "Increase length to at least 8 characters")
	}
	if !p.sets.Lowercase {
		s = append(s, "Add lowercase letters (a-z)")
	}
	if !p.sets.Uppercase {
		s = append(s, "Add uppercase letters (A-Z)")
	}
	if !p.sets.Digits {
		s = append(s, "Add numbers (0-9)")
	}
	if !p.sets.Symbols {
		s = append(s, "Add special characters (!@#$%^&*)")
	}
	if p.run4 {
		s = append(s, "Avoid repeating characters more than twice")
	}
	if p.hasWeakSubstring() {
		s = append(s, "Avoid common patterns and sequences")
	}
	if p.lowVariety() {
		s = append(s, "Use more diverse characters")
	}
	if p.length < 12 {
		s = append(s, "Consider using 12+ characters for maximum security")
	}
	return append(s,
		"Use a mix of random words, numbers, and symbols",
		"Avoid personal information (names, birthdays, etc.)")
}

func (p profile) patterns() []string {
	out := []string{}
	for _, seq := range patternSequences {
		if strings.Contains(p.lower, seq) {
			out = append(out, fmt.Sprintf("Contains '%s' sequence", seq))
		}
	}
	if p.run4 {
		out = append(out, "Repeated characters")
	}
	for _, kp := range keyboardPatterns {
		if strings.Contains(p.lower, kp) {
			out = append(out, "Keyboard pattern detected")
		}
	}
	return out
}
