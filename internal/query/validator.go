// Package query decides whether free text is a plausible academic
// search before any retrieval cost is paid. Validation is pure and
// deterministic: no I/O, no clock, and it never panics. Every failure
// mode degrades to an explicit rejection with remediation text.
package query

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Rejection reasons. These are part of the API response contract.
const (
	ReasonTooShort     = "too_short"
	ReasonTooLong      = "too_long"
	ReasonInvalidWords = "invalid_words"
	ReasonLowRelevance = "low_relevance"
)

// Result is the validator verdict for a single query.
type Result struct {
	IsValid    bool
	Confidence float64
	Reason     string
	Message    string
	Suggestion string
}

// Limits carries the validation thresholds. The defaults are the
// empirically tuned production values; they are deliberately permissive
// (recall over precision) and configurable rather than hard-coded law.
type Limits struct {
	MinLength       int
	MaxLength       int
	MinConfidence   float64 // final verdict cutoff
	MinWordValidity float64 // gibberish cutoff
	MinRelevance    float64 // topical cutoff
	CleanWordBypass float64 // lexically clean queries skip the topical cutoff
}

// DefaultLimits returns the production thresholds.
func DefaultLimits() Limits {
	return Limits{
		MinLength:       2,
		MaxLength:       100,
		MinConfidence:   0.4,
		MinWordValidity: 0.3,
		MinRelevance:    0.1,
		CleanWordBypass: 0.8,
	}
}

// Validator validates search queries against a set of limits.
type Validator struct {
	limits Limits
}

// NewValidator creates a Validator. Zero-valued limit fields fall back
// to the defaults so partial configuration stays safe.
func NewValidator(limits Limits) *Validator {
	d := DefaultLimits()
	if limits.MinLength == 0 {
		limits.MinLength = d.MinLength
	}
	if limits.MaxLength == 0 {
		limits.MaxLength = d.MaxLength
	}
	if limits.MinConfidence == 0 {
		limits.MinConfidence = d.MinConfidence
	}
	if limits.MinWordValidity == 0 {
		limits.MinWordValidity = d.MinWordValidity
	}
	if limits.MinRelevance == 0 {
		limits.MinRelevance = d.MinRelevance
	}
	if limits.CleanWordBypass == 0 {
		limits.CleanWordBypass = d.CleanWordBypass
	}
	return &Validator{limits: limits}
}

// namePattern matches queries that look like a person's name: letters,
// spaces, hyphens, periods and apostrophes only.
var namePattern = regexp.MustCompile(`^[A-Za-z][A-Za-z .'\-]*$`)

// Validate classifies a raw query. Professor-name lookups are a
// first-class use case, so name-shaped queries bypass topical scoring.
func (v *Validator) Validate(q string) Result {
	trimmed := strings.TrimSpace(q)

	// Length bounds are in characters, not bytes.
	length := utf8.RuneCountInString(trimmed)
	if length < v.limits.MinLength {
		return Result{
			Reason:     ReasonTooShort,
			Message:    "Query is too short",
			Suggestion: "Enter at least 2 characters, like a research area or a professor's name",
		}
	}
	if length > v.limits.MaxLength {
		return Result{
			Reason:     ReasonTooLong,
			Message:    "Query is too long",
			Suggestion: "Shorten your search to a field of research or a name",
		}
	}

	tokens := tokenize(trimmed)
	if len(tokens) == 0 {
		// Punctuation-only input; nothing to score.
		return Result{
			Reason:     ReasonInvalidWords,
			Message:    "Query contains no recognizable words",
			Suggestion: "Try searching for an academic field, like \"machine learning\"",
		}
	}

	valid := 0
	for _, tok := range tokens {
		if plausibleWord(tok) {
			valid++
		}
	}
	wordValidity := float64(valid) / float64(len(tokens))

	if wordValidity < v.limits.MinWordValidity {
		return Result{
			Reason:     ReasonInvalidWords,
			Message:    "Query contains invalid or nonsensical words",
			Suggestion: rejectionSuggestion(tokens),
		}
	}

	// Name-shaped queries skip topical relevance entirely.
	if namePattern.MatchString(trimmed) && len(strings.Fields(trimmed)) <= 4 {
		return Result{IsValid: true, Confidence: 0.8}
	}

	relevance := relevanceScore(tokens)

	// Permissive AND: lexically clean queries pass even with low
	// topical signal.
	if relevance < v.limits.MinRelevance && wordValidity < v.limits.CleanWordBypass {
		return Result{
			Reason:     ReasonLowRelevance,
			Message:    "Query does not look like an academic search",
			Suggestion: rejectionSuggestion(tokens),
		}
	}

	confidence := 0.3*wordValidity + 0.4*relevance + 0.4
	if confidence > 1.0 {
		confidence = 1.0
	}

	return Result{
		IsValid:    confidence > v.limits.MinConfidence,
		Confidence: confidence,
	}
}

// tokenize splits on whitespace, hyphens, commas and periods.
func tokenize(q string) []string {
	return strings.FieldsFunc(q, func(r rune) bool {
		return unicode.IsSpace(r) || r == '-' || r == ',' || r == '.'
	})
}

// plausibleWord reports whether a token could be a real word: sane
// length, letter-like characters, no long character runs, and either a
// vowel/consonant mix or a short/acronym shape.
func plausibleWord(tok string) bool {
	n := len(tok)
	if n < 2 || n > 25 {
		return false
	}

	var prev rune
	run := 1
	hasVowel, hasConsonant := false, false
	for _, r := range tok {
		if !unicode.IsLetter(r) && r != '-' && r != '\'' {
			return false
		}
		if r == prev {
			run++
			if run >= 5 {
				return false
			}
		} else {
			run = 1
		}
		prev = r

		lower := unicode.ToLower(r)
		switch lower {
		case 'a', 'e', 'i', 'o', 'u', 'y':
			hasVowel = true
		default:
			if unicode.IsLetter(r) {
				hasConsonant = true
			}
		}
	}

	if hasVowel && hasConsonant {
		return true
	}
	if n <= 3 {
		return true
	}
	return isAcronym(tok)
}

// isAcronym reports whether the token is an all-caps acronym of at most
// five letters.
func isAcronym(tok string) bool {
	if len(tok) > 5 {
		return false
	}
	for _, r := range tok {
		if !unicode.IsUpper(r) {
			return false
		}
	}
	return true
}

// relevanceScore averages per-token academic-domain weights and clamps
// the result to [0, 3].
func relevanceScore(tokens []string) float64 {
	total := 0.0
	for _, tok := range tokens {
		total += tokenRelevance(strings.ToLower(tok))
	}
	score := total / float64(len(tokens))
	if score < 0 {
		score = 0
	}
	if score > 3 {
		score = 3
	}
	return score
}

// tokenRelevance weights a single lowercase token: 3 for a known domain
// term, 2 for a word of a multi-word field, 1 for an academic suffix.
func tokenRelevance(tok string) float64 {
	for _, term := range domainTerms {
		if tok == term || strings.Contains(tok, term) {
			return 3
		}
	}
	for _, term := range multiWordTerms {
		for _, word := range strings.Fields(term) {
			if tok == word {
				return 2
			}
		}
	}
	for _, suffix := range academicSuffixes {
		if len(tok) > len(suffix) && strings.HasSuffix(tok, suffix) {
			return 1
		}
	}
	return 0
}

// rejectionSuggestion offers cheap keyword expansions on rejection,
// falling back to generic remediation text.
func rejectionSuggestion(tokens []string) string {
	for _, tok := range tokens {
		if full, ok := expansions[strings.ToLower(tok)]; ok {
			return "Did you mean \"" + full + "\"?"
		}
	}
	return "Try searching for an academic field, like \"machine learning\", or a professor's name"
}
