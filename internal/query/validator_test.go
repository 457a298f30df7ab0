package query

import (
	"strings"
	"testing"
)

func TestValidateRejections(t *testing.T) {
	v := NewValidator(Limits{})

	tests := []struct {
		name   string
		query  string
		reason string
	}{
		{
			name:   "single character",
			query:  "a",
			reason: ReasonTooShort,
		},
		{
			name:   "empty after trim",
			query:  "   ",
			reason: ReasonTooShort,
		},
		{
			name:   "over max length",
			query:  strings.Repeat("quantum ", 20),
			reason: ReasonTooLong,
		},
		{
			name:   "keyboard mash",
			query:  "xqzwpl",
			reason: ReasonInvalidWords,
		},
		{
			name:   "mostly gibberish",
			query:  "xqzw bcdf gklm",
			reason: ReasonInvalidWords,
		},
		{
			name:   "punctuation only",
			query:  "...,,,---",
			reason: ReasonInvalidWords,
		},
		{
			name:   "repeated character run",
			query:  "aaaaaaaa",
			reason: ReasonInvalidWords,
		},
		{
			name:   "off topic with digits",
			query:  "hello xx1 yy2",
			reason: ReasonLowRelevance,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := v.Validate(tt.query)
			if res.IsValid {
				t.Fatalf("Validate(%q) = valid, want rejection", tt.query)
			}
			if res.Reason != tt.reason {
				t.Errorf("reason = %q, want %q", res.Reason, tt.reason)
			}
			if res.Message == "" {
				t.Error("rejection carries no message")
			}
			if res.Suggestion == "" {
				t.Error("rejection carries no suggestion")
			}
		})
	}
}

func TestValidateAccepts(t *testing.T) {
	v := NewValidator(Limits{})

	tests := []struct {
		name          string
		query         string
		minConfidence float64
	}{
		{name: "academic field", query: "machine learning", minConfidence: 0.4},
		{name: "single domain term", query: "neuroscience", minConfidence: 0.4},
		{name: "field with digits", query: "quantum computing 101", minConfidence: 0.9},
		{name: "acronym mixed in", query: "NLP research", minConfidence: 0.4},
		{name: "hyphenated field", query: "human-computer interaction", minConfidence: 0.4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := v.Validate(tt.query)
			if !res.IsValid {
				t.Fatalf("Validate(%q) rejected: reason=%q message=%q",
					tt.query, res.Reason, res.Message)
			}
			if res.Confidence < tt.minConfidence {
				t.Errorf("confidence = %.2f, want >= %.2f", res.Confidence, tt.minConfidence)
			}
			if res.Confidence > 1.0 {
				t.Errorf("confidence = %.2f, want <= 1.0", res.Confidence)
			}
		})
	}
}

func TestValidateNameBypass(t *testing.T) {
	v := NewValidator(Limits{})

	names := []string{
		"Marie Curie",
		"John von Neumann",
		"O'Brien",
		"J. Robert Oppenheimer",
		"Jean-Luc Picard",
	}

	for _, name := range names {
		t.Run(name, func(t *testing.T) {
			res := v.Validate(name)
			if !res.IsValid {
				t.Fatalf("Validate(%q) rejected: reason=%q", name, res.Reason)
			}
			if res.Confidence != 0.8 {
				t.Errorf("confidence = %.2f, want 0.8", res.Confidence)
			}
		})
	}

	// Five or more fields no longer look like a name.
	res := v.Validate("one two three four five")
	if res.IsValid && res.Confidence == 0.8 {
		t.Error("five-word query took the name path")
	}
}

func TestValidateGibberishBeatsNameShape(t *testing.T) {
	// Letter-only gibberish is name-shaped but must still be rejected
	// for word validity before the name check is reached.
	v := NewValidator(Limits{})

	res := v.Validate("xqzwpl")
	if res.IsValid {
		t.Fatal("gibberish accepted via name bypass")
	}
	if res.Reason != ReasonInvalidWords {
		t.Errorf("reason = %q, want %q", res.Reason, ReasonInvalidWords)
	}
}

func TestValidateLengthBoundsCountRunes(t *testing.T) {
	v := NewValidator(Limits{})

	// One accented character is two bytes but one character; it must
	// fail the two-character minimum.
	if res := v.Validate("é"); res.Reason != ReasonTooShort {
		t.Errorf("reason = %q, want %q for a single multibyte character", res.Reason, ReasonTooShort)
	}

	// 100 multibyte characters sit exactly on the maximum and must not
	// be rejected for length, even at 200 bytes.
	if res := v.Validate(strings.Repeat("é", 100)); res.Reason == ReasonTooLong {
		t.Error("100-character query rejected as too long")
	}

	if res := v.Validate(strings.Repeat("é", 101)); res.Reason != ReasonTooLong {
		t.Errorf("reason = %q, want %q for a 101-character query", res.Reason, ReasonTooLong)
	}
}

func TestValidateNeverPanics(t *testing.T) {
	v := NewValidator(Limits{})

	inputs := []string{
		"",
		" ",
		"\x00\x01\x02",
		strings.Repeat("🔬", 60),
		"日本語のクエリ",
		"'; DROP TABLE professors; --",
		strings.Repeat("a-", 200),
	}

	for _, in := range inputs {
		res := v.Validate(in)
		if res.Confidence < 0 || res.Confidence > 1 {
			t.Errorf("Validate(%q) confidence = %.2f out of range", in, res.Confidence)
		}
	}
}

func TestPlausibleWord(t *testing.T) {
	tests := []struct {
		tok  string
		want bool
	}{
		{"biology", true},
		{"of", true},
		{"NLP", true},
		{"AI", true},
		{"x", false},
		{"xqzwpl", false},
		{"aaaaab", false},
		{"abc123", false},
		{"HCI", true},
		{"BCDFG", true},
		{"BCDFGH", false},
		{strings.Repeat("a", 26), false},
	}

	for _, tt := range tests {
		if got := plausibleWord(tt.tok); got != tt.want {
			t.Errorf("plausibleWord(%q) = %t, want %t", tt.tok, got, tt.want)
		}
	}
}

func TestTokenRelevance(t *testing.T) {
	tests := []struct {
		tok  string
		want float64
	}{
		{"biology", 3},      // exact domain term
		{"neurobiology", 3}, // containment of a domain term
		{"machine", 2},      // word of a multi-word field
		{"kinesiology", 1},  // academic suffix only
		{"hello", 0},
		{"ics", 0}, // bare suffix does not count
	}

	for _, tt := range tests {
		if got := tokenRelevance(tt.tok); got != tt.want {
			t.Errorf("tokenRelevance(%q) = %.0f, want %.0f", tt.tok, got, tt.want)
		}
	}
}

func TestSuggestions(t *testing.T) {
	t.Run("expands shorthand", func(t *testing.T) {
		got := Suggestions("ml and ai")
		want := []string{"machine learning", "artificial intelligence"}
		if len(got) != len(want) {
			t.Fatalf("Suggestions = %v, want %v", got, want)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("Suggestions[%d] = %q, want %q", i, got[i], want[i])
			}
		}
	})

	t.Run("deduplicates", func(t *testing.T) {
		got := Suggestions("ml ml ml")
		if len(got) != 1 {
			t.Fatalf("Suggestions = %v, want single entry", got)
		}
	})

	t.Run("falls back to defaults", func(t *testing.T) {
		got := Suggestions("underwater basket weaving")
		if len(got) == 0 {
			t.Fatal("no default suggestions returned")
		}
	})
}
