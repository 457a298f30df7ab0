package query

import "strings"

// domainTerms are single-word academic terms checked for exact or
// containment matches (+3 each).
var domainTerms = []string{
	"biology", "chemistry", "physics", "mathematics", "statistics",
	"engineering", "neuroscience", "genetics", "genomics", "ecology",
	"psychology", "sociology", "anthropology", "economics", "linguistics",
	"philosophy", "history", "literature", "education", "medicine",
	"immunology", "oncology", "epidemiology", "biochemistry", "biophysics",
	"astronomy", "astrophysics", "geology", "climate", "robotics",
	"algorithms", "cryptography", "bioinformatics", "nanotechnology",
	"materials", "photonics", "optics", "thermodynamics", "mechanics",
	"computing", "computation", "research", "professor", "science",
	"learning", "intelligence", "language", "vision", "cognition",
	"energy", "sustainability", "neural", "quantum", "molecular",
	"cellular", "computational", "theoretical", "applied", "data",
}

// multiWordTerms are compound academic fields; a token matching one of
// their words counts as a partial match (+2).
var multiWordTerms = []string{
	"machine learning",
	"artificial intelligence",
	"computer science",
	"natural language processing",
	"computer vision",
	"deep learning",
	"data science",
	"climate change",
	"quantum computing",
	"human computer interaction",
	"materials science",
	"public health",
	"political science",
	"cognitive science",
	"electrical engineering",
	"mechanical engineering",
	"biomedical engineering",
	"molecular biology",
	"organic chemistry",
	"game theory",
	"signal processing",
	"distributed systems",
	"operations research",
}

// academicSuffixes mark tokens that look like field names (+1).
var academicSuffixes = []string{
	"ology", "istry", "ics", "tion", "omics", "graphy",
	"metry", "onomy", "ering", "ysis", "ence",
}

// expansions maps common shorthand to full field names, used both for
// rejection remediation and zero-result search suggestions.
var expansions = map[string]string{
	"ai":     "artificial intelligence",
	"ml":     "machine learning",
	"cs":     "computer science",
	"nlp":    "natural language processing",
	"cv":     "computer vision",
	"bio":    "biology",
	"chem":   "chemistry",
	"math":   "mathematics",
	"stats":  "statistics",
	"psych":  "psychology",
	"econ":   "economics",
	"neuro":  "neuroscience",
	"hci":    "human computer interaction",
	"ee":     "electrical engineering",
	"mech":   "mechanical engineering",
	"crypto": "cryptography",
}

// defaultSuggestions are offered when no expansion applies.
var defaultSuggestions = []string{
	"machine learning",
	"molecular biology",
	"climate change",
	"neuroscience",
}

// Suggestions returns search terms related to the query: expansions of
// any recognized shorthand tokens, or a set of broad fields otherwise.
func Suggestions(q string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, tok := range tokenize(q) {
		if full, ok := expansions[strings.ToLower(tok)]; ok && !seen[full] {
			out = append(out, full)
			seen[full] = true
		}
	}
	if len(out) == 0 {
		out = append(out, defaultSuggestions...)
	}
	return out
}
