package corpus

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/researchconnect/profscout/internal/types"
)

// ErrEmptyCorpus is returned when the catalog contains no usable records.
var ErrEmptyCorpus = errors.New("corpus contains no records")

// Loader parses the professor catalog from a Source.
type Loader struct {
	source Source
}

// NewLoader creates a Loader reading from the given source.
func NewLoader(source Source) *Loader {
	return &Loader{source: source}
}

// Load fetches and parses the catalog. The returned slice is a fresh
// value on every call; callers may not observe mutation by other callers.
func (l *Loader) Load(ctx context.Context) ([]types.Professor, error) {
	data, err := l.source.Fetch(ctx)
	if err != nil {
		return nil, err
	}

	professors, err := Parse(data)
	if err != nil {
		return nil, err
	}
	if len(professors) == 0 {
		return nil, ErrEmptyCorpus
	}
	return professors, nil
}

// Parse decodes catalog CSV bytes into professor records. The first row
// is a header naming the columns; unknown columns are ignored. Rows
// missing a name or research field are skipped with a warning, and
// malformed metric values degrade to zero rather than failing the load.
func Parse(data []byte) ([]types.Professor, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1 // tolerate ragged rows
	r.TrimLeadingSpace = true

	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse corpus csv: %w", err)
	}
	if len(rows) < 2 {
		return []types.Professor{}, nil
	}

	cols := columnIndex(rows[0])
	if _, ok := cols["name"]; !ok {
		return nil, fmt.Errorf("parse corpus csv: missing required column %q", "name")
	}

	professors := make([]types.Professor, 0, len(rows)-1)
	for i, row := range rows[1:] {
		p := types.Professor{
			Name:          cell(row, cols, "name"),
			ResearchField: cell(row, cols, "field_of_research"),
			Institution:   cell(row, cols, "university_name"),
			ContactEmail:  cell(row, cols, "email"),
			ProfileURL:    cell(row, cols, "official_url"),
			Publications:  intCell(row, cols, "publications"),
			Citations:     intCell(row, cols, "citations"),
		}
		if p.Name == "" || p.ResearchField == "" {
			slog.Warn("skipping incomplete corpus row",
				"component", "corpus",
				"row", i+2,
			)
			continue
		}
		professors = append(professors, p)
	}

	return professors, nil
}

// columnIndex maps normalized header names to their positions.
func columnIndex(header []string) map[string]int {
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	return cols
}

func cell(row []string, cols map[string]int, name string) string {
	i, ok := cols[name]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func intCell(row []string, cols map[string]int, name string) int {
	v := cell(row, cols, name)
	if v == "" {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
