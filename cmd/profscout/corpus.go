package main

import (
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/researchconnect/profscout/internal/config"
	"github.com/researchconnect/profscout/internal/corpus"
	"github.com/researchconnect/profscout/internal/types"
)

var corpusCmd = &cobra.Command{
	Use:   "corpus",
	Short: "Inspect the professor catalog",
}

var corpusInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Print record count and field census for the configured catalog",
	RunE:  runCorpusInfo,
}

func init() {
	corpusCmd.AddCommand(corpusInfoCmd)
}

func runCorpusInfo(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	source, err := corpus.NewSource(cfg.Corpus)
	if err != nil {
		return err
	}
	professors, err := corpus.NewLoader(source).Load(cmd.Context())
	if err != nil {
		return fmt.Errorf("load corpus: %w", err)
	}

	c := takeCensus(professors)

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "records:\t%d\n", len(professors))
	fmt.Fprintf(w, "with email:\t%d\n", c.withEmail)
	fmt.Fprintf(w, "distinct fields:\t%d\n", len(c.fields))
	fmt.Fprintln(w)
	for _, f := range c.fields {
		fmt.Fprintf(w, "%s\t%d\n", f, c.counts[f])
	}
	return w.Flush()
}

type census struct {
	counts    map[string]int
	fields    []string // primary fields, most frequent first
	withEmail int
}

// takeCensus tallies records by primary research field and counts how
// many carry a contact email.
func takeCensus(professors []types.Professor) census {
	c := census{counts: make(map[string]int)}
	for _, p := range professors {
		if field := p.PrimaryField(); field != "" {
			c.counts[field]++
		}
		if p.ContactEmail != "" {
			c.withEmail++
		}
	}

	for f := range c.counts {
		c.fields = append(c.fields, f)
	}
	sort.Slice(c.fields, func(i, j int) bool {
		if c.counts[c.fields[i]] != c.counts[c.fields[j]] {
			return c.counts[c.fields[i]] > c.counts[c.fields[j]]
		}
		return c.fields[i] < c.fields[j]
	})
	return c
}
