package report

import (
	"fmt"
	"strings"

	"depscope/internal/engine/analyzer"
)

// SummaryGenerator prints one line per archive pair with its edge
// count, the default output.
type SummaryGenerator struct{}

func (g *SummaryGenerator) Generate(res analyzer.Result) (string, error) {
	var b strings.Builder
	for _, s := range res.Summaries {
		mod := s.Archive.Module()
		fmt.Fprintf(&b, "%s (module %s)\n", s.Archive.Name(), mod.Name)
		for _, t := range s.Targets {
			fmt.Fprintf(&b, "   -> %s (%d)\n", t.Archive.Name(), t.Count)
		}
	}
	if len(res.Findings) > 0 {
		b.WriteString("internal API usage:\n")
		for _, f := range res.Findings {
			fmt.Fprintf(&b, "   %s\n", f.Package)
			for _, cn := range f.Classes {
				fmt.Fprintf(&b, "      <- %s\n", cn)
			}
		}
	}
	return b.String(), nil
}
