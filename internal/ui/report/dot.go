package report

import (
	"fmt"
	"strings"

	"depscope/internal/engine/analyzer"
)

// DotGenerator renders the archive dependency graph in Graphviz DOT.
type DotGenerator struct{}

func (g *DotGenerator) Generate(res analyzer.Result) (string, error) {
	var b strings.Builder
	b.WriteString("digraph \"dependencies\" {\n")
	for _, s := range res.Summaries {
		for _, t := range s.Targets {
			fmt.Fprintf(&b, "   %q -> %q [label=\"%d\"];\n",
				s.Archive.Name(), t.Archive.Name(), t.Count)
		}
	}
	b.WriteString("}\n")
	return b.String(), nil
}
