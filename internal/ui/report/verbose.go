package report

import (
	"fmt"
	"strings"

	"depscope/internal/engine/analyzer"
)

// VerboseGenerator prints every accepted class-level edge grouped
// under its origin archive.
type VerboseGenerator struct{}

func (g *VerboseGenerator) Generate(res analyzer.Result) (string, error) {
	var b strings.Builder
	var current string
	for _, e := range res.Accepted {
		if name := e.OriginArchive.Name(); name != current {
			fmt.Fprintf(&b, "%s\n", name)
			current = name
		}
		fmt.Fprintf(&b, "   %s -> %s (%s)\n", e.Dep.Origin, e.Dep.Target, e.TargetArchive.Name())
	}
	return b.String(), nil
}
