package report

import (
	"fmt"
	"strings"

	"depscope/internal/engine/analyzer"
)

// CSVGenerator emits one row per accepted class-level edge.
type CSVGenerator struct{}

func (g *CSVGenerator) Generate(res analyzer.Result) (string, error) {
	var b strings.Builder
	b.WriteString("origin,origin_archive,target,target_archive\n")
	for _, e := range res.Accepted {
		fmt.Fprintf(&b, "%s,%s,%s,%s\n",
			e.Dep.Origin, e.OriginArchive.Name(), e.Dep.Target, e.TargetArchive.Name())
	}
	return b.String(), nil
}
