// Package report renders analyzer results as text, DOT, or CSV.
package report

import (
	"fmt"

	"depscope/internal/engine/analyzer"
)

// Generator renders one analysis result in a fixed format.
type Generator interface {
	Generate(res analyzer.Result) (string, error)
}

// ForFormat returns the generator for a validated output format name.
func ForFormat(format string) (Generator, error) {
	switch format {
	case "summary":
		return &SummaryGenerator{}, nil
	case "verbose":
		return &VerboseGenerator{}, nil
	case "dot":
		return &DotGenerator{}, nil
	case "csv":
		return &CSVGenerator{}, nil
	default:
		return nil, fmt.Errorf("unknown output format %q", format)
	}
}
