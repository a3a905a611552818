package app

import (
	"fmt"
	"os"

	"depscope/internal/engine/analyzer"
	"depscope/internal/shared/util"
	"depscope/internal/ui/report"
)

// WriteOutput renders the result in the configured format, to stdout
// or to the configured path.
func (a *App) WriteOutput(res analyzer.Result) error {
	gen, err := report.ForFormat(a.Config.Output.Format)
	if err != nil {
		return err
	}
	out, err := gen.Generate(res)
	if err != nil {
		return fmt.Errorf("generate %s output: %w", a.Config.Output.Format, err)
	}

	if a.Config.Output.Path == "" {
		_, err = os.Stdout.WriteString(out)
		return err
	}
	return util.WriteFileWithDirs(a.Config.Output.Path, []byte(out), 0o644)
}
