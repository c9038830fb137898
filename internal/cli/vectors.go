package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shabbyrobe/go-bnfuzz/modules"
	"github.com/shabbyrobe/go-bnfuzz/vectors"
)

type vectorResult struct {
	Vector string `json:"vector"`
	Module string `json:"module"`
	Status string `json:"status"` // pass, fail or skip
	Detail string `json:"detail"`
}

type vectorSummary struct {
	Passed  int            `json:"passed"`
	Failed  int            `json:"failed"`
	Skipped int            `json:"skipped"`
	Results []vectorResult `json:"results"`
}

// NewVectorsCommand creates the vectors command, which checks a YAML file of
// known-answer vectors against the selected modules.
func NewVectorsCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "vectors <file.yaml>",
		Short:         "Check known-answer vectors against each module",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			vs, err := vectors.LoadFile(args[0])
			if err != nil {
				return WrapExitError(ExitCommandError, "vectors", err)
			}
			ms, err := modules.Select(opts.Modules)
			if err != nil {
				return WrapExitError(ExitCommandError, "invalid --module", err)
			}
			opts.logger.Debug("vectors loaded", "path", args[0], "count", len(vs), "modules", len(ms))

			out := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
			var sum = vectorSummary{Results: []vectorResult{}}
			for _, r := range vectors.RunAll(vs, ms) {
				vr := vectorResult{Vector: r.Vector, Module: r.Module}
				switch {
				case r.Skipped != "":
					sum.Skipped++
					vr.Status, vr.Detail = "skip", r.Skipped
				case r.Pass:
					sum.Passed++
					vr.Status = "pass"
				default:
					sum.Failed++
					vr.Status = "fail"
				}
				if vr.Detail == "" {
					if r.Err != nil {
						vr.Detail = r.Err.Error()
					} else {
						vr.Detail = r.Output.String()
					}
				}
				sum.Results = append(sum.Results, vr)

				// Passes are only listed when verbose.
				if !out.JSON() && (opts.Verbose || vr.Status != "pass") {
					fmt.Fprintln(out.Writer, r)
				}
			}

			status := "ok"
			if sum.Failed > 0 {
				status = "fail"
			}
			if out.JSON() {
				if err := out.Encode(status, sum); err != nil {
					return err
				}
			} else {
				fmt.Fprintf(out.Writer, "%d passed, %d failed, %d skipped\n", sum.Passed, sum.Failed, sum.Skipped)
			}

			if sum.Failed > 0 {
				return NewExitError(ExitFailure, fmt.Sprintf("%d vector(s) failed", sum.Failed))
			}
			return nil
		},
	}
}
