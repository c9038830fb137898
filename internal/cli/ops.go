package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	bnfuzz "github.com/shabbyrobe/go-bnfuzz"
	"github.com/shabbyrobe/go-bnfuzz/modules"
)

type opInfo struct {
	Op         bnfuzz.Op `json:"op"`
	Arity      int       `json:"arity"`
	Comparable bool      `json:"comparable"`
	Modules    []string  `json:"modules"`
}

// NewOpsCommand creates the ops command, which lists every op with the
// selected modules that support it.
func NewOpsCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "ops",
		Short:         "List operations and the modules that support them",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ms, err := modules.Select(opts.Modules)
			if err != nil {
				return WrapExitError(ExitCommandError, "invalid --module", err)
			}

			infos := make([]opInfo, 0, len(bnfuzz.AllOps))
			for _, op := range bnfuzz.AllOps {
				info := opInfo{Op: op, Arity: op.Arity(), Comparable: op.Comparable(), Modules: []string{}}
				for _, m := range ms {
					if m.Supports(op) {
						info.Modules = append(info.Modules, m.Name())
					}
				}
				infos = append(infos, info)
			}

			out := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
			if out.JSON() {
				return out.Encode("ok", infos)
			}
			for _, info := range infos {
				fmt.Fprintf(out.Writer, "%-14s %d  %s\n", info.Op, info.Arity, strings.Join(info.Modules, ","))
			}
			return nil
		},
	}
}
