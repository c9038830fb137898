package cli

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	bnfuzz "github.com/shabbyrobe/go-bnfuzz"
	"github.com/shabbyrobe/go-bnfuzz/modules"
)

// ExecOptions holds flags for the exec command.
type ExecOptions struct {
	*RootOptions
	Data string
}

type outcome struct {
	Module   string        `json:"module"`
	Status   string        `json:"status"` // ok, failed, unsupported or error
	Result   *bnfuzz.Value `json:"result,omitempty"`
	Error    string        `json:"error,omitempty"`
	Consumed int           `json:"consumed"`
}

func (o outcome) String() string {
	switch o.Status {
	case "ok":
		return o.Result.String()
	case "unsupported":
		return o.Status
	default:
		return o.Status + ": " + o.Error
	}
}

// NewExecCommand creates the exec command, which runs one op on each
// selected module. Every module gets a fresh Source over the same oracle.
func NewExecCommand(opts *RootOptions) *cobra.Command {
	execOpts := &ExecOptions{RootOptions: opts}

	cmd := &cobra.Command{
		Use:   "exec <op> <operand>...",
		Short: "Run one operation on each module",
		Long: `Run one operation on each selected module and print every module's
outcome. Operands are decimal, or hex with a 0x prefix. --data gives the
oracle as hex; without it every module takes its default paths. Put --
before the op when an operand is negative.`,
		Args:          cobra.RangeArgs(2, 1+bnfuzz.ClusterSize),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("data") && opts.config != nil {
				execOpts.Data = opts.config.Data
			}
			return runExec(cmd, execOpts, args)
		},
	}

	cmd.Flags().StringVarP(&execOpts.Data, "data", "d", "", "oracle bytes as hex")

	return cmd
}

func runExec(cmd *cobra.Command, opts *ExecOptions, args []string) error {
	op, err := bnfuzz.ParseOp(args[0])
	if err != nil {
		return WrapExitError(ExitCommandError, "exec", err)
	}

	var operands [bnfuzz.ClusterSize]bnfuzz.Value
	for i, s := range args[1:] {
		if operands[i], err = parseOperand(s); err != nil {
			return WrapExitError(ExitCommandError, fmt.Sprintf("operand %d", i), err)
		}
	}
	if n := len(args) - 1; n < op.Arity() {
		return NewExitError(ExitCommandError, fmt.Sprintf("%s needs %d operands, got %d", op, op.Arity(), n))
	}

	data, err := hex.DecodeString(opts.Data)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid --data", err)
	}

	ms, err := modules.Select(opts.Modules)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid --module", err)
	}

	results := make([]outcome, 0, len(ms))
	broken := 0
	for _, m := range ms {
		src := bnfuzz.NewSource(data)
		v, err := m.Run(src, op, operands)

		o := outcome{Module: m.Name(), Consumed: src.Consumed()}
		switch {
		case err == nil:
			o.Status, o.Result = "ok", &v
		case errors.Is(err, bnfuzz.ErrUnsupported):
			o.Status = "unsupported"
		case bnfuzz.IsFailure(err):
			o.Status, o.Error = "failed", err.Error()
		default:
			o.Status, o.Error = "error", err.Error()
			broken++
		}
		opts.logger.Debug("exec", "module", m.Name(), "op", op, "status", o.Status, "consumed", o.Consumed, "remaining", src.Remaining())
		results = append(results, o)
	}

	out := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
	if out.JSON() {
		status := "ok"
		if broken > 0 {
			status = "fail"
		}
		if err := out.Encode(status, results); err != nil {
			return err
		}
	} else {
		for _, o := range results {
			fmt.Fprintf(out.Writer, "%-8s %s\n", o.Module, o)
		}
	}

	if broken > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d module(s) returned an unexpected error", broken))
	}
	return nil
}

func parseOperand(s string) (bnfuzz.Value, error) {
	if strings.HasPrefix(strings.TrimLeft(s, "+-"), "0x") {
		return bnfuzz.ParseValueText(s, 0)
	}
	return bnfuzz.ParseValue(s)
}
