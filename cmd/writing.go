package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/edutech/naplan/internal/render"
	"github.com/edutech/naplan/internal/writing"
)

var writingCmd = &cobra.Command{
	Use:   "writing",
	Short: "Assess a writing response read from stdin",
	Long: "Reads {\"student_year\", \"writing_prompt\", \"student_writing\", \"text_type\"} " +
		"from stdin and writes the assessment outcome.",
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := formatFlag(cmd)
		if err != nil {
			return err
		}
		rt, err := setup(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		out, err := evaluateWriting(cmd, rt, cmd.InOrStdin())
		if err != nil {
			return err
		}
		return render.Write(cmd.OutOrStdout(), format, out)
	},
}

// evaluateWriting decodes stdin and runs the assessor. Undecodable input
// becomes a failure outcome, not a command error.
func evaluateWriting(cmd *cobra.Command, rt *runtime, r io.Reader) (writing.Outcome, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return writing.Outcome{}, fmt.Errorf("read stdin: %w", err)
	}
	var in writing.Input
	if err := json.Unmarshal(raw, &in); err != nil {
		return writing.Outcome{Success: false, Error: fmt.Sprintf("Invalid JSON input: %v", err)}, nil
	}

	ctx, cancel := rt.withTimeout(cmd.Context())
	defer cancel()
	out := writing.NewAssessor(rt.provider, writing.DefaultConfig()).Evaluate(ctx, in)
	rt.log.Info("writing assessed", "state", out.State, "success", out.Success)
	return out, nil
}

func formatFlag(cmd *cobra.Command) (render.Format, error) {
	f, _ := cmd.Flags().GetString("format")
	return render.ParseFormat(f)
}

func init() {
	writingCmd.Flags().StringP("format", "f", "json", "Output format: json, yaml, pretty")
}
