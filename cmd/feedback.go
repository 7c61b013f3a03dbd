package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/edutech/naplan/internal/coach"
	"github.com/edutech/naplan/internal/render"
)

var feedbackCmd = &cobra.Command{
	Use:   "feedback",
	Short: "Generate coaching feedback for a quiz attempt read from stdin",
	Long:  "Reads {\"doc\": {...}} from stdin and writes the subject feedback outcome.",
	Args:  cobra.NoArgs,
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

		raw, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}

		cfg := coach.DefaultConfig()
		cfg.ModelName = rt.cfg.LLM.Model()

		ctx, cancel := rt.withTimeout(cmd.Context())
		defer cancel()
		out := coach.NewService(rt.provider, cfg).HandlePayload(ctx, raw)
		rt.log.Info("feedback generated", "success", out.Success)

		return render.Write(cmd.OutOrStdout(), format, out)
	},
}

func init() {
	feedbackCmd.Flags().StringP("format", "f", "json", "Output format: json, yaml, pretty")
}
