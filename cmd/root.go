package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/edutech/naplan/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "naplan",
	Short: "NAPLAN writing assessment and quiz coaching",
	Long: "naplan scores NAPLAN writing against the marking rubric and turns subject " +
		"quiz results into coaching feedback, using a generative model for the commentary.",
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.ExecuteContext(context.Background())
}

func init() {
	config.RegisterFlags(rootCmd.PersistentFlags())

	rootCmd.AddCommand(writingCmd)
	rootCmd.AddCommand(feedbackCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}
