package cmd

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/edutech/naplan/internal/api"
	"github.com/edutech/naplan/internal/coach"
	"github.com/edutech/naplan/internal/config"
	"github.com/edutech/naplan/internal/writing"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the assessment endpoints over HTTP",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := setup(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		coachCfg := coach.DefaultConfig()
		coachCfg.ModelName = rt.cfg.LLM.Model()

		srv := api.NewServer(rt.cfg.Server, rt.log,
			writing.NewAssessor(rt.provider, writing.DefaultConfig()),
			coach.NewService(rt.provider, coachCfg))
		return srv.ListenAndServe(ctx)
	},
}

func init() {
	serveCmd.Flags().String(config.KeyAddr, ":8080", "Listen address")
}
