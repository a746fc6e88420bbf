package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"ontomap/internal/server"
	"ontomap/pkg/logger"
)

func newServeCmd(a *app) *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the mapping API over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("port") {
				a.cfg.Server.Port = port
			}

			addr := fmt.Sprintf(":%d", a.cfg.Server.Port)
			logger.Info("listening on %s", addr)

			return server.New(a.cfg, a.engine).Run(addr)
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "Port to listen on (overrides config)")

	return cmd
}
