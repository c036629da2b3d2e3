package cli

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/tmplkit/interpolate/internal/server"
)

type serveOptions struct {
	listen string
}

func newServeCmd(a *app) *cobra.Command {
	opts := serveOptions{}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the engine over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			listen := strings.TrimSpace(opts.listen)
			if listen == "" {
				listen = a.cfg.Server.Listen
			}
			gin.SetMode(gin.ReleaseMode)
			return server.New(a.engine, a.logger).Run(cmd.Context(), listen)
		},
	}
	cmd.Flags().StringVar(&opts.listen, "listen", "", "http listen address (overrides server.listen)")
	return cmd
}
