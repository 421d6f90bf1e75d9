/*
Copyright © 2026 The p1db Authors

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gnames/gn"
	"github.com/p1data/p1db/internal/iogeo"
	"github.com/p1data/p1db/internal/iostrategy"
	"github.com/p1data/p1db/internal/ioweb"
	"github.com/p1data/p1db/pkg/config"
	"github.com/spf13/cobra"
)

// getServeCmd returns the serve command.
func getServeCmd() *cobra.Command {
	var port int

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve school data and strategies over a REST API",
		Long: `Start the p1db REST API.

Endpoints:
  GET  /api/health
  GET  /api/schools
  GET  /api/schools/school/:name/p1-data
  POST /api/schools/search
  POST /api/schools/geocode
  POST /api/strategy/generate
  POST /api/strategy/analyze-competitiveness

Without a strategy API key strategies are made from the offline
template.

Examples:
  p1db serve
  p1db serve -p 5000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runServe(cmd, port)
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}

	serveCmd.Flags().IntVarP(&port, "port", "p", 8080, "port of the API")
	return serveCmd
}

func runServe(cmd *cobra.Command, port int) error {
	ctx, stop := signal.NotifyContext(
		context.Background(), os.Interrupt, syscall.SIGTERM,
	)
	defer stop()

	if cmd.Flags().Changed("port") {
		cfg.Update([]config.Option{config.OptServerPort(port)})
	}

	st, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	n, err := st.Count(ctx)
	if err != nil {
		return err
	}
	if n == 0 {
		gn.Warn("The store has no school records, run '<em>p1db populate</em>' first")
	}

	gn.Info("Serving <em>%d</em> schools on port <em>%d</em>", n, cfg.Server.Port)
	srv := ioweb.New(cfg, st, iogeo.New(cfg), iostrategy.New(cfg))
	return srv.Run(ctx)
}
