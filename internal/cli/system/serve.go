package system

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/julianstephens/lifequest/internal/api"
	"github.com/julianstephens/lifequest/internal/cli"
	"github.com/julianstephens/lifequest/internal/constants"
	"github.com/julianstephens/lifequest/internal/jobs"
	"github.com/julianstephens/lifequest/internal/logger"
)

type ServeCmd struct {
	Addr   string `help:"Listen address, overrides server.addr."`
	NoJobs bool   `help:"Do not run background jobs such as the daily task reset."`
}

func (c *ServeCmd) Run(ctx *cli.Context) error {
	a, err := ctx.App()
	if err != nil {
		return err
	}

	cfg := ctx.Config.Server
	if c.Addr != "" {
		cfg.Addr = c.Addr
	}

	runCtx, stop := signal.NotifyContext(ctx.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var runner *jobs.Runner
	if ctx.Config.Jobs.DailyReset && !c.NoJobs {
		spec := ctx.Config.Jobs.DailyResetCron
		if spec == "" {
			spec = constants.DefaultDailyResetCron
		}
		runner = jobs.New(a.Location)
		if err := runner.Add("daily_reset", spec, jobs.DailyReset(a.Tasks)); err != nil {
			return err
		}
		runner.Start(runCtx)
	}

	fmt.Printf("Serving lifequest API on http://%s (database: %s)\n", cfg.Addr, a.Store.Location())
	serveErr := api.NewServer(a, cfg).Run(runCtx)

	if runner != nil {
		timeout := cfg.ShutdownTimeout
		if timeout <= 0 {
			timeout = constants.DefaultShutdownTimeout * time.Second
		}
		stopCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		runner.Stop(stopCtx)
	}
	logger.Info("Server stopped")
	return serveErr
}
