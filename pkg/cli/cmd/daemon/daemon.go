/* Copyright (C) 2024, 2025 Driftnote contributors
 *
 * This file is part of Driftnote.
 *
 * Driftnote is free software: you can redistribute it and/or modify
 * it under the terms of the GNU General Public License as published by
 * the Free Software Foundation, either version 3 of the License, or
 * (at your option) any later version.
 *
 * Driftnote is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU General Public License
 * along with Driftnote.  If not, see <https://www.gnu.org/licenses/>.
 */

// Package daemon runs the background sync loop
package daemon

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/driftnote/driftnote/pkg/cli/config"
	dctx "github.com/driftnote/driftnote/pkg/cli/context"
	"github.com/driftnote/driftnote/pkg/cli/infra"
	"github.com/driftnote/driftnote/pkg/cli/log"
	"github.com/driftnote/driftnote/pkg/cli/remote"
	"github.com/driftnote/driftnote/pkg/cli/trigger"
	"github.com/fatih/color"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/robfig/cron"
	"github.com/spf13/cobra"
	"gopkg.in/natefinch/lumberjack.v2"
)

// purgeSchedule is when expired tombstones are purged
const purgeSchedule = "@daily"

var example = `
  driftnote daemon

  * Log to a rotating file and expose metrics
  driftnote daemon --log-file ~/.local/state/driftnote.log --metrics-addr 127.0.0.1:9464`

var logFileFlag string
var metricsAddrFlag string
var intervalFlag time.Duration

// NewCmd returns a new daemon command
func NewCmd(ctx dctx.DriftnoteCtx) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "daemon",
		Short:   "Sync in the background until interrupted",
		Example: example,
		RunE:    newRun(ctx),
	}

	f := cmd.Flags()
	f.StringVar(&logFileFlag, "log-file", "", "write logs to a rotating file instead of the console")
	f.StringVar(&metricsAddrFlag, "metrics-addr", "", "serve prometheus metrics on this address")
	f.DurationVar(&intervalFlag, "interval", 0, "sync interval (defaults to syncInterval in the config)")

	return cmd
}

func probe(ctx dctx.DriftnoteCtx) func(context.Context) bool {
	return func(c context.Context) bool {
		if !ctx.Remote.Configured() {
			return false
		}

		p, ok := ctx.Remote.(remote.Pinger)
		if !ok {
			return true
		}

		if err := p.Ping(c); err != nil {
			log.Debug("ping: %s\n", err.Error())
			return false
		}

		return true
	}
}

func reconcile(ctx dctx.DriftnoteCtx) func(context.Context, string) {
	return func(c context.Context, reason string) {
		res, err := ctx.Sync.Reconcile(c)
		if err != nil {
			log.Errorf("sync (%s): %s\n", reason, err.Error())
			return
		}

		log.Infof("sync (%s): %s, %d changes, %d errors\n", reason, res.Status, res.Changes(), res.Errors)
	}
}

func newTrigger(ctx dctx.DriftnoteCtx, interval time.Duration) *trigger.Trigger {
	if interval <= 0 {
		interval = ctx.Config.Interval()
	}

	return trigger.New(trigger.Params{
		Sync:     reconcile(ctx),
		Probe:    probe(ctx),
		Interval: interval,
		WatchPaths: []string{
			dctx.WakePath(ctx.Paths),
			config.GetPath(ctx.Paths.Config),
		},
	})
}

func purge(ctx dctx.DriftnoteCtx) func() {
	return func() {
		n, err := ctx.State.PurgeExpired()
		if err != nil {
			log.Errorf("purge: %s\n", err.Error())
			return
		}

		log.Infof("purged %d notes\n", n)
	}
}

func newRouter(ctx dctx.DriftnoteCtx) http.Handler {
	r := mux.NewRouter()
	r.Handle("/metrics", ctx.Metrics.Handler()).Methods(http.MethodGet)

	return r
}

func serveMetrics(c context.Context, ctx dctx.DriftnoteCtx, addr string) {
	srv := &http.Server{
		Addr:              addr,
		Handler:           newRouter(ctx),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-c.Done()
		srv.Close()
	}()

	log.Infof("serving metrics on %s\n", addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Errorf("metrics server: %s\n", err.Error())
	}
}

func setupLogFile(path string) {
	color.NoColor = true
	log.SetOutput(&lumberjack.Logger{
		Filename:   path,
		MaxSize:    10,
		MaxBackups: 3,
		MaxAge:     28,
	})
}

func newRun(ctx dctx.DriftnoteCtx) infra.RunEFunc {
	return func(cmd *cobra.Command, args []string) error {
		if logFileFlag != "" {
			setupLogFile(logFileFlag)
		}

		c, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if metricsAddrFlag != "" {
			go serveMetrics(c, ctx, metricsAddrFlag)
		}

		cr := cron.New()
		if err := cr.AddFunc(purgeSchedule, purge(ctx)); err != nil {
			return errors.Wrap(err, "scheduling purge")
		}
		cr.Start()
		defer cr.Stop()

		if !ctx.Remote.Configured() {
			log.Warnf("no remote configured. waiting for a config change.\n")
		}

		log.Infof("daemon started\n")
		if err := newTrigger(ctx, intervalFlag).Run(c); err != nil {
			return errors.Wrap(err, "running trigger")
		}
		log.Infof("daemon stopped\n")

		return nil
	}
}
