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

package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/driftnote/driftnote/pkg/server/buildinfo"
	"github.com/driftnote/driftnote/pkg/server/config"
	"github.com/driftnote/driftnote/pkg/server/controllers"
	"github.com/driftnote/driftnote/pkg/server/database"
	"github.com/driftnote/driftnote/pkg/server/log"
	"github.com/pkg/errors"
)

// shutdownTimeout bounds how long in-flight requests may run after a
// termination signal
const shutdownTimeout = 10 * time.Second

func startCmd(args []string) {
	fs := setupFlagSet("start", "driftnote-server start")

	envFile := fs.String("envFile", ".env", "Path to a dotenv file to load before reading the environment")
	port := fs.String("port", "", "Server port (env: PORT, default: 3001)")
	webURL := fs.String("webUrl", "", "Full URL to server without trailing slash (env: WebURL, default: http://localhost:3001)")
	dbPath, databaseURL := storageFlags(fs)
	apiKey := fs.String("apiKey", "", "API key clients send in the apikey header, at least 16 characters (env: APIKey)")
	jwtSecret := fs.String("jwtSecret", "", "Secret for signing access tokens (env: JWTSecret)")
	sessionTTL := fs.String("sessionTtl", "", "Lifetime of access tokens in hours (env: SessionTTL, default: 720)")
	disableRegistration := fs.Bool("disableRegistration", false, "Disable user registration (env: DisableRegistration, default: false)")
	logLevel := fs.String("logLevel", "", "Log level: debug, info, warn, or error (env: LOG_LEVEL, default: info)")

	fs.Parse(args)

	if err := config.LoadEnv(*envFile); err != nil {
		fmt.Printf("Error: %s\n\n", err)
		os.Exit(1)
	}

	cfg, err := config.New(config.Params{
		Port:                *port,
		WebURL:              *webURL,
		DBPath:              *dbPath,
		DatabaseURL:         *databaseURL,
		APIKey:              *apiKey,
		JWTSecret:           *jwtSecret,
		SessionTTL:          *sessionTTL,
		DisableRegistration: *disableRegistration,
		LogLevel:            *logLevel,
	})
	if err != nil {
		fmt.Printf("Error: %s\n\n", err)
		fs.Usage()
		os.Exit(1)
	}

	log.SetLevel(cfg.LogLevel)

	app := initApp(cfg)
	defer database.Close(app.DB)

	ctl := controllers.New(&app)
	rc := controllers.RouteConfig{
		PublicRoutes: controllers.NewPublicRoutes(&app, ctl),
		APIRoutes:    controllers.NewAPIRoutes(&app, ctl),
		Controllers:  ctl,
	}

	r, err := controllers.NewRouter(&app, rc)
	if err != nil {
		panic(errors.Wrap(err, "initializing router"))
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.ErrorWrap(err, "shutting down")
		}
	}()

	log.WithFields(log.Fields{
		"version":  buildinfo.Version,
		"port":     cfg.Port,
		"postgres": cfg.UsePostgres(),
	}).Info("Driftnote server starting")

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.ErrorWrap(err, "server failed")
		os.Exit(1)
	}

	log.Info("Driftnote server stopped")
}
