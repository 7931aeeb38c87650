/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package cmd

import (
	"context"
	"errors"
	"fmt"
	htmltemplate "html/template"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/flamego/csrf"
	"github.com/flamego/flamego"
	"github.com/flamego/session"
	"github.com/flamego/template"
	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"

	"github.com/humaidq/growthwave/db"
	"github.com/humaidq/growthwave/routes"
	"github.com/humaidq/growthwave/static"
	"github.com/humaidq/growthwave/templates"
	"github.com/humaidq/growthwave/who"
)

var CmdStart = &cli.Command{
	Name:    "start",
	Aliases: []string{"run"},
	Usage:   "Start the web server",
	Flags: append([]cli.Flag{
		&cli.StringFlag{
			Name:  "port",
			Value: "8080",
			Usage: "the web server port",
		},
		databaseURLFlag(),
		&cli.StringFlag{
			Name:    "csrf-secret",
			Sources: cli.EnvVars("CSRF_SECRET"),
			Usage:   "secret used to sign CSRF tokens",
		},
		&cli.BoolFlag{
			Name:  "refresh-on-start",
			Usage: "pull the WHO reference from the backend before serving",
		},
		&cli.BoolFlag{
			Name:  "dev",
			Value: false,
			Usage: "enables development mode (for templates)",
		},
	}, backendFlags()...),
	Action: start,
}

// webOptions carries what newWebApp needs from the command line
type webOptions struct {
	CSRFSecret string
	Dev        bool
}

func start(ctx context.Context, cmd *cli.Command) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := webOptions{
		CSRFSecret: cmd.String("csrf-secret"),
		Dev:        cmd.Bool("dev"),
	}
	if opts.CSRFSecret == "" && !opts.Dev {
		return errCSRFSecretRequired
	}

	if err := connectDatabase(ctx, cmd); err != nil {
		return err
	}
	defer db.Close()

	appLogger.Info("Syncing database schema")
	if err := db.SyncSchema(ctx); err != nil {
		return fmt.Errorf("failed to sync schema: %w", err)
	}

	source, err := loadReferenceSource(ctx)
	if err != nil {
		return err
	}

	fetcher, err := backendFetcher(cmd)
	if err != nil {
		return err
	}

	if cmd.Bool("refresh-on-start") {
		// A failed pull keeps the stored reference
		if _, err := pullReference(ctx, fetcher, source); err != nil {
			appLogger.Warn("Reference pull on start failed", "error", err)
		}
	}

	f := newWebApp(source, fetcher, opts)

	port := cmd.String("port")
	srv := &http.Server{
		Addr:         fmt.Sprintf("0.0.0.0:%s", port),
		Handler:      f,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
		ErrorLog:     requestStdLogger,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		appLogger.Info("Starting web server", "port", port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("web server failed: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		appLogger.Info("Shutting down web server")
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// newWebApp wires middleware and routes around the shared reference source
func newWebApp(source *who.Source, fetcher routes.ReferenceFetcher, opts webOptions) *flamego.Flame {
	f := flamego.New()
	f.Use(flamego.Recovery())
	f.Use(routes.RequestLogger)

	fs, err := template.EmbedFS(templates.Templates, ".", []string{".html"})
	if err != nil {
		panic(err)
	}

	secret := opts.CSRFSecret
	if secret == "" {
		secret = "growthwave-dev-secret"
	}

	f.Map(source)
	f.MapTo(fetcher, (*routes.ReferenceFetcher)(nil))

	f.Use(session.Sessioner())
	f.Use(csrf.Csrfer(csrf.Options{Secret: secret}))
	f.Use(template.Templater(template.Options{
		FileSystem: fs,
		FuncMaps:   []htmltemplate.FuncMap{templateFuncs()},
	}))
	f.Use(flamego.Static(flamego.StaticOptions{
		FileSystem: http.FS(static.Static),
		Prefix:     "static",
	}))
	f.Use(routes.NoCacheHeaders())
	f.Use(routes.CSRFInjector())
	f.Use(routes.FlashInjector())
	f.Use(routes.SiteTitleInjector())
	f.Use(routes.ReferenceStatusInjector())

	f.Get("/", routes.ListChildren)
	f.Get("/healthz", routes.Healthz)

	f.Group("/child", func() {
		f.Get("/new", routes.NewChildForm)
		f.Post("/new", csrf.Validate, routes.CreateChild)
		f.Get("/{id}", routes.ViewChild)
		f.Get("/{id}/edit", routes.EditChildForm)
		f.Post("/{id}/edit", csrf.Validate, routes.UpdateChild)
		f.Post("/{id}/delete", csrf.Validate, routes.DeleteChild)
		f.Post("/{id}/growth", csrf.Validate, routes.AddGrowthRecord)
		f.Post("/{id}/growth/{record_id}/delete", csrf.Validate, routes.DeleteGrowthRecord)
		f.Get("/{id}/export.csv", routes.ExportGrowthCSV)
	})

	f.Get("/reference", routes.ReferencePage)
	f.Post("/reference/refresh", csrf.Validate, routes.RefreshReference)

	f.Group("/api", func() {
		f.Post("/classify", routes.ClassifyAPI)
		f.Get("/reference/{gender}", routes.ReferenceAPI)
	})

	configureNotFoundHandler(f)

	return f
}

// configureNotFoundHandler answers JSON for API paths and plain text elsewhere
func configureNotFoundHandler(f *flamego.Flame) {
	f.NotFound(func(c flamego.Context) {
		if strings.HasPrefix(c.Request().URL.Path, "/api/") {
			c.ResponseWriter().Header().Set("Content-Type", "application/json")
			c.ResponseWriter().WriteHeader(http.StatusNotFound)
			_, _ = c.ResponseWriter().Write([]byte(`{"error":"not found"}`))
			return
		}
		http.Error(c.ResponseWriter(), "page not found", http.StatusNotFound)
	})
}

func templateFuncs() htmltemplate.FuncMap {
	return htmltemplate.FuncMap{
		"formatDate": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.Format("Jan 2, 2006")
		},
		"formatDatePtr": func(t *time.Time) string {
			if t == nil || t.IsZero() {
				return "-"
			}
			return t.Format("Jan 2, 2006")
		},
		"isoDate": func(t time.Time) string {
			return t.Format("2006-01-02")
		},
		"formatFloat": func(v float64, places int) string {
			return strconv.FormatFloat(v, 'f', places, 64)
		},
		"deref": func(s *string) string {
			if s == nil {
				return ""
			}
			return *s
		},
		"formatAge": formatAge,
	}
}

// formatAge renders completed months as years and months
func formatAge(months int) string {
	if months < 0 {
		months = 0
	}
	years, rest := months/12, months%12
	switch {
	case years == 0:
		return plural(rest, "month")
	case rest == 0:
		return plural(years, "year")
	default:
		return plural(years, "year") + " " + plural(rest, "month")
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return "1 " + unit
	}
	return strconv.Itoa(n) + " " + unit + "s"
}
