package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/graphcanvas/internal/server"
	"github.com/matzehuels/graphcanvas/pkg/observability"
	"github.com/matzehuels/graphcanvas/pkg/store"
)

type serveOpts struct {
	addr          string
	backend       string
	noCache       bool
	scriptTimeout time.Duration
	logHooks      bool
}

// serveCommand runs the HTTP API over the configured store.
func (c *CLI) serveCommand() *cobra.Command {
	var opts serveOpts

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the document API over HTTP",
		Long: `Serve the REST API for stored documents: create, fetch, replace and
delete documents, run scripts and generators against them, check them and
render them to any output format.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", "", "listen address (default from config, 127.0.0.1:8080)")
	cmd.Flags().StringVar(&opts.backend, "store", "", "store backend: memory, file, redis, mongo or badger (default from config)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the artifact cache")
	cmd.Flags().DurationVar(&opts.scriptTimeout, "script-timeout", server.DefaultScriptTimeout, "limit on a single script run")
	cmd.Flags().BoolVar(&opts.logHooks, "log-hooks", false, "log every request, store call and cache lookup at debug level")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, opts serveOpts) error {
	logger := loggerFromContext(ctx)

	if opts.backend != "" {
		c.Config.Store.Backend = opts.backend
	}
	if err := c.Config.Validate(); err != nil {
		return err
	}
	addr := opts.addr
	if addr == "" {
		addr = c.Config.Server.Addr
	}
	if opts.logHooks {
		observability.NewLogHooks(logger).Register()
		defer observability.Reset()
	}

	st, err := c.openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	srv := server.New(st, runner,
		server.WithLogger(logger),
		server.WithConfig(c.Config),
		server.WithScriptTimeout(opts.scriptTimeout),
	)
	printInfo("Serving %s documents on %s", backendLabel(c.Config.Store.Backend), StyleHighlight.Render("http://"+addr))
	return srv.ListenAndServe(ctx, addr)
}

func backendLabel(b string) string {
	if b == "" {
		return store.BackendFile
	}
	return b
}
