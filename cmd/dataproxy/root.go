package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kbukum/dataproxy/codec"
	"github.com/kbukum/dataproxy/errors"
	"github.com/kbukum/dataproxy/invoke"
	"github.com/kbukum/dataproxy/logger"
	"github.com/kbukum/dataproxy/observability"
	"github.com/kbukum/dataproxy/proxy"
	"github.com/kbukum/dataproxy/transport"
	"github.com/kbukum/dataproxy/validation"
	"github.com/kbukum/dataproxy/version"
)

// app carries per-invocation state shared by the subcommands.
type app struct {
	in       io.Reader
	out      io.Writer
	errOut   io.Writer
	file     string
	flags    flagOverrides
	cfg      cliConfig
	shutdown observability.ShutdownFunc
}

// newRootCmd builds the command tree. The caller runs teardown on the
// returned app once execution finishes, whatever the outcome.
func newRootCmd(in io.Reader, out, errOut io.Writer) (*cobra.Command, *app) {
	a := &app{in: in, out: out, errOut: errOut}

	root := &cobra.Command{
		Use:   "dataproxy",
		Short: "Work with remote REST collections through a typed data proxy",
		Long: `dataproxy reads and writes documents in a remote REST collection and
reports service failures as typed errors: bad request, conflict, not found
and not implemented. Use "serve" to run an in-memory collection locally.`,
		Version:           version.GetVersionInfo().Short(),
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.file, "config", "", "config file (default: ./config.yml or ./cmd/dataproxy/config.yml)")
	pf.StringVar(&a.flags.baseURI, "base-uri", "", "service root URI, e.g. http://localhost:8080")
	pf.StringVar(&a.flags.codec, "codec", "", "body codec: "+strings.Join(documentCodecs(), ", "))
	pf.StringVar(&a.flags.strategy, "strategy", "", "sync strategy: "+strings.Join(invoke.Names(), ", "))
	pf.StringVar(&a.flags.driver, "driver", "", "transport driver: "+strings.Join(transport.Drivers(), ", "))
	pf.StringVarP(&a.flags.output, "output", "o", "", "output format: "+strings.Join(documentCodecs(), ", "))
	pf.DurationVar(&a.flags.timeout, "timeout", 0, "per-request timeout (default 30s)")

	root.AddCommand(
		newListCmd(a),
		newGetCmd(a),
		newCreateCmd(a),
		newUpdateCmd(a),
		newDeleteCmd(a),
		newServeCmd(a),
		newVersionCmd(a),
	)
	return root, a
}

// setup loads config, logging and telemetry. version needs none of them.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	if cmd.Name() == "version" {
		return nil
	}
	cfg, err := loadConfig(a.file, a.flags)
	if err != nil {
		return err
	}
	a.cfg = cfg
	logger.Init(&a.cfg.Logging)

	shutdown, err := observability.Setup(cmd.Context(), cfg.Telemetry, observability.ServiceInfo{
		Name:        cfg.Name,
		Version:     version.Version,
		Environment: cfg.Environment,
	})
	if err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}
	a.shutdown = shutdown
	return nil
}

// teardown flushes telemetry; failures are logged, never returned.
func (a *app) teardown(ctx context.Context) {
	if a.shutdown == nil {
		return
	}
	if err := a.shutdown(context.WithoutCancel(ctx)); err != nil {
		logger.Warn("telemetry shutdown failed", logger.Fields(logger.FieldError, err.Error()))
	}
	a.shutdown = nil
}

// documents builds a proxy for the named collection below the base URI.
func (a *app) documents(resource string) (*proxy.Proxy[Document, string], error) {
	if a.cfg.Proxy.BaseURI == "" {
		return nil, errors.MissingField("proxy.base_uri (--base-uri)")
	}
	resource = strings.Trim(resource, "/")
	if err := validation.New().Required("resource", resource).Err(); err != nil {
		return nil, err
	}
	factory, err := transport.NewFactory(a.cfg.Transport)
	if err != nil {
		return nil, err
	}
	cd, err := codec.ByName(a.cfg.Proxy.Codec)
	if err != nil {
		return nil, errors.InvalidInput("codec", err.Error())
	}
	strategy, err := invoke.ByName(a.cfg.Proxy.Strategy)
	if err != nil {
		return nil, errors.InvalidInput("strategy", err.Error())
	}
	uri := strings.TrimRight(a.cfg.Proxy.BaseURI, "/") + "/" + resource
	return proxy.New[Document, string](uri, factory,
		proxy.WithCodec(cd),
		proxy.WithSyncStrategy(strategy),
	)
}

// print encodes v with the output codec.
func (a *app) print(v any) error {
	cd, err := codec.ByName(a.cfg.Proxy.Output)
	if err != nil {
		return errors.InvalidInput("output", err.Error())
	}
	data, err := cd.Encode(v)
	if err != nil {
		return fmt.Errorf("print: %w", err)
	}
	_, err = fmt.Fprintln(a.out, strings.TrimRight(string(data), "\n"))
	return err
}
