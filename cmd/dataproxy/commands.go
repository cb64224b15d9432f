package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kbukum/dataproxy/errors"
	"github.com/kbukum/dataproxy/logger"
	"github.com/kbukum/dataproxy/resourceserver"
	"github.com/kbukum/dataproxy/version"
)

func newListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list <resource>",
		Short: "List every document in a collection",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.documents(args[0])
			if err != nil {
				return err
			}
			docs, err := p.GetAll(cmd.Context())
			if err != nil {
				return err
			}
			if docs == nil {
				docs = []Document{}
			}
			return a.print(docs)
		},
	}
}

func newGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get <resource> <id>",
		Short: "Fetch one document by key",
		Args:  exactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.documents(args[0])
			if err != nil {
				return err
			}
			doc, err := p.GetByID(cmd.Context(), args[1])
			if err != nil {
				return err
			}
			return a.print(doc)
		},
	}
}

func newCreateCmd(a *app) *cobra.Command {
	var data, file string
	cmd := &cobra.Command{
		Use:   "create <resource>",
		Short: "Insert a document and print the stored copy",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := a.readDocument(data, file)
			if err != nil {
				return err
			}
			p, err := a.documents(args[0])
			if err != nil {
				return err
			}
			created, err := p.Insert(cmd.Context(), doc)
			if err != nil {
				return err
			}
			return a.print(created)
		},
	}
	cmd.Flags().StringVarP(&data, "data", "d", "", "document body in the --codec format")
	cmd.Flags().StringVarP(&file, "file", "f", "", "read the document from a file, - for stdin")
	return cmd
}

func newUpdateCmd(a *app) *cobra.Command {
	var data, file string
	cmd := &cobra.Command{
		Use:   "update <resource> <id>",
		Short: "Replace a document; include Version to detect concurrent edits",
		Args:  exactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := a.readDocument(data, file)
			if err != nil {
				return err
			}
			id := args[1]
			switch key := doc.EntityID(); {
			case key == "":
				doc[resourceserver.FieldID] = id
			case key != id:
				return errors.InvalidInput("ID", fmt.Sprintf("document key %q does not match %q", key, id))
			}
			p, err := a.documents(args[0])
			if err != nil {
				return err
			}
			updated, err := p.Update(cmd.Context(), doc)
			if err != nil {
				return err
			}
			return a.print(updated)
		},
	}
	cmd.Flags().StringVarP(&data, "data", "d", "", "document body in the --codec format")
	cmd.Flags().StringVarP(&file, "file", "f", "", "read the document from a file, - for stdin")
	return cmd
}

func newDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <resource> <id>",
		Short: "Remove a document by key",
		Args:  exactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.documents(args[0])
			if err != nil {
				return err
			}
			if err := p.Delete(cmd.Context(), args[1]); err != nil {
				return err
			}
			_, err = fmt.Fprintf(a.out, "deleted %s/%s\n", args[0], args[1])
			return err
		},
	}
}

func newServeCmd(a *app) *cobra.Command {
	var (
		host     string
		port     int
		readOnly []string
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve in-memory collections until interrupted",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := a.cfg.Serve
			if cmd.Flags().Changed("host") {
				cfg.Server.Host = host
			}
			if cmd.Flags().Changed("port") {
				cfg.Server.Port = port
			}
			cfg.ReadOnly = append(cfg.ReadOnly, readOnly...)
			return a.serve(cmd.Context(), cfg)
		},
	}
	cmd.Flags().StringVar(&host, "host", "", "listen host")
	cmd.Flags().IntVarP(&port, "port", "p", 0, "listen port (default 8080)")
	cmd.Flags().StringSliceVar(&readOnly, "read-only", nil, "collections whose writes answer 501")
	return cmd
}

func (a *app) serve(ctx context.Context, cfg resourceserver.Config) error {
	srv, err := resourceserver.New(cfg, logger.GetGlobalLogger())
	if err != nil {
		return err
	}
	if err := srv.Start(ctx); err != nil {
		return err
	}
	fmt.Fprintf(a.errOut, "serving on http://%s\n", srv.Addr())
	<-ctx.Done()
	return srv.Stop(context.WithoutCancel(ctx))
}

func newVersionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  exactArgs(0),
		RunE: func(*cobra.Command, []string) error {
			_, err := fmt.Fprintln(a.out, version.GetVersionInfo().String())
			return err
		},
	}
}
