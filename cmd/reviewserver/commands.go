package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"winsbygroup.com/reviewserver/internal/backup"
	"winsbygroup.com/reviewserver/internal/config"
	"winsbygroup.com/reviewserver/internal/logger"
	"winsbygroup.com/reviewserver/internal/server"
	"winsbygroup.com/reviewserver/internal/sqlite"
	"winsbygroup.com/reviewserver/internal/version"
)

const (
	serviceName     = "reviewserver"
	shutdownTimeout = 10 * time.Second
)

type options struct {
	configPath string
	demo       bool
	routes     bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:     serviceName,
		Short:   "Serve customers, items and reviews over a JSON API",
		Long:    `Reviewserver stores customers, items and the reviews that link them in SQLite and serves them as nested JSON documents.`,
		Version: version.Version,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd, opts)
		},
		SilenceUsage: true,
	}

	root.SetVersionTemplate(version.String() + "\n")
	root.PersistentFlags().StringVar(&opts.configPath, "config", "config.yaml", "path to config file")
	root.Flags().BoolVar(&opts.demo, "demo", false, "load sample data on new database (for demos)")
	root.Flags().BoolVar(&opts.routes, "routes", false, "print routes and exit")

	root.AddCommand(newSchemaCmd(), newBackupCmd(opts))
	return root
}

func serve(cmd *cobra.Command, opts *options) error {
	out := cmd.OutOrStdout()

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	cfg.DemoMode = opts.demo

	log := logger.New(serviceName, cfg.LogLevel)
	defer log.Sync()

	if !opts.routes {
		fmt.Fprintln(out, version.Banner())
	}

	srv, err := server.Build(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to build server: %w", err)
	}
	defer srv.Close()

	if opts.routes {
		printRoutes(out, srv)
		return nil
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("Listening", zap.String("addr", cfg.Addr))
		if err := srv.Echo.StartServer(srv.HTTP); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// Graceful shutdown
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	return srv.Echo.Shutdown(shutdownCtx)
}

func printRoutes(w io.Writer, srv *server.Server) {
	routes := srv.Echo.Routes()
	sort.Slice(routes, func(i, j int) bool {
		if routes[i].Path != routes[j].Path {
			return routes[i].Path < routes[j].Path
		}
		return routes[i].Method < routes[j].Method
	})

	for _, r := range routes {
		fmt.Fprintf(w, "%-6s %s\n", r.Method, r.Path)
	}
}

func newSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the database schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprint(cmd.OutOrStdout(), sqlite.Schema())
			return err
		},
	}
}

func newBackupCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "backup",
		Short: "Write a compressed SQL dump of the database",
		Long:  `Backup writes a gzip-compressed SQL dump into a "backups" directory next to the database file.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.configPath)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if _, err := os.Stat(cfg.DBPath); err != nil {
				return fmt.Errorf("database %s: %w", cfg.DBPath, err)
			}

			db, err := sqlite.Open(cfg.DBPath)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := sqlite.VerifyApplicationID(db); err != nil {
				return err
			}

			result, err := backup.NewService(db, cfg.DBPath).CreateBackup(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (%d bytes)\n", result.Path, result.Size)
			return nil
		},
	}
}
