package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mj1618/listscan/internal/config"
	"github.com/mj1618/listscan/internal/monitor"
	"github.com/mj1618/listscan/internal/server"
	"github.com/mj1618/listscan/internal/version"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start an MCP server that harvests in the background",
	Long: `Start a Model Context Protocol (MCP) server. The server observes the window,
runs scan sessions while monitoring is on and exposes monitoring control,
scan status, delivered events and the accessibility tree as tools.

Changes to the config file are applied to the running driver.

Supported transports:
  stdio             Standard I/O (default, for MCP clients)
  streamable-http   Streamable HTTP transport (for remote agents)

Examples:
  listscan serve --scenario chats.yaml
  listscan serve --transport streamable-http --port 8080 --start`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("transport", "stdio", "Transport: stdio, streamable-http")
	serveCmd.Flags().Int("port", 8080, "HTTP port for streamable-http transport")
	serveCmd.Flags().Bool("start", false, "Turn monitoring on when the server starts")
	serveCmd.Flags().Int("event-log", 1000, "Delivered events kept for get_events (0 = unlimited)")
	serveCmd.Flags().Duration("event-ttl", 0, "Drop delivered events older than this (0 = keep)")
}

func runServe(cmd *cobra.Command, args []string) error {
	transport, _ := cmd.Flags().GetString("transport")
	port, _ := cmd.Flags().GetInt("port")
	start, _ := cmd.Flags().GetBool("start")
	logSize, _ := cmd.Flags().GetInt("event-log")
	logTTL, _ := cmd.Flags().GetDuration("event-ttl")

	cfg := currentConfig()
	log := cmdLogger()

	p, err := openProvider(cfg)
	if err != nil {
		return err
	}
	state, err := openMonitor(cfg)
	if err != nil {
		return err
	}
	if start {
		if err := state.Start(""); err != nil {
			return err
		}
	}

	events := server.NewEventLog(logSize, logTTL, nil)
	h := newHarvester(cfg, p, state, events)

	if conf != nil && conf.File() != "" {
		conf.OnChange(func(c config.Config) {
			h.driver.Reconfigure(c.Harvest())
		})
		conf.Watch(func(err error) {
			log.Warn("config reload rejected", zap.Error(err))
		})
	}

	srv := server.New(server.Deps{
		Monitor: state,
		Driver:  h.driver,
		Sink:    h.sink,
		Events:  events,
		Window:  p.Window,
		Log:     log.Named("mcp"),
	}, version.Version)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return h.run(ctx) })
	g.Go(func() error { return monitor.Follow(ctx, state, cfg.StateFile) })
	g.Go(func() error {
		err := srv.Serve(ctx, server.Config{Transport: transport, Port: port}, os.Stdin, os.Stdout)
		if err != nil {
			return fmt.Errorf("mcp server: %w", err)
		}
		// stdio returns on EOF; take the harvester down with it.
		return errServerDone
	})

	if err := g.Wait(); err != nil && !errors.Is(err, errServerDone) && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

var errServerDone = errors.New("server done")
