package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nstehr/skirmish/agent"
	"github.com/nstehr/skirmish/ipc"
	"github.com/nstehr/skirmish/planner"
	"github.com/nstehr/skirmish/server"
)

const banner = `
┏━┓╻┏ ╻┏━┓┏┳┓╻┏━┓╻ ╻
┗━┓┣┻┓┃┣┳┛┃┃┃┃┗━┓┣━┫
┗━┛╹ ╹╹╹┗╸╹ ╹╹┗━┛╹ ╹

Grid Tactics Sidecar`

func main() {
	socketPath := flag.String("socket", "/tmp/skirmish.sock", "unix socket to listen on (empty to disable)")
	httpAddr := flag.String("http", "", "HTTP listen address, e.g. :8080 (empty to disable)")
	weightsPath := flag.String("weights", "", "YAML file overriding planner weights")
	policyName := flag.String("policy", "argmax", "move selection policy: argmax or weighted")
	seed := flag.Int64("seed", 0, "RNG seed for new sessions (0 seeds from the clock)")
	logLevel := flag.String("log-level", "info", "log level: debug, info, warn, error")
	flag.Parse()

	var level slog.Level
	if err := level.UnmarshalText([]byte(*logLevel)); err != nil {
		fmt.Fprintf(os.Stderr, "invalid -log-level %q\n", *logLevel)
		os.Exit(2)
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	fmt.Println(banner)

	cfg, err := loadConfig(*weightsPath, *policyName, *seed)
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	if *socketPath == "" && *httpAddr == "" {
		slog.Error("nothing to serve: set -socket or -http")
		os.Exit(1)
	}

	slog.Info("starting skirmish", "policy", cfg.Policy, "weights", *weightsPath)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if *socketPath != "" {
		listener, err := listenSocket(*socketPath)
		if err != nil {
			slog.Error("failed to listen on socket", "path", *socketPath, "error", err)
			os.Exit(1)
		}
		defer listener.Close()
		defer os.Remove(*socketPath)
		slog.Info("listening on domain socket", "path", *socketPath)
		go acceptLoop(ctx, listener, cfg)
	}

	if *httpAddr != "" {
		srv := &http.Server{Addr: *httpAddr, Handler: server.New(cfg), ReadHeaderTimeout: 10 * time.Second}
		go func() {
			slog.Info("listening for HTTP", "addr", *httpAddr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				slog.Error("http server failed", "error", err)
				stop()
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				slog.Warn("http shutdown", "error", err)
			}
		}()
	}

	<-ctx.Done()
	slog.Info("shutting down")
}

func loadConfig(weightsPath, policyName string, seed int64) (agent.Config, error) {
	cfg := agent.DefaultConfig()
	cfg.Seed = seed
	if weightsPath != "" {
		w, err := planner.LoadWeights(weightsPath)
		if err != nil {
			return cfg, err
		}
		cfg.Weights = w
	}
	policy, err := planner.ParsePolicy(policyName)
	if err != nil {
		return cfg, err
	}
	cfg.Policy = policy
	return cfg, nil
}

func listenSocket(path string) (net.Listener, error) {
	// Unix sockets leave behind a file on unclean shutdown; remove it so we can rebind.
	if err := os.RemoveAll(path); err != nil {
		return nil, fmt.Errorf("clean up socket: %w", err)
	}
	return net.Listen("unix", path)
}

func acceptLoop(ctx context.Context, listener net.Listener, cfg agent.Config) {
	for {
		conn, err := listener.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				return
			default:
				if errors.Is(err, net.ErrClosed) {
					return
				}
				slog.Error("failed to accept connection", "error", err)
				continue
			}
		}
		slog.Info("new connection accepted")
		go handleConn(conn, cfg)
	}
}

func handleConn(conn net.Conn, cfg agent.Config) {
	c := ipc.NewConnection(ipc.NewStreamTransport(conn), nil)
	agent.New(c, cfg).Register()
	c.ReadLoop()
}
