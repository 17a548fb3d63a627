package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/rethab/respkv"
)

func main() {
	// .env is optional; flags and real env vars win over it
	godotenv.Load()

	app := &cli.App{
		Name:    "respkv-server",
		Usage:   "minimal RESP key-value server (PING, GET, SET)",
		Version: respkv.Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "addr",
				Value:   ":6380",
				Usage:   "listen address",
				EnvVars: []string{"RESPKV_ADDR"},
			},
			&cli.DurationFlag{
				Name:    "read-timeout",
				Usage:   "per-command read deadline, 0 disables",
				EnvVars: []string{"RESPKV_READ_TIMEOUT"},
			},
			&cli.DurationFlag{
				Name:    "write-timeout",
				Usage:   "per-reply write deadline, 0 disables",
				EnvVars: []string{"RESPKV_WRITE_TIMEOUT"},
			},
			&cli.IntFlag{
				Name:    "shards",
				Usage:   "number of store shards, 0 for the default",
				EnvVars: []string{"RESPKV_SHARDS"},
			},
			&cli.BoolFlag{
				Name:    "debug",
				Usage:   "log connection-level events",
				EnvVars: []string{"RESPKV_DEBUG"},
			},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	level := slog.LevelInfo
	if c.Bool("debug") {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	kv, err := respkv.New(
		respkv.WithListenAddr(c.String("addr")),
		respkv.WithReadTimeout(c.Duration("read-timeout")),
		respkv.WithWriteTimeout(c.Duration("write-timeout")),
		respkv.WithShardCount(c.Int("shards")),
		respkv.WithLogger(respkv.NewSlogLogger(logger)),
	)
	if err != nil {
		return err
	}

	if err := kv.Start(); err != nil {
		return err
	}
	logger.Info("respkv server running", "addr", kv.Addr())

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	logger.Info("shutting down")
	return kv.Close()
}
