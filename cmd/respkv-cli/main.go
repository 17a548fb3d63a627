package main

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/rethab/respkv"
	"github.com/rethab/respkv/client"
)

func main() {
	godotenv.Load()

	app := &cli.App{
		Name:    "respkv-cli",
		Usage:   "command line client for respkv",
		Version: respkv.Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "server",
				Value:   "localhost:6380",
				Usage:   "host:port of the server to connect to",
				EnvVars: []string{"RESPKV_SERVER"},
			},
			&cli.DurationFlag{
				Name:    "timeout",
				Value:   5 * time.Second,
				Usage:   "connect and request timeout",
				EnvVars: []string{"RESPKV_TIMEOUT"},
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "ping",
				Usage:     "probe the server; with a message, the server echoes it",
				ArgsUsage: "[message]",
				Action:    runPing,
			},
			{
				Name:      "get",
				Usage:     "retrieve a key",
				ArgsUsage: "<key>",
				Action:    runGet,
			},
			{
				Name:      "set",
				Usage:     "store a value",
				ArgsUsage: "<key> <value>",
				Action:    runSet,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func connect(c *cli.Context) (*client.Client, error) {
	timeout := c.Duration("timeout")
	return client.DialTimeout(c.String("server"), timeout, client.WithTimeout(timeout))
}

func runPing(c *cli.Context) error {
	conn, err := connect(c)
	if err != nil {
		return err
	}
	defer conn.Close()

	var reply string
	if c.Args().Present() {
		reply, err = conn.Ping(c.Args().First())
	} else {
		reply, err = conn.Ping()
	}
	if err != nil {
		return err
	}

	fmt.Println(reply)
	return nil
}

func runGet(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.Exit("usage: get <key>", 2)
	}

	conn, err := connect(c)
	if err != nil {
		return err
	}
	defer conn.Close()

	value, found, err := conn.Get([]byte(c.Args().Get(0)))
	if err != nil {
		return err
	}
	if !found {
		fmt.Println("(nil)")
		return nil
	}

	fmt.Println(string(value))
	return nil
}

func runSet(c *cli.Context) error {
	if c.NArg() != 2 {
		return cli.Exit("usage: set <key> <value>", 2)
	}

	conn, err := connect(c)
	if err != nil {
		return err
	}
	defer conn.Close()

	if err := conn.Set([]byte(c.Args().Get(0)), []byte(c.Args().Get(1))); err != nil {
		return err
	}

	fmt.Println("OK")
	return nil
}
