package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/cuemby/burrow/pkg/client"
	"github.com/cuemby/burrow/pkg/config"
)

var clientCmd = &cobra.Command{
	Use:   "client",
	Short: "Talk to a running burrow server",
}

func dial(cmd *cobra.Command) (*client.Client, error) {
	cfg, err := config.Load(configPath(cmd))
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}

	var opts []client.Option
	if cfg.RPC.AuthToken != "" {
		opts = append(opts, client.WithToken(cfg.RPC.AuthToken))
	}

	return client.NewClient(cfg.ClientURL(), opts...)
}

var clientPutCmd = &cobra.Command{
	Use:   "put",
	Short: "Put a key/value pair into the default tree",
	RunE: func(cmd *cobra.Command, args []string) error {
		key, _ := cmd.Flags().GetString("key")
		value, _ := cmd.Flags().GetString("value")

		c, err := dial(cmd)
		if err != nil {
			return err
		}
		defer c.Close()

		if err := c.Put([]byte(key), []byte(value)); err != nil {
			return fmt.Errorf("put: %w", err)
		}
		fmt.Println("OK")
		return nil
	},
}

var clientGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Get a key from the default tree",
	RunE: func(cmd *cobra.Command, args []string) error {
		key, _ := cmd.Flags().GetString("key")

		c, err := dial(cmd)
		if err != nil {
			return err
		}
		defer c.Close()

		value, err := c.Get([]byte(key))
		if err != nil {
			return fmt.Errorf("get: %w", err)
		}
		fmt.Println(string(value))
		return nil
	},
}

var clientPubCmd = &cobra.Command{
	Use:   "pub",
	Short: "Publish a message to a topic",
	RunE: func(cmd *cobra.Command, args []string) error {
		topic, _ := cmd.Flags().GetString("key")
		value, _ := cmd.Flags().GetString("value")

		c, err := dial(cmd)
		if err != nil {
			return err
		}
		defer c.Close()

		if err := c.Publish(topic, value); err != nil {
			return fmt.Errorf("publish: %w", err)
		}
		fmt.Println("OK")
		return nil
	},
}

var clientSubCmd = &cobra.Command{
	Use:   "sub",
	Short: "Subscribe to a topic and print messages until interrupted",
	RunE: func(cmd *cobra.Command, args []string) error {
		topic, _ := cmd.Flags().GetString("key")

		c, err := dial(cmd)
		if err != nil {
			return err
		}
		defer c.Close()

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		updates, err := c.Subscribe(ctx, topic)
		if err != nil {
			return fmt.Errorf("subscribe: %w", err)
		}

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

		for {
			select {
			case u, ok := <-updates:
				if !ok {
					return nil
				}
				fmt.Println(u.Payload)
			case <-sigCh:
				return nil
			}
		}
	},
}

func init() {
	for _, cmd := range []*cobra.Command{clientPutCmd, clientGetCmd, clientPubCmd, clientSubCmd} {
		cmd.Flags().String("key", "", "Key (put/get) or topic (pub/sub)")
		cmd.MarkFlagRequired("key")
	}
	clientPutCmd.Flags().String("value", "", "Value to store")
	clientPubCmd.Flags().String("value", "", "Message payload to publish")

	clientCmd.AddCommand(clientPutCmd)
	clientCmd.AddCommand(clientGetCmd)
	clientCmd.AddCommand(clientPubCmd)
	clientCmd.AddCommand(clientSubCmd)
}
