package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net"
	"net/url"

	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Stream catalog change events",
	Long: `Stream content.created, content.updated and content.deleted events.

By default the WebSocket feed at <server>/ws is used. With --tcp the raw
newline-delimited feed is read instead.

Examples:
  telugudb watch
  telugudb watch --tcp 127.0.0.1:7070`,
	Args: cobra.NoArgs,
	RunE: runWatchCmd,
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().String("tcp", "", "Read the TCP feed at this address instead of WebSocket")
}

func runWatchCmd(cmd *cobra.Command, _ []string) error {
	if addr, _ := cmd.Flags().GetString("tcp"); addr != "" {
		return watchTCP(cmd.Context(), addr, cmd.OutOrStdout())
	}
	wsURL, err := websocketURL(serverURL, "/ws")
	if err != nil {
		return fmt.Errorf("invalid server url: %w", err)
	}
	return watchWebSocket(cmd.Context(), wsURL, cmd.OutOrStdout())
}

func watchTCP(ctx context.Context, addr string, out io.Writer) error {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("dial %s: %w", addr, err)
	}
	defer conn.Close()

	go func() {
		<-ctx.Done()
		_ = conn.Close()
	}()

	sc := bufio.NewScanner(conn)
	for sc.Scan() {
		fmt.Fprintln(out, sc.Text())
	}
	if ctx.Err() != nil {
		return nil
	}
	return sc.Err()
}

func watchWebSocket(ctx context.Context, wsURL string, out io.Writer) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return fmt.Errorf("dial %s: %w", wsURL, err)
	}
	defer conn.Close()

	go func() {
		<-ctx.Done()
		_ = conn.Close()
	}()

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		fmt.Fprint(out, string(msg))
	}
}

func websocketURL(baseURL, path string) (string, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", err
	}
	scheme := "ws"
	if u.Scheme == "https" {
		scheme = "wss"
	}
	return (&url.URL{
		Scheme: scheme,
		Host:   u.Host,
		Path:   path,
	}).String(), nil
}
