package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

const requestTimeout = 5 * time.Second

func newGamesCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "games",
		Short: "List open games on a running server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ids, err := fetchOpenGames(cmd.Context(), addr)
			if err != nil {
				return err
			}

			if len(ids) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no open games")
				return nil
			}

			fmt.Fprintln(cmd.OutOrStdout(), strings.Join(ids, "\n"))

			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "http://localhost:9090", "HTTP address of the server")

	return cmd
}

func fetchOpenGames(ctx context.Context, addr string) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, strings.TrimRight(addr, "/")+"/games", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to reach server: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status: %s", resp.Status)
	}

	var body struct {
		Games []string `json:"games"`
	}
	if err = json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return body.Games, nil
}
