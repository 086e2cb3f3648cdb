package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/torrejon/vecinored/internal/health"
)

var healthcheckURL string

var healthcheckCmd = &cobra.Command{
	Use:   "healthcheck",
	Short: "Probe a running server and exit non-zero unless it is healthy",
	RunE:  runHealthcheck,
}

func init() {
	healthcheckCmd.Flags().StringVar(&healthcheckURL, "url", "", "health endpoint (default derived from server config)")
}

func runHealthcheck(cmd *cobra.Command, _ []string) error {
	url := healthcheckURL
	if url == "" {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		host := cfg.Server.Host
		if host == "" || host == "0.0.0.0" {
			host = "127.0.0.1"
		}
		url = fmt.Sprintf("http://%s:%d/health", host, cfg.Server.Port)
	}

	st, err := probe(cmd, url)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s (version %s)\n", st.Status, st.Timestamp, st.Version)
	if !st.Healthy() {
		return fmt.Errorf("unhealthy: %s", st.Error)
	}
	return nil
}

func probe(cmd *cobra.Command, url string) (health.Status, error) {
	client := &http.Client{Timeout: 5 * time.Second}
	req, err := http.NewRequestWithContext(cmd.Context(), http.MethodGet, url, nil)
	if err != nil {
		return health.Status{}, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return health.Status{}, fmt.Errorf("probe %s: %w", url, err)
	}
	defer resp.Body.Close()

	var st health.Status
	if err := json.NewDecoder(resp.Body).Decode(&st); err != nil {
		return health.Status{}, fmt.Errorf("decode health response: %w", err)
	}
	if strings.TrimSpace(st.Status) == "" {
		return health.Status{}, fmt.Errorf("probe %s: empty status (HTTP %d)", url, resp.StatusCode)
	}
	return st, nil
}
