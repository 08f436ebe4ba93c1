// Package mirror pushes bracket snapshots to the public mirror site.
// Mirror failures are logged and never block stage progress.
package mirror

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/granpix/granpix-services/internal/comm"
)

type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// FromEnv returns nil when MIRROR_URL is unset; callers treat a nil client
// as mirroring disabled.
func FromEnv() *Client {
	baseURL := os.Getenv("MIRROR_URL")
	if baseURL == "" {
		return nil
	}
	return &Client{
		baseURL: baseURL,
		token:   os.Getenv("MIRROR_TOKEN"),
		http:    &http.Client{Timeout: 5 * time.Second},
	}
}

// PushBracket uploads the current bracket state. Errors are swallowed after
// logging so a dead mirror cannot stall match reporting.
func (c *Client) PushBracket(ctx context.Context, update *comm.BracketUpdate) {
	if c == nil {
		return
	}
	if err := c.post(ctx, "/api/bracket", update); err != nil {
		logrus.WithError(err).WithField("stage_id", update.StageID).Warn("bracket mirror push failed")
	}
}

// PushStandings uploads championship standings after a stage closes.
func (c *Client) PushStandings(ctx context.Context, update *comm.StandingsUpdate) {
	if c == nil {
		return
	}
	if err := c.post(ctx, "/api/standings", update); err != nil {
		logrus.WithError(err).WithField("championship_id", update.ChampionshipID).Warn("standings mirror push failed")
	}
}

func (c *Client) post(ctx context.Context, path string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal mirror payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build mirror request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	res, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.StatusCode >= 300 {
		return fmt.Errorf("mirror returned %d", res.StatusCode)
	}
	return nil
}
