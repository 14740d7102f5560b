package persistence

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/courtware/courtboard/internal/roster"
)

// remoteClient talks to a remote CRUD backend over HTTP. Each entity kind is
// a collection resource: GET /players lists, POST /players upserts by id,
// DELETE /players?id= removes.
type remoteClient struct {
	httpClient *http.Client
	baseURL    string
}

// NewRemote creates an Adapter backed by a remote REST backend.
func NewRemote(baseURL string) Adapter {
	return &remoteClient{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    baseURL,
	}
}

var _ Adapter = (*remoteClient)(nil)

func kindPath(kind roster.Kind) string {
	return "/" + string(kind) + "s"
}

func (c *remoteClient) GetPlayers(ctx context.Context) ([]roster.Player, error) {
	var players []roster.Player
	return players, c.getJSON(ctx, kindPath(roster.KindPlayer), &players)
}

func (c *remoteClient) GetPositions(ctx context.Context) ([]roster.Position, error) {
	var positions []roster.Position
	return positions, c.getJSON(ctx, kindPath(roster.KindPosition), &positions)
}

func (c *remoteClient) GetScenarios(ctx context.Context) ([]roster.Scenario, error) {
	var scenarios []roster.Scenario
	return scenarios, c.getJSON(ctx, kindPath(roster.KindScenario), &scenarios)
}

func (c *remoteClient) GetSequences(ctx context.Context) ([]roster.Sequence, error) {
	var sequences []roster.Sequence
	if err := c.getJSON(ctx, kindPath(roster.KindSequence), &sequences); err != nil {
		return nil, err
	}
	for i := range sequences {
		sequences[i].Normalize()
	}
	return sequences, nil
}

func (c *remoteClient) SavePlayer(ctx context.Context, p roster.Player) (roster.Player, error) {
	var saved roster.Player
	return saved, c.postJSON(ctx, kindPath(roster.KindPlayer), p, &saved)
}

func (c *remoteClient) SavePosition(ctx context.Context, p roster.Position) (roster.Position, error) {
	var saved roster.Position
	return saved, c.postJSON(ctx, kindPath(roster.KindPosition), p, &saved)
}

func (c *remoteClient) SaveScenario(ctx context.Context, s roster.Scenario) (roster.Scenario, error) {
	var saved roster.Scenario
	return saved, c.postJSON(ctx, kindPath(roster.KindScenario), s, &saved)
}

func (c *remoteClient) SaveSequence(ctx context.Context, s roster.Sequence) (roster.Sequence, error) {
	s.Normalize()
	var saved roster.Sequence
	return saved, c.postJSON(ctx, kindPath(roster.KindSequence), s, &saved)
}

func (c *remoteClient) Delete(ctx context.Context, kind roster.Kind, id string) error {
	url := fmt.Sprintf("%s%s?id=%s", c.baseURL, kindPath(kind), id)
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to delete %s %s: %w", kind, id, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: %s %s", ErrNotFound, kind, id)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("backend returned status %d deleting %s %s", resp.StatusCode, kind, id)
	}
	return nil
}

func (c *remoteClient) LegacyPositions(ctx context.Context) (map[string][]roster.PlayerPlacement, error) {
	out := make(map[string][]roster.PlayerPlacement)
	if err := c.getJSON(ctx, "/legacy/positions", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *remoteClient) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	log.Debug("Fetching from backend", "url", c.baseURL+path)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to fetch %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("backend returned status %d for %s: %s", resp.StatusCode, path, string(body))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", path, err)
	}
	return nil
}

func (c *remoteClient) postJSON(ctx context.Context, path string, in, out any) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("failed to encode payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to post %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("backend returned status %d for %s: %s", resp.StatusCode, path, string(body))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", path, err)
	}
	return nil
}
