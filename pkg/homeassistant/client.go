package homeassistant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/nergy-se/climate-controller/pkg/platform"
	"github.com/sirupsen/logrus"
)

// Client talks to the Home Assistant REST API.
type Client struct {
	address    string
	token      func() string
	httpClient *http.Client
}

// New returns a client for address, ex http://localhost:8123. token is called
// on every request so it can be rotated.
func New(address string, token func() string) *Client {
	if !strings.Contains(address, "://") {
		address = "http://" + address
	}
	return &Client{
		address: strings.TrimSuffix(address, "/"),
		token:   token,
		httpClient: &http.Client{
			Timeout: time.Second * 30,
		},
	}
}

func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.address+path, reader)
	if err != nil {
		return fmt.Errorf("could not create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if t := c.token(); t != "" {
		req.Header.Set("Authorization", "Bearer "+t)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("homeassistant %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return platform.ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("homeassistant %s %s StatusCode: %d: %s", method, path, resp.StatusCode, strings.TrimSpace(string(b)))
	}

	if out == nil {
		_, err = io.Copy(io.Discard, resp.Body)
		return err
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("could not parse received data: %w", err)
	}
	return nil
}

func (c *Client) State(ctx context.Context, entityID string) (*platform.Entity, error) {
	e := &platform.Entity{}
	err := c.do(ctx, http.MethodGet, "/api/states/"+url.PathEscape(entityID), nil, e)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", entityID, err)
	}
	return e, nil
}

// SetState creates or updates the entity shown in Home Assistant. It does not
// touch the device behind it.
func (c *Client) SetState(ctx context.Context, entityID, state string, attributes map[string]any) error {
	body := map[string]any{
		"state": state,
	}
	if attributes != nil {
		body["attributes"] = attributes
	}
	return c.do(ctx, http.MethodPost, "/api/states/"+url.PathEscape(entityID), body, nil)
}

func (c *Client) CallService(ctx context.Context, domain, service string, data map[string]any) error {
	logrus.WithFields(logrus.Fields(data)).Debugf("homeassistant: call %s/%s", domain, service)
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/api/services/%s/%s", domain, service), data, nil)
}

func (c *Client) History(ctx context.Context, entityID string, start, end time.Time) ([]platform.Point, error) {
	q := url.Values{}
	q.Set("filter_entity_id", entityID)
	q.Set("end_time", end.Format(time.RFC3339))
	q.Set("minimal_response", "")
	path := fmt.Sprintf("/api/history/period/%s?%s", url.PathEscape(start.Format(time.RFC3339)), q.Encode())

	var resp [][]platform.Point
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, fmt.Errorf("%s history: %w", entityID, err)
	}
	if len(resp) == 0 {
		return nil, nil
	}
	return resp[0], nil
}
