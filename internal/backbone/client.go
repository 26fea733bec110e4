package backbone

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Client talks to the backbone relay server. Ping fetches queued messages
// newer than the cursor; Submit pushes an outgoing payload so internet-only
// participants receive it too.
type Client struct {
	baseURL    string
	callsign   string
	build      int
	httpClient *http.Client
}

// NewClient creates a relay client for the given callsign. build is the
// client build number reported on each poll.
func NewClient(baseURL, callsign string, build int) *Client {
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		callsign: callsign,
		build:    build,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Ping polls the relay for messages with id > cursor and returns the raw
// response text. snr is the signal report included with the heartbeat.
func (c *Client) Ping(ctx context.Context, cursor int64, snr int) (string, error) {
	query := url.Values{
		"cs":    {c.callsign},
		"id":    {strconv.FormatInt(cursor, 10)},
		"db":    {strconv.Itoa(snr)},
		"build": {strconv.Itoa(c.build)},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/ping?"+query.Encode(), nil)
	if err != nil {
		return "", err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("backbone ping: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("backbone ping: unexpected status %s", resp.Status)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("backbone ping: read response: %w", err)
	}
	return string(body), nil
}

// Submit posts an outgoing payload to the relay. The data string mirrors
// what a relay participant would have heard over the air:
// "<datetime>\t<freq>\t0\t<snr>\t<payload>". The relay answers "1" on
// success.
func (c *Client) Submit(ctx context.Context, payload string, freq int64, snr int) error {
	now := time.Now().UTC().Format(timeLayout)
	data := fmt.Sprintf("%s\t%d\t0\t%d\t%s", now, freq, snr, payload)

	form := url.Values{
		"cs":   {c.callsign},
		"data": {data},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/submit",
		strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("backbone submit: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("backbone submit: read response: %w", err)
	}
	if result := strings.TrimSpace(string(body)); result != "1" {
		return fmt.Errorf("backbone submit: server returned %q", result)
	}
	return nil
}
