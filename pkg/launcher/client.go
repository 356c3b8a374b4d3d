// Package launcher implements the launcher core: the HTTP client that
// speaks the sign-server JSON contract and the engine that drives the
// login and character selection workflow.
package launcher

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/mhfrontier/launcher/pkg/version"
)

// Messages shown for failures the player can retry. The wording is part
// of the product surface, frontends display these strings as-is.
const (
	msgConnectFailed     = "Failed to connect to server"
	msgServerUnavailable = "Unable to connect to server, try again later"
)

// ErrKind classifies a failed request.
type ErrKind int

const (
	// ErrConnect means no response arrived at all.
	ErrConnect ErrKind = iota
	// ErrServer means the server answered non-2xx with a message.
	ErrServer
	// ErrDecode means a 2xx response whose body did not decode.
	ErrDecode
)

// RequestError is a failed request with a player-displayable message.
// These are the recoverable errors: the workflow keeps its state and the
// player may retry.
type RequestError struct {
	Kind    ErrKind
	Message string
}

func (e *RequestError) Error() string { return e.Message }

// Client issues JSON POST requests against the selected host. It keeps
// the message of the most recent failure so the frontend can render it
// alongside whatever state the workflow is in.
type Client struct {
	http    *http.Client
	host    Host
	lastErr string
}

// NewClient creates a client for the given host.
func NewClient(host Host) *Client {
	return &Client{
		http: &http.Client{Timeout: 30 * time.Second},
		host: host,
	}
}

func (c *Client) Host() Host { return c.host }

// SetHost switches the target server. In-flight state is unaffected.
func (c *Client) SetHost(h Host) { c.host = h }

// LastError returns the message of the most recent failed request, or
// the empty string after a success or ClearError.
func (c *Client) LastError() string { return c.lastErr }

// ClearError drops the retained error message.
func (c *Client) ClearError() { c.lastErr = "" }

// Post sends body as JSON to path on the configured host and decodes a
// successful response into out. A failure is returned as *RequestError
// and retained for LastError; a success clears the retained message.
func (c *Client) Post(path string, body, out any) error {
	if err := c.do(path, body, out); err != nil {
		c.lastErr = err.Message
		return err
	}
	c.lastErr = ""
	return nil
}

func (c *Client) do(path string, body, out any) *RequestError {
	payload, err := json.Marshal(body)
	if err != nil {
		return &RequestError{Kind: ErrConnect, Message: msgConnectFailed}
	}

	req, err := http.NewRequest(http.MethodPost, c.host.BaseURL()+path, bytes.NewReader(payload))
	if err != nil {
		return &RequestError{Kind: ErrConnect, Message: msgConnectFailed}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "mhf-launcher/"+version.String())

	resp, err := c.http.Do(req)
	if err != nil {
		return &RequestError{Kind: ErrConnect, Message: msgConnectFailed}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(resp.Body)
		if len(data) == 0 {
			return &RequestError{Kind: ErrServer, Message: msgServerUnavailable}
		}
		return &RequestError{Kind: ErrServer, Message: string(data)}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &RequestError{
			Kind:    ErrDecode,
			Message: fmt.Sprintf("Failed to decode JSON response: %v", err),
		}
	}
	return nil
}
