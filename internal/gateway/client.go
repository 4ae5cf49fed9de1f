// Package gateway holds the HTTP client for the third-party SMS
// provider. One POST per dispatch, bearer auth, JSON in and out.
package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/valyala/fasthttp"
)

// Payload is the wire format the provider accepts: recipients joined
// into a single comma-delimited string plus the message text.
type Payload struct {
	Numbers string `json:"numbers"`
	Text    string `json:"text"`
}

// Response is the minimally-typed view of the provider's reply. Raw
// keeps the full body for diagnostics; ProviderMessage is the optional
// human-readable "message" field when the body carries one.
type Response struct {
	OK              bool
	StatusCode      int
	ProviderMessage string
	Raw             json.RawMessage
}

type Client struct {
	url     string
	token   string
	timeout time.Duration
	client  *fasthttp.Client
}

func NewClient(url, token string, timeout time.Duration) *Client {
	return &Client{
		url:     url,
		token:   token,
		timeout: timeout,
		client: &fasthttp.Client{
			ReadTimeout:         timeout,
			WriteTimeout:        timeout,
			MaxIdleConnDuration: 60 * time.Second,
		},
	}
}

// Send performs the single POST for one dispatch. A transport failure
// or a non-JSON body comes back as an error; an HTTP-level rejection
// comes back as a Response with OK=false so the caller can classify it.
// Safe for concurrent use.
func (c *Client) Send(ctx context.Context, p Payload) (*Response, error) {
	body, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(c.url)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	req.Header.Set(fasthttp.HeaderAuthorization, "Bearer "+c.token)
	req.SetBody(body)

	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Now().Add(c.timeout)
	}

	if err := c.client.DoDeadline(req, resp, deadline); err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}

	raw := make([]byte, len(resp.Body()))
	copy(raw, resp.Body())

	// The provider contract is JSON; anything else is a defect.
	if !json.Valid(raw) {
		return nil, fmt.Errorf("failed to parse provider response: invalid JSON (status %d)", resp.StatusCode())
	}

	statusCode := resp.StatusCode()
	return &Response{
		OK:              statusCode >= 200 && statusCode < 300,
		StatusCode:      statusCode,
		ProviderMessage: providerMessage(raw),
		Raw:             raw,
	}, nil
}

func providerMessage(raw []byte) string {
	var envelope struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return ""
	}
	return envelope.Message
}

// StatusText exposes the HTTP reason phrase for a status code so the
// orchestrator can fall back to it when the provider sends no message.
func StatusText(code int) string {
	return fasthttp.StatusMessage(code)
}
