// Package dispatch implements the validate → gateway → persist flow
// for one SMS send request, reconciling the gateway's and the
// recorder's independent outcomes into a single user-facing result.
package dispatch

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mrezan/sms-dashboard/internal/gateway"
	"github.com/mrezan/sms-dashboard/internal/model"
	"github.com/mrezan/sms-dashboard/pkg/logger"
	"github.com/mrezan/sms-dashboard/pkg/prom"
)

// Kind is the machine-readable classification of a dispatch outcome.
type Kind string

const (
	KindMissingNumbers       Kind = "MISSING_NUMBERS"
	KindMissingText          Kind = "MISSING_TEXT"
	KindMissingGatewayConfig Kind = "MISSING_GATEWAY_CONFIG"
	KindGatewayError         Kind = "GATEWAY_ERROR"
	KindAuthError            Kind = "AUTH_ERROR"
	KindUnexpectedError      Kind = "UNEXPECTED_ERROR"
)

// Result is returned for every dispatch, success or not. Failures carry
// a Kind; the raw provider body rides along for diagnostics when the
// gateway was reached at all.
type Result struct {
	Success         bool        `json:"success"`
	Message         string      `json:"message"`
	Error           Kind        `json:"error,omitempty"`
	GatewayResponse interface{} `json:"gateway_response,omitempty"`
}

// GatewayStatus is the configuration probe's answer: presence flags
// only, never the values themselves.
type GatewayStatus struct {
	Configured bool `json:"configured"`
	HasURL     bool `json:"hasUrl"`
	HasToken   bool `json:"hasToken"`
}

// GatewayClient sends one payload to the provider.
type GatewayClient interface {
	Send(ctx context.Context, p gateway.Payload) (*gateway.Response, error)
}

// IdentityResolver turns the caller's bearer token into a profile id.
type IdentityResolver interface {
	Resolve(ctx context.Context, token string) (uuid.UUID, error)
}

// Recorder persists one delivery record.
type Recorder interface {
	Create(ctx context.Context, p model.MessageCreateRequest) (*model.Message, error)
}

// Config carries the gateway credentials, constructed once at startup
// and injected so tests can fake them without touching the process
// environment.
type Config struct {
	GatewayURL   string
	GatewayToken string
}

type Dispatcher struct {
	config   Config
	client   GatewayClient
	resolver IdentityResolver
	recorder Recorder
}

func NewDispatcher(config Config, client GatewayClient, resolver IdentityResolver, recorder Recorder) *Dispatcher {
	return &Dispatcher{
		config:   config,
		client:   client,
		resolver: resolver,
		recorder: recorder,
	}
}

// Send runs one dispatch: precondition checks in order, each
// short-circuiting before any side effect, then exactly one gateway
// call, then identity resolution, then at most one storage write.
// Every invocation is a fresh independent attempt; there is no retry
// and no idempotency key. The token is resolved only after the gateway
// accepted the message, so a stale session can leave a sent SMS with
// no history record — that asymmetry is part of the contract.
func (d *Dispatcher) Send(ctx context.Context, token string, phoneNumbers []string, message string) Result {
	if len(phoneNumbers) == 0 {
		return d.failure(KindMissingNumbers, "No phone numbers provided")
	}

	if strings.TrimSpace(message) == "" {
		return d.failure(KindMissingText, "Message text is required")
	}

	if d.config.GatewayURL == "" || d.config.GatewayToken == "" {
		return d.failure(KindMissingGatewayConfig, "SMS gateway configuration is missing")
	}

	// Order preserved, no de-duplication, no number format validation.
	payload := gateway.Payload{
		Numbers: strings.Join(phoneNumbers, ","),
		Text:    message,
	}

	start := time.Now()
	resp, err := d.client.Send(ctx, payload)
	prom.ObserveHistogram(prom.SystemDispatch, prom.MetricGatewayRequestDuration, time.Since(start).Seconds())
	if err != nil {
		logger.Error("gateway request failed", "error", err, "recipients", len(phoneNumbers))
		return d.failure(KindUnexpectedError, "Error sending SMS: "+err.Error())
	}

	if !resp.OK {
		providerMsg := resp.ProviderMessage
		if providerMsg == "" {
			providerMsg = gateway.StatusText(resp.StatusCode)
		}
		logger.Warn("gateway rejected dispatch", "status", resp.StatusCode, "provider_message", providerMsg)
		r := d.failure(KindGatewayError, "SMS gateway error: "+providerMsg)
		r.GatewayResponse = resp.Raw
		return r
	}

	userID, err := d.resolver.Resolve(ctx, token)
	if err != nil {
		// The SMS already left through the provider; nothing is rolled back.
		logger.Error("caller identity unresolved after successful send", "error", err)
		r := d.failure(KindAuthError, "User not authenticated")
		r.GatewayResponse = resp.Raw
		return r
	}

	_, err = d.recorder.Create(ctx, model.MessageCreateRequest{
		UserID:       userID,
		Content:      message,
		PhoneNumbers: phoneNumbers,
		Status:       model.MessageStatusSent,
	})
	if err != nil {
		// Delivery is the primary contract; a lost history row must not
		// read as a failed send.
		logger.Error("failed to save delivery record", "error", err, "user_id", userID)
		prom.IncCounterVec(prom.SystemDispatch, prom.MetricDispatchTotal, "advisory")
		return Result{
			Success:         true,
			Message:         "SMS sent successfully, but there was an error saving to history",
			GatewayResponse: resp.Raw,
		}
	}

	prom.IncCounterVec(prom.SystemDispatch, prom.MetricDispatchTotal, "success")
	return Result{
		Success:         true,
		Message:         fmt.Sprintf("SMS sent successfully to %d recipient(s)", len(phoneNumbers)),
		GatewayResponse: resp.Raw,
	}
}

// GatewayStatus reports credential presence for the UI indicator.
// Pure read, no side effects, safe for polling.
func (d *Dispatcher) GatewayStatus() GatewayStatus {
	hasURL := d.config.GatewayURL != ""
	hasToken := d.config.GatewayToken != ""
	return GatewayStatus{
		Configured: hasURL && hasToken,
		HasURL:     hasURL,
		HasToken:   hasToken,
	}
}

func (d *Dispatcher) failure(kind Kind, msg string) Result {
	prom.IncCounterVec(prom.SystemDispatch, prom.MetricDispatchTotal, string(kind))
	return Result{
		Success: false,
		Message: msg,
		Error:   kind,
	}
}
