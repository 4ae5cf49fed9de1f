package dispatch

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/mrezan/sms-dashboard/internal/gateway"
	"github.com/mrezan/sms-dashboard/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockGatewayClient struct {
	mock.Mock
}

func (m *MockGatewayClient) Send(ctx context.Context, p gateway.Payload) (*gateway.Response, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gateway.Response), args.Error(1)
}

type MockResolver struct {
	mock.Mock
}

func (m *MockResolver) Resolve(ctx context.Context, token string) (uuid.UUID, error) {
	args := m.Called(ctx, token)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

type MockRecorder struct {
	mock.Mock
}

func (m *MockRecorder) Create(ctx context.Context, p model.MessageCreateRequest) (*model.Message, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Message), args.Error(1)
}

func newTestDispatcher() (*Dispatcher, *MockGatewayClient, *MockResolver, *MockRecorder) {
	client := new(MockGatewayClient)
	resolver := new(MockResolver)
	recorder := new(MockRecorder)
	d := NewDispatcher(Config{
		GatewayURL:   "https://sms.example.com/send",
		GatewayToken: "token",
	}, client, resolver, recorder)
	return d, client, resolver, recorder
}

func okResponse(body string) *gateway.Response {
	return &gateway.Response{
		OK:         true,
		StatusCode: 200,
		Raw:        json.RawMessage(body),
	}
}

func TestDispatcher_Send_MissingNumbers(t *testing.T) {
	d, client, _, recorder := newTestDispatcher()
	ctx := context.Background()

	result := d.Send(ctx, "token", nil, "Hello")
	assert.False(t, result.Success)
	assert.Equal(t, KindMissingNumbers, result.Error)
	assert.Equal(t, "No phone numbers provided", result.Message)

	client.AssertNotCalled(t, "Send")
	recorder.AssertNotCalled(t, "Create")
}

func TestDispatcher_Send_MissingText(t *testing.T) {
	d, client, _, _ := newTestDispatcher()
	ctx := context.Background()

	for _, msg := range []string{"", "   ", "\t\n "} {
		result := d.Send(ctx, "token", []string{"+15550001111"}, msg)
		assert.False(t, result.Success)
		assert.Equal(t, KindMissingText, result.Error)
	}

	client.AssertNotCalled(t, "Send")
}

func TestDispatcher_Send_MissingGatewayConfig(t *testing.T) {
	tests := []struct {
		name   string
		config Config
	}{
		{"missing url", Config{GatewayToken: "token"}},
		{"missing token", Config{GatewayURL: "https://sms.example.com"}},
		{"missing both", Config{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := new(MockGatewayClient)
			d := NewDispatcher(tt.config, client, new(MockResolver), new(MockRecorder))

			result := d.Send(context.Background(), "token", []string{"+15550001111"}, "Hello")
			assert.False(t, result.Success)
			assert.Equal(t, KindMissingGatewayConfig, result.Error)
			assert.Equal(t, "SMS gateway configuration is missing", result.Message)

			client.AssertNotCalled(t, "Send")
		})
	}
}

func TestDispatcher_Send_PayloadJoinsNumbersInOrder(t *testing.T) {
	d, client, resolver, recorder := newTestDispatcher()
	ctx := context.Background()

	// Duplicates and ordering must survive untouched.
	numbers := []string{"+15550002222", "+15550001111", "+15550002222"}

	var gotPayload gateway.Payload
	client.On("Send", ctx, mock.AnythingOfType("gateway.Payload")).
		Run(func(args mock.Arguments) {
			gotPayload = args.Get(1).(gateway.Payload)
		}).
		Return(okResponse(`{}`), nil)

	userID := uuid.New()
	resolver.On("Resolve", ctx, "token").Return(userID, nil)
	recorder.On("Create", ctx, mock.AnythingOfType("model.MessageCreateRequest")).
		Return(&model.Message{ID: uuid.New()}, nil)

	result := d.Send(ctx, "token", numbers, "Hello")
	require.True(t, result.Success)

	assert.Equal(t, "+15550002222,+15550001111,+15550002222", gotPayload.Numbers)
	assert.Equal(t, "Hello", gotPayload.Text)
}

func TestDispatcher_Send_TransportError(t *testing.T) {
	d, client, _, recorder := newTestDispatcher()
	ctx := context.Background()

	client.On("Send", ctx, mock.Anything).Return(nil, errors.New("dial tcp: connection refused"))

	result := d.Send(ctx, "token", []string{"+15550001111"}, "Hello")
	assert.False(t, result.Success)
	assert.Equal(t, KindUnexpectedError, result.Error)
	assert.Contains(t, result.Message, "connection refused")

	recorder.AssertNotCalled(t, "Create")
}

func TestDispatcher_Send_GatewayRejection(t *testing.T) {
	d, client, _, recorder := newTestDispatcher()
	ctx := context.Background()

	client.On("Send", ctx, mock.Anything).Return(&gateway.Response{
		OK:              false,
		StatusCode:      422,
		ProviderMessage: "invalid recipient",
		Raw:             json.RawMessage(`{"message":"invalid recipient"}`),
	}, nil)

	result := d.Send(ctx, "token", []string{"+15550001111"}, "Hello")
	assert.False(t, result.Success)
	assert.Equal(t, KindGatewayError, result.Error)
	assert.Equal(t, "SMS gateway error: invalid recipient", result.Message)
	assert.NotNil(t, result.GatewayResponse)

	// A rejected dispatch never produces a delivery record.
	recorder.AssertNotCalled(t, "Create")
}

func TestDispatcher_Send_GatewayRejection_NoProviderMessage(t *testing.T) {
	d, client, _, _ := newTestDispatcher()
	ctx := context.Background()

	client.On("Send", ctx, mock.Anything).Return(&gateway.Response{
		OK:         false,
		StatusCode: 503,
		Raw:        json.RawMessage(`{}`),
	}, nil)

	result := d.Send(ctx, "token", []string{"+15550001111"}, "Hello")
	assert.Equal(t, KindGatewayError, result.Error)
	assert.Equal(t, "SMS gateway error: Service Unavailable", result.Message)
}

func TestDispatcher_Send_AuthErrorAfterSuccessfulSend(t *testing.T) {
	d, client, resolver, recorder := newTestDispatcher()
	ctx := context.Background()

	client.On("Send", ctx, mock.Anything).Return(okResponse(`{"status":"ok"}`), nil)
	resolver.On("Resolve", ctx, "stale-token").Return(uuid.Nil, errors.New("session has been revoked"))

	result := d.Send(ctx, "stale-token", []string{"+15550001111"}, "Hello")
	assert.False(t, result.Success)
	assert.Equal(t, KindAuthError, result.Error)
	assert.Equal(t, "User not authenticated", result.Message)

	// The SMS already went out; only the record is missing.
	client.AssertNumberOfCalls(t, "Send", 1)
	recorder.AssertNotCalled(t, "Create")
}

func TestDispatcher_Send_PersistenceFailureIsAdvisorySuccess(t *testing.T) {
	d, client, resolver, recorder := newTestDispatcher()
	ctx := context.Background()

	client.On("Send", ctx, mock.Anything).Return(okResponse(`{"status":"ok"}`), nil)
	resolver.On("Resolve", ctx, "token").Return(uuid.New(), nil)
	recorder.On("Create", ctx, mock.Anything).Return(nil, errors.New("connection reset"))

	result := d.Send(ctx, "token", []string{"+15550001111"}, "Hello")
	assert.True(t, result.Success)
	assert.Equal(t, "SMS sent successfully, but there was an error saving to history", result.Message)
	assert.Empty(t, result.Error)

	// No gateway retry on persistence failure.
	client.AssertNumberOfCalls(t, "Send", 1)
}

func TestDispatcher_Send_Success(t *testing.T) {
	d, client, resolver, recorder := newTestDispatcher()
	ctx := context.Background()

	userID := uuid.New()

	var gotPayload gateway.Payload
	client.On("Send", ctx, mock.AnythingOfType("gateway.Payload")).
		Run(func(args mock.Arguments) {
			gotPayload = args.Get(1).(gateway.Payload)
		}).
		Return(okResponse(`{"status":"accepted"}`), nil)
	resolver.On("Resolve", ctx, "token").Return(userID, nil)

	var gotCreate model.MessageCreateRequest
	recorder.On("Create", ctx, mock.AnythingOfType("model.MessageCreateRequest")).
		Run(func(args mock.Arguments) {
			gotCreate = args.Get(1).(model.MessageCreateRequest)
		}).
		Return(&model.Message{ID: uuid.New(), UserID: userID, Recipients: 2}, nil)

	result := d.Send(ctx, "token", []string{"+15550001111", "+15550002222"}, "Hello")
	require.True(t, result.Success)
	assert.Equal(t, "SMS sent successfully to 2 recipient(s)", result.Message)
	assert.Empty(t, result.Error)

	assert.Equal(t, "+15550001111,+15550002222", gotPayload.Numbers)
	assert.Equal(t, "Hello", gotPayload.Text)

	assert.Equal(t, userID, gotCreate.UserID)
	assert.Equal(t, model.MessageStatusSent, gotCreate.Status)
	assert.Equal(t, []string{"+15550001111", "+15550002222"}, gotCreate.PhoneNumbers)

	client.AssertExpectations(t)
	resolver.AssertExpectations(t)
	recorder.AssertExpectations(t)
}

func TestDispatcher_GatewayStatus(t *testing.T) {
	tests := []struct {
		name     string
		config   Config
		expected GatewayStatus
	}{
		{"fully configured", Config{GatewayURL: "u", GatewayToken: "t"}, GatewayStatus{Configured: true, HasURL: true, HasToken: true}},
		{"url only", Config{GatewayURL: "u"}, GatewayStatus{HasURL: true}},
		{"token only", Config{GatewayToken: "t"}, GatewayStatus{HasToken: true}},
		{"unconfigured", Config{}, GatewayStatus{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDispatcher(tt.config, nil, nil, nil)
			assert.Equal(t, tt.expected, d.GatewayStatus())
		})
	}
}
