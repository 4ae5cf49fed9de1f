package main

import (
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Mock SMS provider for local development. Speaks the exact wire shape
// the dashboard's gateway client sends: a bearer-authenticated POST
// with {"numbers":"<comma-joined>","text":"..."} and a JSON reply
// carrying an optional "message" field.

type sendRequest struct {
	Numbers string `json:"numbers" binding:"required"`
	Text    string `json:"text" binding:"required"`
}

type sendResponse struct {
	Status     string    `json:"status"`
	Message    string    `json:"message,omitempty"`
	BatchID    string    `json:"batch_id,omitempty"`
	Recipients int       `json:"recipients,omitempty"`
	AcceptedAt time.Time `json:"accepted_at,omitempty"`
}

// MockProvider simulates the third-party SMS gateway.
type MockProvider struct {
	token      string
	acceptRate float64
	minDelay   time.Duration
	maxDelay   time.Duration
	providerID string
	rng        *rand.Rand
}

func NewMockProvider(token string, acceptRate float64, minDelay, maxDelay time.Duration) *MockProvider {
	return &MockProvider{
		token:      token,
		acceptRate: acceptRate,
		minDelay:   minDelay,
		maxDelay:   maxDelay,
		providerID: "MOCK_PROVIDER_" + uuid.New().String()[:8],
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (m *MockProvider) shouldAccept() bool {
	return m.rng.Float64() < m.acceptRate
}

func (m *MockProvider) randomDelay() time.Duration {
	if m.maxDelay <= m.minDelay {
		return m.minDelay
	}
	return m.minDelay + time.Duration(m.rng.Int63n(int64(m.maxDelay-m.minDelay)))
}

func (m *MockProvider) rejectionMessage() string {
	msgs := []string{
		"invalid recipient number",
		"sender account out of credit",
		"message content rejected by carrier",
		"destination temporarily unreachable",
	}
	return msgs[m.rng.Intn(len(msgs))]
}

type Handler struct {
	provider *MockProvider
}

func NewHandler(provider *MockProvider) *Handler {
	return &Handler{provider: provider}
}

func (h *Handler) Send(c *gin.Context) {
	auth := c.GetHeader("Authorization")
	if auth != "Bearer "+h.provider.token {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "invalid or missing bearer token"})
		return
	}

	var req sendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request: " + err.Error()})
		return
	}

	recipients := len(strings.Split(req.Numbers, ","))

	// Simulate carrier latency
	time.Sleep(h.provider.randomDelay())

	if !h.provider.shouldAccept() {
		msg := h.provider.rejectionMessage()
		log.Warn().
			Str("numbers", req.Numbers).
			Str("reason", msg).
			Msg("batch rejected")
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": msg})
		return
	}

	log.Info().
		Str("numbers", req.Numbers).
		Int("recipients", recipients).
		Msg("batch accepted")

	c.JSON(http.StatusOK, sendResponse{
		Status:     "accepted",
		BatchID:    uuid.New().String(),
		Recipients: recipients,
		AcceptedAt: time.Now(),
	})
}

// UpdateConfig changes the accept rate at runtime so failure paths can
// be exercised without restarting.
func (h *Handler) UpdateConfig(c *gin.Context) {
	var config struct {
		AcceptRate *float64 `json:"accept_rate"`
	}
	if err := c.ShouldBindJSON(&config); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request: " + err.Error()})
		return
	}

	if config.AcceptRate != nil && *config.AcceptRate >= 0 && *config.AcceptRate <= 1.0 {
		h.provider.acceptRate = *config.AcceptRate
		log.Info().Float64("rate", *config.AcceptRate).Msg("updated accept rate")
	}

	c.JSON(http.StatusOK, gin.H{"accept_rate": h.provider.acceptRate})
}

func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":      "healthy",
		"provider_id": h.provider.providerID,
		"accept_rate": h.provider.acceptRate,
		"timestamp":   time.Now(),
	})
}

func SetupRouter(handler *Handler) *gin.Engine {
	router := gin.Default()

	router.Use(func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("duration", time.Since(start)).
			Msg("request processed")
	})

	router.POST("/send", handler.Send)
	router.PUT("/config", handler.UpdateConfig)
	router.GET("/health", handler.HealthCheck)

	return router
}

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	port := getEnv("PORT", "8081")
	token := getEnv("PROVIDER_TOKEN", "dev-token")
	acceptRate := getEnvFloat("ACCEPT_RATE", 1)
	minDelay := getEnvDuration("MIN_DELAY", 50*time.Millisecond)
	maxDelay := getEnvDuration("MAX_DELAY", 500*time.Millisecond)

	log.Info().
		Str("port", port).
		Float64("accept_rate", acceptRate).
		Dur("min_delay", minDelay).
		Dur("max_delay", maxDelay).
		Msg("starting mock SMS provider")

	provider := NewMockProvider(token, acceptRate, minDelay, maxDelay)
	handler := NewHandler(provider)
	router := SetupRouter(handler)

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: router,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down mock provider")
	_ = srv.Close()
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
