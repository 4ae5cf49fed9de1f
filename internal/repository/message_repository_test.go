package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mrezan/sms-dashboard/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessageRepository_Create(t *testing.T) {
	db := setupTestDB(t).DB
	repo := NewMessageRepository(db)
	ctx := context.Background()

	t.Run("create message successfully", func(t *testing.T) {
		userID := uuid.New()
		created, err := repo.Create(ctx, model.MessageCreateRequest{
			UserID:       userID,
			Content:      "Test message",
			PhoneNumbers: []string{"+15550001111", "+15550002222"},
			Status:       model.MessageStatusSent,
		})
		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, created.ID)
		assert.Equal(t, userID, created.UserID)
		assert.Equal(t, "Test message", created.Content)
		assert.Equal(t, []string{"+15550001111", "+15550002222"}, created.PhoneNumbers)
		assert.Equal(t, model.MessageStatusSent, created.Status)
		assert.NotZero(t, created.CreatedAt)
	})

	t.Run("recipient count derived from number list", func(t *testing.T) {
		created, err := repo.Create(ctx, model.MessageCreateRequest{
			UserID:       uuid.New(),
			Content:      "Count check",
			PhoneNumbers: []string{"+15550001111", "+15550001111", "+15550003333"},
			Status:       model.MessageStatusSent,
		})
		require.NoError(t, err)
		assert.Equal(t, 3, created.Recipients)
		assert.Len(t, created.PhoneNumbers, created.Recipients)
	})

	t.Run("rejects empty recipient list", func(t *testing.T) {
		_, err := repo.Create(ctx, model.MessageCreateRequest{
			UserID:       uuid.New(),
			Content:      "Test",
			PhoneNumbers: nil,
			Status:       model.MessageStatusSent,
		})
		assert.Error(t, err)
	})

	t.Run("rejects missing owner", func(t *testing.T) {
		_, err := repo.Create(ctx, model.MessageCreateRequest{
			Content:      "Test",
			PhoneNumbers: []string{"+15550001111"},
			Status:       model.MessageStatusSent,
		})
		assert.Error(t, err)
	})
}

func TestMessageRepository_List(t *testing.T) {
	db := setupTestDB(t).DB
	repo := NewMessageRepository(db)
	ctx := context.Background()

	userID := uuid.New()
	for i := 0; i < 5; i++ {
		_, err := repo.Create(ctx, model.MessageCreateRequest{
			UserID:       userID,
			Content:      "Test message",
			PhoneNumbers: []string{"+15550001111"},
			Status:       model.MessageStatusSent,
		})
		require.NoError(t, err)
		time.Sleep(10 * time.Millisecond)
	}

	t.Run("list all messages for owner", func(t *testing.T) {
		messages, total, err := repo.List(ctx, model.MessageFilter{
			UserID: &userID,
			Limit:  10,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(5), total)
		assert.Len(t, messages, 5)
	})

	t.Run("list with pagination", func(t *testing.T) {
		messages, total, err := repo.List(ctx, model.MessageFilter{
			UserID: &userID,
			Limit:  2,
			Offset: 3,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(5), total)
		assert.Len(t, messages, 2)
	})

	t.Run("list with status filter", func(t *testing.T) {
		messages, total, err := repo.List(ctx, model.MessageFilter{
			UserID:   &userID,
			Statuses: []model.MessageStatus{model.MessageStatusSent},
			Limit:    10,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(5), total)
		assert.Len(t, messages, 5)

		_, total, err = repo.List(ctx, model.MessageFilter{
			UserID:   &userID,
			Statuses: []model.MessageStatus{model.MessageStatusFailed},
			Limit:    10,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(0), total)
	})

	t.Run("list with desc order", func(t *testing.T) {
		messages, _, err := repo.List(ctx, model.MessageFilter{
			UserID: &userID,
			Limit:  10,
			Desc:   true,
		})
		require.NoError(t, err)
		for i := 0; i < len(messages)-1; i++ {
			assert.True(t, messages[i].CreatedAt.After(messages[i+1].CreatedAt) || messages[i].CreatedAt.Equal(messages[i+1].CreatedAt))
		}
	})

	t.Run("list with time range", func(t *testing.T) {
		now := time.Now()
		from := now.Add(-1 * time.Hour)
		to := now.Add(1 * time.Hour)

		_, total, err := repo.List(ctx, model.MessageFilter{
			UserID: &userID,
			From:   &from,
			To:     &to,
			Limit:  10,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(5), total)
	})

	t.Run("other owners see nothing", func(t *testing.T) {
		otherID := uuid.New()
		messages, total, err := repo.List(ctx, model.MessageFilter{
			UserID: &otherID,
			Limit:  10,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(0), total)
		assert.Len(t, messages, 0)
	})

	t.Run("list with default limit", func(t *testing.T) {
		messages, total, err := repo.List(ctx, model.MessageFilter{
			UserID: &userID,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(5), total)
		assert.Len(t, messages, 5)
	})
}

func TestMessageRepository_Count(t *testing.T) {
	db := setupTestDB(t).DB
	repo := NewMessageRepository(db)
	ctx := context.Background()

	userID := uuid.New()
	for i := 0; i < 3; i++ {
		_, err := repo.Create(ctx, model.MessageCreateRequest{
			UserID:       userID,
			Content:      "Test",
			PhoneNumbers: []string{"+15550001111"},
			Status:       model.MessageStatusSent,
		})
		require.NoError(t, err)
	}

	total, err := repo.Count(ctx, model.MessageFilter{UserID: &userID})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)

	all, err := repo.Count(ctx, model.MessageFilter{})
	require.NoError(t, err)
	assert.GreaterOrEqual(t, all, int64(3))
}
