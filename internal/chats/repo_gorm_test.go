package chats

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/secondchance/secondchance-backend/pkg/db/models"
	"github.com/secondchance/secondchance-backend/pkg/enums"
	"github.com/secondchance/secondchance-backend/pkg/pagination"
)

func setupChatsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	// A named in-memory database keeps the schema visible across pooled
	// connections without sharing state between tests.
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	items := `
CREATE TABLE IF NOT EXISTS items (
  id TEXT PRIMARY KEY,
  seller_id TEXT NOT NULL,
  category_id TEXT NOT NULL,
  title TEXT NOT NULL,
  description TEXT NOT NULL,
  price NUMERIC NOT NULL,
  condition_type TEXT NOT NULL,
  is_available INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`
	chats := `
CREATE TABLE IF NOT EXISTS chats (
  id TEXT PRIMARY KEY,
  item_id TEXT NOT NULL,
  buyer_id TEXT NOT NULL,
  seller_id TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'active',
  last_message_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME,
  CONSTRAINT idx_chats_item_buyer UNIQUE (item_id, buyer_id)
);`
	messages := `
CREATE TABLE IF NOT EXISTS messages (
  id TEXT PRIMARY KEY,
  chat_id TEXT NOT NULL,
  sender_id TEXT NOT NULL,
  sender_type TEXT NOT NULL,
  content TEXT NOT NULL,
  is_read INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME
);`
	require.NoError(t, conn.Exec(items).Error)
	require.NoError(t, conn.Exec(chats).Error)
	require.NoError(t, conn.Exec(messages).Error)
	return conn
}

func seedChat(t *testing.T, conn *gorm.DB, buyerID, sellerID uuid.UUID, created time.Time) *models.Chat {
	t.Helper()

	chat := &models.Chat{
		ItemID:    uuid.New(),
		BuyerID:   buyerID,
		SellerID:  sellerID,
		Status:    enums.ChatActive,
		CreatedAt: created,
		UpdatedAt: created,
	}
	require.NoError(t, conn.Create(chat).Error)
	return chat
}

func seedMessage(t *testing.T, conn *gorm.DB, chat *models.Chat, senderID uuid.UUID, content string, created time.Time) *models.Message {
	t.Helper()

	senderType := enums.SenderBuyer
	if senderID == chat.SellerID {
		senderType = enums.SenderSeller
	}
	msg := &models.Message{
		ChatID:     chat.ID,
		SenderID:   senderID,
		SenderType: senderType,
		Content:    content,
		CreatedAt:  created,
	}
	require.NoError(t, conn.Create(msg).Error)
	return msg
}

func TestListByParticipantSortsByActivity(t *testing.T) {
	conn := setupChatsTestDB(t)
	repo := NewGormRepository(conn)
	ctx := context.Background()

	user := uuid.New()
	base := time.Now().Add(-2 * time.Hour)

	stale := seedChat(t, conn, user, uuid.New(), base)
	busy := seedChat(t, conn, user, uuid.New(), base.Add(-time.Hour))
	seedChat(t, conn, uuid.New(), uuid.New(), base) // not ours

	// The older chat got a recent message, so it sorts first.
	seedMessage(t, conn, busy, busy.SellerID, "ping", base.Add(90*time.Minute))
	require.NoError(t, repo.TouchChat(ctx, busy.ID, base.Add(90*time.Minute)))

	metas, total, err := repo.ListByParticipant(ctx, user, pagination.Params{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, metas, 2)
	assert.Equal(t, busy.ID, metas[0].Chat.ID)
	assert.Equal(t, stale.ID, metas[1].Chat.ID)

	require.NotNil(t, metas[0].LastMessage)
	assert.Equal(t, "ping", metas[0].LastMessage.Content)
	assert.Equal(t, int64(1), metas[0].UnreadCount)
	assert.Nil(t, metas[1].LastMessage)
	assert.Zero(t, metas[1].UnreadCount)
}

func TestMarkMessagesReadOnlyTouchesCounterparty(t *testing.T) {
	conn := setupChatsTestDB(t)
	repo := NewGormRepository(conn)
	ctx := context.Background()

	buyer := uuid.New()
	seller := uuid.New()
	chat := seedChat(t, conn, buyer, seller, time.Now().Add(-time.Hour))

	mine := seedMessage(t, conn, chat, buyer, "hi", time.Now().Add(-30*time.Minute))
	theirs := seedMessage(t, conn, chat, seller, "hello", time.Now().Add(-20*time.Minute))

	require.NoError(t, repo.MarkMessagesRead(ctx, chat.ID, buyer))

	var refreshed models.Message
	require.NoError(t, conn.First(&refreshed, "id = ?", theirs.ID).Error)
	assert.True(t, refreshed.IsRead)

	require.NoError(t, conn.First(&refreshed, "id = ?", mine.ID).Error)
	assert.False(t, refreshed.IsRead, "own messages stay untouched")
}

func TestFindChatByItemAndBuyer(t *testing.T) {
	conn := setupChatsTestDB(t)
	repo := NewGormRepository(conn)
	ctx := context.Background()

	buyer := uuid.New()
	chat := seedChat(t, conn, buyer, uuid.New(), time.Now())

	found, err := repo.FindChatByItemAndBuyer(ctx, chat.ItemID, buyer)
	require.NoError(t, err)
	assert.Equal(t, chat.ID, found.ID)

	_, err = repo.FindChatByItemAndBuyer(ctx, chat.ItemID, uuid.New())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
