package chats

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/secondchance/secondchance-backend/pkg/db/models"
	"github.com/secondchance/secondchance-backend/pkg/pagination"
)

// memoryRepository is a mutex-guarded stand-in for the database-backed chat
// store, used in development when the chat feature flag selects it. It keeps
// the gorm.ErrRecordNotFound contract so the service treats both the same.
type memoryRepository struct {
	mu       sync.RWMutex
	chats    map[uuid.UUID]*models.Chat
	messages map[uuid.UUID][]*models.Message
}

// NewMemoryRepository builds the in-memory chat repository.
func NewMemoryRepository() Repository {
	return &memoryRepository{
		chats:    map[uuid.UUID]*models.Chat{},
		messages: map[uuid.UUID][]*models.Message{},
	}
}

func (r *memoryRepository) FindChat(ctx context.Context, id uuid.UUID) (*models.Chat, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	chat, ok := r.chats[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *chat
	return &copied, nil
}

func (r *memoryRepository) FindChatByItemAndBuyer(ctx context.Context, itemID, buyerID uuid.UUID) (*models.Chat, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, chat := range r.chats {
		if chat.ItemID == itemID && chat.BuyerID == buyerID {
			copied := *chat
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memoryRepository) CreateChat(ctx context.Context, chat *models.Chat) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if chat.ID == uuid.Nil {
		chat.ID = uuid.New()
	}
	if chat.CreatedAt.IsZero() {
		chat.CreatedAt = time.Now()
	}
	copied := *chat
	r.chats[chat.ID] = &copied
	return nil
}

func (r *memoryRepository) ListByParticipant(ctx context.Context, userID uuid.UUID, params pagination.Params) ([]ChatWithMeta, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	metas := make([]ChatWithMeta, 0)
	for _, chat := range r.chats {
		if chat.BuyerID != userID && chat.SellerID != userID {
			continue
		}
		meta := ChatWithMeta{Chat: *chat}
		transcript := r.messages[chat.ID]
		if len(transcript) > 0 {
			last := *transcript[len(transcript)-1]
			meta.LastMessage = &last
		}
		for _, msg := range transcript {
			if msg.SenderID != userID && !msg.IsRead {
				meta.UnreadCount++
			}
		}
		metas = append(metas, meta)
	}

	sort.Slice(metas, func(i, j int) bool {
		return activityOf(&metas[i].Chat).After(activityOf(&metas[j].Chat))
	})

	total := int64(len(metas))
	start := params.Offset()
	if start >= len(metas) {
		return []ChatWithMeta{}, total, nil
	}
	end := start + params.Limit
	if end > len(metas) {
		end = len(metas)
	}
	return metas[start:end], total, nil
}

func activityOf(chat *models.Chat) time.Time {
	if chat.LastMessageAt != nil {
		return *chat.LastMessageAt
	}
	return chat.CreatedAt
}

func (r *memoryRepository) ListMessages(ctx context.Context, chatID uuid.UUID, params pagination.Params) ([]models.Message, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	transcript := r.messages[chatID]
	total := int64(len(transcript))
	start := params.Offset()
	if start >= len(transcript) {
		return []models.Message{}, total, nil
	}
	end := start + params.Limit
	if end > len(transcript) {
		end = len(transcript)
	}

	out := make([]models.Message, 0, end-start)
	for _, msg := range transcript[start:end] {
		out = append(out, *msg)
	}
	return out, total, nil
}

func (r *memoryRepository) CreateMessage(ctx context.Context, message *models.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if message.ID == uuid.Nil {
		message.ID = uuid.New()
	}
	if message.CreatedAt.IsZero() {
		message.CreatedAt = time.Now()
	}
	copied := *message
	r.messages[message.ChatID] = append(r.messages[message.ChatID], &copied)
	return nil
}

func (r *memoryRepository) TouchChat(ctx context.Context, chatID uuid.UUID, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if chat, ok := r.chats[chatID]; ok {
		chat.LastMessageAt = &at
	}
	return nil
}

func (r *memoryRepository) MarkMessagesRead(ctx context.Context, chatID, readerID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, msg := range r.messages[chatID] {
		if msg.SenderID != readerID {
			msg.IsRead = true
		}
	}
	return nil
}

func (r *memoryRepository) CountAll(ctx context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return int64(len(r.chats)), nil
}
