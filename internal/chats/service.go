package chats

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/secondchance/secondchance-backend/pkg/db/models"
	"github.com/secondchance/secondchance-backend/pkg/enums"
	pkgerrors "github.com/secondchance/secondchance-backend/pkg/errors"
	"github.com/secondchance/secondchance-backend/pkg/pagination"
)

// MaxMessageLen caps a single chat message.
const MaxMessageLen = 1000

type itemFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Item, error)
}

// Service exposes buyer-seller conversation operations.
type Service interface {
	ListMine(ctx context.Context, userID uuid.UUID, params pagination.Params) ([]ChatDTO, pagination.Meta, error)
	Create(ctx context.Context, buyerID, itemID uuid.UUID) (*ChatDTO, error)
	Messages(ctx context.Context, actorID, chatID uuid.UUID, params pagination.Params) ([]MessageDTO, pagination.Meta, error)
	Send(ctx context.Context, actorID, chatID uuid.UUID, content string) (*MessageDTO, error)
}

type service struct {
	repo  Repository
	items itemFinder
	now   func() time.Time
}

// NewService builds a chats service with the required dependencies.
func NewService(repo Repository, items itemFinder) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("chats repository required")
	}
	if items == nil {
		return nil, fmt.Errorf("item finder required")
	}
	return &service{repo: repo, items: items, now: time.Now}, nil
}

func (s *service) ListMine(ctx context.Context, userID uuid.UUID, params pagination.Params) ([]ChatDTO, pagination.Meta, error) {
	metas, total, err := s.repo.ListByParticipant(ctx, userID, params)
	if err != nil {
		return nil, pagination.Meta{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list chats")
	}

	out := make([]ChatDTO, 0, len(metas))
	for i := range metas {
		out = append(out, *chatFromMeta(&metas[i]))
	}
	return out, params.MetaFor(total), nil
}

// Create opens a conversation about a listing, reusing the existing one
// when the buyer already started it.
func (s *service) Create(ctx context.Context, buyerID, itemID uuid.UUID) (*ChatDTO, error) {
	item, err := s.items.FindByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "verify item")
	}
	if item.SellerID == buyerID {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cannot open a chat about your own listing")
	}

	existing, err := s.repo.FindChatByItemAndBuyer(ctx, itemID, buyerID)
	if err == nil {
		return chatFromModel(existing), nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "look up chat")
	}

	chat := &models.Chat{
		ItemID:   itemID,
		BuyerID:  buyerID,
		SellerID: item.SellerID,
		Status:   enums.ChatActive,
	}
	if err := s.repo.CreateChat(ctx, chat); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create chat")
	}
	return chatFromModel(chat), nil
}

// Messages returns the transcript oldest first and marks the counterparty's
// messages as read for the caller.
func (s *service) Messages(ctx context.Context, actorID, chatID uuid.UUID, params pagination.Params) ([]MessageDTO, pagination.Meta, error) {
	chat, err := s.loadParticipantChat(ctx, actorID, chatID)
	if err != nil {
		return nil, pagination.Meta{}, err
	}

	rows, total, err := s.repo.ListMessages(ctx, chat.ID, params)
	if err != nil {
		return nil, pagination.Meta{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list messages")
	}

	if err := s.repo.MarkMessagesRead(ctx, chat.ID, actorID); err != nil {
		return nil, pagination.Meta{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark messages read")
	}
	return messagesFromModels(rows), params.MetaFor(total), nil
}

func (s *service) Send(ctx context.Context, actorID, chatID uuid.UUID, content string) (*MessageDTO, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "message content is required")
	}
	if utf8.RuneCountInString(content) > MaxMessageLen {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "message exceeds 1000 characters")
	}

	chat, err := s.loadParticipantChat(ctx, actorID, chatID)
	if err != nil {
		return nil, err
	}
	if chat.Status == enums.ChatClosed {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "chat is closed")
	}

	senderType := enums.SenderBuyer
	if actorID == chat.SellerID {
		senderType = enums.SenderSeller
	}

	message := &models.Message{
		ChatID:     chat.ID,
		SenderID:   actorID,
		SenderType: senderType,
		Content:    content,
	}
	if err := s.repo.CreateMessage(ctx, message); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create message")
	}
	if err := s.repo.TouchChat(ctx, chat.ID, s.now()); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "bump chat activity")
	}
	return messageFromModel(message), nil
}

func (s *service) loadParticipantChat(ctx context.Context, actorID, chatID uuid.UUID) (*models.Chat, error) {
	chat, err := s.repo.FindChat(ctx, chatID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "chat not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load chat")
	}
	if chat.BuyerID != actorID && chat.SellerID != actorID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "chat belongs to other participants")
	}
	return chat, nil
}
