package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/secondchance/secondchance-backend/api/responses"
	"github.com/secondchance/secondchance-backend/api/validators"
	"github.com/secondchance/secondchance-backend/internal/chats"
	pkgerrors "github.com/secondchance/secondchance-backend/pkg/errors"
	"github.com/secondchance/secondchance-backend/pkg/logger"
	"github.com/secondchance/secondchance-backend/pkg/pagination"
)

const (
	defaultChatsLimit    = 20
	defaultMessagesLimit = 50
)

type chatListResponse struct {
	Chats      []chats.ChatDTO `json:"chats"`
	Pagination pagination.Meta `json:"pagination"`
}

type messageListResponse struct {
	Messages   []chats.MessageDTO `json:"messages"`
	Pagination pagination.Meta    `json:"pagination"`
}

type createChatRequest struct {
	ItemID uuid.UUID `json:"item_id" validate:"required"`
}

type sendMessageRequest struct {
	Content string `json:"content" validate:"required"`
}

// MyChats lists the caller's conversations sorted by recent activity.
func MyChats(svc chats.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "chats service unavailable"))
			return
		}

		actorID, _, err := actorFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		params := pagination.FromRequest(r, defaultChatsLimit)
		page, meta, err := svc.ListMine(r.Context(), actorID, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, chatListResponse{Chats: page, Pagination: meta})
	}
}

// CreateChat opens (or returns) the caller's conversation about a listing.
func CreateChat(svc chats.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "chats service unavailable"))
			return
		}

		actorID, _, err := actorFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload createChatRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		chat, err := svc.Create(r.Context(), actorID, payload.ItemID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, chat)
	}
}

// ChatMessages pages a conversation oldest first and marks the counterparty
// messages as read.
func ChatMessages(svc chats.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "chats service unavailable"))
			return
		}

		actorID, _, err := actorFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		chatID, err := pathUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		params := pagination.FromRequest(r, defaultMessagesLimit)
		page, meta, err := svc.Messages(r.Context(), actorID, chatID, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, messageListResponse{Messages: page, Pagination: meta})
	}
}

func SendMessage(svc chats.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "chats service unavailable"))
			return
		}

		actorID, _, err := actorFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		chatID, err := pathUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload sendMessageRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		message, err := svc.Send(r.Context(), actorID, chatID, payload.Content)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, message)
	}
}
