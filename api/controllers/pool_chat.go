package controllers

import (
	"net/http"

	"github.com/flexbnb/flexbnb-backend/api/responses"
	"github.com/flexbnb/flexbnb-backend/api/validators"
	"github.com/flexbnb/flexbnb-backend/internal/pools"
	"github.com/flexbnb/flexbnb-backend/pkg/logger"
)

type postMessagePayload struct {
	Body string `json:"body" validate:"required,max=4000"`
}

// PoolMessages returns the chat history for members.
func PoolMessages(svc pools.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		actorID, err := actorUUID(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		poolID, err := pathUUID(r, "poolId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		limit, err := validators.ParseQueryInt(r, "limit", 50, 1, 200)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		messages, err := svc.ListMessages(ctx, poolID, actorID, limit)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"messages": messages, "count": len(messages)})
	}
}

// PoolPostMessage appends a chat message from an approved member.
func PoolPostMessage(svc pools.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		actorID, err := actorUUID(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		poolID, err := pathUUID(r, "poolId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var payload postMessagePayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		message, err := svc.PostMessage(ctx, poolID, actorID, payload.Body)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, message)
	}
}

// PoolMarkMessagesRead marks the pool chat as read for the caller.
func PoolMarkMessagesRead(svc pools.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		actorID, err := actorUUID(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		poolID, err := pathUUID(r, "poolId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if err := svc.MarkMessagesRead(ctx, poolID, actorID); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "read"})
	}
}
