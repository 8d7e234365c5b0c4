package controllers

import (
	"net/http"

	"github.com/flexbnb/flexbnb-backend/api/responses"
	"github.com/flexbnb/flexbnb-backend/api/validators"
	"github.com/flexbnb/flexbnb-backend/internal/recommendations"
	"github.com/flexbnb/flexbnb-backend/pkg/logger"
)

// ChatbotMessage handles one turn of the travel assistant conversation.
// Anonymous sessions are keyed by the session id the client supplies.
func ChatbotMessage(svc recommendations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		userID, err := optionalActorUUID(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var input recommendations.ChatInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		if input.SessionID == nil {
			if sid := sessionID(r); sid != "" {
				input.SessionID = &sid
			}
		}

		reply, err := svc.Chat(ctx, userID, input)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, reply)
	}
}
