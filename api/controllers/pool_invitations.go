package controllers

import (
	"net/http"

	"github.com/flexbnb/flexbnb-backend/api/responses"
	"github.com/flexbnb/flexbnb-backend/api/validators"
	"github.com/flexbnb/flexbnb-backend/internal/pools"
	"github.com/flexbnb/flexbnb-backend/pkg/logger"
)

type invitePayload struct {
	Email   string  `json:"email" validate:"required,email"`
	Message *string `json:"message,omitempty" validate:"omitempty,max=1000"`
}

type respondInvitationPayload struct {
	Accept bool `json:"accept"`
}

// PoolInvite sends an email invitation to join a pool.
func PoolInvite(svc pools.Service, logg *logger.Logger) http.HandlerFunc {
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

		var payload invitePayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		invitation, err := svc.Invite(ctx, poolID, actorID, payload.Email, payload.Message)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, invitation)
	}
}

// InvitationRespond accepts or declines a pending invitation.
func InvitationRespond(svc pools.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		actorID, err := actorUUID(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		invitationID, err := pathUUID(r, "invitationId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var payload respondInvitationPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		invitation, err := svc.RespondInvitation(ctx, invitationID, actorID, payload.Accept)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, invitation)
	}
}

// MyInvitations lists the caller's pending invitations.
func MyInvitations(svc pools.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		actorID, err := actorUUID(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		invitations, err := svc.MyInvitations(ctx, actorID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"invitations": invitations, "count": len(invitations)})
	}
}
