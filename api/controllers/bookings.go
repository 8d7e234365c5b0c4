package controllers

import (
	"net/http"
	"strings"

	"github.com/flexbnb/flexbnb-backend/api/responses"
	"github.com/flexbnb/flexbnb-backend/api/validators"
	"github.com/flexbnb/flexbnb-backend/internal/bookings"
	"github.com/flexbnb/flexbnb-backend/pkg/enums"
	pkgerrors "github.com/flexbnb/flexbnb-backend/pkg/errors"
	"github.com/flexbnb/flexbnb-backend/pkg/logger"
)

type updateReservationStatusPayload struct {
	Status string `json:"status" validate:"required"`
}

type sendMessagePayload struct {
	ReservationID string `json:"reservation_id" validate:"required,uuid"`
	Body          string `json:"body" validate:"required,max=4000"`
}

func queryReservationStatus(r *http.Request) (*enums.ReservationStatus, error) {
	raw := strings.TrimSpace(r.URL.Query().Get("status"))
	if raw == "" {
		return nil, nil
	}
	status := enums.ReservationStatus(raw)
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown reservation status").WithDetails(map[string]any{"field": "status"})
	}
	return &status, nil
}

// ReservationCreate books a stay for the caller.
func ReservationCreate(svc bookings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		actorID, err := actorUUID(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var input bookings.CreateReservationInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		reservation, err := svc.CreateReservation(ctx, actorID, input)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, reservation)
	}
}

// GuestReservations lists the caller's stays, optionally by status.
func GuestReservations(svc bookings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		actorID, err := actorUUID(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		status, err := queryReservationStatus(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		reservations, err := svc.GuestReservations(ctx, actorID, status)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"reservations": reservations, "count": len(reservations)})
	}
}

// HostReservations lists reservations against the host's listings.
func HostReservations(svc bookings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		actorID, err := actorUUID(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		status, err := queryReservationStatus(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		reservations, err := svc.HostReservations(ctx, actorID, status)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"reservations": reservations, "count": len(reservations)})
	}
}

// ReservationUpdateStatus moves a reservation through its lifecycle.
// Host only.
func ReservationUpdateStatus(svc bookings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		actorID, err := actorUUID(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		reservationID, err := pathUUID(r, "reservationId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var payload updateReservationStatusPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		status := enums.ReservationStatus(payload.Status)
		if !status.IsValid() {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "unknown reservation status"))
			return
		}

		reservation, err := svc.UpdateReservationStatus(ctx, actorID, reservationID, status)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, reservation)
	}
}

// HostDashboardStats aggregates a host's earnings, ratings and counts.
func HostDashboardStats(svc bookings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		actorID, err := actorUUID(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		stats, err := svc.DashboardStats(ctx, actorID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, stats)
	}
}

// HostEarnings lists earning entries, optionally windowed by date.
func HostEarnings(svc bookings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		actorID, err := actorUUID(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		from, err := queryDate(r, "from")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		to, err := queryDate(r, "to")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		earnings, err := svc.HostEarnings(ctx, actorID, from, to)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"earnings": earnings, "count": len(earnings)})
	}
}

// MessageSend posts a message on a reservation thread.
func MessageSend(svc bookings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		actorID, err := actorUUID(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var payload sendMessagePayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		reservationID, err := parseUUIDField(payload.ReservationID, "reservation_id")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		message, err := svc.SendMessage(ctx, actorID, reservationID, payload.Body)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, message)
	}
}

// MessagesList returns the caller's reservation message feed.
func MessagesList(svc bookings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		actorID, err := actorUUID(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		limit, err := validators.ParseQueryInt(r, "limit", 50, 1, 200)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		messages, err := svc.ListMessages(ctx, actorID, limit)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"messages": messages, "count": len(messages)})
	}
}
