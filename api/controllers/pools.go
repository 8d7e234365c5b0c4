package controllers

import (
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/flexbnb/flexbnb-backend/api/responses"
	"github.com/flexbnb/flexbnb-backend/api/validators"
	"github.com/flexbnb/flexbnb-backend/internal/pools"
	pkgerrors "github.com/flexbnb/flexbnb-backend/pkg/errors"
	"github.com/flexbnb/flexbnb-backend/pkg/logger"

	"github.com/google/uuid"
)

type joinPoolPayload struct {
	Message *string `json:"message,omitempty" validate:"omitempty,max=1000"`
}

// PoolCreate opens a new room pool owned by the caller.
func PoolCreate(svc pools.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		actorID, err := actorUUID(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var input pools.CreatePoolInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		pool, err := svc.Create(ctx, actorID, input)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, pool)
	}
}

// PoolDetail returns one pool with membership context for the viewer.
func PoolDetail(svc pools.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		poolID, err := pathUUID(r, "poolId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		viewerID := uuid.Nil
		if id, err := optionalActorUUID(r); err == nil && id != nil {
			viewerID = *id
		}

		pool, err := svc.Get(ctx, poolID, viewerID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, pool)
	}
}

// PoolDiscover lists open public pools, optionally filtered.
func PoolDiscover(svc pools.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		filters := pools.DiscoverFilters{
			Location: validators.SanitizeString(r.URL.Query().Get("location"), 255),
		}

		checkIn, err := queryDate(r, "check_in")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		filters.CheckIn = checkIn

		checkOut, err := queryDate(r, "check_out")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		filters.CheckOut = checkOut

		if raw := strings.TrimSpace(r.URL.Query().Get("max_price_per_person")); raw != "" {
			price, err := decimal.NewFromString(raw)
			if err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "max price must be numeric"))
				return
			}
			filters.MaxPricePerPerson = &price
		}

		if raw := strings.TrimSpace(r.URL.Query().Get("property_id")); raw != "" {
			propertyID, err := uuid.Parse(raw)
			if err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid property id"))
				return
			}
			filters.PropertyID = &propertyID
		}

		limit, err := validators.ParseQueryInt(r, "limit", 20, 1, 100)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		viewerID := uuid.Nil
		if id, err := optionalActorUUID(r); err == nil && id != nil {
			viewerID = *id
		}

		results, err := svc.Discover(ctx, filters, viewerID, limit)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"pools": results, "count": len(results)})
	}
}

// MyPools returns the caller's created, joined and pending pools.
func MyPools(svc pools.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		actorID, err := actorUUID(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		mine, err := svc.MyPools(ctx, actorID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, mine)
	}
}

// PoolJoin requests membership in a pool.
func PoolJoin(svc pools.Service, logg *logger.Logger) http.HandlerFunc {
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

		payload := joinPoolPayload{}
		if r.ContentLength > 0 {
			if err := validators.DecodeJSONBody(r, &payload); err != nil {
				responses.WriteError(ctx, logg, w, err)
				return
			}
		}

		result, err := svc.Join(ctx, poolID, actorID, payload.Message)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// PoolApproveMember approves a pending join request.
func PoolApproveMember(svc pools.Service, logg *logger.Logger) http.HandlerFunc {
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
		memberID, err := pathUUID(r, "memberId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		member, err := svc.ApproveMember(ctx, poolID, memberID, actorID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, member)
	}
}

// PoolRejectMember declines a pending join request.
func PoolRejectMember(svc pools.Service, logg *logger.Logger) http.HandlerFunc {
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
		memberID, err := pathUUID(r, "memberId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if err := svc.RejectMember(ctx, poolID, memberID, actorID); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "rejected"})
	}
}

// PoolLeave withdraws the caller from a pool.
func PoolLeave(svc pools.Service, logg *logger.Logger) http.HandlerFunc {
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

		if err := svc.Leave(ctx, poolID, actorID); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "left"})
	}
}

// PoolRemoveMember ejects an approved member. Creator only.
func PoolRemoveMember(svc pools.Service, logg *logger.Logger) http.HandlerFunc {
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
		memberID, err := pathUUID(r, "memberId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if err := svc.RemoveMember(ctx, poolID, memberID, actorID); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "removed"})
	}
}

// PoolCancel cancels an open pool. Creator only.
func PoolCancel(svc pools.Service, logg *logger.Logger) http.HandlerFunc {
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

		if err := svc.Cancel(ctx, poolID, actorID); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "cancelled"})
	}
}

// PoolFinalize converts a full, fully paid pool into a reservation.
func PoolFinalize(svc pools.Service, logg *logger.Logger) http.HandlerFunc {
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

		result, err := svc.Finalize(ctx, poolID, actorID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// PoolBookingStatus reports fill and payment progress toward booking.
func PoolBookingStatus(svc pools.Service, logg *logger.Logger) http.HandlerFunc {
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

		status, err := svc.BookingStatus(ctx, poolID, actorID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, status)
	}
}
