package controllers

import (
	"net/http"

	"github.com/flexbnb/flexbnb-backend/api/responses"
	"github.com/flexbnb/flexbnb-backend/api/validators"
	"github.com/flexbnb/flexbnb-backend/internal/pools"
	"github.com/flexbnb/flexbnb-backend/pkg/logger"
)

// PoolRecordPayment books a member payment against their share.
func PoolRecordPayment(svc pools.Service, logg *logger.Logger) http.HandlerFunc {
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

		var input pools.RecordPaymentInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		txn, err := svc.RecordPayment(ctx, poolID, actorID, input)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, txn)
	}
}

// PoolPayments lists the pool's payment transactions for members.
func PoolPayments(svc pools.Service, logg *logger.Logger) http.HandlerFunc {
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

		transactions, err := svc.ListPayments(ctx, poolID, actorID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"transactions": transactions, "count": len(transactions)})
	}
}
