package controllers

import (
	"net/http"

	"github.com/flexbnb/flexbnb-backend/api/responses"
	"github.com/flexbnb/flexbnb-backend/api/validators"
	"github.com/flexbnb/flexbnb-backend/internal/pools"
	"github.com/flexbnb/flexbnb-backend/pkg/logger"
)

// PoolCostSplit returns the current split with per-member shares.
func PoolCostSplit(svc pools.Service, logg *logger.Logger) http.HandlerFunc {
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

		split, err := svc.GetCostSplit(ctx, poolID, actorID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, split)
	}
}

// PoolConfigureCostSplit switches the split strategy and recomputes shares.
func PoolConfigureCostSplit(svc pools.Service, logg *logger.Logger) http.HandlerFunc {
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

		var input pools.ConfigureSplitInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		split, err := svc.ConfigureCostSplit(ctx, poolID, actorID, input)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, split)
	}
}

// CostCalculator previews a split without touching any pool.
func CostCalculator(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var input pools.SplitPreviewInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		result, err := pools.PreviewSplit(input)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
