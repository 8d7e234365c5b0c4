package controllers

import (
	"net/http"

	"github.com/flexbnb/flexbnb-backend/api/responses"
	"github.com/flexbnb/flexbnb-backend/api/validators"
	"github.com/flexbnb/flexbnb-backend/internal/recommendations"
	"github.com/flexbnb/flexbnb-backend/pkg/logger"
)

// ItineraryGenerate builds and stores a day-by-day trip plan.
func ItineraryGenerate(svc recommendations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		actorID, err := actorUUID(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var input recommendations.GenerateItineraryInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		itinerary, err := svc.GenerateItinerary(ctx, actorID, input)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, itinerary)
	}
}

// ItinerariesList returns the caller's saved trip plans.
func ItinerariesList(svc recommendations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		actorID, err := actorUUID(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		itineraries, err := svc.MyItineraries(ctx, actorID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"itineraries": itineraries, "count": len(itineraries)})
	}
}

// ItineraryDelete removes one of the caller's trip plans.
func ItineraryDelete(svc recommendations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		actorID, err := actorUUID(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		itineraryID, err := pathUUID(r, "itineraryId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if err := svc.DeleteItinerary(ctx, actorID, itineraryID); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
