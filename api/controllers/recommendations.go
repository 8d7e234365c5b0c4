package controllers

import (
	"net/http"

	"github.com/flexbnb/flexbnb-backend/api/responses"
	"github.com/flexbnb/flexbnb-backend/api/validators"
	"github.com/flexbnb/flexbnb-backend/internal/recommendations"
	"github.com/flexbnb/flexbnb-backend/pkg/logger"
)

// RecommendationsFeed returns the personalized (or trending) feed. Works
// for anonymous sessions too.
func RecommendationsFeed(svc recommendations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		userID, err := optionalActorUUID(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		limit, err := validators.ParseQueryInt(r, "limit", 0, 0, 50)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		feed, err := svc.Recommendations(ctx, userID, sessionID(r), limit)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, feed)
	}
}

// PersonalizationScore reports how much behavioral signal the caller has
// accumulated.
func PersonalizationScore(svc recommendations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		actorID, err := actorUUID(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		score, err := svc.PersonalizationScore(ctx, actorID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"personalization_score": score})
	}
}

// PreferencesGet returns the caller's travel preferences.
func PreferencesGet(svc recommendations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		actorID, err := actorUUID(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		preferences, err := svc.Preferences(ctx, actorID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, preferences)
	}
}

// PreferencesUpdate saves travel preferences and regenerates the guest
// match set in the same request.
func PreferencesUpdate(svc recommendations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		actorID, err := actorUUID(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var input recommendations.UpdatePreferenceInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		preferences, matches, err := svc.UpdatePreferences(ctx, actorID, input)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"preferences": preferences, "matches": matches})
	}
}

// GuestMatchesList returns precomputed property matches, generating them
// when none are fresh.
func GuestMatchesList(svc recommendations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		actorID, err := actorUUID(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		matches, err := svc.GuestMatches(ctx, actorID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, matches)
	}
}

// PropertyPricing returns demand and price guidance for a listing.
func PropertyPricing(svc recommendations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		propertyID, err := pathUUID(r, "propertyId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		checkIn, err := queryDate(r, "check_in")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		insight, err := svc.PropertyPricing(ctx, propertyID, checkIn)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, insight)
	}
}

// LocationPricing returns aggregate price guidance for a destination.
func LocationPricing(svc recommendations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		location := validators.SanitizeString(r.URL.Query().Get("location"), 255)

		insight, err := svc.LocationPricing(ctx, location)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, insight)
	}
}

// TrackSearch records a search signal for personalization.
func TrackSearch(svc recommendations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		userID, err := optionalActorUUID(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var input recommendations.TrackSearchInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		if input.SessionID == nil {
			if sid := sessionID(r); sid != "" {
				input.SessionID = &sid
			}
		}

		if err := svc.TrackSearch(ctx, userID, input); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusAccepted, map[string]string{"status": "recorded"})
	}
}

// TrackView records a listing view signal.
func TrackView(svc recommendations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		userID, err := optionalActorUUID(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var input recommendations.TrackViewInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		if input.SessionID == nil {
			if sid := sessionID(r); sid != "" {
				input.SessionID = &sid
			}
		}

		if err := svc.TrackView(ctx, userID, input); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusAccepted, map[string]string{"status": "recorded"})
	}
}
