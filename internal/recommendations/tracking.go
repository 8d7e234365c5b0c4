package recommendations

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/flexbnb/flexbnb-backend/pkg/db/models"
	pkgerrors "github.com/flexbnb/flexbnb-backend/pkg/errors"
)

// TrackSearch records one search event. Anonymous callers are keyed by
// session id; events with neither identity are dropped.
func (s *service) TrackSearch(ctx context.Context, userID *uuid.UUID, input TrackSearchInput) error {
	if userID == nil && emptySession(input.SessionID) {
		return pkgerrors.New(pkgerrors.CodeValidation, "session id is required for anonymous tracking")
	}

	guests := input.GuestsCount
	if guests < 0 {
		guests = 0
	}
	search := &models.SearchHistory{
		ID:          uuid.New(),
		UserID:      userID,
		SessionID:   input.SessionID,
		Location:    strings.TrimSpace(input.Location),
		Category:    strings.TrimSpace(input.Category),
		GuestsCount: guests,
		CheckIn:     input.CheckIn,
		CheckOut:    input.CheckOut,
	}
	if err := s.repo.CreateSearch(ctx, search); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record search")
	}
	return nil
}

// TrackView records one listing view after verifying the listing exists.
func (s *service) TrackView(ctx context.Context, userID *uuid.UUID, input TrackViewInput) error {
	if input.PropertyID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "property id is required")
	}
	if userID == nil && emptySession(input.SessionID) {
		return pkgerrors.New(pkgerrors.CodeValidation, "session id is required for anonymous tracking")
	}

	if _, err := s.repo.FindProperty(ctx, input.PropertyID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "property not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load property")
	}

	view := &models.PropertyView{
		ID:         uuid.New(),
		UserID:     userID,
		SessionID:  input.SessionID,
		PropertyID: input.PropertyID,
	}
	if err := s.repo.CreateView(ctx, view); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record view")
	}
	return nil
}

func emptySession(sessionID *string) bool {
	return sessionID == nil || strings.TrimSpace(*sessionID) == ""
}
