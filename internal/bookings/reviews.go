package bookings

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/flexbnb/flexbnb-backend/pkg/db/models"
	"github.com/flexbnb/flexbnb-backend/pkg/enums"
	pkgerrors "github.com/flexbnb/flexbnb-backend/pkg/errors"
)

// Promotional or contact-sharing fragments that disqualify a review.
var bannedReviewFragments = []string{
	"http://", "https://", "www.", "contact me", "whatsapp", "telegram",
}

const minReviewCommentLength = 10

// screenReviewComment trims the comment and applies the moderation
// heuristics shared by property and guest reviews.
func screenReviewComment(comment string, enforceMinLength bool) (string, error) {
	text := strings.TrimSpace(comment)
	lowered := strings.ToLower(text)
	for _, fragment := range bannedReviewFragments {
		if strings.Contains(lowered, fragment) {
			return "", pkgerrors.New(pkgerrors.CodeValidation,
				"review appears to contain promotional or external contact content")
		}
	}
	if enforceMinLength && len(text) > 0 && len(text) < minReviewCommentLength {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "please provide a bit more detail in your feedback")
	}
	return text, nil
}

// reviewEligible reports whether a stay can be reviewed: the stay is
// completed, or approved with the check-out date reached.
func reviewEligible(reservation *models.Reservation, now time.Time) bool {
	if reservation.Status == enums.ReservationStatusCompleted {
		return true
	}
	return reservation.Status == enums.ReservationStatusApproved && !reservation.CheckOut.After(now)
}

// SubmitPropertyReview records a guest's review of a completed stay.
// One review per reservation.
func (s *service) SubmitPropertyReview(ctx context.Context, guestID uuid.UUID, input SubmitReviewInput) (PropertyReviewDTO, error) {
	if guestID == uuid.Nil {
		return PropertyReviewDTO{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if input.Rating < 1 || input.Rating > 5 {
		return PropertyReviewDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "rating must be between 1 and 5")
	}
	comment, err := screenReviewComment(input.Comment, true)
	if err != nil {
		return PropertyReviewDTO{}, err
	}

	reservation, err := s.repo.FindReservation(ctx, input.ReservationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return PropertyReviewDTO{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "reservation not found")
		}
		return PropertyReviewDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load reservation")
	}
	if reservation.GuestID != guestID {
		return PropertyReviewDTO{}, pkgerrors.New(pkgerrors.CodeForbidden, "not authorized to review this reservation")
	}
	if !reviewEligible(reservation, time.Now()) {
		return PropertyReviewDTO{}, pkgerrors.New(pkgerrors.CodeValidation,
			"you can only review after the stay is completed or on/past the check-out date")
	}

	exists, err := s.repo.HasPropertyReview(ctx, reservation.ID)
	if err != nil {
		return PropertyReviewDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check existing review")
	}
	if exists {
		return PropertyReviewDTO{}, pkgerrors.New(pkgerrors.CodeConflict, "you have already submitted a review for this stay")
	}

	review := &models.PropertyReview{
		ID:            uuid.New(),
		PropertyID:    reservation.PropertyID,
		ReservationID: reservation.ID,
		GuestID:       guestID,
		Rating:        input.Rating,
		Comment:       comment,
	}
	if err := s.repo.CreatePropertyReview(ctx, review); err != nil {
		return PropertyReviewDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create review")
	}
	return toPropertyReviewDTO(*review), nil
}

// PropertyReviews is the public paginated listing for one property.
func (s *service) PropertyReviews(ctx context.Context, propertyID uuid.UUID, page, pageSize int) (ReviewPageDTO, error) {
	page, pageSize = normalizeReviewPage(page, pageSize)

	reviews, total, err := s.repo.ListPropertyReviews(ctx, propertyID, (page-1)*pageSize, pageSize)
	if err != nil {
		return ReviewPageDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list reviews")
	}
	return buildReviewPage(reviews, total, page, pageSize), nil
}

// HostPropertyReviews lists reviews across all of the host's listings.
func (s *service) HostPropertyReviews(ctx context.Context, hostID uuid.UUID, page, pageSize int) (ReviewPageDTO, error) {
	if hostID == uuid.Nil {
		return ReviewPageDTO{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	page, pageSize = normalizeReviewPage(page, pageSize)

	reviews, total, err := s.repo.ListPropertyReviewsByHost(ctx, hostID, (page-1)*pageSize, pageSize)
	if err != nil {
		return ReviewPageDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list host reviews")
	}
	return buildReviewPage(reviews, total, page, pageSize), nil
}

// SubmitGuestReview records a host's review of a guest after a stay.
func (s *service) SubmitGuestReview(ctx context.Context, hostID uuid.UUID, input SubmitReviewInput) (GuestReviewDTO, error) {
	if hostID == uuid.Nil {
		return GuestReviewDTO{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if input.Rating < 1 || input.Rating > 5 {
		return GuestReviewDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "rating must be between 1 and 5")
	}
	comment, err := screenReviewComment(input.Comment, false)
	if err != nil {
		return GuestReviewDTO{}, err
	}

	reservation, _, err := s.loadHostReservation(ctx, s.repo, hostID, input.ReservationID)
	if err != nil {
		return GuestReviewDTO{}, err
	}
	if !reviewEligible(reservation, time.Now()) {
		return GuestReviewDTO{}, pkgerrors.New(pkgerrors.CodeValidation,
			"you can only review after the stay is completed or on/past the check-out date")
	}

	exists, err := s.repo.HasGuestReview(ctx, reservation.ID)
	if err != nil {
		return GuestReviewDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check existing guest review")
	}
	if exists {
		return GuestReviewDTO{}, pkgerrors.New(pkgerrors.CodeConflict, "you have already submitted a guest review for this stay")
	}

	review := &models.GuestReview{
		ID:            uuid.New(),
		GuestID:       reservation.GuestID,
		HostID:        hostID,
		ReservationID: reservation.ID,
		Rating:        input.Rating,
		Comment:       comment,
	}
	if err := s.repo.CreateGuestReview(ctx, review); err != nil {
		return GuestReviewDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create guest review")
	}
	return toGuestReviewDTO(*review), nil
}

// GuestReviews lists guest reviews the caller gave (as host) or
// received (as guest).
func (s *service) GuestReviews(ctx context.Context, userID uuid.UUID, received bool) ([]GuestReviewDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	var reviews []models.GuestReview
	var err error
	if received {
		reviews, err = s.repo.ListGuestReviewsReceived(ctx, userID)
	} else {
		reviews, err = s.repo.ListGuestReviewsGiven(ctx, userID)
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list guest reviews")
	}

	dtos := make([]GuestReviewDTO, 0, len(reviews))
	for _, review := range reviews {
		dtos = append(dtos, toGuestReviewDTO(review))
	}
	return dtos, nil
}

// CanReviewProperty answers the eligibility probe with the reservation
// a review should attach to.
func (s *service) CanReviewProperty(ctx context.Context, guestID, propertyID uuid.UUID) (CanReviewDTO, error) {
	if guestID == uuid.Nil {
		return CanReviewDTO{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	if _, err := s.repo.FindProperty(ctx, propertyID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return CanReviewDTO{CanReview: false, Reason: "property not found"}, nil
		}
		return CanReviewDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load property")
	}

	reservation, err := s.repo.FindEligibleReviewReservation(ctx, guestID, propertyID, time.Now())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return CanReviewDTO{CanReview: false, Reason: "no eligible stay found"}, nil
		}
		return CanReviewDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find eligible stay")
	}

	return CanReviewDTO{CanReview: true, ReservationID: &reservation.ID}, nil
}

func normalizeReviewPage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 10
	}
	return page, pageSize
}

func buildReviewPage(reviews []models.PropertyReview, total int64, page, pageSize int) ReviewPageDTO {
	results := make([]PropertyReviewDTO, 0, len(reviews))
	for _, review := range reviews {
		results = append(results, toPropertyReviewDTO(review))
	}
	return ReviewPageDTO{
		Count:    total,
		Page:     page,
		PageSize: pageSize,
		Results:  results,
	}
}
