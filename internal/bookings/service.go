package bookings

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/flexbnb/flexbnb-backend/pkg/config"
	"github.com/flexbnb/flexbnb-backend/pkg/db/models"
	"github.com/flexbnb/flexbnb-backend/pkg/enums"
	pkgerrors "github.com/flexbnb/flexbnb-backend/pkg/errors"
)

// ServiceParams groups dependencies for the bookings service.
type ServiceParams struct {
	Repo    Repository
	Tx      txRunner
	Booking config.BookingConfig
}

// Service exposes reservations, host operations and reviews.
type Service interface {
	CreateReservation(ctx context.Context, guestID uuid.UUID, input CreateReservationInput) (ReservationDTO, error)
	GuestReservations(ctx context.Context, guestID uuid.UUID, status *enums.ReservationStatus) ([]ReservationDTO, error)
	HostReservations(ctx context.Context, hostID uuid.UUID, status *enums.ReservationStatus) ([]ReservationDTO, error)
	UpdateReservationStatus(ctx context.Context, hostID, reservationID uuid.UUID, status enums.ReservationStatus) (ReservationDTO, error)

	DashboardStats(ctx context.Context, hostID uuid.UUID) (DashboardStatsDTO, error)
	HostEarnings(ctx context.Context, hostID uuid.UUID, from, to *time.Time) ([]EarningDTO, error)

	SendMessage(ctx context.Context, actorID, reservationID uuid.UUID, body string) (HostMessageDTO, error)
	ListMessages(ctx context.Context, userID uuid.UUID, limit int) ([]HostMessageDTO, error)

	SubmitPropertyReview(ctx context.Context, guestID uuid.UUID, input SubmitReviewInput) (PropertyReviewDTO, error)
	PropertyReviews(ctx context.Context, propertyID uuid.UUID, page, pageSize int) (ReviewPageDTO, error)
	HostPropertyReviews(ctx context.Context, hostID uuid.UUID, page, pageSize int) (ReviewPageDTO, error)
	SubmitGuestReview(ctx context.Context, hostID uuid.UUID, input SubmitReviewInput) (GuestReviewDTO, error)
	GuestReviews(ctx context.Context, userID uuid.UUID, received bool) ([]GuestReviewDTO, error)
	CanReviewProperty(ctx context.Context, guestID, propertyID uuid.UUID) (CanReviewDTO, error)
}

type service struct {
	repo    Repository
	tx      txRunner
	booking config.BookingConfig
}

// NewService builds a bookings service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "bookings repo is required")
	}
	if params.Tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "transaction runner is required")
	}
	return &service{
		repo:    params.Repo,
		tx:      params.Tx,
		booking: params.Booking,
	}, nil
}

// CreateReservation books a stay. When no price is supplied it is
// derived from the property's nightly rate and the stay length.
func (s *service) CreateReservation(ctx context.Context, guestID uuid.UUID, input CreateReservationInput) (ReservationDTO, error) {
	if guestID == uuid.Nil {
		return ReservationDTO{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if !input.CheckOut.After(input.CheckIn) {
		return ReservationDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "check-out must be after check-in")
	}
	if input.GuestsCount < 1 {
		input.GuestsCount = 1
	}

	property, err := s.repo.FindProperty(ctx, input.PropertyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ReservationDTO{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "property not found")
		}
		return ReservationDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load property")
	}

	totalPrice := decimal.Zero
	if input.TotalPrice != nil {
		totalPrice = *input.TotalPrice
	} else {
		nights := int(input.CheckOut.Sub(input.CheckIn).Hours() / 24)
		if nights < 1 {
			nights = 1
		}
		totalPrice = property.PricePerNight.Mul(decimal.NewFromInt(int64(nights)))
	}
	if totalPrice.LessThanOrEqual(decimal.Zero) {
		return ReservationDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "total price must be positive")
	}

	bookingFee := totalPrice.Mul(s.platformFeeRate()).Round(2)
	reservation := &models.Reservation{
		ID:           uuid.New(),
		PropertyID:   property.ID,
		GuestID:      guestID,
		CheckIn:      input.CheckIn,
		CheckOut:     input.CheckOut,
		GuestsCount:  input.GuestsCount,
		TotalPrice:   totalPrice,
		BookingFee:   bookingFee,
		HostEarnings: totalPrice.Sub(bookingFee),
		Status:       enums.ReservationStatusPending,
	}
	if err := s.repo.CreateReservation(ctx, reservation); err != nil {
		return ReservationDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create reservation")
	}
	return toReservationDTO(*reservation), nil
}

// GuestReservations lists the caller's stays, newest first, with a
// has-review flag per row.
func (s *service) GuestReservations(ctx context.Context, guestID uuid.UUID, status *enums.ReservationStatus) ([]ReservationDTO, error) {
	if guestID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	reservations, err := s.repo.ListReservationsByGuest(ctx, guestID, status, 50)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list reservations")
	}
	reviewed, err := s.repo.ReviewedReservationIDs(ctx, guestID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load reviewed reservations")
	}

	dtos := make([]ReservationDTO, 0, len(reservations))
	for _, reservation := range reservations {
		dto := toReservationDTO(reservation)
		dto.HasReview = reviewed[reservation.ID]
		dtos = append(dtos, dto)
	}
	return dtos, nil
}

// HostReservations lists reservations against the host's properties.
func (s *service) HostReservations(ctx context.Context, hostID uuid.UUID, status *enums.ReservationStatus) ([]ReservationDTO, error) {
	if hostID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	reservations, err := s.repo.ListReservationsByHost(ctx, hostID, status, 50)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list host reservations")
	}

	dtos := make([]ReservationDTO, 0, len(reservations))
	for _, reservation := range reservations {
		dtos = append(dtos, toReservationDTO(reservation))
	}
	return dtos, nil
}

// UpdateReservationStatus approves or declines a booking request. On
// approval the payout record is cut exactly once, in the same
// transaction as the status change.
func (s *service) UpdateReservationStatus(ctx context.Context, hostID, reservationID uuid.UUID, status enums.ReservationStatus) (ReservationDTO, error) {
	if status != enums.ReservationStatusApproved && status != enums.ReservationStatusDeclined {
		return ReservationDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "status must be approved or declined")
	}

	var dto ReservationDTO
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		reservation, property, err := s.loadHostReservation(ctx, repo, hostID, reservationID)
		if err != nil {
			return err
		}

		reservation.Status = status
		if err := repo.SaveReservation(ctx, reservation); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update reservation")
		}

		if status == enums.ReservationStatusApproved {
			exists, err := repo.HasHostEarning(ctx, reservation.ID)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check earnings record")
			}
			if !exists {
				platformFee := reservation.TotalPrice.Mul(s.platformFeeRate()).Round(2)
				earning := &models.HostEarning{
					ID:            uuid.New(),
					HostID:        property.HostID,
					ReservationID: reservation.ID,
					GrossAmount:   reservation.TotalPrice,
					PlatformFee:   platformFee,
					NetAmount:     reservation.TotalPrice.Sub(platformFee),
				}
				if err := repo.CreateHostEarning(ctx, earning); err != nil {
					return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create earnings record")
				}
			}
		}

		dto = toReservationDTO(*reservation)
		return nil
	})
	if err != nil {
		return ReservationDTO{}, err
	}
	return dto, nil
}

// DashboardStats aggregates the host's portfolio.
func (s *service) DashboardStats(ctx context.Context, hostID uuid.UUID) (DashboardStatsDTO, error) {
	if hostID == uuid.Nil {
		return DashboardStatsDTO{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	properties, err := s.repo.CountPropertiesByHost(ctx, hostID)
	if err != nil {
		return DashboardStatsDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count properties")
	}
	reservations, err := s.repo.CountReservationsByHost(ctx, hostID, nil)
	if err != nil {
		return DashboardStatsDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count reservations")
	}
	pending := enums.ReservationStatusPending
	pendingCount, err := s.repo.CountReservationsByHost(ctx, hostID, &pending)
	if err != nil {
		return DashboardStatsDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count pending requests")
	}
	totalEarnings, err := s.repo.SumHostEarnings(ctx, hostID, nil)
	if err != nil {
		return DashboardStatsDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sum earnings")
	}

	now := time.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	monthEarnings, err := s.repo.SumHostEarnings(ctx, hostID, &monthStart)
	if err != nil {
		return DashboardStatsDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sum month earnings")
	}
	rating, err := s.repo.AveragePropertyRatingForHost(ctx, hostID)
	if err != nil {
		return DashboardStatsDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "average rating")
	}
	unread, err := s.repo.CountUnreadHostMessages(ctx, hostID)
	if err != nil {
		return DashboardStatsDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count unread messages")
	}

	return DashboardStatsDTO{
		TotalProperties:   properties,
		TotalReservations: reservations,
		PendingRequests:   pendingCount,
		TotalEarnings:     totalEarnings,
		ThisMonthEarnings: monthEarnings,
		AverageRating:     rating,
		UnreadMessages:    unread,
	}, nil
}

// HostEarnings lists payout records, optionally bounded by dates.
func (s *service) HostEarnings(ctx context.Context, hostID uuid.UUID, from, to *time.Time) ([]EarningDTO, error) {
	if hostID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	earnings, err := s.repo.ListHostEarnings(ctx, hostID, from, to)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list earnings")
	}

	dtos := make([]EarningDTO, 0, len(earnings))
	for _, earning := range earnings {
		dtos = append(dtos, toEarningDTO(earning))
	}
	return dtos, nil
}

// SendMessage posts into a reservation thread. Only the guest and the
// property host participate.
func (s *service) SendMessage(ctx context.Context, actorID, reservationID uuid.UUID, body string) (HostMessageDTO, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return HostMessageDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "message body is required")
	}

	reservation, property, err := s.loadReservationWithProperty(ctx, s.repo, reservationID)
	if err != nil {
		return HostMessageDTO{}, err
	}
	if actorID != reservation.GuestID && actorID != property.HostID {
		return HostMessageDTO{}, pkgerrors.New(pkgerrors.CodeForbidden, "access restricted to the reservation's guest and host")
	}

	message := &models.HostMessage{
		ID:            uuid.New(),
		ReservationID: reservation.ID,
		SenderID:      actorID,
		Body:          body,
	}
	if err := s.repo.CreateHostMessage(ctx, message); err != nil {
		return HostMessageDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create message")
	}
	return toHostMessageDTO(*message), nil
}

// ListMessages returns the caller's threads, newest first. Incoming
// unread messages are flipped to read as a side effect of listing.
func (s *service) ListMessages(ctx context.Context, userID uuid.UUID, limit int) ([]HostMessageDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	messages, err := s.repo.ListHostMessages(ctx, userID, limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list messages")
	}
	if err := s.repo.MarkHostMessagesRead(ctx, userID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark messages read")
	}

	dtos := make([]HostMessageDTO, 0, len(messages))
	for _, message := range messages {
		dtos = append(dtos, toHostMessageDTO(message))
	}
	return dtos, nil
}

func (s *service) platformFeeRate() decimal.Decimal {
	percent := s.booking.PlatformFeePercent
	if percent <= 0 {
		percent = 10
	}
	return decimal.NewFromInt(int64(percent)).Div(decimal.NewFromInt(100))
}

func (s *service) loadReservationWithProperty(ctx context.Context, repo Repository, reservationID uuid.UUID) (*models.Reservation, *models.Property, error) {
	reservation, err := repo.FindReservation(ctx, reservationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "reservation not found")
		}
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load reservation")
	}
	property, err := repo.FindProperty(ctx, reservation.PropertyID)
	if err != nil {
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load property")
	}
	return reservation, property, nil
}

// loadHostReservation resolves a reservation and checks the caller hosts it.
func (s *service) loadHostReservation(ctx context.Context, repo Repository, hostID, reservationID uuid.UUID) (*models.Reservation, *models.Property, error) {
	reservation, property, err := s.loadReservationWithProperty(ctx, repo, reservationID)
	if err != nil {
		return nil, nil, err
	}
	if property.HostID != hostID {
		return nil, nil, pkgerrors.New(pkgerrors.CodeForbidden, "only the property host can manage this reservation")
	}
	return reservation, property, nil
}
