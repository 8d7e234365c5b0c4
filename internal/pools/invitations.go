package pools

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/flexbnb/flexbnb-backend/pkg/db/models"
	"github.com/flexbnb/flexbnb-backend/pkg/enums"
	pkgerrors "github.com/flexbnb/flexbnb-backend/pkg/errors"
)

// Invite sends a pool invitation by email. Creator only. The invite is
// linked to an account when one exists for the address.
func (s *service) Invite(ctx context.Context, poolID, actorID uuid.UUID, email string, message *string) (InvitationDTO, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return InvitationDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}

	var dto InvitationDTO
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		pool, err := s.requireCreator(ctx, repo, poolID, actorID, "only the pool creator can send invitations")
		if err != nil {
			return err
		}
		if pool.Status != enums.PoolStatusOpen {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "this pool is not accepting new members")
		}

		pending, err := repo.HasPendingInvitation(ctx, poolID, email)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check pending invitations")
		}
		if pending {
			return pkgerrors.New(pkgerrors.CodeConflict, "an invitation for this email is already pending")
		}

		var invitedUserID *uuid.UUID
		user, err := repo.FindUserByEmail(ctx, email)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "look up invited user")
		}
		if user != nil {
			invitedUserID = &user.ID
		}

		ttl := s.pooling.InvitationTTL
		if ttl <= 0 {
			ttl = 7 * 24 * time.Hour
		}
		invitation := &models.PoolInvitation{
			ID:            uuid.New(),
			PoolID:        poolID,
			InvitedUserID: invitedUserID,
			InvitedEmail:  email,
			InvitedByID:   actorID,
			Status:        enums.InvitationStatusPending,
			Message:       message,
			ExpiresAt:     time.Now().Add(ttl),
		}
		if err := repo.CreateInvitation(ctx, invitation); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create invitation")
		}

		dto = toInvitationDTO(*invitation)
		return nil
	})
	if err != nil {
		return InvitationDTO{}, err
	}
	return dto, nil
}

// RespondInvitation accepts or declines a pending invitation. Only the
// invitee may answer; expiry is applied lazily here.
func (s *service) RespondInvitation(ctx context.Context, invitationID, actorID uuid.UUID, accept bool) (InvitationDTO, error) {
	if actorID == uuid.Nil {
		return InvitationDTO{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	invitation, err := s.repo.FindInvitation(ctx, invitationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return InvitationDTO{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "invitation not found")
		}
		return InvitationDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load invitation")
	}

	if !s.isInvitee(ctx, s.repo, invitation, actorID) {
		return InvitationDTO{}, pkgerrors.New(pkgerrors.CodeForbidden, "this invitation is not addressed to you")
	}
	if invitation.Status != enums.InvitationStatusPending {
		return InvitationDTO{}, pkgerrors.New(pkgerrors.CodeStateConflict, "this invitation has already been answered")
	}
	if time.Now().After(invitation.ExpiresAt) {
		// Lazy expiry, outside any transaction so the status sticks even
		// though the call fails.
		invitation.Status = enums.InvitationStatusExpired
		if err := s.repo.SaveInvitation(ctx, invitation); err != nil {
			return InvitationDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "expire invitation")
		}
		return InvitationDTO{}, pkgerrors.New(pkgerrors.CodeStateConflict, "this invitation has expired")
	}

	now := time.Now()
	invitation.RespondedAt = &now
	if !accept {
		invitation.Status = enums.InvitationStatusDeclined
		if err := s.repo.SaveInvitation(ctx, invitation); err != nil {
			return InvitationDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update invitation")
		}
		return toInvitationDTO(*invitation), nil
	}

	var dto InvitationDTO
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		pool, err := s.loadPool(ctx, repo, invitation.PoolID)
		if err != nil {
			return err
		}
		if pool.CurrentMembers >= pool.MaxMembers {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "this pool is full")
		}

		member, err := repo.FindMember(ctx, pool.ID, actorID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load membership")
		}

		share := pool.PricePerPerson.Add(pool.BookingFeePerPerson)
		alreadyApproved := member != nil && member.Status == enums.PoolMemberStatusApproved
		if member != nil {
			member.Status = enums.PoolMemberStatusApproved
			member.ShareAmount = share
			member.ApprovedAt = &now
			if err := repo.SaveMember(ctx, member); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update membership")
			}
		} else {
			member = &models.RoomPoolMember{
				ID:          uuid.New(),
				PoolID:      pool.ID,
				UserID:      actorID,
				Status:      enums.PoolMemberStatusApproved,
				ShareAmount: share,
				ApprovedAt:  &now,
			}
			if err := repo.CreateMember(ctx, member); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create membership")
			}
		}

		if !alreadyApproved {
			if err := s.admitMember(ctx, repo, pool); err != nil {
				return err
			}
			if err := s.postSystemMessage(ctx, repo, pool.ID, enums.ChatMessageTypeJoin,
				fmt.Sprintf("%s joined the pool via invitation", s.displayName(ctx, repo, actorID)),
				map[string]any{"user_id": actorID.String(), "invitation_id": invitation.ID.String()}); err != nil {
				return err
			}
		}

		invitation.Status = enums.InvitationStatusAccepted
		if err := repo.SaveInvitation(ctx, invitation); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update invitation")
		}

		dto = toInvitationDTO(*invitation)
		return nil
	})
	if err != nil {
		return InvitationDTO{}, err
	}
	return dto, nil
}

// MyInvitations lists the caller's pending invitations, matched by user
// link or account email.
func (s *service) MyInvitations(ctx context.Context, actorID uuid.UUID) ([]InvitationDTO, error) {
	if actorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	email := ""
	user, err := s.repo.FindUser(ctx, actorID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	if user != nil {
		email = strings.ToLower(user.Email)
	}

	invitations, err := s.repo.ListInvitationsForUser(ctx, actorID, email)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list invitations")
	}

	// Expired-but-unanswered invitations stay listed until the respond
	// path or the expiry sweep flips their status.
	dtos := make([]InvitationDTO, 0, len(invitations))
	for _, invitation := range invitations {
		if invitation.Status != enums.InvitationStatusPending {
			continue
		}
		dtos = append(dtos, toInvitationDTO(invitation))
	}
	return dtos, nil
}

func (s *service) isInvitee(ctx context.Context, repo Repository, invitation *models.PoolInvitation, actorID uuid.UUID) bool {
	if invitation.InvitedUserID != nil {
		return *invitation.InvitedUserID == actorID
	}
	user, err := repo.FindUser(ctx, actorID)
	if err != nil {
		return false
	}
	return strings.EqualFold(user.Email, invitation.InvitedEmail)
}
