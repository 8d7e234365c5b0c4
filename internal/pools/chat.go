package pools

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/flexbnb/flexbnb-backend/pkg/db/models"
	"github.com/flexbnb/flexbnb-backend/pkg/enums"
	pkgerrors "github.com/flexbnb/flexbnb-backend/pkg/errors"
	"github.com/flexbnb/flexbnb-backend/pkg/types"
)

// ListMessages returns the pool chat, oldest first. Members and the
// creator only.
func (s *service) ListMessages(ctx context.Context, poolID, actorID uuid.UUID, limit int) ([]ChatMessageDTO, error) {
	pool, err := s.loadPool(ctx, s.repo, poolID)
	if err != nil {
		return nil, err
	}
	if err := s.requireMembership(ctx, s.repo, pool, actorID); err != nil {
		return nil, err
	}

	messages, err := s.repo.ListChatMessages(ctx, poolID, limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list chat messages")
	}

	// The repo fetches the newest page; flip it back to chronological.
	dtos := make([]ChatMessageDTO, len(messages))
	for i, message := range messages {
		dtos[len(messages)-1-i] = toChatMessageDTO(message)
	}
	return dtos, nil
}

// PostMessage appends a text message. The sender starts in the read set.
func (s *service) PostMessage(ctx context.Context, poolID, actorID uuid.UUID, body string) (ChatMessageDTO, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return ChatMessageDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "message body is required")
	}

	pool, err := s.loadPool(ctx, s.repo, poolID)
	if err != nil {
		return ChatMessageDTO{}, err
	}
	if err := s.requireMembership(ctx, s.repo, pool, actorID); err != nil {
		return ChatMessageDTO{}, err
	}

	message := &models.PoolChatMessage{
		ID:          uuid.New(),
		PoolID:      poolID,
		SenderID:    &actorID,
		MessageType: enums.ChatMessageTypeText,
		Body:        body,
		IsReadBy:    types.UUIDSet{actorID},
	}
	if err := s.repo.CreateChatMessage(ctx, message); err != nil {
		return ChatMessageDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "append chat message")
	}
	return toChatMessageDTO(*message), nil
}

// MarkMessagesRead adds the caller to the read set of every message they
// have not seen yet. Calling it twice is a no-op.
func (s *service) MarkMessagesRead(ctx context.Context, poolID, actorID uuid.UUID) error {
	pool, err := s.loadPool(ctx, s.repo, poolID)
	if err != nil {
		return err
	}
	if err := s.requireMembership(ctx, s.repo, pool, actorID); err != nil {
		return err
	}

	unread, err := s.repo.ListUnreadChatMessages(ctx, poolID, actorID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list unread messages")
	}
	for i := range unread {
		message := &unread[i]
		if !message.IsReadBy.Add(actorID) {
			continue
		}
		if err := s.repo.SaveChatMessage(ctx, message); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update read state")
		}
	}
	return nil
}
