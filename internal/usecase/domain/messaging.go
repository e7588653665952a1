package domain

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"parcelpeer/internal/entities"
)

const (
	defaultMessageLimit = 100
	maxMessageLimit     = 500
	previewLength       = 80
)

// StartConversation returns the chat between the caller and otherID, creating it on first use.
func (u *Usecase) StartConversation(
	ctx context.Context,
	actor entities.Actor,
	otherID string,
	parcelID *string,
) (*entities.Conversation, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if otherID == "" || otherID == actor.ID {
		return nil, fmt.Errorf("%w: a conversation needs another participant", entities.ErrInvalidArgument)
	}
	if _, err := u.repo.GetUserByID(ctx, otherID); err != nil {
		return nil, err
	}
	if parcelID != nil {
		if *parcelID == "" {
			parcelID = nil
		} else if _, err := u.repo.GetParcel(ctx, *parcelID); err != nil {
			return nil, err
		}
	}

	p1, p2 := actor.ID, otherID
	if p2 < p1 {
		p1, p2 = p2, p1
	}
	return u.repo.GetOrCreateConversation(ctx, entities.Conversation{
		ParcelID:       parcelID,
		Participant1ID: p1,
		Participant2ID: p2,
	})
}

// Conversations lists the caller's chats with their last message.
func (u *Usecase) Conversations(ctx context.Context, userID string) ([]entities.Conversation, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	return u.repo.ListConversations(ctx, userID)
}

// Messages returns the latest messages of a conversation the caller belongs to.
func (u *Usecase) Messages(ctx context.Context, actor entities.Actor, conversationID string, limit int) ([]entities.Message, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if _, err := u.participantConversation(ctx, actor, conversationID); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultMessageLimit
	}
	if limit > maxMessageLimit {
		limit = maxMessageLimit
	}
	return u.repo.ListMessages(ctx, conversationID, limit)
}

// SendMessage posts text to a conversation and notifies the other participant.
func (u *Usecase) SendMessage(ctx context.Context, actor entities.Actor, conversationID, text string) (*entities.Message, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("%w: message text is required", entities.ErrInvalidArgument)
	}
	if utf8.RuneCountInString(text) > entities.MaxMessageLength {
		return nil, fmt.Errorf("%w: message exceeds %d characters", entities.ErrInvalidArgument, entities.MaxMessageLength)
	}

	conv, err := u.participantConversation(ctx, actor, conversationID)
	if err != nil {
		return nil, err
	}

	msg, err := u.repo.CreateMessage(ctx, entities.Message{
		ConversationID: conversationID,
		SenderID:       actor.ID,
		Text:           text,
	})
	if err != nil {
		return nil, err
	}

	u.notify(ctx, entities.Notification{
		UserID:   conv.Other(actor.ID),
		Kind:     entities.NotifyMessage,
		Title:    "New message",
		Body:     preview(text),
		ParcelID: conv.ParcelID,
	})
	return msg, nil
}

func (u *Usecase) participantConversation(ctx context.Context, actor entities.Actor, id string) (*entities.Conversation, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: conversation id is required", entities.ErrInvalidArgument)
	}
	conv, err := u.repo.GetConversation(ctx, id)
	if err != nil {
		return nil, err
	}
	if !conv.HasParticipant(actor.ID) {
		return nil, fmt.Errorf("%w: not a participant of this conversation", entities.ErrForbidden)
	}
	return conv, nil
}

func preview(text string) string {
	r := []rune(text)
	if len(r) <= previewLength {
		return text
	}
	return string(r[:previewLength]) + "…"
}
