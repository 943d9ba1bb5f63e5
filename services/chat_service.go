package services

import (
	"chat-relay/contract"
	"chat-relay/domain"
	"chat-relay/errors"
	"context"
	"fmt"
	"io"
	"time"
)

type IChatService interface {
	SendAttachment(ctx context.Context, sender domain.Identity, groupID domain.GroupID, filename string, r io.Reader) (domain.Message, error)
}

// ChatService is the request/response entry point to the relay, used by the upload endpoint.
// Live text goes through the websocket session instead.
type ChatService struct {
	membership  contract.IMembershipOracle
	router      contract.IRouter
	attachments contract.IAttachmentStore
	audit       contract.IAuditLogger
}

func NewChatService(membership contract.IMembershipOracle, router contract.IRouter,
	attachments contract.IAttachmentStore, audit contract.IAuditLogger) *ChatService {
	return &ChatService{membership: membership, router: router, attachments: attachments, audit: audit}
}

// SendAttachment stores the blob, then dispatches a File message to the group.
// Membership is checked first so that nothing is stored for a send that would be refused.
func (s *ChatService) SendAttachment(ctx context.Context, sender domain.Identity, groupID domain.GroupID,
	filename string, r io.Reader) (domain.Message, error) {
	group, err := s.membership.Group(ctx, groupID)
	if err != nil {
		if errors.Is(err, errors.ErrGroupNotFound) {
			return domain.Message{}, err
		}
		return domain.Message{}, fmt.Errorf("%w: %v", errors.ErrStorage, err)
	}
	if !group.HasMember(sender.UserID) {
		return domain.Message{}, fmt.Errorf("%w: user %s, group %s", errors.ErrNotAMember, sender.UserID, groupID)
	}

	file, err := s.attachments.Save(ctx, filename, r)
	if err != nil {
		return domain.Message{}, err
	}
	s.audit.Record(domain.AuditEntry{
		Username: sender.Username,
		Action:   domain.ActionUpload,
		Target:   file.Filename,
		At:       time.Now().UTC(),
	})

	return s.router.Dispatch(context.WithoutCancel(ctx), domain.SendCommand{
		GroupID:    groupID,
		SenderID:   sender.UserID,
		SenderName: sender.Username,
		Payload:    file,
	})
}
