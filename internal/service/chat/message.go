package chat

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"javis/internal/config"
	"javis/internal/domain"
	"javis/internal/domain/models/assistant"
	models "javis/internal/domain/models/chat"
	"javis/internal/domain/repositories"
	chatRepo "javis/internal/domain/repositories/chat"
	assistantSvc "javis/internal/domain/services/assistant"
	chatSvc "javis/internal/domain/services/chat"
	githubSvc "javis/internal/domain/services/github"
)

// messageService implements the MessageService interface.
// It turns each user message into an AI exchange and acts on the reply.
type messageService struct {
	roomRepo    chatRepo.RoomRepository
	messageRepo chatRepo.MessageRepository
	txManager   repositories.TransactionManager
	dispatcher  assistantSvc.Dispatcher
	publisher   githubSvc.Publisher
	githubToken string
	logger      *slog.Logger
	now         func() time.Time
}

// NewMessageService creates a new message service. githubToken only gates
// SendMessage; the publisher carries its own client.
func NewMessageService(
	roomRepo chatRepo.RoomRepository,
	messageRepo chatRepo.MessageRepository,
	txManager repositories.TransactionManager,
	dispatcher assistantSvc.Dispatcher,
	publisher githubSvc.Publisher,
	githubToken string,
	logger *slog.Logger,
) chatSvc.MessageService {
	return &messageService{
		roomRepo:    roomRepo,
		messageRepo: messageRepo,
		txManager:   txManager,
		dispatcher:  dispatcher,
		publisher:   publisher,
		githubToken: githubToken,
		logger:      logger,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// ListMessages returns a room's messages oldest first
func (s *messageService) ListMessages(ctx context.Context, roomID int64) ([]models.Message, error) {
	if _, err := s.roomRepo.Get(ctx, roomID); err != nil {
		return nil, err
	}
	return s.messageRepo.ListByRoom(ctx, roomID)
}

// SendMessage dispatches the conversation and the new message to the AI service.
//
// Both messages of an exchange are written together after a recognized reply,
// so a failed dispatch leaves the room unchanged. The user message keeps the
// timestamp taken before dispatch.
func (s *messageService) SendMessage(ctx context.Context, roomID int64, req *chatSvc.SendMessageRequest) (*chatSvc.SendMessageResult, error) {
	if err := s.validateSendRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	if s.githubToken == "" {
		return nil, &domain.MissingConfigurationError{Setting: "GITHUB_TOKEN"}
	}

	room, err := s.roomRepo.Get(ctx, roomID)
	if err != nil {
		return nil, err
	}

	history, err := s.messageRepo.ListByRoom(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}

	userMsg := &models.Message{
		RoomID:    roomID,
		Content:   req.Content,
		IsSystem:  false,
		CreatedAt: s.now(),
	}

	reply, err := s.dispatcher.Dispatch(ctx, assistant.BuildDispatchRequest(room, history, req.Content))
	if err != nil {
		s.logger.Error("dispatch failed", "room_id", roomID, "error", err)
		return nil, err
	}

	switch r := reply.(type) {
	case assistant.Clarification:
		systemMsg := &models.Message{
			RoomID:    roomID,
			Content:   r.Text,
			IsSystem:  true,
			CreatedAt: s.now(),
		}
		if err := s.persist(ctx, userMsg, systemMsg); err != nil {
			return nil, err
		}
		s.logger.Info("clarification stored", "room_id", roomID, "message_id", systemMsg.ID)
		return &chatSvc.SendMessageResult{Clarification: systemMsg}, nil

	case assistant.PublishPlan:
		if err := s.persist(ctx, userMsg); err != nil {
			return nil, err
		}
		repoName := models.GeneratedRepoName(roomID)
		s.logger.Info("publishing generated files",
			"room_id", roomID,
			"repo_name", repoName,
			"files", len(r.FilePaths),
		)
		stream := s.publisher.Publish(ctx, &githubSvc.PublishRequest{
			RepoName:    repoName,
			Description: fmt.Sprintf("Auto-generated repo for room %d", roomID),
			FilePaths:   r.FilePaths,
		})
		return &chatSvc.SendMessageResult{Stream: stream, RepoName: repoName}, nil

	default:
		return nil, fmt.Errorf("unhandled assistant response %T", reply)
	}
}

// persist writes messages in order inside one transaction
func (s *messageService) persist(ctx context.Context, msgs ...*models.Message) error {
	return s.txManager.ExecTx(ctx, func(ctx context.Context) error {
		for _, msg := range msgs {
			if err := s.messageRepo.Create(ctx, msg); err != nil {
				return fmt.Errorf("store message: %w", err)
			}
		}
		return nil
	})
}

func (s *messageService) validateSendRequest(req *chatSvc.SendMessageRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.Content,
			validation.Required,
			validation.RuneLength(1, config.MaxMessageContentLength),
		),
	)
}
