package chat

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"javis/internal/config"
	"javis/internal/domain"
	models "javis/internal/domain/models/chat"
	chatRepo "javis/internal/domain/repositories/chat"
	chatSvc "javis/internal/domain/services/chat"
)

// roomService implements the RoomService interface
type roomService struct {
	roomRepo chatRepo.RoomRepository
	logger   *slog.Logger
}

// NewRoomService creates a new room service
func NewRoomService(roomRepo chatRepo.RoomRepository, logger *slog.Logger) chatSvc.RoomService {
	return &roomService{
		roomRepo: roomRepo,
		logger:   logger,
	}
}

// CreateRoom creates a new room. Blank optional fields are stored as NULL.
func (s *roomService) CreateRoom(ctx context.Context, req *chatSvc.CreateRoomRequest) (*models.Room, error) {
	if err := s.validateCreateRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	room := &models.Room{
		Name:    trimOptional(req.Name),
		RepoURL: trimOptional(req.RepoURL),
	}
	if err := s.roomRepo.Create(ctx, room); err != nil {
		return nil, err
	}

	s.logger.Info("room created", "room_id", room.ID)
	return room, nil
}

// GetRoom retrieves a room by ID
func (s *roomService) GetRoom(ctx context.Context, id int64) (*models.Room, error) {
	return s.roomRepo.Get(ctx, id)
}

// ListRooms retrieves all rooms
func (s *roomService) ListRooms(ctx context.Context) ([]models.Room, error) {
	return s.roomRepo.List(ctx)
}

// DeleteRoom deletes a room; its messages go with it
func (s *roomService) DeleteRoom(ctx context.Context, id int64) error {
	if err := s.roomRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("room deleted", "room_id", id)
	return nil
}

func (s *roomService) validateCreateRequest(req *chatSvc.CreateRoomRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.Name, validation.Length(0, config.MaxRoomNameLength)),
		validation.Field(&req.RepoURL, validation.Length(0, config.MaxRepoURLLength)),
	)
}

func trimOptional(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
