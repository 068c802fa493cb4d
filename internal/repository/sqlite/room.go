package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"javis/internal/domain"
	chatModels "javis/internal/domain/models/chat"
	chatRepo "javis/internal/domain/repositories/chat"
)

// RoomRepository implements chatRepo.RoomRepository on SQLite
type RoomRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewRoomRepository creates a new RoomRepository
func NewRoomRepository(db *sql.DB, logger *slog.Logger) chatRepo.RoomRepository {
	return &RoomRepository{db: db, logger: logger}
}

// Create inserts a room
func (r *RoomRepository) Create(ctx context.Context, room *chatModels.Room) error {
	room.CreatedAt = time.Now().UTC()

	result, err := GetExecutor(ctx, r.db).ExecContext(ctx,
		`INSERT INTO chat_rooms (name, repo_url, created_at) VALUES (?, ?, ?)`,
		room.Name, room.RepoURL, formatTime(room.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("create room: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("create room: %w", err)
	}
	room.ID = id

	return nil
}

// Get retrieves a room by ID
func (r *RoomRepository) Get(ctx context.Context, id int64) (*chatModels.Room, error) {
	row := GetExecutor(ctx, r.db).QueryRowContext(ctx,
		`SELECT id, name, repo_url, created_at FROM chat_rooms WHERE id = ?`, id)

	room, err := scanRoom(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("room %d: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get room: %w", err)
	}

	return room, nil
}

// List retrieves all rooms, oldest first
func (r *RoomRepository) List(ctx context.Context) ([]chatModels.Room, error) {
	rows, err := GetExecutor(ctx, r.db).QueryContext(ctx,
		`SELECT id, name, repo_url, created_at FROM chat_rooms ORDER BY created_at ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}
	defer rows.Close()

	rooms := []chatModels.Room{}
	for rows.Next() {
		room, err := scanRoom(rows)
		if err != nil {
			return nil, fmt.Errorf("scan room: %w", err)
		}
		rooms = append(rooms, *room)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rooms: %w", err)
	}

	return rooms, nil
}

// Delete removes a room; messages go with it through ON DELETE CASCADE
func (r *RoomRepository) Delete(ctx context.Context, id int64) error {
	result, err := GetExecutor(ctx, r.db).ExecContext(ctx, `DELETE FROM chat_rooms WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete room: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete room: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("room %d: %w", id, domain.ErrNotFound)
	}

	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRoom(s scanner) (*chatModels.Room, error) {
	var (
		room      chatModels.Room
		name      sql.NullString
		repoURL   sql.NullString
		createdAt string
	)
	if err := s.Scan(&room.ID, &name, &repoURL, &createdAt); err != nil {
		return nil, err
	}

	if name.Valid {
		room.Name = &name.String
	}
	if repoURL.Valid {
		room.RepoURL = &repoURL.String
	}

	t, err := parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	room.CreatedAt = t

	return &room, nil
}
