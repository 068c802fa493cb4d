package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/joho/godotenv"

	"javis/internal/config"
	"javis/internal/domain/models/chat"
	"javis/internal/repository/store"
)

// seedConversation is a demo exchange that ends in a clarifying question
var seedConversation = []struct {
	content  string
	isSystem bool
}{
	{"Build a FastAPI service that stores todo items", false},
	{"Should the todo items be persisted in a database or kept in memory?", true},
	{"Use SQLite for persistence", false},
	{"Do you need user accounts, or is a single shared list enough?", true},
}

func main() {
	rooms := flag.Int("rooms", 1, "Number of demo rooms to create")
	flag.Parse()

	// Load .env file
	_ = godotenv.Load()

	cfg := config.Load()

	// SAFETY: never write demo data into production
	if cfg.Environment == "prod" {
		log.Fatalf("🚫 BLOCKED: Cannot seed demo data in production environment")
	}

	logger, closeLog, err := config.NewLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to set up logging: %v", err)
	}
	defer closeLog()

	ctx := context.Background()
	st, err := store.Open(ctx, cfg.DatabaseURL, logger)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer st.Close()

	log.Printf("🌱 Seeding %d room(s) (environment: %s, driver: %s)", *rooms, cfg.Environment, st.Driver)

	for i := 0; i < *rooms; i++ {
		name := "Demo room"
		room := &chat.Room{Name: &name}
		if err := st.Rooms.Create(ctx, room); err != nil {
			log.Fatalf("Failed to create room: %v", err)
		}

		// Spaced timestamps keep the demo conversation in order
		start := time.Now().UTC()
		err := st.Tx.ExecTx(ctx, func(ctx context.Context) error {
			for j, line := range seedConversation {
				msg := &chat.Message{
					RoomID:    room.ID,
					Content:   line.content,
					IsSystem:  line.isSystem,
					CreatedAt: start.Add(time.Duration(j) * time.Millisecond),
				}
				if err := st.Messages.Create(ctx, msg); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			log.Fatalf("Failed to seed messages for room %d: %v", room.ID, err)
		}

		log.Printf("✅ Created room %d with %d messages", room.ID, len(seedConversation))
	}

	log.Println("🎉 Seeding complete!")
}
