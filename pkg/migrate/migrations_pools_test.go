package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRoomPoolMigrationContainsConstraints(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_create_room_pools.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no room pool migration file found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	content := string(data)

	checks := []string{
		"CREATE TABLE IF NOT EXISTS room_pools",
		"CHECK (max_members BETWEEN 2 AND 20)",
		"CHECK (current_members <= max_members)",
		"CONSTRAINT idx_pool_member UNIQUE (pool_id, user_id)",
		"CHECK (custom_split_percentage BETWEEN 0 AND 100)",
		"CREATE TABLE IF NOT EXISTS cost_splits",
		"CREATE TABLE IF NOT EXISTS pool_chat_messages",
		"CREATE TABLE IF NOT EXISTS payment_transactions",
		"DROP TABLE IF EXISTS room_pools",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestReservationMigrationContainsConstraints(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_create_reservations.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no reservation migration file found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	content := string(data)

	checks := []string{
		"CREATE TABLE IF NOT EXISTS reservations",
		"CHECK (check_out > check_in)",
		"reservation_id UUID NOT NULL UNIQUE REFERENCES reservations(id)",
		"CREATE TABLE IF NOT EXISTS host_earnings",
		"DROP TABLE IF EXISTS reservations",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}
