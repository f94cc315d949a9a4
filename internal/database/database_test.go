package database

import "testing"

func TestOpenMigrates(t *testing.T) {
	db, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer db.Close()

	v, err := Version(db)
	if err != nil {
		t.Fatalf("Version: %v", err)
	}
	if v < 1 {
		t.Errorf("version = %d, want >= 1", v)
	}

	for _, table := range []string{"users", "sessions", "activities", "user_badges", "challenges", "user_challenges", "user_points"} {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&name)
		if err != nil {
			t.Errorf("table %s missing: %v", table, err)
		}
	}

	// Re-running is a no-op.
	if err := Migrate(db); err != nil {
		t.Errorf("second Migrate: %v", err)
	}
}
