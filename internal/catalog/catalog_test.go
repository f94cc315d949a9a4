package catalog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dukerupert/ecotrack/internal/database"
	"github.com/dukerupert/ecotrack/internal/store"
)

const sample = `
challenges:
  - key: eco_commuter
    title: Eco Commuter
    description: Bike or walk five times.
    points: 50
  - title: Bike to work
    points: 10
  - title: Retired idea
    points: 5
    active: false
`

func TestLoad(t *testing.T) {
	f, err := Load(strings.NewReader(sample))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(f.Challenges) != 3 {
		t.Fatalf("len = %d, want 3", len(f.Challenges))
	}
	if f.Challenges[0].Key != "eco_commuter" || f.Challenges[0].Points != 50 {
		t.Errorf("first = %+v", f.Challenges[0])
	}
	if !f.Challenges[1].IsActive() {
		t.Error("omitted active should default to true")
	}
	if f.Challenges[2].IsActive() {
		t.Error("active: false was ignored")
	}
}

func TestLoadEmpty(t *testing.T) {
	f, err := Load(strings.NewReader(""))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(f.Challenges) != 0 {
		t.Errorf("len = %d, want 0", len(f.Challenges))
	}
}

func TestLoadRejects(t *testing.T) {
	tests := map[string]string{
		"missing title":   "challenges:\n  - key: a\n    points: 1\n",
		"negative":        "challenges:\n  - title: A\n    points: -1\n",
		"duplicate key":   "challenges:\n  - key: a\n    title: A\n  - key: A\n    title: B\n",
		"duplicate title": "challenges:\n  - title: A\n  - title: A\n",
		"unknown field":   "challenges:\n  - title: A\n    pionts: 3\n",
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := Load(strings.NewReader(doc)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	if err := os.WriteFile(path, []byte(sample), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	f, err := LoadFile(path)
	if err != nil {
		t.Fatalf("load file: %v", err)
	}
	if len(f.Challenges) != 3 {
		t.Errorf("len = %d, want 3", len(f.Challenges))
	}
	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestSeedUpserts(t *testing.T) {
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	defer db.Close()
	cs := store.NewChallengeStore(db)

	f, err := Load(strings.NewReader(sample))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	res, err := Seed(cs, f)
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	if res.Created != 3 || res.Updated != 0 {
		t.Errorf("first seed = %+v, want 3 created", res)
	}

	f.Challenges[0].Points = 75
	f.Challenges[1].Description = "Leave the car at home."
	res, err = Seed(cs, f)
	if err != nil {
		t.Fatalf("reseed: %v", err)
	}
	if res.Created != 0 || res.Updated != 3 {
		t.Errorf("second seed = %+v, want 3 updated", res)
	}

	all, err := cs.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("len = %d, want 3", len(all))
	}
	eco, _ := cs.GetByKey("eco_commuter")
	if eco == nil || eco.Points != 75 {
		t.Errorf("eco_commuter = %+v, want 75 points", eco)
	}
	bike, _ := cs.GetByTitle("Bike to work")
	if bike == nil || bike.Description != "Leave the car at home." {
		t.Errorf("bike = %+v", bike)
	}
	retired, _ := cs.GetByTitle("Retired idea")
	if retired == nil || retired.Active {
		t.Errorf("retired = %+v, want inactive", retired)
	}
}

func TestShippedCatalogLoads(t *testing.T) {
	f, err := LoadFile("../../configs/challenges.yaml")
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	keyed := 0
	for _, e := range f.Challenges {
		if e.Key != "" {
			keyed++
		}
	}
	if keyed != 5 {
		t.Errorf("keyed entries = %d, want one per badge", keyed)
	}
}

func TestPruneRemovesUnlisted(t *testing.T) {
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	defer db.Close()
	cs := store.NewChallengeStore(db)

	f, err := Load(strings.NewReader(sample))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if _, err := Seed(cs, f); err != nil {
		t.Fatalf("seed: %v", err)
	}
	key := "green_eater"
	if _, err := cs.Create(&key, "Green Eater", "", 40, true); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := cs.Create(nil, "Old idea", "", 5, true); err != nil {
		t.Fatalf("create: %v", err)
	}

	n, err := Prune(cs, f)
	if err != nil {
		t.Fatalf("prune: %v", err)
	}
	if n != 2 {
		t.Errorf("pruned = %d, want 2", n)
	}

	all, _ := cs.List()
	if len(all) != len(f.Challenges) {
		t.Errorf("remaining = %d, want %d", len(all), len(f.Challenges))
	}
	if g, _ := cs.GetByKey("green_eater"); g != nil {
		t.Errorf("green_eater still present: %+v", g)
	}
	if eco, _ := cs.GetByKey("ECO_COMMUTER"); eco == nil {
		t.Error("eco_commuter should survive")
	}

	if n, _ := Prune(cs, f); n != 0 {
		t.Errorf("second prune = %d, want 0", n)
	}
}
