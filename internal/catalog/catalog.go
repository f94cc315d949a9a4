// Package catalog loads the operator-maintained challenge list from YAML and
// applies it to the database.
package catalog

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dukerupert/ecotrack/internal/model"
	"github.com/dukerupert/ecotrack/internal/store"
)

type Entry struct {
	Key         string `yaml:"key"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Points      int    `yaml:"points"`
	Active      *bool  `yaml:"active"`
}

// IsActive defaults to true when the entry omits the flag.
func (e Entry) IsActive() bool {
	return e.Active == nil || *e.Active
}

type File struct {
	Challenges []Entry `yaml:"challenges"`
}

// Load decodes and validates a catalog. Unknown fields are rejected so typos
// do not silently drop data.
func Load(r io.Reader) (*File, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var f File
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return &f, nil
		}
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	if err := f.validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

func LoadFile(path string) (*File, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer fh.Close()
	return Load(fh)
}

func (f *File) validate() error {
	keys := make(map[string]int)
	titles := make(map[string]int)
	for i := range f.Challenges {
		e := &f.Challenges[i]
		e.Key = strings.TrimSpace(e.Key)
		e.Title = strings.TrimSpace(e.Title)

		if e.Title == "" {
			return fmt.Errorf("challenge %d: title is required", i+1)
		}
		if e.Points < 0 {
			return fmt.Errorf("challenge %q: points must not be negative", e.Title)
		}
		if e.Key != "" {
			k := strings.ToLower(e.Key)
			if prev, ok := keys[k]; ok {
				return fmt.Errorf("challenge %d: key %q already used by challenge %d", i+1, e.Key, prev)
			}
			keys[k] = i + 1
			continue
		}
		if prev, ok := titles[e.Title]; ok {
			return fmt.Errorf("challenge %d: title %q already used by challenge %d", i+1, e.Title, prev)
		}
		titles[e.Title] = i + 1
	}
	return nil
}

// Result counts what Seed changed.
type Result struct {
	Created int
	Updated int
}

// Seed upserts every entry: by key when the entry has one, otherwise by
// exact title.
func Seed(challenges *store.ChallengeStore, f *File) (Result, error) {
	var res Result
	for _, e := range f.Challenges {
		var key *string
		if e.Key != "" {
			key = &e.Key
		}

		var existing *model.Challenge
		var err error
		if key != nil {
			existing, err = challenges.GetByKey(e.Key)
		} else {
			existing, err = challenges.GetByTitle(e.Title)
		}
		if err != nil {
			return res, err
		}

		if existing == nil {
			if _, err := challenges.Create(key, e.Title, e.Description, e.Points, e.IsActive()); err != nil {
				return res, fmt.Errorf("seed %q: %w", e.Title, err)
			}
			res.Created++
			continue
		}
		if _, err := challenges.Update(existing.ID, key, e.Title, e.Description, e.Points, e.IsActive()); err != nil {
			return res, fmt.Errorf("seed %q: %w", e.Title, err)
		}
		res.Updated++
	}
	return res, nil
}

// Prune deletes challenges the file no longer lists. Keyed rows match on
// key, keyless rows on exact title. Completions of a deleted challenge go
// with it and the holders' points are rebuilt.
func Prune(challenges *store.ChallengeStore, f *File) (int, error) {
	keys := make(map[string]bool)
	titles := make(map[string]bool)
	for _, e := range f.Challenges {
		if e.Key != "" {
			keys[strings.ToLower(e.Key)] = true
		} else {
			titles[e.Title] = true
		}
	}

	all, err := challenges.List()
	if err != nil {
		return 0, err
	}
	deleted := 0
	for _, c := range all {
		if c.Key != nil && keys[strings.ToLower(*c.Key)] {
			continue
		}
		if c.Key == nil && titles[c.Title] {
			continue
		}
		if err := challenges.Delete(c.ID); err != nil {
			return deleted, fmt.Errorf("prune %q: %w", c.Title, err)
		}
		deleted++
	}
	return deleted, nil
}
