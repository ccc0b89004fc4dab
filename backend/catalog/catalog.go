// Package catalog holds the read-only course catalog. The catalog is loaded
// once at start-up and may be swapped wholesale by Reload; readers always
// see one complete snapshot.
package catalog

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"skillpractice/backend/models"

	"gopkg.in/yaml.v3"
)

//go:embed default_courses.json
var defaultCourses []byte

type file struct {
	Courses []models.Course `json:"courses" yaml:"courses"`
}

type snapshot struct {
	courses []models.Course
	index   map[string]int
}

type Catalog struct {
	path    string
	current atomic.Pointer[snapshot]
}

// Load reads the catalog at path, or the built-in catalog when path is empty.
func Load(path string) (*Catalog, error) {
	c := &Catalog{path: path}
	if err := c.Reload(); err != nil {
		return nil, err
	}
	return c, nil
}

// New builds a catalog from in-memory courses. Reload on such a catalog
// restores the built-in courses.
func New(courses []models.Course) (*Catalog, error) {
	snap, err := newSnapshot(courses)
	if err != nil {
		return nil, err
	}
	c := &Catalog{}
	c.current.Store(snap)
	return c, nil
}

// Reload re-reads the source and swaps the snapshot. On error the previous
// snapshot stays in place.
func (c *Catalog) Reload() error {
	courses, err := readCourses(c.path)
	if err != nil {
		return err
	}
	snap, err := newSnapshot(courses)
	if err != nil {
		return err
	}
	c.current.Store(snap)
	return nil
}

func (c *Catalog) Source() string {
	if c.path == "" {
		return "built-in"
	}
	return c.path
}

// Courses returns the courses in catalog order. Callers must not modify the
// returned slice.
func (c *Catalog) Courses() []models.Course {
	return c.current.Load().courses
}

func (c *Catalog) Len() int {
	return len(c.current.Load().courses)
}

func (c *Catalog) Find(id string) (models.Course, bool) {
	snap := c.current.Load()
	i, ok := snap.index[id]
	if !ok {
		return models.Course{}, false
	}
	return snap.courses[i], true
}

func readCourses(path string) ([]models.Course, error) {
	var (
		f   file
		err error
	)
	if path == "" {
		err = json.Unmarshal(defaultCourses, &f)
		return f.Courses, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &f)
	default:
		err = json.Unmarshal(data, &f)
	}
	if err != nil {
		return nil, fmt.Errorf("parse catalog %s: %w", path, err)
	}
	return f.Courses, nil
}

func newSnapshot(courses []models.Course) (*snapshot, error) {
	snap := &snapshot{
		courses: make([]models.Course, len(courses)),
		index:   make(map[string]int, len(courses)),
	}
	for i, course := range courses {
		if course.ID == "" {
			return nil, fmt.Errorf("catalog: course #%d has no id", i+1)
		}
		if _, dup := snap.index[course.ID]; dup {
			return nil, fmt.Errorf("catalog: duplicate course id %q", course.ID)
		}

		course.Difficulty = models.ParseDifficulty(string(course.Difficulty))
		if course.Difficulty == "" {
			course.Difficulty = models.DifficultyBeginner
		}
		if !course.Difficulty.Valid() {
			return nil, fmt.Errorf("catalog: course %q has unknown difficulty %q", course.ID, course.Difficulty)
		}

		seen := make(map[int]struct{}, len(course.Challenges))
		for _, ch := range course.Challenges {
			if _, dup := seen[ch.ID]; dup {
				return nil, fmt.Errorf("catalog: course %q has duplicate challenge id %d", course.ID, ch.ID)
			}
			seen[ch.ID] = struct{}{}
		}
		course.Challenges = append([]models.Challenge(nil), course.Challenges...)

		snap.courses[i] = course
		snap.index[course.ID] = i
	}
	return snap, nil
}
