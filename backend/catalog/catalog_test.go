package catalog

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"skillpractice/backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadBuiltIn(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 5, c.Len())
	assert.Equal(t, "built-in", c.Source())
	assert.Equal(t, "click-course", c.Courses()[0].ID)

	course, ok := c.Find("url-basics-course")
	require.True(t, ok)
	assert.Equal(t, models.DifficultyAdvanced, course.Difficulty)
	assert.Len(t, course.Challenges, 4)

	_, ok = c.Find("missing")
	assert.False(t, ok)
}

func TestLoadYAMLAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "courses.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
courses:
  - id: a
    title: A
    difficulty: Intermediate
    challenges:
      - {id: 1, title: one, type: click}
`), 0o600))

	c, err := Load(path)
	require.NoError(t, err)
	course, ok := c.Find("a")
	require.True(t, ok)
	assert.Equal(t, models.DifficultyIntermediate, course.Difficulty)

	require.NoError(t, os.WriteFile(path, []byte(`
courses:
  - id: b
    challenges: []
  - id: c
`), 0o600))
	require.NoError(t, c.Reload())
	assert.Equal(t, 2, c.Len())
	_, ok = c.Find("a")
	assert.False(t, ok)
	course, ok = c.Find("c")
	require.True(t, ok)
	assert.Equal(t, models.DifficultyBeginner, course.Difficulty)
}

func TestReloadKeepsSnapshotOnError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "courses.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"courses":[{"id":"a"}]}`), 0o600))
	c, err := Load(path)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte(`{"courses":[{"id":"a"},{"id":"a"}]}`), 0o600))
	assert.Error(t, c.Reload())
	assert.Equal(t, 1, c.Len())
}

func TestNewRejectsInvalidCatalogs(t *testing.T) {
	_, err := New([]models.Course{{ID: ""}})
	assert.Error(t, err)

	_, err = New([]models.Course{{ID: "a", Difficulty: "expert"}})
	assert.Error(t, err)

	_, err = New([]models.Course{{ID: "a", Challenges: []models.Challenge{{ID: 1}, {ID: 1}}}})
	assert.Error(t, err)

	// challenge ids only need to be unique within their course
	c, err := New([]models.Course{
		{ID: "a", Challenges: []models.Challenge{{ID: 1}}},
		{ID: "b", Challenges: []models.Challenge{{ID: 1}}},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, c.Len())
}

func TestConcurrentReadersSeeWholeSnapshots(t *testing.T) {
	path := filepath.Join(t.TempDir(), "courses.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"courses":[{"id":"a1"},{"id":"a2"}]}`), 0o600))
	c, err := Load(path)
	require.NoError(t, err)

	var wg sync.WaitGroup
	stop := make(chan struct{})
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
				}
				courses := c.Courses()
				// both snapshots hold two courses with matching ids
				if assert.Len(t, courses, 2) {
					assert.Equal(t, courses[0].ID[0], courses[1].ID[0])
				}
			}
		}()
	}

	for i := 0; i < 20; i++ {
		body := `{"courses":[{"id":"a1"},{"id":"a2"}]}`
		if i%2 == 1 {
			body = `{"courses":[{"id":"b1"},{"id":"b2"}]}`
		}
		require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
		require.NoError(t, c.Reload())
	}
	close(stop)
	wg.Wait()
}

func TestResolveComponent(t *testing.T) {
	assert.Equal(t, "challenges/01-click-course/DoubleClickChallenge.vue", ResolveComponent("click-course", "double-click"))
	assert.Equal(t, "challenges/01-click-course/DoubleClickChallenge.vue", ResolveComponent("click-course", "", "Double click"))
	assert.Equal(t, "challenges/02-drag-course/FileDragChallenge.vue", ResolveComponent("drag-course", "unknown"))
	assert.Equal(t, DefaultComponent, ResolveComponent("no-such-course", "click"))
}

func TestNewAcceptsLegacyCourseLabels(t *testing.T) {
	c, err := New([]models.Course{
		{ID: "click-course", Title: "鼠标点击", Difficulty: "初级", Challenges: []models.Challenge{
			{ID: 1, Title: "单击挑战"},
			{ID: 2, Title: "双击挑战"},
		}},
		{ID: "context-menu-course", Difficulty: "中级", Challenges: []models.Challenge{{ID: 1, Title: "右键菜单新建文档"}}},
		{ID: "url-basics-course", Difficulty: "高级", Challenges: []models.Challenge{{ID: 1, Title: "合法URL识别"}}},
	})
	require.NoError(t, err)

	courses := c.Courses()
	assert.Equal(t, models.DifficultyBeginner, courses[0].Difficulty)
	assert.Equal(t, models.DifficultyIntermediate, courses[1].Difficulty)
	assert.Equal(t, models.DifficultyAdvanced, courses[2].Difficulty)

	second := courses[0].Challenges[1]
	assert.Equal(t, "challenges/01-click-course/DoubleClickChallenge.vue", ResolveComponent("click-course", second.Type, second.Title))
	assert.Equal(t, "challenges/05-url-basics-course/ValidUrlChallenge.vue", ResolveComponent("url-basics-course", "", "合法URL识别"))
	assert.Equal(t, "challenges/02-drag-course/ListDragChallenge.vue", ResolveComponent("drag-course", "列表拖拽"))
}
