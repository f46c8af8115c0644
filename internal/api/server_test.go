package api

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olxtools/olx2lia/internal/config"
)

func testServer(t *testing.T, outDir string) *Server {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewServer(config.Config{OutputDir: outDir, Workers: 1}, log)
}

func TestHealth(t *testing.T) {
	srv := testServer(t, t.TempDir())
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestListCourses(t *testing.T) {
	outDir := t.TempDir()

	// One converted course with preview, one without, one stray dir.
	courseA := filepath.Join(outDir, "course-a")
	require.NoError(t, os.MkdirAll(courseA, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(courseA, "course.md"), []byte("# A"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(courseA, "index.html"), []byte("<html/>"), 0o644))

	courseB := filepath.Join(outDir, "course-b")
	require.NoError(t, os.MkdirAll(courseB, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(courseB, "course.md"), []byte("# B"), 0o644))

	require.NoError(t, os.MkdirAll(filepath.Join(outDir, "not-a-course"), 0o755))

	srv := testServer(t, outDir)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/courses", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Courses []courseEntry `json:"courses"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Courses, 2)

	assert.Equal(t, "course-a", resp.Courses[0].ID)
	assert.Equal(t, "/courses/course-a/course.md", resp.Courses[0].Document)
	assert.Equal(t, "/courses/course-a/index.html", resp.Courses[0].Preview)
	assert.Empty(t, resp.Courses[1].Preview)
}

func TestServeCourseDocument(t *testing.T) {
	outDir := t.TempDir()
	courseDir := filepath.Join(outDir, "demo")
	require.NoError(t, os.MkdirAll(courseDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(courseDir, "course.md"), []byte("# Demo\n"), 0o644))

	srv := testServer(t, outDir)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/courses/demo/course.md", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "# Demo\n", rec.Body.String())
}
