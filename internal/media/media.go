// Package media owns the single file-naming rule shared by the markdown
// renderer and the asset copier. Rendered references resolve only because
// both sides call the same SanitizeFileName.
package media

import (
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
)

var (
	unsafeRuns = regexp.MustCompile(`[^A-Za-z0-9._-]+`)
	edgeRuns   = regexp.MustCompile(`^_+|_+$`)
	staticRef  = regexp.MustCompile(`(src|href)="/static/([^"]*)"`)
)

// SanitizeFileName collapses every run of characters outside
// [A-Za-z0-9._-] to a single underscore and trims leading/trailing
// underscores. Idempotent.
func SanitizeFileName(name string) string {
	return edgeRuns.ReplaceAllString(unsafeRuns.ReplaceAllString(name, "_"), "")
}

// RewriteMediaPaths rewrites every src="/static/<path>" and
// href="/static/<path>" occurrence to ./media/<sanitized-path>.
func RewriteMediaPaths(html string) string {
	return staticRef.ReplaceAllStringFunc(html, func(match string) string {
		m := staticRef.FindStringSubmatch(match)
		return fmt.Sprintf(`%s="./media/%s"`, m[1], SanitizeFileName(m[2]))
	})
}

// CopyAssets copies every file under static/ in the course filesystem to
// <destDir>/media/, renaming each with SanitizeFileName applied to its
// path relative to static/. A course without a static directory is fine.
// Individual copy failures are logged and skipped. Returns the number of
// files copied.
func CopyAssets(fsys fs.FS, destDir string, log *slog.Logger) (int, error) {
	if _, err := fs.Stat(fsys, "static"); err != nil {
		return 0, nil
	}

	mediaDir := filepath.Join(destDir, "media")
	if err := os.MkdirAll(mediaDir, 0o755); err != nil {
		return 0, fmt.Errorf("create media dir: %w", err)
	}

	copied := 0
	err := fs.WalkDir(fsys, "static", func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		rel, _ := filepath.Rel("static", filepath.FromSlash(p))
		dest := filepath.Join(mediaDir, SanitizeFileName(filepath.ToSlash(rel)))
		if err := copyFile(fsys, p, dest); err != nil {
			log.Warn("asset copy failed, skipping", "asset", p, "error", err)
			return nil
		}
		copied++
		return nil
	})
	return copied, err
}

func copyFile(fsys fs.FS, src, dest string) error {
	in, err := fsys.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
