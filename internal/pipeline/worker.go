package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/olxtools/olx2lia/internal/archive"
	"github.com/olxtools/olx2lia/internal/component"
	"github.com/olxtools/olx2lia/internal/config"
	"github.com/olxtools/olx2lia/internal/convert"
	"github.com/olxtools/olx2lia/internal/media"
	"github.com/olxtools/olx2lia/internal/preview"
)

// Worker converts one course end to end: extract, build tree, render
// document, write outputs, copy media.
type Worker struct {
	cfg config.Config
	reg *component.Registry
	log *slog.Logger
}

func NewWorker(cfg config.Config, reg *component.Registry, log *slog.Logger) *Worker {
	return &Worker{cfg: cfg, reg: reg, log: log}
}

// Process runs the full conversion for a job. A fatal course error marks
// only this job failed; the batch continues.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "source", job.Source)

	root, cleanup, err := w.resolveCourseRoot(job)
	if err != nil {
		log.Error("course root unavailable", "error", err)
		job.AddError(err.Error())
		job.SetStatus(StatusFailed, "extracting")
		return
	}
	if cleanup != nil {
		defer cleanup()
	}

	if ctx.Err() != nil {
		job.AddError(ctx.Err().Error())
		job.SetStatus(StatusFailed, "converting")
		return
	}

	job.SetStatus(StatusConverting, "converting")
	fsys := os.DirFS(root)
	tree, doc, err := convert.New(fsys, w.reg, log).Run()
	if err != nil {
		log.Error("conversion failed", "error", err)
		job.AddError(fmt.Sprintf("convert: %s", err))
		job.SetStatus(StatusFailed, "converting")
		return
	}

	job.SetStatus(StatusWriting, "writing")
	courseID := tree.ID
	if courseID == "" {
		courseID = strings.TrimSuffix(filepath.Base(job.Source), filepath.Ext(job.Source))
	}
	outDir := filepath.Join(w.cfg.OutputDir, media.SanitizeFileName(courseID))
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		job.AddError(fmt.Sprintf("create output dir: %s", err))
		job.SetStatus(StatusFailed, "writing")
		return
	}

	mdPath := filepath.Join(outDir, "course.md")
	if err := os.WriteFile(mdPath, []byte(doc), 0o644); err != nil {
		job.AddError(fmt.Sprintf("write course.md: %s", err))
		job.SetStatus(StatusFailed, "writing")
		return
	}

	assets, err := media.CopyAssets(fsys, outDir, log)
	if err != nil {
		// Media problems degrade the output but the document stands.
		log.Warn("media copy incomplete", "error", err)
		job.AddError(fmt.Sprintf("media: %s", err))
	}

	if w.cfg.Preview {
		page, err := preview.Render([]byte(doc), tree.Title)
		if err != nil {
			log.Warn("preview render failed", "error", err)
			job.AddError(fmt.Sprintf("preview: %s", err))
		} else if err := os.WriteFile(filepath.Join(outDir, "index.html"), page, 0o644); err != nil {
			log.Warn("preview write failed", "error", err)
			job.AddError(fmt.Sprintf("preview: %s", err))
		}
	}

	job.SetResult(courseID, tree.Title, mdPath, assets)
	job.SetStatus(StatusCompleted, "done")
	log.Info("course converted", "course_id", courseID, "output", mdPath, "assets", assets)
}

// resolveCourseRoot returns the extracted course directory for the job's
// source, extracting archives into a temp dir first.
func (w *Worker) resolveCourseRoot(job *Job) (root string, cleanup func(), err error) {
	info, err := os.Stat(job.Source)
	if err != nil {
		return "", nil, err
	}
	if info.IsDir() {
		return job.Source, nil, nil
	}
	if !archive.IsArchive(job.Source) {
		return "", nil, fmt.Errorf("not a course directory or supported archive: %s", job.Source)
	}

	job.SetStatus(StatusExtracting, "extracting")
	tmp, err := os.MkdirTemp("", "olx2lia-*")
	if err != nil {
		return "", nil, fmt.Errorf("create temp dir: %w", err)
	}
	root, err = archive.Extract(job.Source, tmp)
	if err != nil {
		os.RemoveAll(tmp)
		return "", nil, fmt.Errorf("extract %s: %w", filepath.Base(job.Source), err)
	}
	return root, func() { os.RemoveAll(tmp) }, nil
}
