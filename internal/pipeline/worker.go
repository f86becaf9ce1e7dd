package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/avast/retry-go/v4"

	"github.com/dgallion1/scenecut/internal/book"
	"github.com/dgallion1/scenecut/internal/config"
	"github.com/dgallion1/scenecut/internal/director"
	"github.com/dgallion1/scenecut/internal/reader"
	"github.com/dgallion1/scenecut/internal/segment"
	"github.com/dgallion1/scenecut/internal/store"
)

// MaxAttempts bounds retries of a single director call.
const MaxAttempts = 3

// Worker processes a single book ingestion job.
type Worker struct {
	director *director.Client
	log      *slog.Logger
	cfg      config.Config
}

func NewWorker(d *director.Client, log *slog.Logger, cfg config.Config) *Worker {
	return &Worker{
		director: d,
		log:      log,
		cfg:      cfg,
	}
}

// Process runs the full pipeline for a job: read, segment, direct, store.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "filename", job.Filename)

	// Phase 1: Read
	job.SetStatus(StatusReading, "reading")
	rd, err := reader.ForFile(job.Filename)
	if err != nil {
		log.Error("unsupported format", "error", err)
		job.AddError(err.Error())
		job.SetStatus(StatusFailed, "reading")
		return
	}

	doc, err := rd.Read(bytes.NewReader(job.FileData()), job.Filename)
	if err != nil {
		log.Error("read failed", "error", err)
		job.AddError(fmt.Sprintf("read: %s", err))
		job.SetStatus(StatusFailed, "reading")
		return
	}
	if job.Title != "" {
		doc.Title = job.Title
	}

	// Phase 2: Segment
	job.SetStatus(StatusSegmenting, "segmenting")
	seg := segment.New(w.cfg.MaxSceneWords, w.log)
	structure := seg.Run(doc)
	if len(structure.Chapters) == 0 {
		log.Warn("no scenes found")
		job.AddError("no narrative content found")
		job.SetStatus(StatusFailed, "segmenting")
		return
	}
	job.SetStructure(&structure)
	job.SetCounts(len(structure.Chapters), structure.SceneCount())
	log.Info("segmented book",
		"chapters", len(structure.Chapters), "scenes", structure.SceneCount())

	// Phase 3: Direct scenes with bounded concurrency.
	hadErrors := false
	var script *store.ScriptOutput
	if w.director != nil {
		job.SetStatus(StatusDirecting, "directing")
		out, errs := w.directScenes(ctx, job, structure)
		hadErrors = errs
		script = &out
		job.SetScript(script)
	}

	// Phase 4: Store
	job.SetStatus(StatusStoring, "storing")
	base := filepath.Join(w.cfg.OutputDir, job.ID)
	if err := store.SaveStructure(base+"_structure.json", structure); err != nil {
		log.Error("store structure failed", "error", err)
		job.AddError(fmt.Sprintf("store structure: %s", err))
		hadErrors = true
	}
	if script != nil {
		if err := store.SaveScript(base+"_scenes.json", *script); err != nil {
			log.Error("store script failed", "error", err)
			job.AddError(fmt.Sprintf("store script: %s", err))
			hadErrors = true
		}
	}

	if hadErrors {
		job.SetStatus(StatusPartial, "done")
	} else {
		job.SetStatus(StatusCompleted, "done")
	}
}

// sceneRef addresses one scene within the structure for directing.
type sceneRef struct {
	label string
	scene book.Scene
}

// directScenes sends scenes to the director and assembles the script output
// in the book's scene order. With MaxScenes set, scenes run one at a time and
// the loop stops once that many valid scripts exist; failed scenes do not
// count toward the cap. Without a cap, scenes run in bounded parallel.
// Reports whether any scene failed.
func (w *Worker) directScenes(ctx context.Context, job *Job, structure book.Structure) (store.ScriptOutput, bool) {
	log := w.log.With("job_id", job.ID)

	var refs []sceneRef
	for _, ch := range structure.Chapters {
		for _, sc := range ch.Scenes {
			refs = append(refs, sceneRef{label: ch.Label, scene: sc})
		}
	}

	var scenes []director.ScriptScene
	hadErrors := false

	if w.cfg.MaxScenes > 0 {
		log.Info("directing with scene cap", "cap", w.cfg.MaxScenes, "total", len(refs))
		for _, ref := range refs {
			if len(scenes) >= w.cfg.MaxScenes {
				break
			}
			res, failed := w.directOne(ctx, job, ref)
			if failed {
				hadErrors = true
			}
			if res != nil {
				scenes = append(scenes, *res)
			}
		}
	} else {
		results := make([]*director.ScriptScene, len(refs))
		failed := make([]bool, len(refs))
		sem := make(chan struct{}, w.cfg.MaxConcurrentDirect)
		var wg sync.WaitGroup

		for i, ref := range refs {
			sem <- struct{}{}
			wg.Add(1)
			go func(i int, ref sceneRef) {
				defer wg.Done()
				defer func() { <-sem }()
				results[i], failed[i] = w.directOne(ctx, job, ref)
			}(i, ref)
		}
		wg.Wait()

		for i, res := range results {
			if failed[i] {
				hadErrors = true
			}
			if res != nil {
				scenes = append(scenes, *res)
			}
		}
	}

	job.AddScriptsValid(len(scenes))
	log.Info("directing complete", "scripts", len(scenes), "errors", hadErrors)

	return store.NewScriptOutput(structure.Title, scenes), hadErrors
}

// directOne runs the retrying director call for a single scene. Returns the
// script (nil when the scene was skipped or failed) and whether the scene
// counts as a failure. Too-short scenes are skipped, not failed.
func (w *Worker) directOne(ctx context.Context, job *Job, ref sceneRef) (*director.ScriptScene, bool) {
	sceneLabel := director.Label(ref.label, ref.scene.ID)

	var res *director.ScriptScene
	err := retry.Do(
		func() error {
			out, err := w.director.AnalyzeScene(ctx, ref.scene.Text, sceneLabel)
			if err != nil {
				return err
			}
			res = out
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(MaxAttempts),
		retry.Delay(1*time.Second),
		retry.RetryIf(director.IsRetryable),
		retry.LastErrorOnly(true),
	)
	job.IncrScenesDirected()
	if err != nil {
		if errors.Is(err, director.ErrSceneTooShort) {
			w.log.Debug("scene skipped", "job_id", job.ID, "scene", sceneLabel)
			return nil, false
		}
		w.log.Error("director call failed", "job_id", job.ID, "scene", sceneLabel, "error", err)
		job.AddError(fmt.Sprintf("scene %s: %s", sceneLabel, err))
		return nil, true
	}
	return res, false
}
