package pipeline

import (
	"sync"
	"time"

	"github.com/dgallion1/scenecut/internal/book"
	"github.com/dgallion1/scenecut/internal/store"
)

// JobStatus represents the state of an ingestion job.
type JobStatus string

const (
	StatusQueued     JobStatus = "queued"
	StatusReading    JobStatus = "reading"
	StatusSegmenting JobStatus = "segmenting"
	StatusDirecting  JobStatus = "directing"
	StatusStoring    JobStatus = "storing"
	StatusCompleted  JobStatus = "completed"
	StatusFailed     JobStatus = "failed"
	StatusPartial    JobStatus = "partial"
)

// Job tracks the state of a single book ingestion.
type Job struct {
	mu sync.Mutex

	ID string `json:"job_id"`

	Status   JobStatus `json:"status"`
	Phase    string    `json:"phase"`
	Filename string    `json:"filename"`
	Title    string    `json:"title"`

	Progress Progress `json:"progress"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Internal: not serialized.
	fileData  []byte
	structure *book.Structure
	script    *store.ScriptOutput
	errors    []string
}

// Progress tracks processing progress.
type Progress struct {
	Chapters       int      `json:"chapters"`
	TotalScenes    int      `json:"total_scenes"`
	ScenesDirected int      `json:"scenes_directed"`
	ScriptsValid   int      `json:"scripts_valid"`
	Errors         []string `json:"errors"`
}

// JobStore is a thread-safe in-memory job registry with TTL eviction.
type JobStore struct {
	mu   sync.Mutex
	jobs map[string]*Job
	ttl  time.Duration
}

func NewJobStore(ttl time.Duration) *JobStore {
	return &JobStore{
		jobs: make(map[string]*Job),
		ttl:  ttl,
	}
}

func (s *JobStore) Put(job *Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.ID] = job
}

func (s *JobStore) Get(id string) *Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.jobs[id]
}

// Cleanup removes expired jobs.
func (s *JobStore) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for id, job := range s.jobs {
		if now.Sub(job.UpdatedAt) > s.ttl {
			delete(s.jobs, id)
		}
	}
}

// SetStatus updates job status atomically.
func (j *Job) SetStatus(status JobStatus, phase string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Status = status
	j.Phase = phase
	j.UpdatedAt = time.Now()
}

// AddError records an error.
func (j *Job) AddError(err string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.errors = append(j.errors, err)
	j.Progress.Errors = j.errors
	j.UpdatedAt = time.Now()
}

// SetCounts records the segmentation result sizes.
func (j *Job) SetCounts(chapters, scenes int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.Chapters = chapters
	j.Progress.TotalScenes = scenes
	j.UpdatedAt = time.Now()
}

// IncrScenesDirected atomically increments the directed scene count.
func (j *Job) IncrScenesDirected() {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.ScenesDirected++
	j.UpdatedAt = time.Now()
}

// AddScriptsValid records successfully validated scripts.
func (j *Job) AddScriptsValid(n int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.ScriptsValid += n
	j.UpdatedAt = time.Now()
}

// SetFileData sets the raw file bytes for processing.
func (j *Job) SetFileData(data []byte) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.fileData = data
}

// FileData returns the raw file bytes.
func (j *Job) FileData() []byte {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.fileData
}

// SetStructure stores the segmentation result and releases the raw bytes.
func (j *Job) SetStructure(s *book.Structure) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.structure = s
	j.fileData = nil
	j.UpdatedAt = time.Now()
}

// Structure returns the segmentation result, or nil before segmenting.
func (j *Job) Structure() *book.Structure {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.structure
}

// SetScript stores the director output.
func (j *Job) SetScript(out *store.ScriptOutput) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.script = out
	j.UpdatedAt = time.Now()
}

// Script returns the director output, or nil when directing never ran.
func (j *Job) Script() *store.ScriptOutput {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.script
}

// JobSnapshot is a read-only, JSON-safe copy of job state.
type JobSnapshot struct {
	ID       string    `json:"job_id"`
	Status   JobStatus `json:"status"`
	Phase    string    `json:"phase"`
	Filename string    `json:"filename"`
	Title    string    `json:"title"`
	Progress Progress  `json:"progress"`
}

// Snapshot returns a JSON-safe copy of the job state.
func (j *Job) Snapshot() JobSnapshot {
	j.mu.Lock()
	defer j.mu.Unlock()
	errs := j.Progress.Errors
	if errs == nil {
		errs = []string{}
	}
	return JobSnapshot{
		ID:       j.ID,
		Status:   j.Status,
		Phase:    j.Phase,
		Filename: j.Filename,
		Title:    j.Title,
		Progress: Progress{
			Chapters:       j.Progress.Chapters,
			TotalScenes:    j.Progress.TotalScenes,
			ScenesDirected: j.Progress.ScenesDirected,
			ScriptsValid:   j.Progress.ScriptsValid,
			Errors:         errs,
		},
	}
}
