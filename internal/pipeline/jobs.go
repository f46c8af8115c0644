package pipeline

import (
	"sync"
	"time"
)

// JobStatus represents the state of one course conversion.
type JobStatus string

const (
	StatusQueued     JobStatus = "queued"
	StatusExtracting JobStatus = "extracting"
	StatusConverting JobStatus = "converting"
	StatusWriting    JobStatus = "writing"
	StatusCompleted  JobStatus = "completed"
	StatusFailed     JobStatus = "failed"
)

// Job tracks the conversion of a single course. One job owns one course
// directory and its outputs; nothing is shared between jobs, which is
// what lets the pool run them in parallel.
type Job struct {
	mu sync.Mutex

	ID     string `json:"job_id"`
	Source string `json:"source"`

	Status JobStatus `json:"status"`
	Phase  string    `json:"phase"`

	CourseID    string `json:"course_id,omitempty"`
	CourseTitle string `json:"course_title,omitempty"`
	OutputPath  string `json:"output_path,omitempty"`
	AssetsCount int    `json:"assets_copied"`

	Errors []string `json:"errors,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (j *Job) SetStatus(status JobStatus, phase string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Status = status
	j.Phase = phase
	j.UpdatedAt = time.Now()
}

func (j *Job) AddError(msg string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Errors = append(j.Errors, msg)
	j.UpdatedAt = time.Now()
}

func (j *Job) SetResult(courseID, title, outputPath string, assets int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.CourseID = courseID
	j.CourseTitle = title
	j.OutputPath = outputPath
	j.AssetsCount = assets
	j.UpdatedAt = time.Now()
}

// Snapshot returns a read-only copy of the job state.
func (j *Job) Snapshot() JobSnapshot {
	j.mu.Lock()
	defer j.mu.Unlock()
	errs := make([]string, len(j.Errors))
	copy(errs, j.Errors)
	return JobSnapshot{
		ID:          j.ID,
		Source:      j.Source,
		Status:      j.Status,
		Phase:       j.Phase,
		CourseID:    j.CourseID,
		CourseTitle: j.CourseTitle,
		OutputPath:  j.OutputPath,
		AssetsCount: j.AssetsCount,
		Errors:      errs,
	}
}

// JobSnapshot is a JSON-safe copy of job state.
type JobSnapshot struct {
	ID          string    `json:"job_id"`
	Source      string    `json:"source"`
	Status      JobStatus `json:"status"`
	Phase       string    `json:"phase"`
	CourseID    string    `json:"course_id,omitempty"`
	CourseTitle string    `json:"course_title,omitempty"`
	OutputPath  string    `json:"output_path,omitempty"`
	AssetsCount int       `json:"assets_copied"`
	Errors      []string  `json:"errors"`
}

// JobStore is a thread-safe in-memory job registry preserving submission
// order.
type JobStore struct {
	mu    sync.Mutex
	jobs  map[string]*Job
	order []string
}

func NewJobStore() *JobStore {
	return &JobStore{jobs: make(map[string]*Job)}
}

func (s *JobStore) Put(job *Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.jobs[job.ID]; !exists {
		s.order = append(s.order, job.ID)
	}
	s.jobs[job.ID] = job
}

func (s *JobStore) Get(id string) *Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.jobs[id]
}

// List returns snapshots in submission order.
func (s *JobStore) List() []JobSnapshot {
	s.mu.Lock()
	jobs := make([]*Job, 0, len(s.order))
	for _, id := range s.order {
		jobs = append(jobs, s.jobs[id])
	}
	s.mu.Unlock()

	out := make([]JobSnapshot, 0, len(jobs))
	for _, j := range jobs {
		out = append(out, j.Snapshot())
	}
	return out
}
