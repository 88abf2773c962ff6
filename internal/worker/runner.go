package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
)

// ErrBusy is returned when a storyboard already has an export running.
var ErrBusy = errors.New("an export is already running for this storyboard")

// Artifact is the finished output of an export job, ready to download.
type Artifact struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Job represents a unit of export work to be executed.
type Job interface {
	// ID returns the storyboard this job belongs to.
	ID() string
	// Kind names the export format, e.g. "zip", "pdf" or "video".
	Kind() string
	// Execute performs the work, reporting progress as it goes.
	Execute(ctx context.Context, progress func(done, total int)) (*Artifact, error)
}

// Status is the lifecycle phase of a submitted job.
type Status string

const (
	StatusRunning Status = "running"
	StatusDone    Status = "done"
	StatusFailed  Status = "failed"
)

// JobState is a snapshot of one export's progress, kept per storyboard and
// format so a finished artifact stays available for download.
type JobState struct {
	Status   Status    `json:"status"`
	Done     int       `json:"done"`
	Total    int       `json:"total"`
	Error    string    `json:"error,omitempty"`
	Artifact *Artifact `json:"-"`
}

type queuedJob struct {
	job Job
	key string
}

// Runner executes export jobs on a fixed pool of workers. Each storyboard
// may have at most one job in flight at a time.
type Runner struct {
	log      *logrus.Logger
	jobQueue chan queuedJob

	mu      sync.Mutex
	states  map[string]*JobState
	running map[string]bool

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewRunner creates a Runner and starts its workers.
func NewRunner(maxWorkers, queueSize int, log *logrus.Logger) *Runner {
	if maxWorkers < 1 {
		maxWorkers = 1
	}
	ctx, cancel := context.WithCancel(context.Background())
	r := &Runner{
		log:      log,
		jobQueue: make(chan queuedJob, queueSize),
		states:   make(map[string]*JobState),
		running:  make(map[string]bool),
		ctx:      ctx,
		cancel:   cancel,
	}
	for i := 1; i <= maxWorkers; i++ {
		r.wg.Add(1)
		go r.work(i)
	}
	log.WithField("workers", maxWorkers).Info("Export runner started")
	return r
}

// Submit queues a job. It returns ErrBusy if the job's storyboard already
// has a running or queued job, and an error if the queue is full.
func (r *Runner) Submit(job Job) error {
	key := stateKey(job.ID(), job.Kind())

	r.mu.Lock()
	if r.running[job.ID()] {
		r.mu.Unlock()
		return ErrBusy
	}
	r.running[job.ID()] = true
	r.states[key] = &JobState{Status: StatusRunning}
	r.mu.Unlock()

	select {
	case r.jobQueue <- queuedJob{job: job, key: key}:
		r.log.WithFields(logrus.Fields{"storyboard": job.ID(), "kind": job.Kind()}).Info("Export job submitted")
		return nil
	default:
		r.mu.Lock()
		delete(r.running, job.ID())
		delete(r.states, key)
		r.mu.Unlock()
		return errors.New("export queue is full")
	}
}

// Status returns a snapshot of the latest job for a storyboard and format.
func (r *Runner) Status(storyboardID, kind string) (JobState, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	state, ok := r.states[stateKey(storyboardID, kind)]
	if !ok {
		return JobState{}, false
	}
	return *state, true
}

// Stop shuts the runner down after in-flight jobs finish. Queued jobs that
// have not started are marked failed.
func (r *Runner) Stop() {
	r.cancel()
	close(r.jobQueue)
	r.wg.Wait()
	r.log.Info("Export runner stopped")
}

func (r *Runner) work(id int) {
	defer r.wg.Done()
	for q := range r.jobQueue {
		if r.ctx.Err() != nil {
			r.finish(q, nil, r.ctx.Err())
			continue
		}
		log := r.log.WithFields(logrus.Fields{"worker": id, "storyboard": q.job.ID(), "kind": q.job.Kind()})
		log.Info("Export job started")

		artifact, err := q.job.Execute(r.ctx, func(done, total int) {
			r.mu.Lock()
			if state, ok := r.states[q.key]; ok {
				state.Done, state.Total = done, total
			}
			r.mu.Unlock()
		})
		r.finish(q, artifact, err)

		if err != nil {
			log.WithError(err).Error("Export job failed")
		} else {
			log.Info("Export job finished")
		}
	}
}

func (r *Runner) finish(q queuedJob, artifact *Artifact, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.running, q.job.ID())
	state, ok := r.states[q.key]
	if !ok {
		return
	}
	if err != nil {
		state.Status = StatusFailed
		state.Error = err.Error()
		return
	}
	state.Status = StatusDone
	state.Artifact = artifact
}

func stateKey(storyboardID, kind string) string {
	return fmt.Sprintf("%s/%s", storyboardID, kind)
}
