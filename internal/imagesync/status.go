package imagesync

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// Sync phases as reported by the status endpoint.
const (
	PhaseIdle        = "idle"
	PhaseScanning    = "scanning"
	PhaseDownloading = "downloading"
	PhaseRewriting   = "rewriting"
	PhaseDone        = "done"
	PhaseFailed      = "failed"
)

// Snapshot is a point-in-time view of a running sync. Percent tracks the
// download phase; the timestamps are set once the sync leaves the idle phase.
type Snapshot struct {
	Phase     string     `json:"phase"`
	Total     int        `json:"total"`
	Uploaded  int        `json:"uploaded"`
	Skipped   int        `json:"skipped"`
	Failed    int        `json:"failed"`
	Rewritten int        `json:"rewritten"`
	Percent   float64    `json:"percent"`
	StartedAt *time.Time `json:"started_at,omitempty"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
	LastError string     `json:"last_error,omitempty"`
}

// Status tracks sync progress for the status endpoint. Safe for concurrent
// use.
type Status struct {
	mu       sync.Mutex
	snapshot Snapshot
}

// NewStatus returns new idle Status.
func NewStatus() *Status {
	return &Status{snapshot: Snapshot{Phase: PhaseIdle}}
}

// Snapshot returns the current progress with the download percentage
// computed from the counters.
func (s *Status) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.snapshot
	if snapshot.Total > 0 {
		snapshot.Percent = 100 * float64(snapshot.Uploaded+snapshot.Failed) / float64(snapshot.Total)
	}
	if snapshot.Phase == PhaseDone {
		snapshot.Percent = 100
	}

	return snapshot
}

// touch must be called with the mutex held.
func (s *Status) touch() {
	now := time.Now()
	if s.snapshot.StartedAt == nil {
		s.snapshot.StartedAt = &now
	}
	s.snapshot.UpdatedAt = &now
}

func (s *Status) setPhase(phase string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshot.Phase = phase
	s.touch()
}

func (s *Status) setTotal(total, skipped int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshot.Total = total
	s.snapshot.Skipped = skipped
	s.touch()
}

func (s *Status) addUploaded() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshot.Uploaded++
	s.touch()
}

func (s *Status) addFailed(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshot.Failed++
	s.snapshot.LastError = err.Error()
	s.touch()
}

func (s *Status) addRewritten(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshot.Rewritten += n
	s.touch()
}

func (s *Status) fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshot.Phase = PhaseFailed
	s.snapshot.LastError = err.Error()
	s.touch()
}

// Handler returns an http.Handler serving GET /status with the current
// snapshot.
func (s *Status) Handler() http.Handler {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.GET("/status", func(c *gin.Context) {
		c.JSON(http.StatusOK, s.Snapshot())
	})

	return router
}
