package dashboard

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"forecastx/internal/models"
	"forecastx/internal/services/weather"
	"forecastx/pkg/logger"
)

// View is what the dashboard currently shows.
type View struct {
	RequestID uint64                 `json:"request_id" example:"3"`
	RunID     string                 `json:"run_id,omitempty" example:"5f0c1c1e-4d0e-4bb4-9a4e-0d7f0b0e9d2a"`
	City      string                 `json:"city" example:"London"`
	State     weather.State          `json:"state" example:"ready"`
	Result    *models.ForecastResult `json:"result,omitempty"`
	Message   string                 `json:"message,omitempty" example:"City 'Atlantis' not found"`
	UpdatedAt time.Time              `json:"updated_at"`
}

// Runner is the part of weather.Pipeline the controller drives.
type Runner interface {
	RunTracked(ctx context.Context, city string, track func(weather.State)) (models.ForecastResult, bool)
}

// SessionTTL is how long an untouched client's dashboard state is kept.
const SessionTTL = 30 * time.Minute

// session is one client's dashboard: its own request counter, in-flight run and view.
type session struct {
	issued  uint64
	cancel  context.CancelFunc
	running int
	view    View
	touched time.Time
}

// Controller tags every triggering event with a request id and only ever publishes the
// result of the latest one issued. Ordering is per client session: starting a request
// cancels the session's previous one and leaves other sessions alone.
type Controller struct {
	runner Runner
	l      *logger.Logger
	now    func() time.Time
	ttl    time.Duration

	mu       sync.Mutex
	sessions map[string]*session
}

func NewController(runner Runner, l *logger.Logger) *Controller {
	return &Controller{
		runner:   runner,
		l:        l,
		now:      time.Now,
		ttl:      SessionTTL,
		sessions: map[string]*session{},
	}
}

// Current is the view last published for sessionID; unknown sessions are idle.
func (c *Controller) Current(sessionID string) View {
	c.mu.Lock()
	defer c.mu.Unlock()
	if s, ok := c.sessions[sessionID]; ok {
		return s.view
	}
	return c.idle()
}

// Sessions is the number of client sessions currently held.
func (c *Controller) Sessions() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.sessions)
}

// Submit handles one triggering event for sessionID. It returns this request's own view
// and whether it was published; false means a newer request of the same session
// superseded it and the session shows that one instead.
func (c *Controller) Submit(ctx context.Context, sessionID, city string) (View, bool) {
	id, runCtx, done := c.begin(ctx, sessionID)
	defer done()

	if weather.IsBlank(city) {
		return c.publish(sessionID, id, View{State: weather.StateIdle})
	}

	runID := uuid.NewString()
	runCtx = weather.WithRunID(runCtx, runID)

	c.l.Debug("dashboard request issued", map[string]any{
		"session":    sessionID,
		"request_id": id,
		"run_id":     runID,
		"city":       city,
	})

	result, _ := c.runner.RunTracked(runCtx, city, func(s weather.State) {
		c.track(sessionID, id, runID, city, s)
	})

	return c.publish(sessionID, id, View{
		RunID:   runID,
		City:    city,
		State:   weather.StateOf(result),
		Result:  &result,
		Message: result.Message(),
	})
}

func (c *Controller) idle() View {
	return View{State: weather.StateIdle, UpdatedAt: c.now()}
}

func (c *Controller) begin(ctx context.Context, sessionID string) (uint64, context.Context, func()) {
	runCtx, cancel := context.WithCancel(ctx)

	c.mu.Lock()
	c.prune(sessionID)
	s, ok := c.sessions[sessionID]
	if !ok {
		s = &session{view: c.idle()}
		c.sessions[sessionID] = s
	}
	s.issued++
	id := s.issued
	if s.cancel != nil {
		s.cancel()
	}
	s.cancel = cancel
	s.running++
	s.touched = c.now()
	c.mu.Unlock()

	return id, runCtx, func() {
		c.mu.Lock()
		if s.issued == id {
			s.cancel = nil
		}
		s.running--
		s.touched = c.now()
		c.mu.Unlock()
		cancel()
	}
}

// prune drops idle sessions untouched for longer than the ttl. Callers hold mu.
func (c *Controller) prune(keep string) {
	now := c.now()
	for id, s := range c.sessions {
		if id == keep || s.running > 0 || now.Sub(s.touched) <= c.ttl {
			continue
		}
		delete(c.sessions, id)
	}
}

// track publishes intermediate states so a poller sees Resolving and Fetching.
func (c *Controller) track(sessionID string, id uint64, runID, city string, st weather.State) {
	if st != weather.StateResolving && st != weather.StateFetching {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.sessions[sessionID]
	if !ok || id != s.issued {
		return
	}
	s.view = View{
		RequestID: id,
		RunID:     runID,
		City:      city,
		State:     st,
		UpdatedAt: c.now(),
	}
}

func (c *Controller) publish(sessionID string, id uint64, v View) (View, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	v.RequestID = id
	v.UpdatedAt = c.now()

	s, ok := c.sessions[sessionID]
	if !ok || id != s.issued {
		latest := uint64(0)
		if ok {
			latest = s.issued
		}
		c.l.Debug("discarding stale dashboard result", map[string]any{
			"session":    sessionID,
			"request_id": id,
			"latest":     latest,
			"run_id":     v.RunID,
			"city":       v.City,
		})
		return v, false
	}

	s.view = v
	return v, true
}
