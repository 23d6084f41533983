package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/kirinyoku/citybus/internal/catalog"
	"github.com/kirinyoku/citybus/internal/clock"
	"github.com/kirinyoku/citybus/internal/domain"
	"github.com/kirinyoku/citybus/internal/flow"
)

// Hooks observe a session from the outside. They run synchronously and must
// not call back into the controller.
type Hooks struct {
	OnTransition func(sessionID string, from, to flow.Screen, event string)
	OnBooking    func(ctx context.Context, sessionID string, b domain.Booking)
}

type armedTask struct {
	token uint64
	timer *clock.Timer
}

// Controller owns the flow state of one session. User events and timer
// fires are applied one at a time under mu.
type Controller struct {
	id     string
	clock  clock.Clock
	source catalog.Source
	env    flow.Env
	hooks  Hooks
	logger *slog.Logger

	mu       sync.Mutex
	state    flow.State
	tasks    map[flow.Task]armedTask
	closed   bool
	lastSeen time.Time
	changes  chan struct{}
}

func newController(id string, m *Manager) *Controller {
	return &Controller{
		id:       id,
		clock:    m.clock,
		source:   m.source,
		env:      m.env,
		hooks:    m.hooks,
		logger:   m.logger.With("session_id", id),
		state:    flow.Initial(),
		tasks:    make(map[flow.Task]armedTask),
		lastSeen: m.clock.Now(),
		changes:  make(chan struct{}, 1),
	}
}

func (c *Controller) ID() string { return c.id }

// View returns a snapshot of the current state.
func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return newView(c.id, c.state)
}

// Changes signals after every applied event, timer fires included. The
// channel is closed when the session closes.
func (c *Controller) Changes() <-chan struct{} { return c.changes }

// Dispatch applies a user event. On error the state is unchanged and the
// returned view still describes the current screen.
func (c *Controller) Dispatch(ctx context.Context, ev flow.Event) (View, error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return View{}, ErrClosed
	}
	c.lastSeen = c.clock.Now()
	view, booked, err := c.applyLocked(ev)
	c.mu.Unlock()

	c.afterApply(ctx, booked)

	return view, err
}

// Close cancels pending tasks and retires the session. Later fires and
// dispatches are discarded.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	_, _, _ = c.applyLocked(flow.Teardown{})
	for task, armed := range c.tasks {
		armed.timer.Stop()
		delete(c.tasks, task)
	}
	c.closed = true
	close(c.changes)
}

func (c *Controller) idleSince() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastSeen
}

func (c *Controller) applyLocked(ev flow.Event) (View, *domain.Booking, error) {
	prev := c.state

	next, effects, err := flow.Reduce(prev, ev, c.env)
	if err != nil {
		return newView(c.id, prev), nil, err
	}
	c.state = next

	for _, eff := range effects {
		c.runLocked(eff)
	}

	if prev.Screen != next.Screen {
		c.logger.Debug("screen changed",
			slog.String("from", string(prev.Screen)),
			slog.String("to", string(next.Screen)),
			slog.String("event", ev.Kind()),
		)
		if c.hooks.OnTransition != nil {
			c.hooks.OnTransition(c.id, prev.Screen, next.Screen, ev.Kind())
		}
	}

	if !c.closed {
		select {
		case c.changes <- struct{}{}:
		default:
		}
	}

	var booked *domain.Booking
	if next.Booking != nil && prev.Booking == nil {
		b := *next.Booking
		booked = &b
	}

	return newView(c.id, next), booked, nil
}

func (c *Controller) runLocked(eff flow.Effect) {
	switch e := eff.(type) {
	case flow.Schedule:
		if armed, ok := c.tasks[e.Task]; ok {
			armed.timer.Stop()
		}
		task, token := e.Task, e.Token
		timer := c.clock.AfterFunc(e.Delay, func() { c.fire(task, token) })
		c.tasks[task] = armedTask{token: token, timer: timer}

	case flow.Cancel:
		if armed, ok := c.tasks[e.Task]; ok && armed.token == e.Token {
			armed.timer.Stop()
			delete(c.tasks, e.Task)
		}
	}
}

// fire runs on the clock's goroutine when a scheduled task comes due. A
// fire for a task that was cancelled or replaced in the meantime is dropped.
func (c *Controller) fire(task flow.Task, token uint64) {
	if !c.claim(task, token) {
		return
	}

	ctx := context.Background()

	var ev flow.Event
	switch task {
	case flow.TaskDiscovery:
		loc, err := c.source.Location(ctx)
		if err != nil {
			c.logger.Warn("catalog unavailable, using built-in stop", slog.Any("error", err))
			loc = catalog.Default()
		}
		ev = flow.DiscoveryCompleted{Token: token, Location: loc}
	case flow.TaskBooking:
		ev = flow.BookingCompleted{Token: token, At: c.clock.Now()}
	default:
		return
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	_, booked, err := c.applyLocked(ev)
	c.mu.Unlock()

	if err != nil {
		c.logger.Error("applying task result", slog.String("task", string(task)), slog.Any("error", err))
		return
	}

	c.afterApply(ctx, booked)
}

func (c *Controller) claim(task flow.Task, token uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	armed, ok := c.tasks[task]
	if c.closed || !ok || armed.token != token {
		return false
	}
	delete(c.tasks, task)
	return true
}

func (c *Controller) afterApply(ctx context.Context, booked *domain.Booking) {
	if booked == nil {
		return
	}

	c.logger.Info("booking confirmed",
		slog.String("booking_id", booked.ID),
		slog.String("bus", booked.Bus.Number),
		slog.Int("seat", booked.SeatNumber),
	)
	if c.hooks.OnBooking != nil {
		c.hooks.OnBooking(ctx, c.id, *booked)
	}
}
