package timer

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"focustrack/internal/achievements"
	"focustrack/internal/domain"
	"focustrack/internal/ports"
	"focustrack/internal/stats"
)

// Config carries the interval durations. All values are seconds so a debug
// configuration can shrink a pomodoro to a handful of ticks.
type Config struct {
	WorkSeconds       int64
	ShortBreakSeconds int64
	LongBreakSeconds  int64
	// PomodorosUntilLongBreak is the long-break cadence: every Nth
	// completed work interval of the day ends in a long break.
	PomodorosUntilLongBreak int64
	DailyGoal               int64
}

// Event describes what a tick caused.
type Event int

const (
	EventNone Event = iota
	// EventWorkComplete fires when a work interval finished and was
	// recorded; the machine has already moved into a break.
	EventWorkComplete
	// EventBreakComplete fires when a break finished and the machine
	// returned to idle.
	EventBreakComplete
)

// TickResult reports the outcome of one countdown tick.
type TickResult struct {
	Event    Event
	State    State
	Session  *domain.Session      // set on EventWorkComplete, even if persistence failed
	Unlocked []domain.Achievement // achievements newly unlocked by this completion
}

// Machine is the work/break sequencer. It owns the only timer state in the
// process and is the sole producer of ledger sessions. Collaborators are
// injected so nothing here reaches for process-wide singletons.
type Machine struct {
	cfg        Config
	sessions   ports.SessionRepository
	aggregator *stats.Aggregator
	evaluator  *achievements.Evaluator
	metrics    ports.MetricsExporter
	logger     domain.Logger
	now        func() time.Time
	instanceID string

	mu             sync.Mutex
	state          State
	remaining      int64
	task           string
	tags           []string
	sessionStart   time.Time
	interruptions  int64
	dailyCompleted int64
}

func NewMachine(cfg Config, sessions ports.SessionRepository, aggregator *stats.Aggregator,
	evaluator *achievements.Evaluator, metrics ports.MetricsExporter, logger domain.Logger) *Machine {
	if metrics == nil {
		metrics = noopMetrics{}
	}
	if logger == nil {
		logger = domain.NopLogger{}
	}
	return &Machine{
		cfg:        cfg,
		sessions:   sessions,
		aggregator: aggregator,
		evaluator:  evaluator,
		metrics:    metrics,
		logger:     logger,
		now:        time.Now,
		state:      Idle(),
		instanceID: uuid.NewString(),
	}
}

// WithClock overrides the time source. Used by tests.
func (m *Machine) WithClock(now func() time.Time) *Machine {
	m.now = now
	return m
}

// InstanceID identifies this machine's process run; recovery snapshots
// carry it so snapshots from earlier runs are recognized as stale.
func (m *Machine) InstanceID() string { return m.instanceID }

// State returns the current machine state.
func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Remaining returns the seconds left on the current countdown.
func (m *Machine) Remaining() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.remaining
}

// Start begins a work interval. Only valid from idle.
func (m *Machine) Start(task string, tags []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state.Phase != PhaseIdle {
		return fmt.Errorf("cannot start while %s", m.state)
	}
	if task == "" {
		task = domain.DefaultTaskName
	}

	m.state = Active(PhaseWorking)
	m.remaining = m.cfg.WorkSeconds
	m.task = task
	m.tags = tags
	m.sessionStart = m.now()
	m.interruptions = 0
	m.logger.Debug(fmt.Sprintf("started work interval: %s", task))
	return nil
}

// Pause suspends the running countdown. Pausing a work interval counts as
// one interruption against its focus score.
func (m *Machine) Pause() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch m.state.Phase {
	case PhaseWorking, PhaseShortBreak, PhaseLongBreak:
	default:
		return fmt.Errorf("cannot pause while %s", m.state)
	}

	if m.state.Phase == PhaseWorking {
		m.interruptions++
	}
	m.state = Paused(m.state.Phase)
	return nil
}

// Resume restarts the countdown from the remaining time.
func (m *Machine) Resume() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state.Phase != PhasePaused {
		return fmt.Errorf("cannot resume while %s", m.state)
	}
	m.state = Active(m.state.ResumesTo)
	return nil
}

// Skip abandons the current interval and returns to idle. A skipped work
// interval is deliberately not recorded in the ledger.
func (m *Machine) Skip() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state.Phase == PhaseIdle {
		return fmt.Errorf("nothing to skip")
	}
	m.state = Idle()
	m.remaining = 0
	return nil
}

// Tick advances the countdown by one second. When it expires the machine
// transitions: a finished work interval is recorded and followed by a
// break, a finished break returns to idle.
func (m *Machine) Tick(ctx context.Context) (*TickResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch m.state.Phase {
	case PhaseIdle, PhasePaused:
		return &TickResult{State: m.state}, nil
	}

	m.remaining--
	if m.remaining > 0 {
		return &TickResult{State: m.state}, nil
	}

	if m.state.IsBreak() {
		m.state = Idle()
		return &TickResult{Event: EventBreakComplete, State: m.state}, nil
	}

	return m.completeWork(ctx)
}

// completeWork records the finished interval, refreshes the derived
// statistics, evaluates achievements and enters the appropriate break.
// Persistence or computation failures degrade to "not updated this cycle";
// the break starts regardless. Caller holds m.mu.
func (m *Machine) completeWork(ctx context.Context) (*TickResult, error) {
	session := &domain.Session{
		StartTime:     m.sessionStart,
		EndTime:       m.now(),
		Duration:      m.cfg.WorkSeconds,
		TaskName:      m.task,
		Completed:     true,
		Interruptions: m.interruptions,
		FocusScore:    domain.CalculateFocusScore(m.interruptions),
		Tags:          m.tags,
	}

	result := &TickResult{Event: EventWorkComplete, Session: session}

	if _, err := m.sessions.Save(ctx, session); err != nil {
		m.logger.Error(fmt.Sprintf("save session: %v", err))
	} else {
		if err := m.aggregator.UpdateDailyStats(ctx, session.StartTime); err != nil {
			m.logger.Error(fmt.Sprintf("update daily stats: %v", err))
		}
		if err := m.aggregator.UpdateUserStats(ctx); err != nil {
			m.logger.Error(fmt.Sprintf("update user stats: %v", err))
		}
		unlocked, err := m.evaluator.CheckAchievements(ctx)
		if err != nil {
			m.logger.Error(fmt.Sprintf("check achievements: %v", err))
		}
		result.Unlocked = unlocked

		if err := m.metrics.ExportSession(ctx, session); err != nil {
			m.logger.Debug(fmt.Sprintf("export session metrics: %v", err))
		}
		for i := range unlocked {
			if err := m.metrics.ExportUnlock(ctx, &unlocked[i]); err != nil {
				m.logger.Debug(fmt.Sprintf("export unlock metric: %v", err))
			}
		}
	}

	m.dailyCompleted++
	longBreak := m.cfg.PomodorosUntilLongBreak > 0 &&
		m.dailyCompleted%m.cfg.PomodorosUntilLongBreak == 0

	if longBreak {
		m.state = Active(PhaseLongBreak)
		m.remaining = m.cfg.LongBreakSeconds
	} else {
		m.state = Active(PhaseShortBreak)
		m.remaining = m.cfg.ShortBreakSeconds
	}
	result.State = m.state

	return result, nil
}

// Shutdown persists an in-flight work interval as incomplete, with the
// elapsed rather than the planned duration, so process exit never silently
// loses worked time.
func (m *Machine) Shutdown(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.state.WorkInProgress() {
		return nil
	}

	elapsed := m.cfg.WorkSeconds - m.remaining
	session := &domain.Session{
		StartTime:     m.sessionStart,
		EndTime:       m.now(),
		Duration:      elapsed,
		TaskName:      m.task,
		Completed:     false,
		Interruptions: m.interruptions,
		FocusScore:    domain.CalculateFocusScore(m.interruptions),
		Tags:          m.tags,
	}

	if _, err := m.sessions.Save(ctx, session); err != nil {
		return fmt.Errorf("save incomplete session: %w", err)
	}
	m.state = Idle()
	return nil
}

// Snapshot captures the in-progress work interval for crash recovery, or
// nil when no work interval is in flight.
func (m *Machine) Snapshot() *Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.state.WorkInProgress() {
		return nil
	}
	return &Snapshot{
		InstanceID:    m.instanceID,
		State:         m.state.String(),
		Remaining:     m.remaining,
		Task:          m.task,
		SessionStart:  m.sessionStart,
		Interruptions: m.interruptions,
	}
}

// noopMetrics keeps the machine decoupled from observability when no
// exporter is configured.
type noopMetrics struct{}

func (noopMetrics) ExportSession(context.Context, *domain.Session) error    { return nil }
func (noopMetrics) ExportUnlock(context.Context, *domain.Achievement) error { return nil }
func (noopMetrics) Close(context.Context) error                             { return nil }
