package panel

import (
	"context"
	"sync"

	"github.com/google/uuid"

	apperrors "atlasdash/internal/errors"

	logging "atlasdash/internal"
)

// State is the panel load lifecycle: idle -> loading -> {loaded|error}.
// error is non-terminal; any subsequent load re-enters loading.
type State string

const (
	StateIdle    State = "idle"
	StateLoading State = "loading"
	StateLoaded  State = "loaded"
	StateError   State = "error"
)

// Config parameterizes one panel instead of near-duplicate panel variants:
// the grouping mode and label canonicalizer vary, the lifecycle does not.
type Config struct {
	Name         string
	Grouping     string
	Canonicalize func(string) string
}

// Snapshot is a point-in-time view of a panel's state
type Snapshot struct {
	State      State
	Err        string
	Value      any
	Generation uint64
	LoadID     string
}

// Panel holds one panel's load state and guards against stale updates: a
// result from a superseded load never overwrites state for the current
// filter.
type Panel struct {
	cfg Config
	log *logging.Logger

	mu     sync.Mutex
	state  State
	value  any
	errMsg string
	gen    uint64
	loadID string
}

// New creates an idle panel
func New(cfg Config) *Panel {
	return &Panel{cfg: cfg, state: StateIdle, log: logging.DefaultLogger.With("panel")}
}

// Name returns the panel's configured name
func (p *Panel) Name() string {
	return p.cfg.Name
}

// Canonicalize applies the panel's label canonicalizer, if any
func (p *Panel) Canonicalize(label string) string {
	if p.cfg.Canonicalize == nil {
		return label
	}
	return p.cfg.Canonicalize(label)
}

// Begin enters loading and returns the generation token the eventual
// Complete call must present.
func (p *Panel) Begin() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.gen++
	p.state = StateLoading
	p.loadID = uuid.NewString()
	p.log.Debug("%s load %s started (gen %d)", p.cfg.Name, p.shortLoadID(), p.gen)
	return p.gen
}

// Complete commits a load result if the generation is still current.
// Returns false when the result was stale and dropped.
func (p *Panel) Complete(gen uint64, value any, err error) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if gen != p.gen {
		p.log.Debug("%s stale result dropped (gen %d, current %d)", p.cfg.Name, gen, p.gen)
		return false
	}
	if err != nil {
		p.state = StateError
		p.errMsg = apperrors.UserMessage(err)
		p.log.Warn("%s load %s failed: %s", p.cfg.Name, p.shortLoadID(), p.errMsg)
		return true
	}
	p.state = StateLoaded
	p.value = value
	p.errMsg = ""
	p.log.Debug("%s load %s committed", p.cfg.Name, p.shortLoadID())
	return true
}

// shortLoadID is the log-line form of the current load id
func (p *Panel) shortLoadID() string {
	if len(p.loadID) >= 8 {
		return p.loadID[:8]
	}
	return p.loadID
}

// Load runs one synchronous load through the Begin/Complete cycle
func (p *Panel) Load(ctx context.Context, fn func(ctx context.Context) (any, error)) Snapshot {
	gen := p.Begin()
	value, err := fn(ctx)
	p.Complete(gen, value, err)
	return p.Snapshot()
}

// Snapshot returns the current panel state
func (p *Panel) Snapshot() Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return Snapshot{
		State:      p.state,
		Err:        p.errMsg,
		Value:      p.value,
		Generation: p.gen,
		LoadID:     p.loadID,
	}
}

// Reset returns the panel to idle, discarding loaded state. Used when the
// API base changes and previously loaded data no longer applies.
func (p *Panel) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.gen++
	p.state = StateIdle
	p.value = nil
	p.errMsg = ""
}
