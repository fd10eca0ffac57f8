// Package game runs the rules of the falling tetracube game on top of the ecs
// scheduler. A Session owns one field, one active piece and the landed stack.
package game

import (
	"fmt"
	"io"
	"log"
	"time"

	"github.com/plus3/tetracube/ecs"
	"github.com/plus3/tetracube/field"
)

type options struct {
	logger     *log.Logger
	notifier   Notifier
	systems    []ecs.System
	components []func(*ecs.ComponentRegistry)
}

// Option configures a Session.
type Option func(*options)

// WithLogger makes the session log landings, clears and game over.
func WithLogger(logger *log.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithNotifier sets the receiver of score, preview and game over updates.
func WithNotifier(n Notifier) Option {
	return func(o *options) { o.notifier = n }
}

// WithSystems runs extra systems after the built-in ones every tick.
func WithSystems(systems ...ecs.System) Option {
	return func(o *options) { o.systems = append(o.systems, systems...) }
}

// WithComponents registers extra component types, for use by extra systems.
func WithComponents(register func(*ecs.ComponentRegistry)) Option {
	return func(o *options) { o.components = append(o.components, register) }
}

// Session is one game. It is not safe for concurrent use; drive it from a
// single goroutine.
type Session struct {
	settings  Settings
	storage   *ecs.Storage
	scheduler *ecs.Scheduler

	state *ecs.Singleton[GameState]
	input *ecs.Singleton[InputState]

	active   *ecs.View[activeView]
	landed   *ecs.View[landedView]
	clearing *ecs.View[clearingView]

	logger *log.Logger
}

// NewSession builds the field and spawns the first piece. Gravity stays off
// until Start is called.
func NewSession(settings Settings, opts ...Option) (*Session, error) {
	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}

	o := options{
		logger:   log.New(io.Discard, "", 0),
		notifier: NopNotifier{},
	}
	for _, opt := range opts {
		opt(&o)
	}

	registry := ecs.NewComponentRegistry()
	RegisterComponents(registry)
	for _, register := range o.components {
		register(registry)
	}

	storage := ecs.NewStorage(registry)
	dealer := NewDealer(settings.Seed, settings.TexturedProbability)
	storage.AddSingleton(&settings)
	storage.AddSingleton(dealer)
	storage.AddSingleton(&InputState{})
	storage.AddSingleton(&GameState{
		Bounds:         field.NewBounds(settings.Size),
		Next:           dealer.Shape(),
		spawnRequested: true,
	})

	scheduler := ecs.NewScheduler(storage)
	scheduler.Register(&InputSystem{notifier: o.notifier, logger: o.logger})
	scheduler.Register(&ClearEffectSystem{})
	scheduler.Register(&GravitySystem{})
	scheduler.Register(&LandingSystem{notifier: o.notifier, logger: o.logger})
	scheduler.Register(&RowClearSystem{notifier: o.notifier, logger: o.logger})
	scheduler.Register(&SpawnSystem{notifier: o.notifier, logger: o.logger})
	for _, system := range o.systems {
		scheduler.Register(system)
	}

	s := &Session{
		settings:  settings,
		storage:   storage,
		scheduler: scheduler,
		state:     ecs.NewSingleton[GameState](storage),
		input:     ecs.NewSingleton[InputState](storage),
		active:    ecs.NewView[activeView](storage),
		landed:    ecs.NewView[landedView](storage),
		clearing:  ecs.NewView[clearingView](storage),
		logger:    o.logger,
	}

	o.logger.Printf("new session: field %v, seed %d", settings.Size, settings.Seed)
	scheduler.Once(0)
	return s, nil
}

// Start turns gravity on.
func (s *Session) Start() {
	state := s.state.Get()
	state.Started = true
	state.Gravity = true
}

// Press queues an action for the next Tick.
func (s *Session) Press(a Action) {
	s.input.Get().Press(a)
}

// Restart clears the field and resets the score on the next Tick.
func (s *Session) Restart() {
	s.Press(Restart)
}

// Tick advances the game by dt.
func (s *Session) Tick(dt time.Duration) {
	s.scheduler.Once(dt.Seconds())
}

func (s *Session) Score() int { return s.state.Get().Score }

func (s *Session) Over() bool { return s.state.Get().Over }

func (s *Session) Bounds() field.Bounds { return s.state.Get().Bounds }

func (s *Session) Settings() Settings { return s.settings }

// Storage exposes the entity storage for debugging tools.
func (s *Session) Storage() *ecs.Storage { return s.storage }

// Scheduler exposes the scheduler for debugging tools.
func (s *Session) Scheduler() *ecs.Scheduler { return s.scheduler }
