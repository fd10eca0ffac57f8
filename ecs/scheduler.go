package ecs

import (
	"context"
	"reflect"
	"strings"
	"time"
)

// System represents a behavior that operates on entities with specific components.
// Systems may declare Query and Singleton fields, which the Scheduler wires up,
// as well as custom state fields that persist between frames.
type System interface {
	Execute(frame *UpdateFrame)
}

// SchedulerStats provides statistics about scheduler execution.
type SchedulerStats struct {
	SystemCount     int
	TotalExecutions int64
	Systems         []SystemStats
}

// SystemStats provides execution statistics for a single system.
type SystemStats struct {
	Name           string
	ExecutionCount int64
	MinDuration    time.Duration
	MaxDuration    time.Duration
	AvgDuration    time.Duration
	LastDuration   time.Duration
	TotalDuration  time.Duration
}

type storageBinder interface {
	Init(storage *Storage)
}

type queryExecutor interface {
	Execute()
}

type registeredSystem struct {
	system  System
	queries []queryExecutor

	name           string
	executionCount int64
	minDuration    time.Duration
	maxDuration    time.Duration
	totalDuration  time.Duration
	lastDuration   time.Duration
}

// Scheduler executes systems in registration order. Each system sees the
// structural changes made by the systems before it in the same frame.
type Scheduler struct {
	storage *Storage
	systems []*registeredSystem
}

// NewScheduler creates a new scheduler for the given storage.
func NewScheduler(storage *Storage) *Scheduler {
	return &Scheduler{storage: storage}
}

// Register adds a system to the scheduler and initializes its Query and Singleton fields.
func (s *Scheduler) Register(system System) {
	systemType := reflect.TypeOf(system)
	if systemType.Kind() == reflect.Ptr {
		systemType = systemType.Elem()
	}

	s.systems = append(s.systems, &registeredSystem{
		system:      system,
		queries:     s.bindFields(system),
		name:        systemType.Name(),
		minDuration: time.Duration(1<<63 - 1),
	})
}

func (s *Scheduler) bindFields(system System) []queryExecutor {
	systemValue := reflect.ValueOf(system)
	if systemValue.Kind() != reflect.Ptr || systemValue.Elem().Kind() != reflect.Struct {
		return nil
	}
	systemValue = systemValue.Elem()

	var queries []queryExecutor
	for i := 0; i < systemValue.NumField(); i++ {
		field := systemValue.Field(i)
		if !field.CanSet() || field.Kind() != reflect.Struct {
			continue
		}

		typeName := field.Type().Name()
		if !strings.HasPrefix(typeName, "Query[") && !strings.HasPrefix(typeName, "Singleton[") {
			continue
		}

		target := field.Addr().Interface()
		binder, ok := target.(storageBinder)
		if !ok {
			panic("Init method not found on field: " + systemValue.Type().Field(i).Name)
		}
		binder.Init(s.storage)

		if q, ok := target.(queryExecutor); ok {
			queries = append(queries, q)
		}
	}

	return queries
}

// Once executes all registered systems once with the given delta time in seconds.
func (s *Scheduler) Once(dt float64) {
	frame := newUpdateFrame(dt, s.storage)

	for _, rs := range s.systems {
		start := time.Now()

		for _, q := range rs.queries {
			q.Execute()
		}
		rs.system.Execute(frame)
		frame.Commands.Flush(s.storage)

		rs.record(time.Since(start))
	}
}

func (rs *registeredSystem) record(duration time.Duration) {
	rs.executionCount++
	rs.lastDuration = duration
	rs.totalDuration += duration
	rs.minDuration = min(rs.minDuration, duration)
	rs.maxDuration = max(rs.maxDuration, duration)
}

// Run executes all systems at the given interval until the context is cancelled.
func (s *Scheduler) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	lastTime := time.Now()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			dt := now.Sub(lastTime).Seconds()
			lastTime = now
			s.Once(dt)
		}
	}
}

// GetStats returns statistics about system execution.
func (s *Scheduler) GetStats() *SchedulerStats {
	stats := &SchedulerStats{
		SystemCount: len(s.systems),
		Systems:     make([]SystemStats, len(s.systems)),
	}

	for i, rs := range s.systems {
		var avg time.Duration
		if rs.executionCount > 0 {
			avg = rs.totalDuration / time.Duration(rs.executionCount)
		}

		stats.Systems[i] = SystemStats{
			Name:           rs.name,
			ExecutionCount: rs.executionCount,
			MinDuration:    rs.minDuration,
			MaxDuration:    rs.maxDuration,
			AvgDuration:    avg,
			LastDuration:   rs.lastDuration,
			TotalDuration:  rs.totalDuration,
		}
		stats.TotalExecutions += rs.executionCount
	}

	return stats
}
