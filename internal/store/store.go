package store

import (
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nissyi-gh/habits/internal/model"
)

// Snapshot is the derived view rendered by the UI.
type Snapshot struct {
	Habits        []model.Habit
	Stats         model.Stats
	LastResetDate string
}

// Listener is notified after every state change.
type Listener func(Snapshot)

// Option configures a HabitStore.
type Option func(*HabitStore)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *HabitStore) { s.now = now }
}

// WithIDGenerator overrides how habit IDs are generated.
func WithIDGenerator(gen func() string) Option {
	return func(s *HabitStore) { s.newID = gen }
}

// HabitStore holds habits in memory for the lifetime of the process.
type HabitStore struct {
	mu            sync.RWMutex
	habits        []model.Habit
	lastResetDate string
	now           func() time.Time
	newID         func() string

	listenerMu sync.Mutex
	listeners  map[int]Listener
	nextSub    int
}

// New creates an empty store whose last reset date is today.
func New(opts ...Option) *HabitStore {
	s := &HabitStore{
		now:       time.Now,
		newID:     uuid.NewString,
		listeners: make(map[int]Listener),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.lastResetDate = model.Day(s.now())
	return s
}

// Add appends a new habit and returns it. The name is stored as given.
func (s *HabitStore) Add(name string) model.Habit {
	s.mu.Lock()
	h := model.Habit{
		ID:        s.newID(),
		Name:      name,
		CreatedAt: s.now(),
	}
	s.habits = append(s.habits, h)
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(snap)
	return h
}

// Toggle flips the completion flag of the habit with id.
// It reports whether a habit matched; an unknown id is a no-op.
func (s *HabitStore) Toggle(id string) bool {
	s.mu.Lock()
	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return false
	}
	h := &s.habits[i]
	h.CompletedToday = !h.CompletedToday
	if h.CompletedToday {
		t := s.now()
		h.LastCompletedDate = &t
	}
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(snap)
	return true
}

// Delete removes the habit with id. An unknown id is a no-op.
func (s *HabitStore) Delete(id string) bool {
	s.mu.Lock()
	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return false
	}
	s.habits = slices.Delete(s.habits, i, i+1)
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(snap)
	return true
}

// CheckAndResetDaily clears every completion when the local calendar day
// differs from the last reset day. It reports whether a reset happened.
func (s *HabitStore) CheckAndResetDaily() bool {
	s.mu.Lock()
	today := model.Day(s.now())
	if s.lastResetDate == today {
		s.mu.Unlock()
		return false
	}
	s.resetLocked(today)
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(snap)
	return true
}

// ResetAll clears every completion and records today as the reset day,
// whether or not the day has changed.
func (s *HabitStore) ResetAll() {
	s.mu.Lock()
	s.resetLocked(model.Day(s.now()))
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(snap)
}

// ClearAll removes every habit. The last reset day is kept.
func (s *HabitStore) ClearAll() {
	s.mu.Lock()
	s.habits = nil
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(snap)
}

func (s *HabitStore) resetLocked(today string) {
	for i := range s.habits {
		s.habits[i].CompletedToday = false
	}
	s.lastResetDate = today
}

// must hold s.mu
func (s *HabitStore) indexOf(id string) int {
	return slices.IndexFunc(s.habits, func(h model.Habit) bool { return h.ID == id })
}

// Get returns the habit with id.
func (s *HabitStore) Get(id string) (model.Habit, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.indexOf(id)
	if i < 0 {
		return model.Habit{}, false
	}
	return s.habits[i], true
}

// Len returns the number of habits.
func (s *HabitStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.habits)
}

// LastResetDate returns the calendar day of the last daily reset.
func (s *HabitStore) LastResetDate() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastResetDate
}

// Sorted returns a copy of the habits, most recently created first.
func (s *HabitStore) Sorted() []model.Habit {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sortedLocked()
}

func (s *HabitStore) sortedLocked() []model.Habit {
	out := slices.Clone(s.habits)
	// Reversed insertion order breaks CreatedAt ties newest-first.
	slices.Reverse(out)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// Stats returns completion statistics for the current habits.
func (s *HabitStore) Stats() model.Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return model.NewStats(s.habits)
}

// Snapshot returns the sorted habits, stats and last reset day together.
func (s *HabitStore) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

func (s *HabitStore) snapshotLocked() Snapshot {
	return Snapshot{
		Habits:        s.sortedLocked(),
		Stats:         model.NewStats(s.habits),
		LastResetDate: s.lastResetDate,
	}
}

// Subscribe registers fn to be called synchronously after each change.
// The returned function removes the subscription.
func (s *HabitStore) Subscribe(fn Listener) func() {
	s.listenerMu.Lock()
	defer s.listenerMu.Unlock()
	id := s.nextSub
	s.nextSub++
	s.listeners[id] = fn
	return func() {
		s.listenerMu.Lock()
		defer s.listenerMu.Unlock()
		delete(s.listeners, id)
	}
}

// notify delivers snap, taken under the same lock as the change it reflects.
func (s *HabitStore) notify(snap Snapshot) {
	s.listenerMu.Lock()
	if len(s.listeners) == 0 {
		s.listenerMu.Unlock()
		return
	}
	ids := make([]int, 0, len(s.listeners))
	for id := range s.listeners {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	fns := make([]Listener, len(ids))
	for i, id := range ids {
		fns[i] = s.listeners[id]
	}
	s.listenerMu.Unlock()

	for _, fn := range fns {
		fn(snap)
	}
}
