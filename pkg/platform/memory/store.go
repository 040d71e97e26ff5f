package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/nergy-se/climate-controller/pkg/platform"
)

type ServiceCall struct {
	Domain  string
	Service string
	Data    map[string]any
}

// Store is an in process StateStore, ServiceCaller and HistoryReader. Every
// SetState is kept as history.
type Store struct {
	entities map[string]*platform.Entity
	history  map[string][]platform.Point
	calls    []ServiceCall
	now      func() time.Time
	sync.RWMutex
}

func New() *Store {
	return &Store{
		entities: make(map[string]*platform.Entity),
		history:  make(map[string][]platform.Point),
		now:      time.Now,
	}
}

func (s *Store) State(ctx context.Context, entityID string) (*platform.Entity, error) {
	s.RLock()
	defer s.RUnlock()
	e, ok := s.entities[entityID]
	if !ok {
		return nil, fmt.Errorf("%s: %w", entityID, platform.ErrNotFound)
	}
	cp := *e
	cp.Attributes = make(map[string]any, len(e.Attributes))
	for k, v := range e.Attributes {
		cp.Attributes[k] = v
	}
	return &cp, nil
}

func (s *Store) SetState(ctx context.Context, entityID, state string, attributes map[string]any) error {
	s.Lock()
	defer s.Unlock()
	now := s.now()
	e, ok := s.entities[entityID]
	if !ok {
		e = &platform.Entity{EntityID: entityID, Attributes: make(map[string]any)}
		s.entities[entityID] = e
	}
	e.State = state
	e.LastChanged = now
	for k, v := range attributes {
		e.Attributes[k] = v
	}
	s.history[entityID] = append(s.history[entityID], platform.Point{Time: now, State: state})
	return nil
}

// SetClock replaces the clock used to stamp state changes.
func (s *Store) SetClock(now func() time.Time) {
	s.Lock()
	s.now = now
	s.Unlock()
}

// SetFloat is a test helper for numeric sensors.
func (s *Store) SetFloat(entityID string, v float64) {
	_ = s.SetState(context.Background(), entityID, fmt.Sprint(v), nil)
}

func (s *Store) CallService(ctx context.Context, domain, service string, data map[string]any) error {
	s.Lock()
	defer s.Unlock()
	s.calls = append(s.calls, ServiceCall{Domain: domain, Service: service, Data: data})
	return nil
}

func (s *Store) Calls() []ServiceCall {
	s.RLock()
	defer s.RUnlock()
	return append([]ServiceCall(nil), s.calls...)
}

func (s *Store) History(ctx context.Context, entityID string, start, end time.Time) ([]platform.Point, error) {
	s.RLock()
	defer s.RUnlock()
	var out []platform.Point
	for _, p := range s.history[entityID] {
		if p.Time.Before(start) || p.Time.After(end) {
			continue
		}
		out = append(out, p)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Time.Before(out[j].Time) })
	return out, nil
}
