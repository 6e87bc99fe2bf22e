package common_tools

import (
	"sync"
	"time"
)

// RouteState tracks one session's progress through the sales day: the
// clients scheduled, the planned route, and which visit is current. A visit
// index of -1 means the day has not started and the rep is at the office.
type RouteState struct {
	mu         sync.Mutex
	clients    []Client
	route      map[string]interface{}
	visitIndex int
	now        func() time.Time
}

// NewRouteState returns a fresh day with no clients and no route.
func NewRouteState() *RouteState {
	return &RouteState{
		visitIndex: -1,
		now:        time.Now,
	}
}

func (s *RouteState) setClients(clients []Client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clients = clients
	s.visitIndex = -1
}

func (s *RouteState) clientList() []Client {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Client, len(s.clients))
	copy(out, s.clients)
	return out
}

func (s *RouteState) setRoute(route map[string]interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.route = route
}

// advance moves to the next visit and reports the new index.
func (s *RouteState) advance() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.visitIndex++
	return s.visitIndex
}

func (s *RouteState) position() (int, []Client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Client, len(s.clients))
	copy(out, s.clients)
	return s.visitIndex, out
}

// Reset clears the schedule, route, and visit progress.
func (s *RouteState) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clients = nil
	s.route = nil
	s.visitIndex = -1
}
