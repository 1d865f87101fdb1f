// Package state holds the client-side application state: the current search
// and the resolved search origin. Each slice is updated by a pure reducer and
// the Store applies actions one at a time.
package state

import (
	"sync"

	"github.com/vetconnect/backend/internal/domain/entities"
	apperrors "github.com/vetconnect/backend/pkg/errors"
	"github.com/vetconnect/backend/pkg/geo"
)

// LocationStatus describes how far origin resolution got
type LocationStatus string

const (
	LocationStatusUnknown     LocationStatus = "unknown"
	LocationStatusResolved    LocationStatus = "resolved"
	LocationStatusDenied      LocationStatus = "denied"
	LocationStatusUnavailable LocationStatus = "unavailable"
	LocationStatusTimedOut    LocationStatus = "timed_out"
)

// SearchState is the search slice
type SearchState struct {
	Filters entities.SearchFilters
	Result  *entities.SearchResult
	Loading bool
	Err     error
}

// LocationState is the location slice
type LocationState struct {
	Origin *geo.Coordinate
	Label  string
	Status LocationStatus
	Err    error
}

// State is the root application state
type State struct {
	Search   SearchState
	Location LocationState
}

// Initial returns the empty state
func Initial() State {
	return State{Location: LocationState{Status: LocationStatusUnknown}}
}

// SearchFilters returns the current filters with the resolved origin applied.
// Without a resolved origin the search degrades to rating order.
func (s State) SearchFilters() entities.SearchFilters {
	filters := s.Search.Filters
	if filters.Origin == nil && s.Location.Status == LocationStatusResolved && s.Location.Origin != nil {
		origin := *s.Location.Origin
		filters.Origin = &origin
	}
	return filters
}

// Action is anything the reducers understand
type Action interface {
	isAction()
}

type (
	// SearchRequested starts a search with new filters
	SearchRequested struct{ Filters entities.SearchFilters }
	// SearchSucceeded stores a finished search
	SearchSucceeded struct{ Result *entities.SearchResult }
	// SearchFailed records a search error
	SearchFailed struct{ Err error }
	// PageRequested moves the current search to another offset
	PageRequested struct{ Offset int }

	// LocationResolved stores a resolved origin
	LocationResolved struct {
		Origin geo.Coordinate
		Label  string
	}
	// LocationFailed records why no origin could be resolved
	LocationFailed struct{ Err error }
	// LocationCleared forgets the origin
	LocationCleared struct{}
)

func (SearchRequested) isAction()  {}
func (SearchSucceeded) isAction()  {}
func (SearchFailed) isAction()     {}
func (PageRequested) isAction()    {}
func (LocationResolved) isAction() {}
func (LocationFailed) isAction()   {}
func (LocationCleared) isAction()  {}

// ReduceSearch is the search slice reducer
func ReduceSearch(s SearchState, action Action) SearchState {
	switch a := action.(type) {
	case SearchRequested:
		return SearchState{Filters: a.Filters, Loading: true}
	case PageRequested:
		s.Filters.Offset = a.Offset
		s.Loading = true
		s.Err = nil
		return s
	case SearchSucceeded:
		s.Result = a.Result
		s.Loading = false
		s.Err = nil
		return s
	case SearchFailed:
		s.Loading = false
		s.Err = a.Err
		return s
	}
	return s
}

// ReduceLocation is the location slice reducer
func ReduceLocation(s LocationState, action Action) LocationState {
	switch a := action.(type) {
	case LocationResolved:
		origin := a.Origin
		return LocationState{Origin: &origin, Label: a.Label, Status: LocationStatusResolved}
	case LocationFailed:
		return LocationState{Status: statusFor(a.Err), Err: a.Err}
	case LocationCleared:
		return LocationState{Status: LocationStatusUnknown}
	}
	return s
}

func statusFor(err error) LocationStatus {
	switch apperrors.TypeOf(err) {
	case apperrors.ErrorTypePermissionDenied:
		return LocationStatusDenied
	case apperrors.ErrorTypeTimeout:
		return LocationStatusTimedOut
	default:
		return LocationStatusUnavailable
	}
}

// Reduce applies action to every slice
func Reduce(s State, action Action) State {
	return State{
		Search:   ReduceSearch(s.Search, action),
		Location: ReduceLocation(s.Location, action),
	}
}

// Store serializes actions against a State and notifies subscribers
type Store struct {
	mu          sync.Mutex
	state       State
	subscribers map[int]func(State)
	nextID      int
}

// NewStore creates a store holding initial
func NewStore(initial State) *Store {
	return &Store{state: initial, subscribers: make(map[int]func(State))}
}

// State returns a snapshot of the current state
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Dispatch applies action and returns the new state. Subscribers run after
// the update, outside the store lock, in no particular order.
func (s *Store) Dispatch(action Action) State {
	s.mu.Lock()
	s.state = Reduce(s.state, action)
	next := s.state
	listeners := make([]func(State), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		listeners = append(listeners, fn)
	}
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(next)
	}
	return next
}

// Subscribe registers fn for state changes. The returned function removes it.
func (s *Store) Subscribe(fn func(State)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.subscribers[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subscribers, id)
	}
}
