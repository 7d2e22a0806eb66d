package client

import (
	"context"
	"sync"

	models "github.com/Schera-ole/perfboard/internal/model"
)

// Update is one delivered fetch result: the dashboard for the alias that was
// still selected when its fetch finished.
type Update struct {
	Alias     string
	Dashboard models.DashboardResponse
	Err       error
}

// Session serializes dashboard selection for an interactive consumer.
//
// Select starts a fetch in the background; when it completes, the result is
// delivered on Updates only if the selection is still the current one. A
// newer Select supersedes older in-flight fetches and their results are
// dropped on arrival. The underlying HTTP request is not cancelled; the
// session controls delivery, not transport.
type Session struct {
	client *Client

	mu         sync.Mutex
	generation int

	updates chan Update
}

// NewSession creates a Session over the given client.
func NewSession(client *Client) *Session {
	return &Session{
		client:  client,
		updates: make(chan Update, 1),
	}
}

// Updates is the channel of delivered results. The buffer holds only the
// newest ready update, so a slow consumer sees the latest state rather than
// a backlog.
func (s *Session) Updates() <-chan Update {
	return s.updates
}

// Select makes alias the current selection and starts fetching its dashboard.
func (s *Session) Select(ctx context.Context, alias string) {
	s.mu.Lock()
	s.generation++
	generation := s.generation
	s.mu.Unlock()

	go func() {
		dashboard, err := s.client.FetchDashboard(ctx, alias)

		s.mu.Lock()
		defer s.mu.Unlock()
		if generation != s.generation {
			return
		}
		update := Update{Alias: alias, Dashboard: dashboard, Err: err}
		select {
		case s.updates <- update:
		default:
			// Displace the stale buffered update. Sends are serialized by
			// the mutex, so the slot is free after the drain.
			select {
			case <-s.updates:
			default:
			}
			s.updates <- update
		}
	}()
}
