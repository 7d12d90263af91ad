package views

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/dmitrijs2005/postit/internal/client/client"
	"github.com/dmitrijs2005/postit/internal/client/models"
)

type SearchAPI interface {
	UserByUsername(ctx context.Context, username string) (*models.User, error)
}

// Search looks users up by exact username. An unknown username is an empty
// result, not an error.
type Search struct {
	api SearchAPI

	mu      sync.Mutex
	gen     uint64
	results []models.User
}

func NewSearch(api SearchAPI) *Search {
	return &Search{api: api}
}

func (s *Search) Run(ctx context.Context, query string) ([]models.User, error) {
	query = strings.TrimSpace(query)

	s.mu.Lock()
	s.gen++
	gen := s.gen
	s.mu.Unlock()

	var results []models.User
	var err error
	if query != "" {
		var u *models.User
		u, err = s.api.UserByUsername(ctx, query)
		switch {
		case err == nil:
			results = []models.User{*u}
		case errors.Is(err, client.ErrNotFound):
			err = nil
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		return nil, ErrSuperseded
	}
	if err != nil {
		return nil, err
	}
	s.results = results
	return append([]models.User(nil), results...), nil
}

func (s *Search) Results() []models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.User(nil), s.results...)
}
