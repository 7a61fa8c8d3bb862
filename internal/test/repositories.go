package test

import (
	"context"
	"sort"
	"sync"

	domainErrors "github.com/polkiloo/usersvc/internal/domain/errors"
	"github.com/polkiloo/usersvc/internal/domain/model"
)

// UserRepositoryStub keeps users and role rows in memory for tests.
type UserRepositoryStub struct {
	mu    sync.Mutex
	Users map[int64]model.User
	Roles []model.UserRole
	Next  int64
	Err   error
}

// NewUserRepositoryStub constructs stub repository with initialized maps.
func NewUserRepositoryStub() *UserRepositoryStub {
	return &UserRepositoryStub{
		Users: make(map[int64]model.User),
		Next:  1,
	}
}

// FetchAll returns users ordered by id.
func (s *UserRepositoryStub) FetchAll(ctx context.Context) ([]model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	ids := make([]int64, 0, len(s.Users))
	for id := range s.Users {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	result := make([]model.User, 0, len(ids))
	for _, id := range ids {
		result = append(result, s.withRoles(s.Users[id]))
	}
	return result, nil
}

// Create assigns the next id and stores role rows.
func (s *UserRepositoryStub) Create(ctx context.Context, user model.User) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	if s.Users == nil {
		s.Users = make(map[int64]model.User)
	}
	if s.Next == 0 {
		s.Next = 1
	}
	id := s.Next
	s.Next++
	s.Users[id] = model.User{ID: id, Username: user.Username, Password: user.Password}
	s.Roles = append(s.Roles, model.NewUserRoles(id, user.Roles)...)
	created := s.withRoles(s.Users[id])
	return &created, nil
}

// ValidateUser returns the lowest id matching both username and password.
func (s *UserRepositoryStub) ValidateUser(ctx context.Context, user model.User) (*model.User, error) {
	users, err := s.FetchAll(ctx)
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		if u.Username == user.Username && u.Password == user.Password {
			return &u, nil
		}
	}
	return nil, domainErrors.NewNotFound("User not found")
}

// FetchByID fetches user by identifier or returns not found.
func (s *UserRepositoryStub) FetchByID(ctx context.Context, id int64) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	u, ok := s.Users[id]
	if !ok {
		return nil, domainErrors.NewNotFound("User resource with given id %d not found", id)
	}
	found := s.withRoles(u)
	return &found, nil
}

// Update replaces credentials and role rows, then re-reads the user.
func (s *UserRepositoryStub) Update(ctx context.Context, id int64, user model.User) (*model.User, error) {
	s.mu.Lock()
	if s.Err != nil {
		s.mu.Unlock()
		return nil, s.Err
	}
	s.dropRoles(id)
	if _, ok := s.Users[id]; ok {
		s.Users[id] = model.User{ID: id, Username: user.Username, Password: user.Password}
		s.Roles = append(s.Roles, model.NewUserRoles(id, user.Roles)...)
	}
	s.mu.Unlock()
	return s.FetchByID(ctx, id)
}

// Remove deletes role rows and the user; unknown ids are ignored.
func (s *UserRepositoryStub) Remove(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	s.dropRoles(id)
	delete(s.Users, id)
	return nil
}

func (s *UserRepositoryStub) withRoles(u model.User) model.User {
	u.Roles = []string{}
	for _, r := range s.Roles {
		if r.UserID == u.ID {
			u.Roles = append(u.Roles, r.Role)
		}
	}
	return u
}

func (s *UserRepositoryStub) dropRoles(id int64) {
	kept := s.Roles[:0]
	for _, r := range s.Roles {
		if r.UserID != id {
			kept = append(kept, r)
		}
	}
	s.Roles = kept
}

// HealthCheckerStub returns configured error on health checks.
type HealthCheckerStub struct {
	Err error
}

// HealthCheck returns the configured error.
func (s HealthCheckerStub) HealthCheck(context.Context) error {
	return s.Err
}
