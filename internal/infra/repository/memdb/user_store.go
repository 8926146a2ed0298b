package memdb

import (
	"context"

	"github.com/RoyceAzure/lab/storefront/internal/infra/repository/db"
	"github.com/RoyceAzure/lab/storefront/internal/model"
)

func (s *Store) emailTaken(email, exceptID string) bool {
	for id, u := range s.users {
		if u.Email == email && id != exceptID {
			return true
		}
	}
	return false
}

func (s *Store) CreateUser(ctx context.Context, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[user.ID]; ok || s.emailTaken(user.Email, "") {
		return db.ErrDuplicateKey
	}
	s.users[user.ID] = *user
	return nil
}

func (s *Store) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	return &u, nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, db.ErrNotFound
}

func (s *Store) UpdateUser(ctx context.Context, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[user.ID]; !ok {
		return db.ErrNotFound
	}
	if s.emailTaken(user.Email, user.ID) {
		return db.ErrDuplicateKey
	}
	user.UpdatedAt = now()
	s.users[user.ID] = *user
	return nil
}

func (s *Store) DeleteUser(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[id]; !ok {
		return db.ErrNotFound
	}
	delete(s.users, id)
	return nil
}

func (s *Store) ListUsersExcludingRole(ctx context.Context, role string) ([]model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	res := []model.User{}
	for _, u := range s.users {
		if u.Role != role {
			res = append(res, u)
		}
	}
	sortStable(res, func(a, b model.User) bool { return a.CreatedAt.Before(b.CreatedAt) })
	return res, nil
}

func (s *Store) CreatePasswordReset(ctx context.Context, reset *model.PasswordReset) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.passwordResets[reset.ID]; ok {
		return db.ErrDuplicateKey
	}
	s.passwordResets[reset.ID] = *reset
	return nil
}

func (s *Store) GetPasswordReset(ctx context.Context, id string) (*model.PasswordReset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.passwordResets[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	return &r, nil
}

func (s *Store) MarkPasswordResetUsed(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.passwordResets[id]
	if !ok || r.Used {
		return db.ErrNotFound
	}
	r.Used = true
	s.passwordResets[id] = r
	return nil
}
