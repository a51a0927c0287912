package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/rolemanagement/usermanager/internal/core/domain"
)

// ---------------------------------------------------------------------------
// In-memory stub user store
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	byID map[string]*domain.User

	findErr   error // returned by FindByID / FindByEmail when set
	insertErr error // returned by Insert when set
	updateErr error // returned by Update when set

	inserts     int
	updates     int
	emailLookup int
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{byID: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) seed(users ...*domain.User) {
	for _, u := range users {
		r.byID[u.ID] = cloneUser(u)
	}
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.emailLookup++
	if r.findErr != nil {
		return nil, r.findErr
	}
	for _, u := range r.byID {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) Insert(_ context.Context, user *domain.User) error {
	if r.insertErr != nil {
		return r.insertErr
	}
	for _, u := range r.byID {
		if u.Email == user.Email {
			return domain.ErrEmailExists
		}
	}
	r.inserts++
	r.byID[user.ID] = cloneUser(user)
	return nil
}

func (r *stubUserRepo) Update(_ context.Context, id string, changes domain.UserChanges) (*domain.User, error) {
	if r.updateErr != nil {
		return nil, r.updateErr
	}
	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	if email, set := changes.Email.Get(); set {
		for _, other := range r.byID {
			if other.ID != id && other.Email == email {
				return nil, domain.ErrEmailExists
			}
		}
	}
	updated := changes.Apply(*u)
	r.updates++
	r.byID[id] = &updated
	return cloneUser(&updated), nil
}

func (r *stubUserRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *stubUserRepo) Search(_ context.Context, query string) ([]*domain.User, error) {
	q := strings.ToLower(query)
	var out []*domain.User
	for _, u := range r.byID {
		if q == "" ||
			strings.Contains(strings.ToLower(u.Name), q) ||
			strings.Contains(strings.ToLower(u.Email), q) ||
			strings.Contains(strings.ToLower(u.Role), q) {
			out = append(out, cloneUser(u))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *stubUserRepo) CountByRole(_ context.Context) (domain.RoleStats, error) {
	var s domain.RoleStats
	for _, u := range r.byID {
		s.Total++
		switch u.Role {
		case domain.RoleAdmin:
			s.Admins++
		case domain.RoleUser:
			s.Users++
		case domain.RoleGuest:
			s.Guests++
		}
	}
	return s, nil
}

// ---------------------------------------------------------------------------
// In-memory stub file store
// ---------------------------------------------------------------------------

type stubFileStore struct {
	files   map[string]*domain.StoredFile
	saveErr error
}

func newStubFileStore() *stubFileStore {
	return &stubFileStore{files: make(map[string]*domain.StoredFile)}
}

func (f *stubFileStore) Save(_ context.Context, file *domain.StoredFile) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	clone := *file
	f.files[file.Key] = &clone
	return nil
}

func (f *stubFileStore) Get(_ context.Context, key string) (*domain.StoredFile, error) {
	file, ok := f.files[key]
	if !ok {
		return nil, domain.ErrFileNotFound
	}
	clone := *file
	return &clone, nil
}

func (f *stubFileStore) Delete(_ context.Context, key string) error {
	delete(f.files, key)
	return nil
}

// ---------------------------------------------------------------------------
// In-memory stub session store
// ---------------------------------------------------------------------------

type stubSessionStore struct {
	sessions map[string]string
}

func newStubSessionStore() *stubSessionStore {
	return &stubSessionStore{sessions: make(map[string]string)}
}

func (s *stubSessionStore) Create(_ context.Context, sessionID, userID string, _ time.Duration) error {
	s.sessions[sessionID] = userID
	return nil
}

func (s *stubSessionStore) Lookup(_ context.Context, sessionID string) (string, error) {
	userID, ok := s.sessions[sessionID]
	if !ok {
		return "", domain.ErrSessionNotFound
	}
	return userID, nil
}

func (s *stubSessionStore) Revoke(_ context.Context, sessionID string) error {
	delete(s.sessions, sessionID)
	return nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// steppingClock returns a clock that advances one minute per call.
func steppingClock(start time.Time) func() time.Time {
	current := start.Add(-time.Minute)
	return func() time.Time {
		current = current.Add(time.Minute)
		return current
	}
}

// sequentialIDs returns a generator yielding id-1, id-2, ...
func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return "id-" + string(rune('0'+n))
	}
}
