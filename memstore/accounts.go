package memstore

import (
	"context"
	"sync"
	"time"

	"github.com/dryp/marketplace/apperror"
	"github.com/dryp/marketplace/models"
	"go.mongodb.org/mongo-driver/v2/bson"
)

type Users struct {
	mu    sync.RWMutex
	items map[bson.ObjectID]models.User
}

func NewUsers() *Users {
	return &Users{items: make(map[bson.ObjectID]models.User)}
}

func (s *Users) Create(_ context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.byEmail(u.Email) != nil {
		return apperror.Conflict("email", "User already exists")
	}
	now := time.Now().UTC()
	u.ID = bson.NewObjectID()
	u.CreatedAt = now
	u.UpdatedAt = now
	s.items[u.ID] = *u
	return nil
}

func (s *Users) Delete(_ context.Context, id bson.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.items, id)
	return nil
}

func (s *Users) FindByID(_ context.Context, id bson.ObjectID) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.items[id]
	if !ok {
		return nil, apperror.NotFound("User")
	}
	return &u, nil
}

func (s *Users) FindByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if u := s.byEmail(email); u != nil {
		return u, nil
	}
	return nil, apperror.NotFound("User")
}

func (s *Users) UpdatePassword(_ context.Context, id bson.ObjectID, hash string) error {
	return s.update(id, func(u *models.User) { u.PasswordHash = hash })
}

func (s *Users) UpdateRole(_ context.Context, id bson.ObjectID, role models.Role) error {
	return s.update(id, func(u *models.User) { u.Role = role })
}

func (s *Users) EnsureUser(ctx context.Context, u *models.User) (*models.User, error) {
	s.mu.RLock()
	existing := s.byEmail(u.Email)
	s.mu.RUnlock()
	if existing != nil {
		return existing, nil
	}
	u.IsActive = true
	if err := s.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *Users) update(id bson.ObjectID, fn func(*models.User)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.items[id]
	if !ok {
		return apperror.NotFound("User")
	}
	fn(&u)
	u.UpdatedAt = time.Now().UTC()
	s.items[id] = u
	return nil
}

func (s *Users) byEmail(email string) *models.User {
	for _, u := range s.items {
		if u.Email == email {
			return &u
		}
	}
	return nil
}

type RefreshTokens struct {
	mu    sync.Mutex
	items map[bson.ObjectID]models.RefreshToken
}

func NewRefreshTokens() *RefreshTokens {
	return &RefreshTokens{items: make(map[bson.ObjectID]models.RefreshToken)}
}

func (s *RefreshTokens) Save(_ context.Context, t *models.RefreshToken) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t.ID = bson.NewObjectID()
	s.items[t.ID] = *t
	return nil
}

func (s *RefreshTokens) FindByHash(_ context.Context, hash string) (*models.RefreshToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, t := range s.items {
		if t.TokenHash == hash {
			return &t, nil
		}
	}
	return nil, apperror.NotFound("Refresh token")
}

func (s *RefreshTokens) Revoke(_ context.Context, id bson.ObjectID, replacedBy string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.items[id]
	if !ok || t.RevokedAt != nil {
		return nil
	}
	now := time.Now().UTC()
	t.RevokedAt = &now
	if replacedBy != "" {
		t.ReplacedBy = &replacedBy
	}
	s.items[id] = t
	return nil
}

func (s *RefreshTokens) RevokeAll(_ context.Context, user bson.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	for id, t := range s.items {
		if t.UserID == user && t.RevokedAt == nil {
			t.RevokedAt = &now
			s.items[id] = t
		}
	}
	return nil
}

type Vendors struct {
	mu    sync.RWMutex
	items map[bson.ObjectID]models.Vendor // keyed by owner
}

func NewVendors() *Vendors {
	return &Vendors{items: make(map[bson.ObjectID]models.Vendor)}
}

func (s *Vendors) Create(_ context.Context, v *models.Vendor) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[v.Owner]; ok {
		return apperror.Conflict("owner", "This user already has a store")
	}
	if s.slugTaken(v.Slug, v.Owner) {
		return apperror.Conflict("name", "A store with this name already exists")
	}
	now := time.Now().UTC()
	v.ID = bson.NewObjectID()
	v.CreatedAt = now
	v.UpdatedAt = now
	s.items[v.Owner] = *v
	return nil
}

func (s *Vendors) FindByOwner(_ context.Context, owner bson.ObjectID) (*models.Vendor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.items[owner]
	if !ok {
		return nil, apperror.NotFound("Vendor")
	}
	return &v, nil
}

func (s *Vendors) Update(_ context.Context, v *models.Vendor) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[v.Owner]; !ok {
		return apperror.NotFound("Vendor")
	}
	if s.slugTaken(v.Slug, v.Owner) {
		return apperror.Conflict("name", "A store with this name already exists")
	}
	v.UpdatedAt = time.Now().UTC()
	s.items[v.Owner] = *v
	return nil
}

func (s *Vendors) Exists(_ context.Context, owner bson.ObjectID) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.items[owner]
	return ok, nil
}

func (s *Vendors) slugTaken(slug string, owner bson.ObjectID) bool {
	for o, v := range s.items {
		if o != owner && v.Slug == slug {
			return true
		}
	}
	return false
}
