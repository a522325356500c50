package repositories

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"wp-dispatch/models"
)

// memoryDB is the shared state of the in-memory backend. Blogs and users live
// behind one lock so the owner check and cascade stay consistent.
type memoryDB struct {
	mu         sync.RWMutex
	blogs      map[int64]models.Blog
	users      map[int64]models.User
	nextBlogID int64
	nextUserID int64
}

// NewMemoryStore returns a Store kept in process memory. It is the default
// backend for local development and is used by the tests.
func NewMemoryStore() *Store {
	mdb := &memoryDB{
		blogs: make(map[int64]models.Blog),
		users: make(map[int64]models.User),
	}
	return &Store{
		Blogs: &MemoryBlogRepository{db: mdb},
		Users: &MemoryUserRepository{db: mdb},
	}
}

type MemoryBlogRepository struct {
	db *memoryDB
}

func (r *MemoryBlogRepository) List(ctx context.Context) ([]models.Blog, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	return r.collect(func(models.Blog) bool { return true }), nil
}

func (r *MemoryBlogRepository) ListByOwner(ctx context.Context, ownerID int64) ([]models.Blog, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	return r.collect(func(b models.Blog) bool { return b.OwnerID == ownerID }), nil
}

func (r *MemoryBlogRepository) collect(keep func(models.Blog) bool) []models.Blog {
	out := make([]models.Blog, 0, len(r.db.blogs))
	for _, b := range r.db.blogs {
		if keep(b) {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *MemoryBlogRepository) GetByID(ctx context.Context, id int64) (*models.Blog, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	b, ok := r.db.blogs[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &b, nil
}

func (r *MemoryBlogRepository) Create(ctx context.Context, b *models.Blog) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.users[b.OwnerID]; !ok {
		return ErrNotFound
	}
	r.db.nextBlogID++
	now := time.Now().UTC()
	b.ID = r.db.nextBlogID
	b.CreatedAt = now
	b.UpdatedAt = now
	r.db.blogs[b.ID] = *b
	return nil
}

func (r *MemoryBlogRepository) Update(ctx context.Context, id int64, patch models.BlogPatch) (*models.Blog, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	b, ok := r.db.blogs[id]
	if !ok {
		return nil, ErrNotFound
	}
	patch.Apply(&b)
	b.UpdatedAt = time.Now().UTC()
	r.db.blogs[id] = b
	return &b, nil
}

func (r *MemoryBlogRepository) Delete(ctx context.Context, id int64) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.blogs[id]; !ok {
		return ErrNotFound
	}
	delete(r.db.blogs, id)
	return nil
}

func (r *MemoryBlogRepository) DeleteByOwner(ctx context.Context, ownerID int64) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	return r.db.deleteBlogsOf(ownerID), nil
}

func (m *memoryDB) deleteBlogsOf(ownerID int64) int64 {
	var n int64
	for id, b := range m.blogs {
		if b.OwnerID == ownerID {
			delete(m.blogs, id)
			n++
		}
	}
	return n
}

type MemoryUserRepository struct {
	db *memoryDB
}

func (r *MemoryUserRepository) List(ctx context.Context) ([]models.User, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	out := make([]models.User, 0, len(r.db.users))
	for _, u := range r.db.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *MemoryUserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	u, ok := r.db.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

func (r *MemoryUserRepository) GetByExternalID(ctx context.Context, externalID string) (*models.User, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	for _, u := range r.db.users {
		if externalID != "" && u.ExternalID == externalID {
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

func (r *MemoryUserRepository) Create(ctx context.Context, u *models.User) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if r.db.taken(0, u.Email, u.ExternalID) {
		return ErrConflict
	}
	r.db.nextUserID++
	now := time.Now().UTC()
	u.ID = r.db.nextUserID
	u.CreatedAt = now
	u.UpdatedAt = now
	r.db.users[u.ID] = *u
	return nil
}

func (r *MemoryUserRepository) Update(ctx context.Context, id int64, patch models.UserPatch) (*models.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	u, ok := r.db.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	patch.Apply(&u)
	if r.db.taken(id, u.Email, "") {
		return nil, ErrConflict
	}
	u.UpdatedAt = time.Now().UTC()
	r.db.users[id] = u
	return &u, nil
}

// Delete removes the user and, like the SQL foreign key, every blog they own.
func (r *MemoryUserRepository) Delete(ctx context.Context, id int64) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.users[id]; !ok {
		return ErrNotFound
	}
	delete(r.db.users, id)
	r.db.deleteBlogsOf(id)
	return nil
}

func (m *memoryDB) taken(exceptID int64, email, externalID string) bool {
	for id, u := range m.users {
		if id == exceptID {
			continue
		}
		if email != "" && strings.EqualFold(u.Email, email) {
			return true
		}
		if externalID != "" && u.ExternalID == externalID {
			return true
		}
	}
	return false
}
