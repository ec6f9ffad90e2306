package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/Ghosted34/natours-nest/internal/core/domain"
	"github.com/Ghosted34/natours-nest/internal/core/ports"
)

// In-memory fakes for the service tests. Semantics mirror the real
// repositories: case-insensitive user lookups, case-sensitive staff email,
// conditional single-use token consumption.

type stubUserRepo struct {
	mu    sync.Mutex
	seq   int
	users map[string]*domain.User
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	copy := cloneUser(user)
	copy.ID = fmt.Sprintf("user_%d", r.seq)
	r.users[copy.ID] = cloneUser(copy)
	return copy, nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		return cloneUser(u), nil
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username != "" && strings.EqualFold(u.Username, username) {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByEmailOrUsername(_ context.Context, identifier string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if strings.EqualFold(u.Email, identifier) || (u.Username != "" && strings.EqualFold(u.Username, identifier)) {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByVerificationToken(_ context.Context, token string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.VerificationToken != "" && u.VerificationToken == token {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) UpdateProfile(_ context.Context, id string, patch ports.UserProfilePatch) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	if patch.Username != "" {
		u.Username = patch.Username
	}
	if patch.FirstName != "" {
		u.FirstName = patch.FirstName
	}
	if patch.LastName != "" {
		u.LastName = patch.LastName
	}
	if patch.Avatar != "" {
		u.Avatar = patch.Avatar
	}
	u.UpdatedAt = time.Now().UTC()
	return cloneUser(u), nil
}

func (r *stubUserRepo) UpdatePassword(_ context.Context, id string, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.PasswordHash = passwordHash
	return nil
}

func (r *stubUserRepo) SetVerificationToken(_ context.Context, id string, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.VerificationToken = token
	return nil
}

func (r *stubUserRepo) SetResetToken(_ context.Context, id string, tokenHash string, expiresAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.ResetTokenHash = tokenHash
	u.ResetTokenExpiresAt = expiresAt
	return nil
}

func (r *stubUserRepo) ConsumeVerificationToken(_ context.Context, token string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.VerificationToken == token && !u.IsVerified {
			u.IsVerified = true
			u.VerificationToken = ""
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrInvalidToken
}

func (r *stubUserRepo) ConsumeResetToken(_ context.Context, tokenHash string, now time.Time, passwordHash string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.ResetTokenHash == tokenHash && u.ResetTokenExpiresAt.After(now) {
			u.PasswordHash = passwordHash
			u.ResetTokenHash = ""
			u.ResetTokenExpiresAt = time.Time{}
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrInvalidToken
}

type stubStaffRepo struct {
	mu    sync.Mutex
	seq   int
	staff map[string]*domain.Staff
}

func newStubStaffRepo() *stubStaffRepo {
	return &stubStaffRepo{staff: make(map[string]*domain.Staff)}
}

func cloneStaff(st *domain.Staff) *domain.Staff {
	if st == nil {
		return nil
	}
	clone := *st
	return &clone
}

func (r *stubStaffRepo) Create(_ context.Context, staff *domain.Staff) (*domain.Staff, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	copy := cloneStaff(staff)
	copy.ID = fmt.Sprintf("staff_%d", r.seq)
	r.staff[copy.ID] = cloneStaff(copy)
	return copy, nil
}

func (r *stubStaffRepo) FindByID(_ context.Context, id string) (*domain.Staff, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if st, ok := r.staff[id]; ok {
		return cloneStaff(st), nil
	}
	return nil, domain.ErrStaffNotFound
}

func (r *stubStaffRepo) FindByEmail(_ context.Context, email string) (*domain.Staff, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	// Case-sensitive, like the real repository.
	for _, st := range r.staff {
		if st.Email == email {
			return cloneStaff(st), nil
		}
	}
	return nil, domain.ErrStaffNotFound
}

func (r *stubStaffRepo) List(_ context.Context) ([]*domain.Staff, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.Staff, 0, len(r.staff))
	for _, st := range r.staff {
		out = append(out, cloneStaff(st))
	}
	return out, nil
}

func (r *stubStaffRepo) Update(_ context.Context, id string, patch ports.StaffPatch) (*domain.Staff, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	st, ok := r.staff[id]
	if !ok {
		return nil, domain.ErrStaffNotFound
	}
	if patch.FirstName != "" {
		st.FirstName = patch.FirstName
	}
	if patch.LastName != "" {
		st.LastName = patch.LastName
	}
	if patch.Department != "" {
		st.Department = patch.Department
	}
	if patch.Role != "" {
		st.Role = patch.Role
		st.Permissions = domain.DefaultPermissions(patch.Role)
	}
	return cloneStaff(st), nil
}

func (r *stubStaffRepo) Deactivate(_ context.Context, id string) (*domain.Staff, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	st, ok := r.staff[id]
	if !ok {
		return nil, domain.ErrStaffNotFound
	}
	st.IsActive = false
	return cloneStaff(st), nil
}

func (r *stubStaffRepo) UpdatePassword(_ context.Context, id string, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	st, ok := r.staff[id]
	if !ok {
		return domain.ErrStaffNotFound
	}
	st.PasswordHash = passwordHash
	st.PasswordChanged = true
	return nil
}

func (r *stubStaffRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.staff[id]; !ok {
		return domain.ErrStaffNotFound
	}
	delete(r.staff, id)
	return nil
}

type stubCache struct {
	mu        sync.Mutex
	blacklist map[string]struct{}
	markers   map[string]time.Time
	otps      map[string]domain.OTPEntry
	sessions  map[string]map[string]any
	seq       int
}

func newStubCache() *stubCache {
	return &stubCache{
		blacklist: make(map[string]struct{}),
		markers:   make(map[string]time.Time),
		otps:      make(map[string]domain.OTPEntry),
		sessions:  make(map[string]map[string]any),
	}
}

func (c *stubCache) BlacklistToken(_ context.Context, token string, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.blacklist[token] = struct{}{}
	return nil
}

func (c *stubCache) IsTokenBlacklisted(_ context.Context, token string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.blacklist[token]
	return ok, nil
}

func (c *stubCache) BlacklistAllUserTokens(_ context.Context, userID string, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.markers[userID] = time.Now().UTC()
	return nil
}

func (c *stubCache) UserTokensRevokedAt(_ context.Context, userID string) (time.Time, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	at, ok := c.markers[userID]
	return at, ok, nil
}

func (c *stubCache) StoreOTP(_ context.Context, email string, entry domain.OTPEntry, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.otps[email] = entry
	return nil
}

func (c *stubCache) GetOTP(_ context.Context, email string) (*domain.OTPEntry, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.otps[email]
	if !ok {
		return nil, nil
	}
	clone := entry
	return &clone, nil
}

func (c *stubCache) MarkOTPUsed(_ context.Context, email string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.otps[email]
	if !ok {
		return nil
	}
	entry.Used = true
	c.otps[email] = entry
	return nil
}

func (c *stubCache) CreateSession(_ context.Context, userID string, data map[string]any, _ time.Duration) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	id := fmt.Sprintf("session_%d", c.seq)
	if data == nil {
		data = map[string]any{}
	}
	data["user_id"] = userID
	c.sessions[id] = data
	return id, nil
}

func (c *stubCache) GetSession(_ context.Context, sessionID string) (map[string]any, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sessions[sessionID], nil
}

func (c *stubCache) DestroySession(_ context.Context, sessionID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.sessions, sessionID)
	return nil
}

type stubDispatcher struct {
	mu   sync.Mutex
	jobs []ports.EmailJob
}

func (d *stubDispatcher) Enqueue(job ports.EmailJob) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.jobs = append(d.jobs, job)
}

func (d *stubDispatcher) sent() []ports.EmailJob {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]ports.EmailJob, len(d.jobs))
	copy(out, d.jobs)
	return out
}
