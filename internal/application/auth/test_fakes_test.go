package auth

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/baechuer/job-portal/internal/domain"
)

/*
Fakes for ports
*/

type fakeUserRepo struct {
	mu sync.Mutex

	byID    map[string]domain.User
	byEmail map[string]domain.User

	// injected errors (if set, method returns error)
	getByIDErr    error
	getByEmailErr error
	createErr     error
	listErr       error

	createCalls int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		byID:    map[string]domain.User{},
		byEmail: map[string]domain.User{},
	}
}

func (f *fakeUserRepo) put(u domain.User) {
	f.byID[u.ID] = u
	f.byEmail[u.Email] = u
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.getByEmailErr != nil {
		return domain.User{}, f.getByEmailErr
	}
	u, ok := f.byEmail[email]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound()
	}
	return u, nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.getByIDErr != nil {
		return domain.User{}, f.getByIDErr
	}
	u, ok := f.byID[id]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound()
	}
	return u, nil
}

func (f *fakeUserRepo) Create(ctx context.Context, u domain.User) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.createCalls++
	if f.createErr != nil {
		return domain.User{}, f.createErr
	}
	if _, ok := f.byEmail[u.Email]; ok {
		return domain.User{}, domain.ErrEmailAlreadyExists()
	}
	f.put(u)
	return u, nil
}

func (f *fakeUserRepo) List(ctx context.Context) ([]domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]domain.User, 0, len(f.byID))
	for _, u := range f.byID {
		out = append(out, u)
	}
	return out, nil
}

type fakeApps struct {
	byUser map[string][]domain.JobApplication
	err    error
}

func (f *fakeApps) ListByUser(ctx context.Context, userID string) ([]domain.JobApplication, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.byUser[userID], nil
}

// fakeHasher uses "hash:" prefix.
type fakeHasher struct {
	hashFn    func(pw string) (string, error)
	compareFn func(hash, pw string) error
}

func (h *fakeHasher) Hash(pw string) (string, error) {
	if h.hashFn != nil {
		return h.hashFn(pw)
	}
	return "hash:" + pw, nil
}

func (h *fakeHasher) Compare(hash, pw string) error {
	if h.compareFn != nil {
		return h.compareFn(hash, pw)
	}
	if hash != "hash:"+pw {
		return errors.New("mismatch")
	}
	return nil
}

type fakeSigner struct {
	err     error
	gotTTL  time.Duration
	gotRole string
}

func (s *fakeSigner) SignSessionToken(userID, email, role string, ttl time.Duration) (string, error) {
	s.gotTTL = ttl
	s.gotRole = role
	if s.err != nil {
		return "", s.err
	}
	return "tok:" + userID + ":" + role, nil
}

func (s *fakeSigner) VerifySessionToken(token string) (TokenClaims, error) {
	parts := strings.Split(token, ":")
	if len(parts) != 3 || parts[0] != "tok" {
		return TokenClaims{}, domain.ErrTokenInvalid()
	}
	return TokenClaims{UserID: parts[1], Role: parts[2]}, nil
}

type auditEntry struct {
	action string
	fields map[string]string
}

type testDeps struct {
	users  *fakeUserRepo
	apps   *fakeApps
	hasher *fakeHasher
	signer *fakeSigner
	audits *[]auditEntry
}

func newSvcForTest(t *testing.T) (*Service, testDeps) {
	t.Helper()

	d := testDeps{
		users:  newFakeUserRepo(),
		apps:   &fakeApps{byUser: map[string][]domain.JobApplication{}},
		hasher: &fakeHasher{},
		signer: &fakeSigner{},
		audits: &[]auditEntry{},
	}
	svc := NewService(d.users, d.apps, d.hasher, d.signer).
		WithAudit(func(action string, fields map[string]string) {
			*d.audits = append(*d.audits, auditEntry{action: action, fields: fields})
		})
	return svc, d
}

func requireDomainCode(t *testing.T, err error, code string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error with code %q, got nil", code)
	}
	if !domain.Is(err, code) {
		t.Fatalf("expected code %q, got %v", code, err)
	}
}
