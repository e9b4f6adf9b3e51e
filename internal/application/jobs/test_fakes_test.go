package jobs

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/baechuer/job-portal/internal/domain"
)

type fakeAppRepo struct {
	mu sync.Mutex

	apps  map[string]domain.JobApplication
	users map[string]domain.User

	createErr error
	listErr   error
	setErr    error
}

func newFakeAppRepo() *fakeAppRepo {
	return &fakeAppRepo{
		apps:  map[string]domain.JobApplication{},
		users: map[string]domain.User{},
	}
}

func (f *fakeAppRepo) Create(ctx context.Context, a domain.JobApplication) (domain.JobApplication, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return domain.JobApplication{}, f.createErr
	}
	f.apps[a.ID] = a
	return a, nil
}

func (f *fakeAppRepo) sorted() []domain.JobApplication {
	out := make([]domain.JobApplication, 0, len(f.apps))
	for _, a := range f.apps {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (f *fakeAppRepo) ListWithOwners(ctx context.Context) ([]domain.ApplicantView, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []domain.ApplicantView
	for _, a := range f.sorted() {
		v := domain.ApplicantView{Application: a}
		if u, ok := f.users[a.UserID]; ok {
			u := u
			v.Owner = &u
		}
		out = append(out, v)
	}
	return out, nil
}

func (f *fakeAppRepo) ListByUser(ctx context.Context, userID string) ([]domain.JobApplication, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []domain.JobApplication
	for _, a := range f.sorted() {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeAppRepo) SetStatus(ctx context.Context, id string, status domain.ApplicationStatus, at time.Time) (domain.JobApplication, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.setErr != nil {
		return domain.JobApplication{}, f.setErr
	}
	a, ok := f.apps[id]
	if !ok {
		return domain.JobApplication{}, domain.ErrApplicationNotFound()
	}
	a.Status = status
	a.UpdatedAt = at
	f.apps[id] = a
	return a, nil
}

type fakeResumes struct {
	objects map[string][]byte
	putErr  error
	getErr  error
	deleted []string
}

func newFakeResumes() *fakeResumes {
	return &fakeResumes{objects: map[string][]byte{}}
}

func (f *fakeResumes) Put(ctx context.Context, key string, data []byte, contentType string) error {
	if f.putErr != nil {
		return f.putErr
	}
	f.objects[key] = data
	return nil
}

func (f *fakeResumes) Get(ctx context.Context, key string) ([]byte, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.objects[key], nil
}

func (f *fakeResumes) Delete(ctx context.Context, key string) error {
	f.deleted = append(f.deleted, key)
	delete(f.objects, key)
	return nil
}

type fakePublisher struct {
	submitted []ApplicationSubmittedEvent
	decided   []ApplicationDecidedEvent
	err       error
}

func (p *fakePublisher) PublishApplicationSubmitted(ctx context.Context, evt ApplicationSubmittedEvent) error {
	p.submitted = append(p.submitted, evt)
	return p.err
}

func (p *fakePublisher) PublishApplicationDecided(ctx context.Context, evt ApplicationDecidedEvent) error {
	p.decided = append(p.decided, evt)
	return p.err
}

// stepClock advances one second per call.
type stepClock struct {
	t time.Time
}

func (c *stepClock) Now() time.Time {
	c.t = c.t.Add(time.Second)
	return c.t
}

type auditEntry struct {
	action string
	fields map[string]string
}

func newSvcForTest(t *testing.T, resumes ResumeStore) (*Service, *fakeAppRepo, *fakePublisher, *[]auditEntry) {
	t.Helper()

	repo := newFakeAppRepo()
	pub := &fakePublisher{}
	audits := &[]auditEntry{}
	clock := &stepClock{t: time.Unix(1_700_000_000, 0)}

	svc := NewService(repo, resumes, pub, Config{MaxResumeBytes: 1024}).
		WithClock(clock.Now).
		WithAudit(func(action string, fields map[string]string) {
			*audits = append(*audits, auditEntry{action: action, fields: fields})
		})
	return svc, repo, pub, audits
}

func validInput(userID string) ApplyInput {
	return ApplyInput{
		UserID:            userID,
		FullName:          "Ann Lee",
		Phone:             "555-0100",
		Email:             "ann@x.com",
		Description:       "Go developer",
		Role:              string(domain.JobRoleBackend),
		JobTitle:          "Backend Engineer",
		Company:           "Acme",
		Location:          "Remote",
		Resume:            []byte("%PDF-1.4 resume"),
		ResumeContentType: "application/pdf",
	}
}
