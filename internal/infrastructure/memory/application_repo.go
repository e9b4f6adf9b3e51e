package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/baechuer/job-portal/internal/domain"
)

// ApplicationRepo keeps applications in insertion order. Owners are resolved
// against users at read time.
type ApplicationRepo struct {
	mu    sync.RWMutex
	byID  map[string]domain.JobApplication
	order []string

	users *UserRepo
}

func NewApplicationRepo(users *UserRepo) *ApplicationRepo {
	return &ApplicationRepo{
		byID:  make(map[string]domain.JobApplication),
		users: users,
	}
}

func (r *ApplicationRepo) Create(ctx context.Context, a domain.JobApplication) (domain.JobApplication, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if a.ID == "" {
		return domain.JobApplication{}, domain.ErrFieldsRequired("id")
	}
	if a.Status == "" {
		a.Status = domain.StatusPending
	}
	if _, exists := r.byID[a.ID]; !exists {
		r.order = append(r.order, a.ID)
	}
	r.byID[a.ID] = cloneApplication(a)
	return cloneApplication(a), nil
}

// snapshot returns copies newest first; ties keep the later insert first.
func (r *ApplicationRepo) snapshot(keep func(domain.JobApplication) bool) []domain.JobApplication {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.JobApplication, 0, len(r.order))
	for i := len(r.order) - 1; i >= 0; i-- {
		a := r.byID[r.order[i]]
		if keep == nil || keep(a) {
			out = append(out, cloneApplication(a))
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (r *ApplicationRepo) ListWithOwners(ctx context.Context) ([]domain.ApplicantView, error) {
	apps := r.snapshot(nil)

	out := make([]domain.ApplicantView, 0, len(apps))
	for _, a := range apps {
		v := domain.ApplicantView{Application: a}
		if r.users != nil {
			if u, err := r.users.GetByID(ctx, a.UserID); err == nil {
				u.PasswordHash = ""
				v.Owner = &u
			}
		}
		out = append(out, v)
	}
	return out, nil
}

func (r *ApplicationRepo) ListByUser(ctx context.Context, userID string) ([]domain.JobApplication, error) {
	return r.snapshot(func(a domain.JobApplication) bool { return a.UserID == userID }), nil
}

func (r *ApplicationRepo) SetStatus(ctx context.Context, id string, status domain.ApplicationStatus, at time.Time) (domain.JobApplication, error) {
	if !domain.IsValidStatus(string(status)) {
		return domain.JobApplication{}, domain.ErrInvalidField("status", "unknown status")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.byID[id]
	if !ok {
		return domain.JobApplication{}, domain.ErrApplicationNotFound()
	}
	a.Status = status
	a.UpdatedAt = at
	r.byID[id] = a
	return cloneApplication(a), nil
}

func cloneApplication(a domain.JobApplication) domain.JobApplication {
	if a.Resume.Data != nil {
		data := make([]byte, len(a.Resume.Data))
		copy(data, a.Resume.Data)
		a.Resume.Data = data
	}
	return a
}
