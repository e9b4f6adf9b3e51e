package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/baechuer/job-portal/internal/domain"
)

type ApplicationRepo struct {
	db *sql.DB
}

func NewApplicationRepo(db *sql.DB) *ApplicationRepo {
	return &ApplicationRepo{db: db}
}

func (r *ApplicationRepo) Create(ctx context.Context, a domain.JobApplication) (domain.JobApplication, error) {
	if a.ID == "" {
		return domain.JobApplication{}, domain.ErrFieldsRequired("id")
	}
	if a.UserID == "" {
		return domain.JobApplication{}, domain.ErrFieldsRequired("user_id")
	}
	if a.Status == "" {
		a.Status = domain.StatusPending
	}

	// NULL rather than an empty bytea when the resume lives in the blob store.
	var resume any
	if len(a.Resume.Data) > 0 {
		resume = a.Resume.Data
	}

	const q = `
INSERT INTO job_applications (id, user_id, full_name, phone, email, description, role, job_title, company, location,
	resume_data, resume_content_type, resume_object_key, status, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)
RETURNING ` + applicationColumns + `;
`
	ar, err := scanApplication(r.db.QueryRowContext(ctx, q,
		a.ID, a.UserID, a.FullName, a.Phone, a.Email, a.Description, string(a.Role),
		a.JobTitle, a.Company, a.Location,
		resume, a.Resume.ContentType, a.Resume.ObjectKey,
		string(a.Status), a.CreatedAt, a.UpdatedAt,
	))
	if err != nil {
		return domain.JobApplication{}, domain.ErrDBUnavailable(err)
	}
	return toDomainApplication(ar), nil
}

// ListWithOwners returns every application with its owner, newest first.
func (r *ApplicationRepo) ListWithOwners(ctx context.Context) ([]domain.ApplicantView, error) {
	const q = `
SELECT a.id, a.user_id, a.full_name, a.phone, a.email, a.description, a.role, a.job_title, a.company, a.location,
	a.resume_data, a.resume_content_type, a.resume_object_key, a.status, a.created_at, a.updated_at,
	u.id, u.name, u.email, u.role, u.created_at, u.updated_at
FROM job_applications a
LEFT JOIN users u ON u.id = a.user_id
ORDER BY a.created_at DESC;
`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, domain.ErrDBUnavailable(err)
	}
	defer rows.Close()

	out := []domain.ApplicantView{}
	for rows.Next() {
		var ar applicationRow
		var or ownerRow
		dest := append(ar.dest(), &or.ID, &or.Name, &or.Email, &or.Role, &or.CreatedAt, &or.UpdatedAt)
		if err := rows.Scan(dest...); err != nil {
			return nil, domain.ErrDBUnavailable(err)
		}
		out = append(out, domain.ApplicantView{
			Application: toDomainApplication(ar),
			Owner:       or.toDomain(),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, domain.ErrDBUnavailable(err)
	}
	return out, nil
}

func (r *ApplicationRepo) ListByUser(ctx context.Context, userID string) ([]domain.JobApplication, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, domain.ErrFieldsRequired("user_id")
	}

	const q = `
SELECT ` + applicationColumns + `
FROM job_applications
WHERE user_id = $1
ORDER BY created_at DESC;
`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		if isInvalidID(err) {
			return []domain.JobApplication{}, nil
		}
		return nil, domain.ErrDBUnavailable(err)
	}
	defer rows.Close()

	out := []domain.JobApplication{}
	for rows.Next() {
		ar, err := scanApplication(rows)
		if err != nil {
			return nil, domain.ErrDBUnavailable(err)
		}
		out = append(out, toDomainApplication(ar))
	}
	if err := rows.Err(); err != nil {
		return nil, domain.ErrDBUnavailable(err)
	}
	return out, nil
}

// SetStatus is a single-statement overwrite; concurrent decisions serialize
// on the row lock and the later one wins.
func (r *ApplicationRepo) SetStatus(ctx context.Context, id string, status domain.ApplicationStatus, at time.Time) (domain.JobApplication, error) {
	if !domain.IsValidStatus(string(status)) {
		return domain.JobApplication{}, domain.ErrInvalidField("status", "unknown status")
	}

	const q = `
UPDATE job_applications
SET status = $2, updated_at = $3
WHERE id = $1
RETURNING ` + applicationColumns + `;
`
	ar, err := scanApplication(r.db.QueryRowContext(ctx, q, id, string(status), at))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || isInvalidID(err) {
			return domain.JobApplication{}, domain.ErrApplicationNotFound()
		}
		return domain.JobApplication{}, domain.ErrDBUnavailable(err)
	}
	return toDomainApplication(ar), nil
}
