package postgres

import (
	"database/sql"
	"time"

	"github.com/baechuer/job-portal/internal/domain"
)

type userRow struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func toDomainUser(ur userRow) domain.User {
	return domain.User{
		ID:           ur.ID,
		Name:         ur.Name,
		Email:        ur.Email,
		PasswordHash: ur.PasswordHash,
		Role:         ur.Role,
		CreatedAt:    ur.CreatedAt,
		UpdatedAt:    ur.UpdatedAt,
	}
}

type applicationRow struct {
	ID                string
	UserID            string
	FullName          string
	Phone             string
	Email             string
	Description       string
	Role              string
	JobTitle          string
	Company           string
	Location          string
	ResumeData        []byte
	ResumeContentType string
	ResumeObjectKey   string
	Status            string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

const applicationColumns = `id, user_id, full_name, phone, email, description, role, job_title, company, location,
resume_data, resume_content_type, resume_object_key, status, created_at, updated_at`

func (ar *applicationRow) dest() []any {
	return []any{
		&ar.ID, &ar.UserID, &ar.FullName, &ar.Phone, &ar.Email, &ar.Description, &ar.Role,
		&ar.JobTitle, &ar.Company, &ar.Location,
		&ar.ResumeData, &ar.ResumeContentType, &ar.ResumeObjectKey,
		&ar.Status, &ar.CreatedAt, &ar.UpdatedAt,
	}
}

func scanApplication(s scanner) (applicationRow, error) {
	var ar applicationRow
	err := s.Scan(ar.dest()...)
	return ar, err
}

func toDomainApplication(ar applicationRow) domain.JobApplication {
	return domain.JobApplication{
		ID:          ar.ID,
		UserID:      ar.UserID,
		FullName:    ar.FullName,
		Phone:       ar.Phone,
		Email:       ar.Email,
		Description: ar.Description,
		Role:        domain.JobRole(ar.Role),
		JobTitle:    ar.JobTitle,
		Company:     ar.Company,
		Location:    ar.Location,
		Resume: domain.Resume{
			Data:        ar.ResumeData,
			ContentType: ar.ResumeContentType,
			ObjectKey:   ar.ResumeObjectKey,
		},
		Status:    domain.ApplicationStatus(ar.Status),
		CreatedAt: ar.CreatedAt,
		UpdatedAt: ar.UpdatedAt,
	}
}

// ownerRow holds the LEFT JOINed user columns; all null when the owner is gone.
type ownerRow struct {
	ID        sql.NullString
	Name      sql.NullString
	Email     sql.NullString
	Role      sql.NullString
	CreatedAt sql.NullTime
	UpdatedAt sql.NullTime
}

func (o ownerRow) toDomain() *domain.User {
	if !o.ID.Valid {
		return nil
	}
	return &domain.User{
		ID:        o.ID.String,
		Name:      o.Name.String,
		Email:     o.Email.String,
		Role:      o.Role.String,
		CreatedAt: o.CreatedAt.Time,
		UpdatedAt: o.UpdatedAt.Time,
	}
}
