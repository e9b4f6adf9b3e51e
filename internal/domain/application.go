package domain

import (
	"encoding/base64"
	"time"
)

type ApplicationStatus string

const (
	StatusPending  ApplicationStatus = "pending"
	StatusAccepted ApplicationStatus = "accepted"
	StatusRejected ApplicationStatus = "rejected"
)

func IsValidStatus(s string) bool {
	switch ApplicationStatus(s) {
	case StatusPending, StatusAccepted, StatusRejected:
		return true
	default:
		return false
	}
}

// JobRole is the job category an applicant applies for.
type JobRole string

const (
	JobRoleFrontend  JobRole = "Frontend Developer"
	JobRoleBackend   JobRole = "Backend Developer"
	JobRoleFullStack JobRole = "Full Stack Developer"
	JobRoleDesigner  JobRole = "UI/UX Designer"
	JobRoleIntern    JobRole = "Software Intern"
	JobRoleOther     JobRole = "Other"
)

var jobRoles = []JobRole{
	JobRoleFrontend,
	JobRoleBackend,
	JobRoleFullStack,
	JobRoleDesigner,
	JobRoleIntern,
	JobRoleOther,
}

// JobRoles lists the accepted categories in display order.
func JobRoles() []JobRole {
	out := make([]JobRole, len(jobRoles))
	copy(out, jobRoles)
	return out
}

func IsValidJobRole(r string) bool {
	for _, jr := range jobRoles {
		if string(jr) == r {
			return true
		}
	}
	return false
}

// Resume is the uploaded file. Data is empty when the bytes live in an
// external blob store under ObjectKey.
type Resume struct {
	Data        []byte
	ContentType string
	ObjectKey   string
}

func (r Resume) Empty() bool {
	return len(r.Data) == 0 && r.ObjectKey == ""
}

// DataURI renders the resume as data:<type>;base64,<bytes>.
// ok is false when there are no bytes to render.
func (r Resume) DataURI() (string, bool) {
	if len(r.Data) == 0 {
		return "", false
	}
	return "data:" + r.ContentType + ";base64," + base64.StdEncoding.EncodeToString(r.Data), true
}

type JobApplication struct {
	ID          string
	UserID      string
	FullName    string
	Phone       string
	Email       string
	Description string
	Role        JobRole
	JobTitle    string
	Company     string
	Location    string
	Resume      Resume
	Status      ApplicationStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ApplicantView is an application joined with its owner. Owner is nil when
// the owning user no longer resolves.
type ApplicantView struct {
	Application JobApplication
	Owner       *User
}
