package dto

import (
	"strings"

	"github.com/baechuer/job-portal/internal/application/jobs"
)

// ApplyJobForm carries the text parts of the multipart apply_job request.
// Field names are the ones the web client posts.
type ApplyJobForm struct {
	FullName    string `form:"fullName" validate:"required"`
	PhoneNo     string `form:"PhoneNo" validate:"required"`
	Email       string `form:"email" validate:"required"`
	Description string `form:"description" validate:"required"`
	Role        string `form:"role" validate:"required,job_role"`
	JobTitle    string `form:"jobTitle" validate:"required"`
	Company     string `form:"company" validate:"required"`
	Location    string `form:"location" validate:"required"`
}

// ApplyJobFormFrom reads the known fields with a getter such as (*http.Request).FormValue.
func ApplyJobFormFrom(get func(string) string) ApplyJobForm {
	f := ApplyJobForm{
		FullName:    get("fullName"),
		PhoneNo:     get("PhoneNo"),
		Email:       get("email"),
		Description: get("description"),
		Role:        get("role"),
		JobTitle:    get("jobTitle"),
		Company:     get("company"),
		Location:    get("location"),
	}
	for _, p := range []*string{&f.FullName, &f.PhoneNo, &f.Email, &f.Description, &f.Role, &f.JobTitle, &f.Company, &f.Location} {
		*p = strings.TrimSpace(*p)
	}
	return f
}

func (f *ApplyJobForm) Validate() error {
	if err := validate.Struct(f); err != nil {
		return toDomainError(err)
	}
	return nil
}

func (f ApplyJobForm) ToInput(userID string, resume []byte, contentType string) jobs.ApplyInput {
	return jobs.ApplyInput{
		UserID:            userID,
		FullName:          f.FullName,
		Phone:             f.PhoneNo,
		Email:             f.Email,
		Description:       f.Description,
		Role:              f.Role,
		JobTitle:          f.JobTitle,
		Company:           f.Company,
		Location:          f.Location,
		Resume:            resume,
		ResumeContentType: contentType,
	}
}
