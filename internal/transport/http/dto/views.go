package dto

import (
	"time"

	"github.com/baechuer/job-portal/internal/domain"
)

// -------- auth --------

type UserSummary struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

type SessionResponse struct {
	Success bool        `json:"success"`
	Msg     string      `json:"msg"`
	User    UserSummary `json:"user"`
	Token   string      `json:"token"`
}

func NewSessionResponse(msg string, u domain.User, token string) SessionResponse {
	return SessionResponse{
		Success: true,
		Msg:     msg,
		User:    UserSummary{Email: u.Email, Role: u.Role},
		Token:   token,
	}
}

// UserView is a user without credentials. Ids use the "_id" key the web client reads.
type UserView struct {
	ID        string    `json:"_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func NewUserView(u domain.User) UserView {
	return UserView{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func NewUserViews(users []domain.User) []UserView {
	out := make([]UserView, 0, len(users))
	for _, u := range users {
		out = append(out, NewUserView(u))
	}
	return out
}

// -------- profile --------

type ProfileApplication struct {
	ID          string `json:"_id"`
	Role        string `json:"role"`
	Status      string `json:"status"`
	Company     string `json:"company"`
	Location    string `json:"location"`
	Description string `json:"description"`
}

type ProfileResponse struct {
	Msg          string               `json:"msg"`
	User         UserView             `json:"user"`
	Applications []ProfileApplication `json:"applications"`
}

func NewProfileResponse(u domain.User, apps []domain.JobApplication) ProfileResponse {
	out := make([]ProfileApplication, 0, len(apps))
	for _, a := range apps {
		out = append(out, ProfileApplication{
			ID:          a.ID,
			Role:        string(a.Role),
			Status:      string(a.Status),
			Company:     a.Company,
			Location:    a.Location,
			Description: a.Description,
		})
	}
	return ProfileResponse{
		Msg:          "User profile fetched",
		User:         NewUserView(u),
		Applications: out,
	}
}

// -------- applications --------

type MessageResponse struct {
	Msg string `json:"msg"`
}

// ApplicantView is one entry of the admin list. UserID holds the owner
// itself (null if it no longer exists); Resume is a data URI or null.
type ApplicantView struct {
	ID          string    `json:"_id"`
	UserID      *UserView `json:"userId"`
	FullName    string    `json:"fullName"`
	PhoneNo     string    `json:"PhoneNo"`
	Email       string    `json:"email"`
	Description string    `json:"description"`
	Role        string    `json:"role"`
	JobTitle    string    `json:"jobTitle"`
	Company     string    `json:"company"`
	Location    string    `json:"location"`
	Resume      *string   `json:"resume"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func NewApplicantViews(views []domain.ApplicantView) []ApplicantView {
	out := make([]ApplicantView, 0, len(views))
	for _, v := range views {
		a := v.Application
		item := ApplicantView{
			ID:          a.ID,
			FullName:    a.FullName,
			PhoneNo:     a.Phone,
			Email:       a.Email,
			Description: a.Description,
			Role:        string(a.Role),
			JobTitle:    a.JobTitle,
			Company:     a.Company,
			Location:    a.Location,
			Status:      string(a.Status),
			CreatedAt:   a.CreatedAt,
			UpdatedAt:   a.UpdatedAt,
		}
		if v.Owner != nil {
			owner := NewUserView(*v.Owner)
			item.UserID = &owner
		}
		if uri, ok := a.Resume.DataURI(); ok {
			item.Resume = &uri
		}
		out = append(out, item)
	}
	return out
}

type ApplicationStatusView struct {
	ID     string `json:"_id"`
	Status string `json:"status"`
}

type DecisionResponse struct {
	Message     string                `json:"message"`
	Application ApplicationStatusView `json:"application"`
}

func NewDecisionResponse(a domain.JobApplication) DecisionResponse {
	msg := "Application accepted"
	if a.Status == domain.StatusRejected {
		msg = "Application rejected"
	}
	return DecisionResponse{
		Message:     msg,
		Application: ApplicationStatusView{ID: a.ID, Status: string(a.Status)},
	}
}
