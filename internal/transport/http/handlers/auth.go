package http_handlers

import (
	"net/http"

	"github.com/baechuer/job-portal/internal/application/auth"
	"github.com/baechuer/job-portal/internal/domain"
	"github.com/baechuer/job-portal/internal/logger"
	"github.com/baechuer/job-portal/internal/transport/http/dto"
	"github.com/baechuer/job-portal/internal/transport/http/middleware"
	"github.com/baechuer/job-portal/internal/transport/http/response"
)

type AuthHandler struct {
	svc *auth.Service
}

func NewAuthHandler(svc *auth.Service) *AuthHandler {
	return &AuthHandler{svc: svc}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := response.DecodeJSON(r, &req); err != nil {
		response.WriteError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		response.WriteError(w, r, err)
		return
	}

	res, err := h.svc.Register(r.Context(), auth.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	logger.WithCtx(r.Context()).Info().
		Str("user_id", res.User.ID).
		Str("role", res.User.Role).
		Msg("user_registered")

	response.OK(w, r, dto.NewSessionResponse("User created successfully", res.User, res.Token))
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := response.DecodeJSON(r, &req); err != nil {
		response.WriteError(w, r, err)
		return
	}

	res, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		status := domain.Code(err)
		if status == "" {
			status = "error"
		}
		middleware.LoginAttemptsTotal.WithLabelValues(status).Inc()
		response.WriteError(w, r, err)
		return
	}
	middleware.LoginAttemptsTotal.WithLabelValues("success").Inc()

	response.OK(w, r, dto.NewSessionResponse("Login successful", res.User, res.Token))
}

// Profile handles GET /profile for any authenticated caller.
func (h *AuthHandler) Profile(w http.ResponseWriter, r *http.Request) {
	uid, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.WriteError(w, r, domain.ErrTokenInvalid())
		return
	}

	res, err := h.svc.Profile(r.Context(), uid)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	response.OK(w, r, dto.NewProfileResponse(res.User, res.Applications))
}

func (h *AuthHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.svc.ListUsers(r.Context())
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.OK(w, r, dto.NewUserViews(users))
}
