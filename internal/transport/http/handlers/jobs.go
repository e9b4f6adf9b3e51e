package http_handlers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-chi/chi/v5"

	"github.com/baechuer/job-portal/internal/application/jobs"
	"github.com/baechuer/job-portal/internal/domain"
	"github.com/baechuer/job-portal/internal/transport/http/dto"
	"github.com/baechuer/job-portal/internal/transport/http/middleware"
	"github.com/baechuer/job-portal/internal/transport/http/response"
)

// formOverhead is the allowance for the text parts and multipart framing
// on top of the resume itself.
const formOverhead = 1 << 20

type JobsHandler struct {
	svc            *jobs.Service
	maxResumeBytes int64
}

func NewJobsHandler(svc *jobs.Service, maxResumeBytes int64) *JobsHandler {
	if maxResumeBytes <= 0 {
		maxResumeBytes = 5 << 20
	}
	return &JobsHandler{svc: svc, maxResumeBytes: maxResumeBytes}
}

// Apply handles POST /apply_job (multipart/form-data with a "resume" file).
func (h *JobsHandler) Apply(w http.ResponseWriter, r *http.Request) {
	uid, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.WriteError(w, r, domain.ErrTokenInvalid())
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxResumeBytes+formOverhead)
	if err := r.ParseMultipartForm(h.maxResumeBytes + formOverhead); err != nil {
		var tooBig *http.MaxBytesError
		switch {
		case errors.As(err, &tooBig):
			response.WriteError(w, r, domain.ErrResumeTooLarge(h.maxResumeBytes))
			return
		case errors.Is(err, http.ErrNotMultipart):
			// falls through to the required-field check below
		default:
			response.WriteError(w, r, domain.ErrInvalidForm(err))
			return
		}
	}
	if r.MultipartForm != nil {
		defer func() { _ = r.MultipartForm.RemoveAll() }()
	}

	// Presence of the file is checked with the text fields, before any
	// format rule such as the job role.
	data, contentType, err := h.readResume(r)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	form := dto.ApplyJobFormFrom(r.PostFormValue)
	if err := form.Validate(); err != nil {
		response.WriteError(w, r, err)
		return
	}

	app, err := h.svc.Apply(r.Context(), form.ToInput(uid, data, contentType))
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	middleware.ApplicationsSubmittedTotal.WithLabelValues(string(app.Role)).Inc()

	response.OK(w, r, dto.MessageResponse{Msg: "Job application submitted successfully"})
}

func (h *JobsHandler) readResume(r *http.Request) ([]byte, string, error) {
	if r.MultipartForm == nil {
		return nil, "", domain.ErrFieldsRequired("resume")
	}
	file, hdr, err := r.FormFile("resume")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, "", domain.ErrFieldsRequired("resume")
		}
		return nil, "", domain.ErrInvalidForm(err)
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, h.maxResumeBytes+1))
	if err != nil {
		return nil, "", domain.ErrInvalidForm(err)
	}
	if len(data) == 0 {
		return nil, "", domain.ErrFieldsRequired("resume")
	}

	ct := strings.TrimSpace(hdr.Header.Get("Content-Type"))
	if ct == "" || ct == "application/octet-stream" {
		ct = mimetype.Detect(data).String()
	}
	return data, ct, nil
}

func (h *JobsHandler) GetApplicants(w http.ResponseWriter, r *http.Request) {
	views, err := h.svc.ListApplicants(r.Context())
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.OK(w, r, dto.NewApplicantViews(views))
}

func (h *JobsHandler) Accept(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, h.svc.Accept)
}

func (h *JobsHandler) Reject(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, h.svc.Reject)
}

func (h *JobsHandler) decide(w http.ResponseWriter, r *http.Request, fn func(context.Context, string, string) (domain.JobApplication, error)) {
	actorID, _ := middleware.UserIDFromContext(r.Context())
	id := strings.TrimSpace(chi.URLParam(r, "id"))

	app, err := fn(r.Context(), actorID, id)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	middleware.ApplicationDecisionsTotal.WithLabelValues(string(app.Status)).Inc()

	response.OK(w, r, dto.NewDecisionResponse(app))
}
