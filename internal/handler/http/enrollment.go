package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/learnhub/learnhub/internal/service"
	"github.com/learnhub/learnhub/pkg/httputil"
)

// EnrollmentHandler handles HTTP requests for enrollment endpoints.
type EnrollmentHandler struct {
	service *service.EnrollmentService
	logger  *slog.Logger
}

// NewEnrollmentHandler creates a new enrollment HTTP handler.
func NewEnrollmentHandler(svc *service.EnrollmentService, logger *slog.Logger) *EnrollmentHandler {
	return &EnrollmentHandler{service: svc, logger: logger}
}

// Enroll handles POST /api/v1/enrollments/courses/{courseId}/users/{userId}
func (h *EnrollmentHandler) Enroll(w http.ResponseWriter, r *http.Request) {
	courseID, ok := httputil.ParseUUID(w, chi.URLParam(r, "courseId"))
	if !ok {
		return
	}
	userID, ok := httputil.ParseUUID(w, chi.URLParam(r, "userId"))
	if !ok {
		return
	}

	course, err := h.service.Enroll(r.Context(), userID.String(), courseID.String())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: course})
}

// Unenroll handles DELETE /api/v1/enrollments/courses/{courseId}/users/{userId}
func (h *EnrollmentHandler) Unenroll(w http.ResponseWriter, r *http.Request) {
	courseID, ok := httputil.ParseUUID(w, chi.URLParam(r, "courseId"))
	if !ok {
		return
	}
	userID, ok := httputil.ParseUUID(w, chi.URLParam(r, "userId"))
	if !ok {
		return
	}

	if err := h.service.Unenroll(r.Context(), userID.String(), courseID.String()); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]string{"status": "unenrolled"}})
}

// ListByUser handles GET /api/v1/enrollments/users/{userId}
func (h *EnrollmentHandler) ListByUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := httputil.ParseUUID(w, chi.URLParam(r, "userId"))
	if !ok {
		return
	}

	enrollments, err := h.service.ListByUser(r.Context(), userID.String())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: enrollments})
}

// ListByCourse handles GET /api/v1/enrollments/courses/{courseId}
func (h *EnrollmentHandler) ListByCourse(w http.ResponseWriter, r *http.Request) {
	courseID, ok := httputil.ParseUUID(w, chi.URLParam(r, "courseId"))
	if !ok {
		return
	}

	enrollments, err := h.service.ListByCourse(r.Context(), courseID.String())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: enrollments})
}
