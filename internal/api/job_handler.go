package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/phrazzld/scholar-api/internal/api/shared"
	"github.com/phrazzld/scholar-api/internal/cache"
	"github.com/phrazzld/scholar-api/internal/domain"
	"github.com/phrazzld/scholar-api/internal/platform/logger"
	"github.com/phrazzld/scholar-api/internal/service"
)

// JobHandler handles job lifecycle HTTP requests.
type JobHandler struct {
	jobService  service.JobService
	resultCache cache.Cache
	resultTTL   time.Duration
	logger      *slog.Logger
}

// NewJobHandler creates a JobHandler. A nil resultCache disables result
// caching.
func NewJobHandler(jobService service.JobService, resultCache cache.Cache, resultTTL time.Duration, log *slog.Logger) *JobHandler {
	if resultCache == nil {
		resultCache = cache.NoopCache{}
	}
	if log == nil {
		log = slog.Default()
	}
	return &JobHandler{
		jobService:  jobService,
		resultCache: resultCache,
		resultTTL:   resultTTL,
		logger:      log.With(slog.String("component", "job_handler")),
	}
}

// SubmitJob handles POST /api/jobs. Accepted submissions return 202 with
// the pending job; execution happens in the background.
func (h *JobHandler) SubmitJob(w http.ResponseWriter, r *http.Request) {
	var req SubmitJobRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(&req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if req.ToInputs().IsEmpty() {
		shared.RespondWithError(w, r, http.StatusBadRequest, ErrNoSearchableInput.Error())
		return
	}

	job, err := h.jobService.SubmitJob(r.Context(), req.ToInputs())
	if err != nil {
		h.respondServiceError(w, r, err, "Failed to submit job")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusAccepted, jobToResponse(job))
}

// GetJob handles GET /api/jobs/{id}. This is the polling endpoint: the
// response always reflects the job's current status, message and, for
// finished jobs, its outcome.
func (h *JobHandler) GetJob(w http.ResponseWriter, r *http.Request) {
	jobID, ok := h.jobIDFromRequest(w, r)
	if !ok {
		return
	}

	job, err := h.jobService.GetJob(r.Context(), jobID)
	if err != nil {
		h.respondServiceError(w, r, err, "Failed to load job")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, jobToResponse(job))
}

// CancelJob handles POST /api/jobs/{id}/cancel. Cancelling a finished
// job succeeds without changing its outcome.
func (h *JobHandler) CancelJob(w http.ResponseWriter, r *http.Request) {
	jobID, ok := h.jobIDFromRequest(w, r)
	if !ok {
		return
	}

	job, err := h.jobService.CancelJob(r.Context(), jobID)
	if err != nil {
		h.respondServiceError(w, r, err, "Failed to cancel job")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, jobToResponse(job))
}

// GetResult handles GET /api/results/{id}. Results exist only for
// completed jobs; any other status yields 409 with the current status so
// clients know to keep polling or give up.
func (h *JobHandler) GetResult(w http.ResponseWriter, r *http.Request) {
	jobID, ok := h.jobIDFromRequest(w, r)
	if !ok {
		return
	}

	log := logger.FromContextOrDefault(r.Context(), h.logger)

	if cached, found := h.cachedResult(r, jobID); found {
		shared.RespondWithJSON(w, r, http.StatusOK, cached)
		return
	}

	job, err := h.jobService.GetJob(r.Context(), jobID)
	if err != nil {
		h.respondServiceError(w, r, err, "Failed to load job")
		return
	}

	if job.Status != domain.JobStatusCompleted {
		shared.RespondWithError(w, r, http.StatusConflict,
			"Job has no result: status is "+string(job.Status))
		return
	}

	response := ResultResponse{
		JobID:     job.ID.String(),
		Resources: recordsToResponse(job.Result),
		Count:     len(job.Result),
	}

	if payload, err := json.Marshal(response); err == nil {
		if err := h.resultCache.Set(r.Context(), cache.JobResultKey(jobID), payload, h.resultTTL); err != nil {
			log.Warn("failed to cache job result",
				slog.String("job_id", jobID.String()),
				slog.String("error", err.Error()))
		}
	}

	shared.RespondWithJSON(w, r, http.StatusOK, response)
}

func (h *JobHandler) cachedResult(r *http.Request, jobID uuid.UUID) (*ResultResponse, bool) {
	payload, found, err := h.resultCache.Get(r.Context(), cache.JobResultKey(jobID))
	if err != nil {
		log := logger.FromContextOrDefault(r.Context(), h.logger)
		log.Warn("result cache lookup failed",
			slog.String("job_id", jobID.String()),
			slog.String("error", err.Error()))
		return nil, false
	}
	if !found {
		return nil, false
	}

	var response ResultResponse
	if err := json.Unmarshal(payload, &response); err != nil {
		return nil, false
	}
	return &response, true
}

func (h *JobHandler) jobIDFromRequest(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	raw := chi.URLParam(r, "id")
	jobID, err := uuid.Parse(raw)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid job ID")
		return uuid.Nil, false
	}
	return jobID, true
}

func (h *JobHandler) respondServiceError(w http.ResponseWriter, r *http.Request, err error, userMessage string) {
	switch {
	case errors.Is(err, service.ErrJobNotFound):
		shared.RespondWithError(w, r, http.StatusNotFound, "Job not found")
	case errors.Is(err, domain.ErrEmptyJobInputs):
		shared.RespondWithError(w, r, http.StatusBadRequest, "At least one searchable input is required")
	default:
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, userMessage, err)
	}
}
