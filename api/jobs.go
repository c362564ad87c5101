package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/kordano/jobly/pkg/apperr"
	"github.com/kordano/jobly/pkg/models"
	"github.com/kordano/jobly/pkg/repository"
)

type JobsHandler struct {
	jobRepo repository.JobRepo
}

func NewJobsHandler(jr repository.JobRepo) *JobsHandler {
	return &JobsHandler{jobRepo: jr}
}

type jobRequest struct {
	Title         *string  `json:"title"`
	Salary        *float64 `json:"salary"`
	Equity        *float64 `json:"equity"`
	CompanyHandle *string  `json:"companyHandle"`
}

var jobFilterParams = []string{"search", "min_salary", "min_equity"}

func jobID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		return 0, apperr.Validation("invalid job id: %q", mux.Vars(r)["id"])
	}
	return id, nil
}

func (h *JobsHandler) List(w http.ResponseWriter, r *http.Request) {
	criteria := filterCriteria(r, jobFilterParams)

	var (
		jobs []models.Job
		err  error
	)
	if len(criteria) > 0 {
		jobs, err = h.jobRepo.SearchJobs(r.Context(), criteria)
	} else {
		jobs, err = h.jobRepo.ListJobs(r.Context())
	}
	if err != nil {
		writeError(w, err)
		return
	}
	if jobs == nil {
		jobs = []models.Job{}
	}

	writeJSON(w, map[string]any{"jobs": jobs}, http.StatusOK)
}

func (h *JobsHandler) Create(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := validateBody(r.Context(), "job_new", body); err != nil {
		writeError(w, err)
		return
	}

	var req jobRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, apperr.Validation("invalid json body"))
		return
	}

	job, err := h.jobRepo.CreateJob(r.Context(), &models.Job{
		Title:         *req.Title,
		Salary:        req.Salary,
		Equity:        req.Equity,
		CompanyHandle: *req.CompanyHandle,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, map[string]any{"job": job}, http.StatusCreated)
}

func (h *JobsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := jobID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	job, err := h.jobRepo.GetJob(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, map[string]any{"job": job}, http.StatusOK)
}

func (h *JobsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := jobID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	body, err := readBody(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := validateBody(r.Context(), "job_update", body); err != nil {
		writeError(w, err)
		return
	}

	var req jobRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, apperr.Validation("invalid json body"))
		return
	}

	fields := map[string]any{}
	if req.Title != nil {
		fields["title"] = *req.Title
	}
	if req.Salary != nil {
		fields["salary"] = *req.Salary
	}
	if req.Equity != nil {
		fields["equity"] = *req.Equity
	}
	if req.CompanyHandle != nil {
		fields["company_handle"] = *req.CompanyHandle
	}

	job, err := h.jobRepo.UpdateJob(r.Context(), id, fields)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, map[string]any{"job": job}, http.StatusOK)
}

func (h *JobsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := jobID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.jobRepo.DeleteJob(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, map[string]any{"message": "Job deleted"}, http.StatusOK)
}
