package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/kordano/jobly/pkg/apperr"
	"github.com/kordano/jobly/pkg/models"
	"github.com/kordano/jobly/pkg/repository"
)

type CompaniesHandler struct {
	companyRepo repository.CompanyRepo
	jobRepo     repository.JobRepo
}

func NewCompaniesHandler(cr repository.CompanyRepo, jr repository.JobRepo) *CompaniesHandler {
	return &CompaniesHandler{companyRepo: cr, jobRepo: jr}
}

// companyRequest covers both create and partial-update bodies; pointers
// distinguish supplied fields from omitted ones.
type companyRequest struct {
	Handle       *string `json:"handle"`
	Name         *string `json:"name"`
	NumEmployees *int64  `json:"num_employees"`
	Description  *string `json:"description"`
	LogoURL      *string `json:"logo_url"`
}

// companyDetail is the get-one response shape: the company plus its jobs.
type companyDetail struct {
	models.Company
	Jobs []models.Job `json:"jobs"`
}

var companyFilterParams = []string{"search", "min_employees", "max_employees"}

func (h *CompaniesHandler) List(w http.ResponseWriter, r *http.Request) {
	criteria := filterCriteria(r, companyFilterParams)

	var (
		companies []models.Company
		err       error
	)
	if len(criteria) > 0 {
		companies, err = h.companyRepo.SearchCompanies(r.Context(), criteria)
	} else {
		companies, err = h.companyRepo.ListCompanies(r.Context())
	}
	if err != nil {
		writeError(w, err)
		return
	}
	if companies == nil {
		companies = []models.Company{}
	}

	writeJSON(w, map[string]any{"companies": companies}, http.StatusOK)
}

func (h *CompaniesHandler) Create(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := validateBody(r.Context(), "company_new", body); err != nil {
		writeError(w, err)
		return
	}

	var req companyRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, apperr.Validation("invalid json body"))
		return
	}

	company, err := h.companyRepo.CreateCompany(r.Context(), &models.Company{
		Handle:       *req.Handle,
		Name:         *req.Name,
		NumEmployees: req.NumEmployees,
		Description:  req.Description,
		LogoURL:      req.LogoURL,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, map[string]any{"company": company}, http.StatusCreated)
}

func (h *CompaniesHandler) Get(w http.ResponseWriter, r *http.Request) {
	handle := mux.Vars(r)["handle"]

	company, err := h.companyRepo.GetCompany(r.Context(), handle)
	if err != nil {
		writeError(w, err)
		return
	}

	jobs, err := h.jobRepo.SearchJobs(r.Context(), map[string]string{"handle": handle})
	if err != nil {
		writeError(w, err)
		return
	}
	if jobs == nil {
		jobs = []models.Job{}
	}

	writeJSON(w, map[string]any{"company": companyDetail{Company: *company, Jobs: jobs}}, http.StatusOK)
}

func (h *CompaniesHandler) Update(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := validateBody(r.Context(), "company_update", body); err != nil {
		writeError(w, err)
		return
	}

	var req companyRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, apperr.Validation("invalid json body"))
		return
	}

	fields := map[string]any{}
	if req.Name != nil {
		fields["name"] = *req.Name
	}
	if req.NumEmployees != nil {
		fields["num_employees"] = *req.NumEmployees
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}
	if req.LogoURL != nil {
		fields["logo_url"] = *req.LogoURL
	}

	company, err := h.companyRepo.UpdateCompany(r.Context(), mux.Vars(r)["handle"], fields)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, map[string]any{"company": company}, http.StatusOK)
}

func (h *CompaniesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.companyRepo.DeleteCompany(r.Context(), mux.Vars(r)["handle"]); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, map[string]any{"message": "Company deleted"}, http.StatusOK)
}

// filterCriteria collects the recognized, non-empty listing parameters.
func filterCriteria(r *http.Request, params []string) map[string]string {
	q := r.URL.Query()
	criteria := map[string]string{}
	for _, p := range params {
		if v := q.Get(p); v != "" {
			criteria[p] = v
		}
	}
	return criteria
}
