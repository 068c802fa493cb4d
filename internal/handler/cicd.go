package handler

import (
	"errors"
	"log/slog"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"javis/internal/config"
	"javis/internal/domain"
	cicdSvc "javis/internal/domain/services/cicd"
	"javis/internal/httputil"
)

// CICDHandler handles deployment provisioning requests
type CICDHandler struct {
	provisioner cicdSvc.Provisioner
	logger      *slog.Logger
}

// NewCICDHandler creates a new CI/CD handler
func NewCICDHandler(provisioner cicdSvc.Provisioner, logger *slog.Logger) *CICDHandler {
	return &CICDHandler{
		provisioner: provisioner,
		logger:      logger,
	}
}

type publishRepoRequest struct {
	RepoName string `json:"repo_name"`
}

func (r publishRepoRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.RepoName, validation.Required, validation.Length(1, config.MaxRepoNameLength)),
	)
}

// PublishRepo pushes the deployment files and secrets into an existing repository.
// A missing repository is 404; any other failure is 500 naming the failed step.
// POST /cicd/publish-repo
func (h *CICDHandler) PublishRepo(w http.ResponseWriter, r *http.Request) {
	var req publishRepoRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.provisioner.Provision(r.Context(), req.RepoName)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			handleError(w, err)
			return
		}
		h.logger.Error("provisioning failed", "repo_name", req.RepoName, "error", err)
		httputil.RespondError(w, http.StatusInternalServerError, "Failed to publish repository: "+err.Error())
		return
	}

	h.logger.Info("repository provisioned", "repo_name", req.RepoName, "secrets", result.Secrets)
	httputil.RespondJSON(w, http.StatusOK, messageBody{Message: result.Message})
}
