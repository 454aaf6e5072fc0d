package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/misterclayt0n/periodize/internal/builder"
	"github.com/misterclayt0n/periodize/internal/errs"
	"github.com/misterclayt0n/periodize/internal/models"
	"github.com/misterclayt0n/periodize/internal/storage"
)

// Handlers contains all HTTP handlers and their dependencies.
type Handlers struct {
	st  *storage.Storage
	log *slog.Logger
}

func NewHandlers(st *storage.Storage, log *slog.Logger) *Handlers {
	return &Handlers{st: st, log: log}
}

func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	if err := h.st.DB.PingContext(r.Context()); err != nil {
		h.log.Warn("health check failed", slog.Any("error", err))
		WriteError(w, http.StatusServiceUnavailable, "database unhealthy", "HEALTH_CHECK_FAILED")
		return
	}
	WriteSuccess(w, http.StatusOK, map[string]string{"status": "healthy"})
}

//
// Programs
//

type createProgramRequest struct {
	Name              string `json:"name"`
	Description       string `json:"description"`
	PeriodizationType string `json:"periodization_type"`
	Goal              string `json:"goal"`
	TrainingLevel     string `json:"training_level"`
	Frequency         int    `json:"frequency"`
}

func (h *Handlers) CreateProgram(w http.ResponseWriter, r *http.Request) {
	var req createProgramRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid JSON body", "BAD_REQUEST")
		return
	}

	program, err := builder.NewProgram(
		OwnerID(r.Context()),
		req.Name,
		models.PeriodizationType(req.PeriodizationType),
		models.TrainingGoal(req.Goal),
		models.TrainingLevel(req.TrainingLevel),
		req.Frequency,
	)
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	program.Description = req.Description

	if err := h.st.SaveProgram(r.Context(), program); err != nil {
		h.logStorage(r, err, "failed to save program")
		WriteDomainError(w, err)
		return
	}
	WriteSuccess(w, http.StatusCreated, program)
}

func (h *Handlers) GetProgram(w http.ResponseWriter, r *http.Request) {
	program, err := h.st.LoadProgram(r.Context(), chi.URLParam(r, "programID"), OwnerID(r.Context()))
	if err != nil {
		h.logStorage(r, err, "failed to load program")
		WriteDomainError(w, err)
		return
	}
	WriteSuccess(w, http.StatusOK, program)
}

func (h *Handlers) ListPrograms(w http.ResponseWriter, r *http.Request) {
	programs, err := h.st.ListPrograms(r.Context(), OwnerID(r.Context()))
	if err != nil {
		h.logStorage(r, err, "failed to list programs")
		WriteDomainError(w, err)
		return
	}
	WriteSuccess(w, http.StatusOK, programs)
}

// SaveProgram replaces the whole tree. The id and owner always come from the
// URL and the auth context, never from the body.
func (h *Handlers) SaveProgram(w http.ResponseWriter, r *http.Request) {
	var program models.Program
	if err := json.NewDecoder(r.Body).Decode(&program); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid JSON body", "BAD_REQUEST")
		return
	}
	program.ID = chi.URLParam(r, "programID")
	program.OwnerID = OwnerID(r.Context())

	// Catalog references must resolve before the tree is written.
	for mi := range program.Mesocycles {
		for ci := range program.Mesocycles[mi].Microcycles {
			for si := range program.Mesocycles[mi].Microcycles[ci].Sessions {
				for _, ex := range program.Mesocycles[mi].Microcycles[ci].Sessions[si].Exercises {
					ok, err := h.st.ExerciseExists(r.Context(), ex.ExerciseID)
					if err != nil {
						h.logStorage(r, err, "failed to resolve exercise")
						WriteDomainError(w, err)
						return
					}
					if !ok {
						WriteDomainError(w, errs.NotFound("exercise %q not found in catalog", ex.ExerciseID))
						return
					}

					if ex.SpecialTechniqueID != "" {
						ok, err := h.st.TechniqueExists(r.Context(), ex.SpecialTechniqueID)
						if err != nil {
							h.logStorage(r, err, "failed to resolve technique")
							WriteDomainError(w, err)
							return
						}
						if !ok {
							WriteDomainError(w, errs.NotFound("technique %q not found", ex.SpecialTechniqueID))
							return
						}
					}
				}
			}
		}
	}

	if err := h.st.SaveProgram(r.Context(), &program); err != nil {
		h.logStorage(r, err, "failed to save program")
		WriteDomainError(w, err)
		return
	}
	WriteSuccess(w, http.StatusOK, program)
}

type updateProgramRequest struct {
	Name        *string    `json:"name,omitempty"`
	Description *string    `json:"description,omitempty"`
	Frequency   *int       `json:"frequency,omitempty"`
	StartDate   *time.Time `json:"start_date,omitempty"`
	EndDate     *time.Time `json:"end_date,omitempty"`
}

func (h *Handlers) UpdateProgramMeta(w http.ResponseWriter, r *http.Request) {
	var req updateProgramRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid JSON body", "BAD_REQUEST")
		return
	}

	meta := storage.ProgramMeta{
		Name:        req.Name,
		Description: req.Description,
		Frequency:   req.Frequency,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
	}
	if err := h.st.UpdateProgramMeta(r.Context(), chi.URLParam(r, "programID"), OwnerID(r.Context()), meta); err != nil {
		h.logStorage(r, err, "failed to update program")
		WriteDomainError(w, err)
		return
	}
	WriteSuccess(w, http.StatusOK, nil)
}

func (h *Handlers) DeleteProgram(w http.ResponseWriter, r *http.Request) {
	if err := h.st.DeleteProgram(r.Context(), chi.URLParam(r, "programID"), OwnerID(r.Context())); err != nil {
		h.logStorage(r, err, "failed to delete program")
		WriteDomainError(w, err)
		return
	}
	WriteSuccess(w, http.StatusOK, nil)
}

//
// Exercise catalog
//

func (h *Handlers) ListExercises(w http.ResponseWriter, r *http.Request) {
	exercises, err := h.st.ListExercises(r.Context())
	if err != nil {
		h.logStorage(r, err, "failed to list exercises")
		WriteDomainError(w, err)
		return
	}
	WriteSuccess(w, http.StatusOK, exercises)
}

func (h *Handlers) GetExercise(w http.ResponseWriter, r *http.Request) {
	ex, err := h.st.GetExerciseByID(r.Context(), chi.URLParam(r, "exerciseID"))
	if err != nil {
		h.logStorage(r, err, "failed to get exercise")
		WriteDomainError(w, err)
		return
	}
	WriteSuccess(w, http.StatusOK, ex)
}

//
// Objectives
//

type createObjectiveRequest struct {
	Name        string     `json:"name"`
	Category    string     `json:"category"`
	TargetValue float64    `json:"target_value"`
	Deadline    *time.Time `json:"deadline,omitempty"`
}

func (h *Handlers) CreateObjective(w http.ResponseWriter, r *http.Request) {
	var req createObjectiveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid JSON body", "BAD_REQUEST")
		return
	}

	obj, err := h.st.CreateObjective(
		r.Context(), OwnerID(r.Context()), req.Name,
		models.ObjectiveCategory(req.Category), req.TargetValue, req.Deadline,
	)
	if err != nil {
		h.logStorage(r, err, "failed to create objective")
		WriteDomainError(w, err)
		return
	}
	WriteSuccess(w, http.StatusCreated, obj)
}

func (h *Handlers) GetObjective(w http.ResponseWriter, r *http.Request) {
	obj, err := h.st.GetObjective(r.Context(), chi.URLParam(r, "objectiveID"), OwnerID(r.Context()))
	if err != nil {
		h.logStorage(r, err, "failed to get objective")
		WriteDomainError(w, err)
		return
	}
	WriteSuccess(w, http.StatusOK, obj)
}

func (h *Handlers) ListObjectives(w http.ResponseWriter, r *http.Request) {
	objectives, err := h.st.ListObjectives(r.Context(), OwnerID(r.Context()))
	if err != nil {
		h.logStorage(r, err, "failed to list objectives")
		WriteDomainError(w, err)
		return
	}
	WriteSuccess(w, http.StatusOK, objectives)
}

type associateRequest struct {
	EntityType string `json:"entity_type"`
	EntityID   string `json:"entity_id"`
	Priority   string `json:"priority"`
}

func (h *Handlers) AssociateObjective(w http.ResponseWriter, r *http.Request) {
	var req associateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid JSON body", "BAD_REQUEST")
		return
	}

	assoc, err := h.st.Associate(
		r.Context(), chi.URLParam(r, "objectiveID"), OwnerID(r.Context()),
		models.EntityType(req.EntityType), req.EntityID,
		models.ObjectivePriority(req.Priority),
	)
	if err != nil {
		h.logStorage(r, err, "failed to associate objective")
		WriteDomainError(w, err)
		return
	}
	WriteSuccess(w, http.StatusOK, assoc)
}

func (h *Handlers) ListAssociations(w http.ResponseWriter, r *http.Request) {
	assocs, err := h.st.ListAssociations(r.Context(), chi.URLParam(r, "objectiveID"), OwnerID(r.Context()))
	if err != nil {
		h.logStorage(r, err, "failed to list associations")
		WriteDomainError(w, err)
		return
	}
	WriteSuccess(w, http.StatusOK, assocs)
}

type progressRequest struct {
	CurrentValue float64 `json:"current_value"`
}

func (h *Handlers) UpdateProgress(w http.ResponseWriter, r *http.Request) {
	var req progressRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid JSON body", "BAD_REQUEST")
		return
	}

	obj, err := h.st.UpdateProgress(r.Context(), chi.URLParam(r, "objectiveID"), OwnerID(r.Context()), req.CurrentValue)
	if err != nil {
		h.logStorage(r, err, "failed to update progress")
		WriteDomainError(w, err)
		return
	}
	WriteSuccess(w, http.StatusOK, obj)
}

func (h *Handlers) AbandonObjective(w http.ResponseWriter, r *http.Request) {
	if err := h.st.AbandonObjective(r.Context(), chi.URLParam(r, "objectiveID"), OwnerID(r.Context())); err != nil {
		h.logStorage(r, err, "failed to abandon objective")
		WriteDomainError(w, err)
		return
	}
	WriteSuccess(w, http.StatusOK, nil)
}

func (h *Handlers) DeleteObjective(w http.ResponseWriter, r *http.Request) {
	if err := h.st.DeleteObjective(r.Context(), chi.URLParam(r, "objectiveID"), OwnerID(r.Context())); err != nil {
		h.logStorage(r, err, "failed to delete objective")
		WriteDomainError(w, err)
		return
	}
	WriteSuccess(w, http.StatusOK, nil)
}

//
// Techniques
//

func (h *Handlers) ListTechniques(w http.ResponseWriter, r *http.Request) {
	techniques, err := h.st.ListTechniques(r.Context(), OwnerID(r.Context()))
	if err != nil {
		h.logStorage(r, err, "failed to list techniques")
		WriteDomainError(w, err)
		return
	}
	WriteSuccess(w, http.StatusOK, techniques)
}

// logStorage logs only storage-kind failures with full context; expected
// domain errors (validation, not found, ...) are the client's business.
func (h *Handlers) logStorage(r *http.Request, err error, msg string) {
	if errs.IsStorage(err) {
		h.log.Error(msg,
			slog.Any("error", err),
			slog.String("path", r.URL.Path),
		)
	}
}
