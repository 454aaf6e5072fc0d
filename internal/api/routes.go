package api

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

// SetupRoutes wires the router. Everything under /api/v1 is owner-scoped and
// sits behind the API-key middleware; /health is public.
func SetupRoutes(h *Handlers, apiKeys string, log *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(RecoveryMiddleware(log))
	r.Use(LoggingMiddleware(log))

	r.Get("/health", h.HealthCheck)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(AuthMiddleware(splitKeys(apiKeys)))

		r.Route("/programs", func(r chi.Router) {
			r.Get("/", h.ListPrograms)
			r.Post("/", h.CreateProgram)
			r.Get("/{programID}", h.GetProgram)
			r.Put("/{programID}", h.SaveProgram)
			r.Patch("/{programID}", h.UpdateProgramMeta)
			r.Delete("/{programID}", h.DeleteProgram)
		})

		r.Route("/exercises", func(r chi.Router) {
			r.Get("/", h.ListExercises)
			r.Get("/{exerciseID}", h.GetExercise)
		})

		r.Route("/objectives", func(r chi.Router) {
			r.Get("/", h.ListObjectives)
			r.Post("/", h.CreateObjective)
			r.Get("/{objectiveID}", h.GetObjective)
			r.Delete("/{objectiveID}", h.DeleteObjective)
			r.Post("/{objectiveID}/progress", h.UpdateProgress)
			r.Post("/{objectiveID}/abandon", h.AbandonObjective)
			r.Get("/{objectiveID}/associations", h.ListAssociations)
			r.Post("/{objectiveID}/associations", h.AssociateObjective)
		})

		r.Get("/techniques", h.ListTechniques)
	})

	return r
}

func splitKeys(keys string) []string {
	if keys == "" {
		return nil
	}
	return strings.Split(keys, ",")
}
