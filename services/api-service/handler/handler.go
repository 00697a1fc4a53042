// Package handler exposes the api-service operations over HTTP.
package handler

import (
	"encoding/json"
	"net/http"

	"rakshak-women-safety/pkg/apperror"
	"rakshak-women-safety/pkg/middleware"
	"rakshak-women-safety/pkg/response"
	"rakshak-women-safety/services/api-service/division"
	"rakshak-women-safety/services/api-service/guardian"
	"rakshak-women-safety/services/api-service/identity"
	"rakshak-women-safety/services/api-service/lifecycle"
	"rakshak-women-safety/services/api-service/models"
	"rakshak-women-safety/services/api-service/sos"
	"rakshak-women-safety/services/api-service/stats"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// maxUploadSize bounds a multipart attachment request.
const maxUploadSize = 10 << 20

type Handler struct {
	identity   *identity.Service
	guardians  *guardian.Service
	complaints *lifecycle.Engine
	divisions  *division.Service
	sos        *sos.Service
	stats      *stats.Service
	tokens     middleware.TokenParser
	validate   *validator.Validate
}

type Deps struct {
	Identity   *identity.Service
	Guardians  *guardian.Service
	Complaints *lifecycle.Engine
	Divisions  *division.Service
	SOS        *sos.Service
	Stats      *stats.Service
	Tokens     middleware.TokenParser
}

func New(deps Deps) *Handler {
	return &Handler{
		identity:   deps.Identity,
		guardians:  deps.Guardians,
		complaints: deps.Complaints,
		divisions:  deps.Divisions,
		sos:        deps.SOS,
		stats:      deps.Stats,
		tokens:     deps.Tokens,
		validate:   newValidator(),
	}
}

// Routes mounts every endpoint under /api. Role gates here reject early;
// the services re-check against the stored account.
func (h *Handler) Routes() chi.Router {
	user := string(models.RoleUser)
	police := string(models.RolePolice)
	admin := string(models.RoleAdmin)

	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", h.register)
		r.Post("/auth/login", h.login)

		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthMiddleware(h.tokens))

			r.Get("/auth/me", h.me)

			r.Route("/users", func(r chi.Router) {
				r.Get("/profile", h.getProfile)
				r.Put("/profile", h.updateProfile)
				r.Post("/location", h.updateLocation)
				r.With(middleware.RequireRole(user)).Post("/sos", h.triggerSOS)
			})

			r.Route("/guardians", func(r chi.Router) {
				r.Use(middleware.RequireRole(user))
				r.Get("/", h.listGuardians)
				r.Post("/", h.createGuardian)
				r.Put("/{id}", h.updateGuardian)
				r.Delete("/{id}", h.deleteGuardian)
			})

			r.Route("/complaints", func(r chi.Router) {
				r.Get("/", h.listComplaints)
				r.With(middleware.RequireRole(user)).Post("/", h.fileComplaint)
				r.Get("/{id}", h.getComplaint)
				r.With(middleware.RequireRole(police, admin)).Put("/{id}/status", h.updateStatus)
				r.With(middleware.RequireRole(admin)).Put("/{id}/assign", h.assignOfficer)
				r.Get("/{id}/attachments", h.attachmentURLs)
				r.With(middleware.RequireRole(user)).Post("/{id}/attachments", h.attachEvidence)
			})

			r.Route("/police", func(r chi.Router) {
				r.Use(middleware.RequireRole(police))
				r.Get("/dashboard", h.policeDashboard)
				r.Get("/complaints", h.listComplaints)
				r.Put("/complaints/{id}/status", h.updateStatus)
			})

			r.Route("/admin", func(r chi.Router) {
				r.Use(middleware.RequireRole(admin))
				r.Get("/users", h.listUsers)
				r.Get("/users/{id}", h.getUser)
				r.Put("/users/{id}", h.updateUser)
				r.Delete("/users/{id}", h.deleteUser)
				r.Post("/police", h.createPolice)
				r.Get("/dashboard", h.adminDashboard)
			})

			r.Route("/divisions", func(r chi.Router) {
				r.Get("/", h.listDivisions)
				r.Get("/{id}", h.getDivision)
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireRole(admin))
					r.Post("/", h.createDivision)
					r.Put("/{id}", h.updateDivision)
					r.Delete("/{id}", h.deleteDivision)
					r.Post("/{id}/officers", h.addOfficer)
					r.Delete("/{id}/officers/{officerId}", h.removeOfficer)
				})
			})
		})
	})
	return r
}

// actor loads the caller's account so role and division reflect the store.
func (h *Handler) actor(w http.ResponseWriter, r *http.Request) (models.Actor, bool) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		response.Error(w, http.StatusUnauthorized, "Unauthorized", "")
		return models.Actor{}, false
	}
	id, ok := models.ParseID(claims.UserID)
	if !ok {
		response.Error(w, http.StatusUnauthorized, "Invalid token subject", "")
		return models.Actor{}, false
	}

	actor, err := h.identity.Actor(r.Context(), id)
	if err != nil {
		if apperror.Is(err, apperror.KindNotFound) {
			err = apperror.Unauthenticated("Account no longer exists")
		}
		response.FromError(w, err)
		return models.Actor{}, false
	}
	return actor, true
}

// pathID parses the ObjectID route parameter named key.
func pathID(w http.ResponseWriter, r *http.Request, key string) (primitive.ObjectID, bool) {
	id, ok := models.ParseID(chi.URLParam(r, key))
	if !ok {
		response.Error(w, http.StatusBadRequest, "Invalid ID", "")
	}
	return id, ok
}

func decodeJSON(r *http.Request, dst interface{}) error {
	return json.NewDecoder(r.Body).Decode(dst)
}

// bind decodes the JSON body into dst and runs its validate tags.
func (h *Handler) bind(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := decodeJSON(r, dst); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request payload", err.Error())
		return false
	}
	if err := h.validate.Struct(dst); err != nil {
		response.Error(w, http.StatusBadRequest, formatValidationError(err), string(apperror.KindValidation))
		return false
	}
	return true
}
