package handler

import (
	"net/http"

	"rakshak-women-safety/pkg/response"
	"rakshak-women-safety/services/api-service/identity"
	"rakshak-women-safety/services/api-service/models"
)

func (h *Handler) listUsers(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	users, err := h.identity.ListUsers(r.Context(), actor)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, http.StatusOK, "Users fetched successfully", users)
}

func (h *Handler) getUser(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	user, err := h.identity.GetUser(r.Context(), actor, id)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, http.StatusOK, "", user)
}

func (h *Handler) updateUser(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req userUpdateRequest
	if !h.bind(w, r, &req) {
		return
	}

	in := identity.UserUpdate{Name: req.Name, Email: req.Email, Phone: req.Phone, Active: req.Active}
	if req.Role != nil {
		role := models.Role(*req.Role)
		in.Role = &role
	}
	if req.DivisionID != nil && *req.DivisionID != "" {
		divisionID, ok := models.ParseID(*req.DivisionID)
		if !ok {
			response.Error(w, http.StatusBadRequest, "Invalid division ID", "")
			return
		}
		in.DivisionID = &divisionID
	}

	user, err := h.identity.UpdateUser(r.Context(), actor, id, in)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, http.StatusOK, "User updated successfully", user)
}

func (h *Handler) deleteUser(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.identity.DeleteUser(r.Context(), actor, id); err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, http.StatusOK, "User deleted successfully", nil)
}

func (h *Handler) createPolice(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	var req policeRequest
	if !h.bind(w, r, &req) {
		return
	}

	in := identity.PoliceInput{Name: req.Name, Email: req.Email, Password: req.Password, Phone: req.Phone}
	if req.DivisionID != "" {
		divisionID, ok := models.ParseID(req.DivisionID)
		if !ok {
			response.Error(w, http.StatusBadRequest, "Invalid division ID", "")
			return
		}
		in.DivisionID = &divisionID
	}

	officer, err := h.identity.CreatePolice(r.Context(), actor, in)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, http.StatusCreated, "Police officer created successfully", officer)
}

func (h *Handler) adminDashboard(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	dashboard, err := h.stats.Admin(r.Context(), actor)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, http.StatusOK, "", dashboard)
}

func (h *Handler) policeDashboard(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	dashboard, err := h.stats.Police(r.Context(), actor)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, http.StatusOK, "", dashboard)
}
