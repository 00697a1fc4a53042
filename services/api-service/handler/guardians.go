package handler

import (
	"net/http"

	"rakshak-women-safety/pkg/response"
	"rakshak-women-safety/services/api-service/guardian"
)

func (req guardianRequest) input() guardian.Input {
	return guardian.Input{
		Name:         req.Name,
		Relationship: req.Relationship,
		Phone:        req.Phone,
		Email:        req.Email,
		Address:      req.Address,
	}
}

func (h *Handler) listGuardians(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	guardians, err := h.guardians.List(r.Context(), actor)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, http.StatusOK, "", guardians)
}

func (h *Handler) createGuardian(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	var req guardianRequest
	if !h.bind(w, r, &req) {
		return
	}

	g, err := h.guardians.Create(r.Context(), actor, req.input())
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, http.StatusCreated, "Guardian added successfully", g)
}

// updateGuardian applies a partial edit; omitted fields keep their value.
func (h *Handler) updateGuardian(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req guardianRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request payload", err.Error())
		return
	}

	g, err := h.guardians.Update(r.Context(), actor, id, req.input())
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, http.StatusOK, "Guardian updated successfully", g)
}

func (h *Handler) deleteGuardian(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.guardians.Delete(r.Context(), actor, id); err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, http.StatusOK, "Guardian removed successfully", nil)
}
