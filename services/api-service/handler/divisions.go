package handler

import (
	"net/http"

	"rakshak-women-safety/pkg/response"
	"rakshak-women-safety/services/api-service/division"
	"rakshak-women-safety/services/api-service/models"
)

func (req divisionRequest) input() division.Input {
	return division.Input{Name: req.Name, Area: req.Area, City: req.City, State: req.State}
}

func (h *Handler) listDivisions(w http.ResponseWriter, r *http.Request) {
	divisions, err := h.divisions.List(r.Context())
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, http.StatusOK, "", divisions)
}

func (h *Handler) getDivision(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	d, err := h.divisions.Get(r.Context(), id)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, http.StatusOK, "", d)
}

func (h *Handler) createDivision(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	var req divisionRequest
	if !h.bind(w, r, &req) {
		return
	}
	d, err := h.divisions.Create(r.Context(), actor, req.input())
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, http.StatusCreated, "Division created successfully", d)
}

func (h *Handler) updateDivision(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req divisionRequest
	if !h.bind(w, r, &req) {
		return
	}
	d, err := h.divisions.Update(r.Context(), actor, id, req.input())
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, http.StatusOK, "Division updated successfully", d)
}

func (h *Handler) deleteDivision(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.divisions.Delete(r.Context(), actor, id); err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, http.StatusOK, "Division deleted successfully", nil)
}

func (h *Handler) addOfficer(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req officerRequest
	if !h.bind(w, r, &req) {
		return
	}
	officerID, ok := models.ParseID(req.OfficerID)
	if !ok {
		response.Error(w, http.StatusBadRequest, "Invalid police officer ID", "")
		return
	}

	d, err := h.divisions.AddOfficer(r.Context(), actor, id, officerID)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, http.StatusOK, "Police officer added to division", d)
}

func (h *Handler) removeOfficer(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	officerID, ok := pathID(w, r, "officerId")
	if !ok {
		return
	}

	d, err := h.divisions.RemoveOfficer(r.Context(), actor, id, officerID)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, http.StatusOK, "Police officer removed from division", d)
}
