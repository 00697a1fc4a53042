package handler

import (
	"net/http"

	"rakshak-women-safety/pkg/response"
	"rakshak-women-safety/services/api-service/identity"
)

func (h *Handler) getProfile(w http.ResponseWriter, r *http.Request) {
	h.me(w, r)
}

func (h *Handler) updateProfile(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	var req profileRequest
	if !h.bind(w, r, &req) {
		return
	}

	user, err := h.identity.UpdateProfile(r.Context(), actor, identity.ProfileInput{
		Name:             req.Name,
		Phone:            req.Phone,
		Address:          req.Address,
		EmergencyContact: req.EmergencyContact,
		ProfilePicture:   req.ProfilePicture,
	})
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, http.StatusOK, "Profile updated successfully", user)
}

func (h *Handler) updateLocation(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	var req coordinates
	if !h.bind(w, r, &req) {
		return
	}

	location, err := h.identity.UpdateLocation(r.Context(), actor, *req.Latitude, *req.Longitude)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, http.StatusOK, "Location updated successfully", location)
}

func (h *Handler) triggerSOS(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	res, err := h.sos.Trigger(r.Context(), actor)
	if err != nil {
		response.FromError(w, err)
		return
	}
	message := "SOS alert sent to your guardians"
	if !res.AlertSent {
		message = "SOS recorded but the alert could not be delivered"
	}
	response.Success(w, http.StatusOK, message, res)
}
