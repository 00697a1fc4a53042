package handler

import (
	"net/http"

	"rakshak-women-safety/pkg/response"
	"rakshak-women-safety/services/api-service/identity"
	"rakshak-women-safety/services/api-service/models"
)

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !h.bind(w, r, &req) {
		return
	}

	res, err := h.identity.Register(r.Context(), identity.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Phone:    req.Phone,
	})
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, http.StatusCreated, "User registered successfully", res)
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !h.bind(w, r, &req) {
		return
	}

	res, err := h.identity.Login(r.Context(), identity.LoginInput{
		Email:    req.Email,
		Password: req.Password,
		Role:     models.Role(req.Role),
	})
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, http.StatusOK, "Login successful", res)
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	user, err := h.identity.Profile(r.Context(), actor)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, http.StatusOK, "", user)
}
