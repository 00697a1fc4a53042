package handler

import (
	"net/http"

	"rakshak-women-safety/pkg/response"
	"rakshak-women-safety/services/api-service/lifecycle"
	"rakshak-women-safety/services/api-service/models"
)

func (h *Handler) listComplaints(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	status := models.Status(r.URL.Query().Get("status"))
	complaints, err := h.complaints.ListComplaints(r.Context(), actor, status)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, http.StatusOK, "Complaints fetched successfully", complaints)
}

func (h *Handler) fileComplaint(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	var req complaintRequest
	if !h.bind(w, r, &req) {
		return
	}

	in := lifecycle.FileInput{
		Title:       req.Title,
		Description: req.Description,
		Attachments: req.Attachments,
	}
	if req.Location != nil {
		in.Location = &models.Location{Latitude: *req.Location.Latitude, Longitude: *req.Location.Longitude}
	}

	complaint, err := h.complaints.FileComplaint(r.Context(), actor, in)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, http.StatusCreated, "Complaint filed successfully", complaint)
}

func (h *Handler) getComplaint(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	complaint, err := h.complaints.GetComplaint(r.Context(), actor, id)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, http.StatusOK, "", complaint)
}

func (h *Handler) updateStatus(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req statusRequest
	if !h.bind(w, r, &req) {
		return
	}

	complaint, err := h.complaints.UpdateStatus(r.Context(), actor, id, req.Status, req.Message)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, http.StatusOK, "Complaint status updated", complaint)
}

func (h *Handler) assignOfficer(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req assignRequest
	if !h.bind(w, r, &req) {
		return
	}

	officerID, ok := models.ParseID(req.OfficerID)
	if !ok {
		response.Error(w, http.StatusBadRequest, "Invalid police officer ID", "")
		return
	}
	in := lifecycle.AssignInput{OfficerID: officerID}
	if req.DivisionID != "" {
		divisionID, ok := models.ParseID(req.DivisionID)
		if !ok {
			response.Error(w, http.StatusBadRequest, "Invalid division ID", "")
			return
		}
		in.DivisionID = &divisionID
	}

	complaint, err := h.complaints.AssignOfficer(r.Context(), actor, id, in)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, http.StatusOK, "Complaint assigned successfully", complaint)
}

// attachEvidence takes a multipart upload in the "file" field.
func (h *Handler) attachEvidence(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		response.Error(w, http.StatusBadRequest, "File too large or invalid form", err.Error())
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "File is required", err.Error())
		return
	}
	defer file.Close()

	complaint, err := h.complaints.AttachEvidence(r.Context(), actor, id, lifecycle.Evidence{
		Body:        file,
		Size:        header.Size,
		FileName:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
	})
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, http.StatusCreated, "Attachment uploaded", complaint)
}

func (h *Handler) attachmentURLs(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	urls, err := h.complaints.AttachmentURLs(r.Context(), actor, id)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, http.StatusOK, "", urls)
}
