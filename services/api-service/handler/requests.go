package handler

import (
	"rakshak-women-safety/services/api-service/models"
)

type registerRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Phone    string `json:"phone" validate:"required"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role" validate:"omitempty,oneof=user police admin"`
}

type profileRequest struct {
	Name             *string `json:"name" validate:"omitempty,min=1"`
	Phone            *string `json:"phone"`
	Address          *string `json:"address"`
	EmergencyContact *string `json:"emergency_contact"`
	ProfilePicture   *string `json:"profile_picture"`
}

// coordinates uses pointers so a zero latitude is still "present".
type coordinates struct {
	Latitude  *float64 `json:"latitude" validate:"required,gte=-90,lte=90"`
	Longitude *float64 `json:"longitude" validate:"required,gte=-180,lte=180"`
}

type guardianRequest struct {
	Name         string `json:"name" validate:"required"`
	Relationship string `json:"relationship" validate:"required"`
	Phone        string `json:"phone" validate:"required"`
	Email        string `json:"email" validate:"required,email"`
	Address      string `json:"address"`
}

type complaintRequest struct {
	Title       string       `json:"title" validate:"required"`
	Description string       `json:"description" validate:"required"`
	Location    *coordinates `json:"location"`
	Attachments []string     `json:"attachments" validate:"max=10"`
}

// Status values are checked by the lifecycle engine.
type statusRequest struct {
	Status  models.Status `json:"status"`
	Message string        `json:"message"`
}

type assignRequest struct {
	OfficerID  string `json:"officer_id" validate:"required"`
	DivisionID string `json:"division_id"`
}

type policeRequest struct {
	Name       string `json:"name" validate:"required"`
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required,min=6"`
	Phone      string `json:"phone" validate:"required"`
	DivisionID string `json:"division_id"`
}

type userUpdateRequest struct {
	Name       *string `json:"name"`
	Email      *string `json:"email" validate:"omitempty,email"`
	Phone      *string `json:"phone"`
	Role       *string `json:"role" validate:"omitempty,oneof=user police admin"`
	DivisionID *string `json:"division_id"`
	Active     *bool   `json:"active"`
}

type divisionRequest struct {
	Name  string `json:"name"`
	Area  string `json:"area"`
	City  string `json:"city"`
	State string `json:"state"`
}

type officerRequest struct {
	OfficerID string `json:"officer_id" validate:"required"`
}
