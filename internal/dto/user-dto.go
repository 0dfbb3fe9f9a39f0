package dto

type UpdateMeRequest struct {
	Name  *string `json:"name,omitempty"`
	Email *string `json:"email,omitempty"`
	// Photo is set by the upload handler, never straight from the body.
	Photo *string `json:"-"`
}

type AdminUpdateUserRequest struct {
	Name  *string `json:"name,omitempty"`
	Email *string `json:"email,omitempty"`
	Role  *string `json:"role,omitempty"`
}
