package request

// AddWorkerRequest represents a new roster entry
type AddWorkerRequest struct {
	FirstName string `json:"first_name" binding:"required,max=255"`
	LastName  string `json:"last_name" binding:"max=255"`
	Username  string `json:"username" binding:"required,min=3,max=100"`
	Password  string `json:"password" binding:"required,min=6"`
}

// UpdateWorkerRequest represents a roster update. Omitted fields are kept.
type UpdateWorkerRequest struct {
	FirstName *string `json:"first_name" binding:"omitempty,max=255"`
	LastName  *string `json:"last_name" binding:"omitempty,max=255"`
	Username  *string `json:"username" binding:"omitempty,min=3,max=100"`
	Password  *string `json:"password" binding:"omitempty,min=6"`
	IsActive  *bool   `json:"is_active"`
}
