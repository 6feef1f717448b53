package api

// SignupBody represents a signup request body.
type SignupBody struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

// SigninBody represents a signin request body.
type SigninBody struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// CreateTaskBody represents a create-task request body. There is no owner
// field: ownership always comes from the verified token, never from the
// client.
type CreateTaskBody struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Completed   bool   `json:"completed"`
}

// UpdateTaskBody represents an update-task request body. Nil fields are
// left unchanged.
type UpdateTaskBody struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Completed   *bool   `json:"completed"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
