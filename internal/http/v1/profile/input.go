package profile

// SaveInput is the request body for the create-or-update operation. Field
// rules live in the validation package rather than schema tags so every
// failure is reported through the shared envelope with the same wording the
// client renders.
type SaveInput struct {
	Body struct {
		Name  string `json:"name" doc:"Full name, first and last" example:"Jane Doe"`
		Email string `json:"email" doc:"Email address, case-insensitive" example:"jane@example.com"`
		Age   int    `json:"age" doc:"Age in years, 1-120" example:"30"`
	}
}

// EmailInput addresses a single profile by email path parameter.
type EmailInput struct {
	Email string `path:"email" doc:"Email address of the profile" example:"jane@example.com"`
}

// ListInput is the (empty) input for the list operation.
type ListInput struct{}
