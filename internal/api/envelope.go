package api

// Envelope is the uniform response shape used by every endpoint, success or
// failure. The same structure is decoded on the client side.
//
// success: whether the operation completed as requested
// message: human-readable summary ("Profile created successfully", ...)
// data: the primary payload, omitted when there is none
// count: number of items for list responses
// errors: field-level validation failures
// error: underlying fault detail, populated only outside production
type Envelope[T any] struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	Data    *T           `json:"data,omitempty"`
	Count   *int         `json:"count,omitempty"`
	Errors  []FieldError `json:"errors,omitempty"`
	Detail  string       `json:"error,omitempty"`
}

// FieldError reports a validation failure for a single input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Success constructs a success envelope wrapping data.
func Success[T any](message string, data T) Envelope[T] {
	d := data
	return Envelope[T]{
		Success: true,
		Message: message,
		Data:    &d,
	}
}

// SuccessList constructs a success envelope for a list payload, recording
// the item count alongside the data.
func SuccessList[T any](message string, items []T) Envelope[[]T] {
	n := len(items)
	list := items
	return Envelope[[]T]{
		Success: true,
		Message: message,
		Data:    &list,
		Count:   &n,
	}
}

// SuccessMessage constructs a success envelope with no payload.
func SuccessMessage[T any](message string) Envelope[T] {
	return Envelope[T]{
		Success: true,
		Message: message,
	}
}

// Failure constructs an error envelope. The errors slice is cloned so later
// mutation by the caller cannot leak into a response already handed off.
func Failure[T any](message string, fieldErrors []FieldError) Envelope[T] {
	var cloned []FieldError
	if len(fieldErrors) > 0 {
		cloned = make([]FieldError, len(fieldErrors))
		copy(cloned, fieldErrors)
	}
	return Envelope[T]{
		Success: false,
		Message: message,
		Errors:  cloned,
	}
}
