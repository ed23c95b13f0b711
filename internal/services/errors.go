package services

// NotFoundError indicates that a requested entity does not exist
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string {
	return e.Message
}

// ConflictError indicates that an entity with the same identity already exists
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}

// ValidationError indicates that the request parameters are invalid
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}
