package errors

// Convenience functions for common error patterns

// Config errors

func ConfigNotFound(path string) *SpaforgeError {
	return New(CategoryConfig, SeverityFatal, "configuration file not found").
		WithContext("path", path)
}

func ConfigRequired(field string) *SpaforgeError {
	return New(CategoryConfig, SeverityFatal, "required configuration missing").
		WithContext("field", field)
}

func ValidationFailed(field, reason string) *SpaforgeError {
	return New(CategoryValidation, SeverityFatal, "validation failed").
		WithContext("field", field).
		WithContext("reason", reason)
}

// Resolution and injection errors

func ImportMapReadError(path string, cause error) *SpaforgeError {
	return Wrap(cause, CategoryImportMap, SeverityFatal, "import map read failed").
		WithContext("path", path)
}

func ImportMapParseError(path string, cause error) *SpaforgeError {
	return Wrap(cause, CategoryImportMap, SeverityError, "import map parse failed").
		WithContext("path", path)
}

func TransformFailed(document string, cause error) *SpaforgeError {
	return Wrap(cause, CategoryTransform, SeverityFatal, "HTML transform failed").
		WithContext("document", document)
}

// Filesystem errors

func FileExistsError(path string, cause error) *SpaforgeError {
	return Wrap(cause, CategoryFileSystem, SeverityFatal, "file existence check failed").
		WithContext("path", path)
}

func FileReadError(path string, cause error) *SpaforgeError {
	return Wrap(cause, CategoryFileSystem, SeverityFatal, "file read failed").
		WithContext("path", path)
}

// Server errors

func ServerError(operation string, cause error) *SpaforgeError {
	return Wrap(cause, CategoryServer, SeverityError, "dev server operation failed").
		WithContext("operation", operation)
}
