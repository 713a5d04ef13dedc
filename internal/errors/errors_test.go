package errors

import (
	stdErrors "errors"
	"fmt"
	"testing"
)

func TestSpaforgeError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *SpaforgeError
		expected string
	}{
		{
			name:     "error without cause",
			err:      New(CategoryConfig, SeverityFatal, "configuration invalid"),
			expected: "config (fatal): configuration invalid",
		},
		{
			name:     "error with cause",
			err:      Wrap(fmt.Errorf("file not found"), CategoryConfig, SeverityFatal, "failed to load config"),
			expected: "config (fatal): failed to load config: file not found",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			result := test.err.Error()
			if result != test.expected {
				t.Errorf("Error() = %q, want %q", result, test.expected)
			}
		})
	}
}

func TestSpaforgeError_WithContext(t *testing.T) {
	err := New(CategoryImportMap, SeverityWarning, "resolution failed").
		WithContext("path", "src/importMap.json").
		WithContext("command", "serve")

	if err.Context == nil {
		t.Fatal("Context should not be nil")
	}

	if err.Context["path"] != "src/importMap.json" {
		t.Errorf("Context[path] = %v, want src/importMap.json", err.Context["path"])
	}

	if err.Context["command"] != "serve" {
		t.Errorf("Context[command] = %v, want serve", err.Context["command"])
	}
}

func TestSpaforgeError_Unwrap(t *testing.T) {
	cause := fmt.Errorf("underlying failure")
	err := Wrap(cause, CategoryFileSystem, SeverityFatal, "read failed")

	if !stdErrors.Is(err, cause) {
		t.Error("errors.Is should find the wrapped cause")
	}
}

func TestIsCategory(t *testing.T) {
	configErr := New(CategoryConfig, SeverityFatal, "config error")
	mapErr := New(CategoryImportMap, SeverityWarning, "map error")
	standardErr := fmt.Errorf("standard error")
	nestedErr := TransformFailed("index.html",
		ImportMapReadError("src/importMap.json", fmt.Errorf("permission denied")))
	fmtWrapped := fmt.Errorf("while serving: %w", mapErr)

	tests := []struct {
		name     string
		err      error
		category ErrorCategory
		expected bool
	}{
		{"matching category", configErr, CategoryConfig, true},
		{"non-matching category", mapErr, CategoryConfig, false},
		{"standard error", standardErr, CategoryConfig, false},
		{"nil error", nil, CategoryConfig, false},
		{"nested outer category", nestedErr, CategoryTransform, true},
		{"nested inner category", nestedErr, CategoryImportMap, true},
		{"nested absent category", nestedErr, CategoryConfig, false},
		{"fmt-wrapped spaforge error", fmtWrapped, CategoryImportMap, true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := IsCategory(test.err, test.category); got != test.expected {
				t.Errorf("IsCategory() = %v, want %v", got, test.expected)
			}
		})
	}
}

func TestConstructors(t *testing.T) {
	err := ImportMapReadError("src/importMap.json", fmt.Errorf("permission denied"))
	if err.Category != CategoryImportMap {
		t.Errorf("category = %s, want %s", err.Category, CategoryImportMap)
	}
	if err.Context["path"] != "src/importMap.json" {
		t.Errorf("context path = %v", err.Context["path"])
	}

	verr := ValidationFailed("serverPort", "out of range")
	if verr.Category != CategoryValidation {
		t.Errorf("category = %s, want %s", verr.Category, CategoryValidation)
	}
}
