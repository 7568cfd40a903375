// Package upload validates file collections against the configured limits
// before any file touches storage: collection size, per-file byte size, and a
// per-reason extension allow-list.
package upload

import (
	"path/filepath"
	"strings"

	id "fellgate/pkg/domain"
	dErrors "fellgate/pkg/domain-errors"

	"fellgate/internal/platform/config"
)

// FileUpload is one submitted file. Content is already read from the request;
// validation never does I/O.
type FileUpload struct {
	FileName  string
	MimeType  string
	SizeBytes int64
	Content   []byte
}

type Validator struct {
	options config.Upload
}

func NewValidator(options config.Upload) *Validator {
	return &Validator{options: options}
}

// Validate checks a file collection for one upload reason. The first violation
// is returned as a Validation-coded error naming the rule; an empty collection
// is valid (the caller decides whether it is a no-op).
func (v *Validator) Validate(reason id.FileUploadReason, files []FileUpload) error {
	if len(files) == 0 {
		return nil
	}

	if len(files) > v.options.MaxNumberDocuments {
		return dErrors.Newf(dErrors.CodeValidation,
			"too many documents: %d submitted, maximum is %d", len(files), v.options.MaxNumberDocuments)
	}

	allowed := v.options.ExtensionsFor(reason)
	for _, file := range files {
		if file.SizeBytes > v.options.MaxFileSizeBytes {
			return dErrors.Newf(dErrors.CodeValidation,
				"file %s is %d bytes, maximum is %d", file.FileName, file.SizeBytes, v.options.MaxFileSizeBytes)
		}
		if !extensionAllowed(file.FileName, allowed) {
			return dErrors.Newf(dErrors.CodeValidation,
				"file %s is not a permitted type for %s", file.FileName, string(reason))
		}
	}
	return nil
}

func extensionAllowed(fileName string, allowed []string) bool {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(fileName), "."))
	if ext == "" {
		return false
	}
	for _, candidate := range allowed {
		if ext == candidate {
			return true
		}
	}
	return false
}

// MaxFileSizeBytes exposes the configured per-file limit for messages shown to
// the applicant.
func (v *Validator) MaxFileSizeBytes() int64 { return v.options.MaxFileSizeBytes }
