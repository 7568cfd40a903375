package upload_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "fellgate/pkg/domain"
	dErrors "fellgate/pkg/domain-errors"

	"fellgate/internal/platform/config"
	"fellgate/internal/upload"
)

func newValidator(t *testing.T) *upload.Validator {
	t.Helper()
	return upload.NewValidator(config.Upload{
		MaxNumberDocuments: 2,
		MaxFileSizeBytes:   1024,
		AllowedFileTypes: []config.AllowedFileType{
			{
				FileUploadReasons: []string{string(id.UploadReasonSupportingDocument)},
				Description:       "Supporting documents",
				Extensions:        []string{"pdf", "docx"},
			},
			{
				FileUploadReasons: []string{string(id.UploadReasonAgentAuthorityForm)},
				Description:       "Authority forms",
				Extensions:        []string{".PDF"},
			},
		},
	})
}

func TestValidateEmptyCollection(t *testing.T) {
	v := newValidator(t)
	require.NoError(t, v.Validate(id.UploadReasonSupportingDocument, nil))
	require.NoError(t, v.Validate(id.UploadReasonSupportingDocument, []upload.FileUpload{}))
}

func TestValidateTooManyDocuments(t *testing.T) {
	v := newValidator(t)
	files := []upload.FileUpload{
		{FileName: "a.pdf", SizeBytes: 10},
		{FileName: "b.pdf", SizeBytes: 10},
		{FileName: "c.pdf", SizeBytes: 10},
	}

	err := v.Validate(id.UploadReasonSupportingDocument, files)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	assert.EqualError(t, err, "too many documents: 3 submitted, maximum is 2")
}

func TestValidateOversizedFile(t *testing.T) {
	v := newValidator(t)
	files := []upload.FileUpload{
		{FileName: "small.pdf", SizeBytes: 1024},
		{FileName: "big.pdf", SizeBytes: 1025},
	}

	err := v.Validate(id.UploadReasonSupportingDocument, files)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	assert.EqualError(t, err, "file big.pdf is 1025 bytes, maximum is 1024")
}

func TestValidateExtensions(t *testing.T) {
	v := newValidator(t)

	tests := []struct {
		name     string
		reason   id.FileUploadReason
		fileName string
		wantOK   bool
	}{
		{"permitted extension", id.UploadReasonSupportingDocument, "map.pdf", true},
		{"permitted uppercase extension", id.UploadReasonSupportingDocument, "map.PDF", true},
		{"extension for other reason only", id.UploadReasonSupportingDocument, "scan.tiff", false},
		{"no extension", id.UploadReasonSupportingDocument, "README", false},
		{"dotted config extension matches", id.UploadReasonAgentAuthorityForm, "form.pdf", true},
		{"docx not allowed for authority forms", id.UploadReasonAgentAuthorityForm, "form.docx", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.reason, []upload.FileUpload{{FileName: tt.fileName, SizeBytes: 1}})
			if tt.wantOK {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
			assert.EqualError(t, err, fmt.Sprintf("file %s is not a permitted type for %s", tt.fileName, tt.reason))
		})
	}
}

func TestMaxFileSizeBytes(t *testing.T) {
	v := newValidator(t)
	assert.Equal(t, int64(1024), v.MaxFileSizeBytes())
}
