package httptransport

import (
	"io"
	"mime/multipart"
	"net/http"

	dErrors "fellgate/pkg/domain-errors"

	"fellgate/internal/upload"
)

// filesFromRequest reads every part of a multipart form named "files" into
// memory. Size and type limits are the validator's concern; this only guards
// the total request size.
func (h *Handler) filesFromRequest(r *http.Request) ([]upload.FileUpload, error) {
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeBadRequest, "invalid multipart request")
	}
	if r.MultipartForm == nil {
		return nil, nil
	}

	var files []upload.FileUpload
	for _, header := range r.MultipartForm.File["files"] {
		file, err := readPart(header)
		if err != nil {
			return nil, err
		}
		files = append(files, file)
	}
	return files, nil
}

func readPart(header *multipart.FileHeader) (upload.FileUpload, error) {
	part, err := header.Open()
	if err != nil {
		return upload.FileUpload{}, dErrors.Wrap(err, dErrors.CodeBadRequest, "unreadable file part")
	}
	defer part.Close()

	content, err := io.ReadAll(part)
	if err != nil {
		return upload.FileUpload{}, dErrors.Wrap(err, dErrors.CodeBadRequest, "unreadable file part")
	}

	return upload.FileUpload{
		FileName:  header.Filename,
		MimeType:  header.Header.Get("Content-Type"),
		SizeBytes: int64(len(content)),
		Content:   content,
	}, nil
}
