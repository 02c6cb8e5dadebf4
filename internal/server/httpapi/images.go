package httpapi

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/wisdombook/internal/common"
	"github.com/dmitrijs2005/wisdombook/internal/server/storage"
	"golang.org/x/sync/errgroup"
)

const uploadField = "files"

type uploadResponse struct {
	URLs []string `json:"urls"`
}

// handleUploadImages stores every file of the multipart "files" field and
// returns their public URLs in the order given. Uploads run in parallel; the
// first failure fails the whole request.
func (s *Server) handleUploadImages(w http.ResponseWriter, r *http.Request) {
	const formOverhead = 1 << 20
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload*16+formOverhead)
	if err := r.ParseMultipartForm(s.maxUpload + formOverhead); err != nil {
		s.writeError(w, r, fmt.Errorf("%w: malformed upload: %v", common.ErrValidation, err))
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	files := r.MultipartForm.File[uploadField]
	if len(files) == 0 {
		s.writeError(w, r, fmt.Errorf("%w: no files in field %q", common.ErrValidation, uploadField))
		return
	}

	type upload struct {
		name        string
		contentType string
		data        []byte
	}
	uploads := make([]upload, len(files))
	for i, fh := range files {
		data, err := readPart(fh, s.maxUpload)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		contentType, err := storage.ValidateImage(data, s.maxUpload)
		if err != nil {
			s.writeError(w, r, fmt.Errorf("%s: %w", fh.Filename, err))
			return
		}
		uploads[i] = upload{name: fh.Filename, contentType: contentType, data: data}
	}

	urls := make([]string, len(uploads))
	g, ctx := errgroup.WithContext(r.Context())
	for i, u := range uploads {
		i, u := i, u
		g.Go(func() error {
			url, err := s.images.UploadImage(ctx, u.name, u.contentType, u.data)
			if err != nil {
				return err
			}
			urls[i] = url
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		if errors.Is(err, common.ErrGatewayUnavailable) {
			s.writeError(w, r, err)
			return
		}
		s.logger.Error(r.Context(), "image upload failed", "error", err)
		writeJSON(w, http.StatusBadGateway, errorBody{Error: storage.Hint(s.bucket, err), Code: "upload_failed"})
		return
	}

	writeJSON(w, http.StatusCreated, uploadResponse{URLs: urls})
}

func readPart(fh *multipart.FileHeader, limit int64) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", common.ErrValidation, fh.Filename, err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, limit+1))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", common.ErrValidation, fh.Filename, err)
	}
	return data, nil
}

// handleRemoveImage deletes an uploaded image. Storage failures are logged by
// the storage layer and never reported to the caller.
func (s *Server) handleRemoveImage(w http.ResponseWriter, r *http.Request) {
	url := strings.TrimSpace(r.URL.Query().Get("url"))
	if url == "" {
		s.writeError(w, r, fmt.Errorf("%w: url is required", common.ErrValidation))
		return
	}
	s.images.RemoveImage(r.Context(), url)
	w.WriteHeader(http.StatusNoContent)
}
