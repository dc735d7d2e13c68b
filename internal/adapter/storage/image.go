// Package storage turns inbound profile image payloads into files in
// the upload directory and builds the URLs they are served from.
package storage

import (
	"encoding/base64"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	apperrors "user-account-service/pkg/errors"
)

// dataURIPattern matches data:<mime-type>;base64,<payload>. The mime
// subtype (after the slash) becomes the stored file extension.
var dataURIPattern = regexp.MustCompile(`^data:([a-zA-Z0-9.+-]+)/([a-zA-Z0-9.+-]+);base64,(.+)$`)

// defaultExtension is used for raw base64 payloads with no data URI prefix.
const defaultExtension = "png"

// ImageStore writes profile images into dir and serves them under
// publicPath.
type ImageStore struct {
	dir        string
	publicPath string
	log        *zap.Logger
	now        func() time.Time
}

// NewImageStore creates an image store. The directory is created
// lazily on first write.
func NewImageStore(dir, publicPath string, log *zap.Logger) *ImageStore {
	return &ImageStore{
		dir:        dir,
		publicPath: strings.TrimSuffix(publicPath, "/"),
		log:        log,
		now:        time.Now,
	}
}

// Save decodes the payload and writes it to the upload directory,
// returning the generated file name.
//
// A payload starting with "data:" must match the full data URI shape;
// anything else is treated as raw base64 with a png extension. Either
// way a payload that does not decode is an invalid-image domain error.
func (s *ImageStore) Save(payload string) (string, error) {
	data, ext, err := decodePayload(payload)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		s.log.Error("failed to create upload directory", zap.String("dir", s.dir), zap.Error(err))
		return "", apperrors.NewInternalError("Server error", err)
	}

	// Epoch-millisecond names keep concurrent uploads from colliding.
	filename := fmt.Sprintf("profile_%d.%s", s.now().UnixMilli(), ext)

	if err := os.WriteFile(filepath.Join(s.dir, filename), data, 0o644); err != nil {
		s.log.Error("failed to write image file", zap.String("file", filename), zap.Error(err))
		return "", apperrors.NewInternalError("Server error", err)
	}

	s.log.Debug("stored profile image", zap.String("file", filename), zap.Int("bytes", len(data)))

	return filename, nil
}

func decodePayload(payload string) ([]byte, string, error) {
	if strings.HasPrefix(payload, "data:") {
		m := dataURIPattern.FindStringSubmatch(payload)
		if m == nil {
			return nil, "", apperrors.NewInvalidImageError("Invalid image format")
		}
		data, err := base64.StdEncoding.DecodeString(m[3])
		if err != nil {
			return nil, "", apperrors.NewInvalidImageError("Invalid image format")
		}
		return data, m[2], nil
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", apperrors.NewInvalidImageError("Invalid image format")
	}
	return data, defaultExtension, nil
}

// Remove deletes the file behind a previously stored image URL.
// Best-effort: a missing file is not an error.
func (s *ImageStore) Remove(imageURL string) {
	name := path.Base(imageURL)
	if name == "" || name == "." || name == "/" {
		return
	}

	if err := os.Remove(filepath.Join(s.dir, name)); err != nil {
		if !os.IsNotExist(err) {
			s.log.Warn("failed to remove image file", zap.String("file", name), zap.Error(err))
		}
		return
	}

	s.log.Debug("removed profile image", zap.String("file", name))
}

// URL builds the fully qualified URL for a stored file from the
// request's scheme and host.
func (s *ImageStore) URL(scheme, host, filename string) string {
	return fmt.Sprintf("%s://%s%s/%s", scheme, host, s.publicPath, filename)
}

// Dir returns the upload directory path.
func (s *ImageStore) Dir() string {
	return s.dir
}
