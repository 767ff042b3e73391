// Package pitchclient is the client side of the pitch submission
// pipeline: admission checks for selected media, the pending-media
// store with preview lifecycle, the multipart encoder and the submit
// call itself
package pitchclient

import (
	"errors"
	"strings"
)

type Kind string

const (
	KindVideo Kind = "video"
	KindPhoto Kind = "photo"
)

// Limits mirrored by the server. The video ceiling is the 100 MB the
// upload UI advertises
const (
	MaxPhotos    = 3
	MaxPhotoSize = 5 << 20
	MaxVideoSize = 100 << 20
)

var (
	ErrMaxPhotosExceeded = errors.New("no more than 3 photos may be attached")
	ErrInvalidType       = errors.New("unsupported file type")
	ErrTooLarge          = errors.New("file too large")
)

// FileMeta describes a selected file without touching its bytes
type FileMeta struct {
	Name        string
	Size        int64
	ContentType string
}

// ValidateMedia is the admission gate for file selection. It is a
// pure decision function: the caller surfaces the rejection and must
// not touch the store when an error is returned
func ValidateMedia(meta FileMeta, kind Kind, photoCount int) error {
	switch kind {
	case KindPhoto:
		if photoCount >= MaxPhotos {
			return ErrMaxPhotosExceeded
		}
		if !strings.HasPrefix(meta.ContentType, "image/") {
			return ErrInvalidType
		}
		if meta.Size > MaxPhotoSize {
			return ErrTooLarge
		}
	case KindVideo:
		if !strings.HasPrefix(meta.ContentType, "video/") {
			return ErrInvalidType
		}
		if meta.Size > MaxVideoSize {
			return ErrTooLarge
		}
	default:
		return ErrInvalidType
	}

	return nil
}
