package pitchclient

import (
	"fmt"
	"io"
)

// Previewer mints and releases client-local preview URIs for pending
// assets. Implementations own whatever resource backs the URI
type Previewer interface {
	Allocate(meta FileMeta) (string, error)
	Release(uri string)
}

type nopPreviewer struct{}

func (nopPreviewer) Allocate(FileMeta) (string, error) { return "", nil }
func (nopPreviewer) Release(string)                    {}

// Asset is one pending media file: its metadata, an opener for the
// raw bytes and the preview URI minted when it entered the store
type Asset struct {
	Kind Kind
	Meta FileMeta
	Open func() (io.ReadCloser, error)

	previewURI string
	released   bool
}

// PreviewURI returns the client-local preview URI, empty once the
// asset has been dropped from the store
func (a *Asset) PreviewURI() string {
	if a.released {
		return ""
	}
	return a.previewURI
}

// PreviewStore holds the media pending for one submission: at most
// one video and at most three photos, in attachment order. Every
// asset that leaves the store has its preview released exactly once,
// whether it is removed, replaced or torn down with the whole store
type PreviewStore struct {
	previewer Previewer
	video     *Asset
	photos    []*Asset
}

// NewPreviewStore returns an empty store. A nil previewer is allowed
// and disables previews
func NewPreviewStore(p Previewer) *PreviewStore {
	if p == nil {
		p = nopPreviewer{}
	}

	return &PreviewStore{previewer: p}
}

// AddPhoto appends a photo. The 3-photo cap is enforced here as a
// structural invariant on top of the admission validator
func (s *PreviewStore) AddPhoto(a *Asset) error {
	if len(s.photos) >= MaxPhotos {
		return ErrMaxPhotosExceeded
	}

	uri, err := s.previewer.Allocate(a.Meta)
	if err != nil {
		return fmt.Errorf("failed to create preview, %w", err)
	}

	a.Kind = KindPhoto
	a.previewURI = uri
	s.photos = append(s.photos, a)
	return nil
}

// RemovePhoto drops the photo at index, releasing its preview
func (s *PreviewStore) RemovePhoto(index int) error {
	if index < 0 || index >= len(s.photos) {
		return fmt.Errorf("no photo at index %d", index)
	}

	s.release(s.photos[index])
	s.photos = append(s.photos[:index], s.photos[index+1:]...)
	return nil
}

// SetVideo replaces the pending video. The previously held video, if
// any, has its preview released. Passing nil just clears the slot
func (s *PreviewStore) SetVideo(a *Asset) error {
	if s.video != nil {
		s.release(s.video)
		s.video = nil
	}

	if a == nil {
		return nil
	}

	uri, err := s.previewer.Allocate(a.Meta)
	if err != nil {
		return fmt.Errorf("failed to create preview, %w", err)
	}

	a.Kind = KindVideo
	a.previewURI = uri
	s.video = a
	return nil
}

// Video returns the pending video, nil when none is attached
func (s *PreviewStore) Video() *Asset {
	return s.video
}

// Photos returns the pending photos in attachment order
func (s *PreviewStore) Photos() []*Asset {
	out := make([]*Asset, len(s.photos))
	copy(out, s.photos)
	return out
}

// PhotoCount reports how many photos are pending, for the admission
// validator
func (s *PreviewStore) PhotoCount() int {
	return len(s.photos)
}

// Close tears the store down, releasing every remaining preview.
// Safe to call more than once
func (s *PreviewStore) Close() {
	if s.video != nil {
		s.release(s.video)
		s.video = nil
	}

	for _, p := range s.photos {
		s.release(p)
	}
	s.photos = nil
}

func (s *PreviewStore) release(a *Asset) {
	if a.released {
		return
	}

	a.released = true
	s.previewer.Release(a.previewURI)
}
