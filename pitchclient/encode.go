package pitchclient

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"strings"
)

// ErrTooManyPhotos signals a programmer-level misuse of the encoder.
// It is unreachable while PreviewStore invariants hold, but the
// encoder fails fast instead of silently dropping parts
var ErrTooManyPhotos = errors.New("more than 3 photo assets passed to the encoder")

// PitchFields carries the textual part of a submission. Which fields
// exist is fixed here rather than in a loose map, so a typo becomes a
// compile error
type PitchFields struct {
	Title                string
	Category             string
	Description          string
	Problem              string
	Solution             string
	MarketSize           string
	BusinessModel        string
	CompetitiveAdvantage string
	Funding              string
}

func (f PitchFields) pairs() [][2]string {
	return [][2]string{
		{"title", f.Title},
		{"category", f.Category},
		{"description", f.Description},
		{"problem", f.Problem},
		{"solution", f.Solution},
		{"marketSize", f.MarketSize},
		{"businessModel", f.BusinessModel},
		{"competitiveAdvantage", f.CompetitiveAdvantage},
		{"funding", f.Funding},
	}
}

// EncodeSubmission writes the whole submission as one multipart
// payload: a part per text field, the video under the fixed field
// name "video" and each photo under photo0..photo2 in the order they
// were attached. The server maps that order back into the stored
// photo URL list. Returns the payload's content type
func EncodeSubmission(w io.Writer, fields PitchFields, video *Asset, photos []*Asset) (string, error) {
	if len(photos) > MaxPhotos {
		return "", ErrTooManyPhotos
	}

	mw := multipart.NewWriter(w)

	for _, p := range fields.pairs() {
		if err := mw.WriteField(p[0], p[1]); err != nil {
			return "", fmt.Errorf("failed to encode field %q, %w", p[0], err)
		}
	}

	if video != nil {
		if err := writeAssetPart(mw, "video", video); err != nil {
			return "", err
		}
	}

	for i, p := range photos {
		if err := writeAssetPart(mw, fmt.Sprintf("photo%d", i), p); err != nil {
			return "", err
		}
	}

	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("failed to finish multipart payload, %w", err)
	}

	return mw.FormDataContentType(), nil
}

func writeAssetPart(mw *multipart.Writer, field string, a *Asset) error {
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
		field, escapeQuotes(a.Meta.Name)))
	h.Set("Content-Type", a.Meta.ContentType)

	part, err := mw.CreatePart(h)
	if err != nil {
		return fmt.Errorf("failed to create part %q, %w", field, err)
	}

	body, err := a.Open()
	if err != nil {
		return fmt.Errorf("failed to open asset %q, %w", a.Meta.Name, err)
	}
	defer body.Close()

	if _, err := io.Copy(part, body); err != nil {
		return fmt.Errorf("failed to write asset %q, %w", a.Meta.Name, err)
	}

	return nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}
