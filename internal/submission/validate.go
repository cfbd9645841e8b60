package submission

import (
	"fmt"
	"mime"
	"path/filepath"
	"strings"
)

const mimePDF = "application/pdf"

var audioExtensions = map[string]struct{}{
	".mp3": {},
	".wav": {},
	".m4a": {},
}

// Validate turns a staged candidate into exactly one Input.
// Precedence is document, then audio, then text.
func Validate(c Candidate) (Input, error) {
	switch {
	case c.Document != nil:
		return validateDocument(*c.Document)
	case c.Audio != nil:
		return validateAudio(*c.Audio)
	default:
		return validateText(c.Text)
	}
}

func validateText(raw string) (Input, error) {
	text := strings.TrimSpace(raw)
	if text == "" {
		return Input{}, emptyInput("please describe your business idea or attach a file")
	}
	return Input{Kind: KindText, Text: text}, nil
}

func validateDocument(f File) (Input, error) {
	if mediaType(f.MIMEType) != mimePDF {
		return Input{}, unsupportedMediaType(fmt.Sprintf("document %q must be a PDF (application/pdf)", f.Name))
	}
	if len(f.Data) == 0 {
		return Input{}, emptyInput(fmt.Sprintf("document %q is empty", f.Name))
	}
	return Input{Kind: KindDocument, File: f}, nil
}

func validateAudio(f File) (Input, error) {
	if !IsAudio(f.Name, f.MIMEType) {
		return Input{}, unsupportedMediaType(fmt.Sprintf("audio %q must be an audio file (.mp3, .wav or .m4a)", f.Name))
	}
	if len(f.Data) == 0 {
		return Input{}, emptyInput(fmt.Sprintf("audio %q is empty", f.Name))
	}
	return Input{Kind: KindAudio, File: f}, nil
}

// IsAudio accepts an audio/* MIME type or a recognised audio file extension.
func IsAudio(fileName, mimeType string) bool {
	if strings.HasPrefix(mediaType(mimeType), "audio/") {
		return true
	}
	_, ok := audioExtensions[strings.ToLower(filepath.Ext(fileName))]
	return ok
}

// mediaType strips parameters such as charset and lowercases the type.
func mediaType(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if mt, _, err := mime.ParseMediaType(raw); err == nil {
		return mt
	}
	return strings.ToLower(raw)
}
