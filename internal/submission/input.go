package submission

import "strings"

// Kind identifies which variant of Input is populated.
type Kind string

const (
	KindText     Kind = "text"
	KindDocument Kind = "document"
	KindAudio    Kind = "audio"
)

// File is an uploaded binary with the caller's declared metadata.
type File struct {
	Name     string
	MIMEType string
	Data     []byte
}

// Input is a validated submission. Exactly one of Text or File is meaningful, selected by Kind.
type Input struct {
	Kind Kind
	Text string
	File File
}

// TextInput builds a text variant without validation.
func TextInput(text string) Input {
	return Input{Kind: KindText, Text: text}
}

// Name returns a short label for logs: the file name, or "text".
func (in Input) Name() string {
	if in.Kind == KindText {
		return "text"
	}
	return in.File.Name
}

// Size returns the payload size in bytes.
func (in Input) Size() int {
	if in.Kind == KindText {
		return len(in.Text)
	}
	return len(in.File.Data)
}

// Candidate is everything a caller staged for one submission attempt.
// Several fields may be set; Validate picks one by precedence.
type Candidate struct {
	Text     string
	Document *File
	Audio    *File
}

// Staged reports whether anything at all was provided.
func (c Candidate) Staged() bool {
	return c.Document != nil || c.Audio != nil || strings.TrimSpace(c.Text) != ""
}
