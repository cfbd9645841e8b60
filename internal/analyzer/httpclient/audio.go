package httpclient

import (
	"fmt"
	"strings"
)

const audioPreamble = "The entrepreneur submitted an audio pitch instead of a written description. " +
	"No transcript is available. Analyze this as a business idea pitch and give general " +
	"business model canvas guidance, strengths, weaknesses and improvement suggestions."

// AudioPlaceholderText builds the synthetic description sent in place of a transcript.
func AudioPlaceholderText(fileName string) string {
	name := strings.TrimSpace(fileName)
	if name == "" {
		name = "unnamed recording"
	}
	return fmt.Sprintf("%s\n\nAudio file: %s", audioPreamble, name)
}
