package object

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"path"
	"strings"
	"unicode"
)

var ErrInvalidFileName = errors.New("invalid file name")

// ReportKey is where an idea's rendered report is archived.
func ReportKey(ideaID, fileName string) (string, error) {
	name, err := safeName(fileName)
	if err != nil {
		return "", err
	}
	return CleanKey(path.Join("reports", ideaID, name))
}

// SubmissionKey is where an uploaded document or recording is archived.
// Owner IDs are hashed so they never appear in object keys.
func SubmissionKey(ownerID, ideaID, fileName string) (string, error) {
	name, err := safeName(fileName)
	if err != nil {
		return "", err
	}
	return CleanKey(path.Join("submissions", ownerSegment(ownerID), ideaID+"_"+name))
}

func ownerSegment(ownerID string) string {
	sum := sha256.Sum256([]byte(ownerID))
	return hex.EncodeToString(sum[:])
}

// safeName flattens separators, drops control characters and rejects traversal.
func safeName(name string) (string, error) {
	if strings.Contains(name, "..") {
		return "", ErrInvalidFileName
	}
	s := strings.Map(func(r rune) rune {
		switch {
		case r == '/' || r == '\\':
			return '_'
		case unicode.IsControl(r):
			return -1
		default:
			return r
		}
	}, strings.TrimSpace(name))
	if s == "" {
		return "", ErrInvalidFileName
	}
	return s, nil
}
