// Package plantuml encodes diagram source into the compact form understood by
// PlantUML rendering servers.
package plantuml

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/klauspost/compress/flate"
)

const (
	// DefaultServerURL is the public PNG endpoint of the PlantUML server
	DefaultServerURL = "http://www.plantuml.com/plantuml/png/"

	// Alphabet is PlantUML's base64 variant. It has no padding symbol.
	Alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz-_"

	startTag = "@startuml"
	endTag   = "@enduml"
)

var encoding = base64.NewEncoding(Alphabet).WithPadding(base64.NoPadding)

// ErrEmptySource is returned when there is no diagram text to encode
var ErrEmptySource = errors.New("plantuml: empty diagram source")

// Languages lists the fenced code block tags treated as diagrams
var Languages = []string{"plantuml", "puml", "uml"}

// IsDiagramLanguage reports whether a fenced code block tag names a diagram
func IsDiagramLanguage(language string) bool {
	lang := strings.ToLower(strings.TrimSpace(language))
	for _, l := range Languages {
		if lang == l {
			return true
		}
	}
	return false
}

// Normalize wraps source in @startuml/@enduml lines when either is missing
func Normalize(source string) string {
	lines := strings.Split(source, "\n")

	hasStart, hasEnd := false, false
	for _, line := range lines {
		trimmed := strings.ToLower(strings.TrimSpace(line))
		switch {
		case strings.HasPrefix(trimmed, startTag):
			hasStart = true
		case strings.HasPrefix(trimmed, endTag):
			hasEnd = true
		}
	}

	if !hasStart {
		lines = append([]string{startTag}, lines...)
	}
	if !hasEnd {
		lines = append(lines, endTag)
	}

	return strings.Join(lines, "\n")
}

// Encode compresses already-normalized text with raw deflate and re-encodes it
// using the PlantUML alphabet
func Encode(text string) (string, error) {
	if text == "" {
		return "", ErrEmptySource
	}

	var buf bytes.Buffer
	w, err := flate.NewWriter(&buf, flate.BestCompression)
	if err != nil {
		return "", fmt.Errorf("plantuml: create deflate writer: %w", err)
	}
	if _, err := w.Write([]byte(text)); err != nil {
		return "", fmt.Errorf("plantuml: compress: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("plantuml: flush compressor: %w", err)
	}

	return encoding.EncodeToString(buf.Bytes()), nil
}

// EncodeSource normalizes diagram source and encodes it
func EncodeSource(source string) (string, error) {
	if strings.TrimSpace(source) == "" {
		return "", ErrEmptySource
	}
	return Encode(Normalize(source))
}

// Encoder builds image URLs against a PlantUML server
type Encoder struct {
	ServerURL string
}

// NewEncoder returns an encoder for serverURL, falling back to the public server
func NewEncoder(serverURL string) *Encoder {
	if strings.TrimSpace(serverURL) == "" {
		serverURL = DefaultServerURL
	}
	if !strings.HasSuffix(serverURL, "/") {
		serverURL += "/"
	}
	return &Encoder{ServerURL: serverURL}
}

// ImageURL returns the server URL that renders source as an image
func (e *Encoder) ImageURL(source string) (string, error) {
	encoded, err := EncodeSource(source)
	if err != nil {
		return "", err
	}
	return e.ServerURL + encoded, nil
}
