// Package media identifies local media files and keeps a searchable index
// of a project's media directory.
package media

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"storyreel/internal/composition"
	"storyreel/internal/session"
)

// ErrUnsupported reports a file that is neither an image, a video nor audio.
var ErrUnsupported = errors.New("unsupported media type")

// Class groups detected MIME types by how the editor can use them.
type Class string

const (
	ClassImage Class = "image"
	ClassVideo Class = "video"
	ClassAudio Class = "audio"
)

// Info describes a sniffed file.
type Info struct {
	MIME  string
	Class Class
}

// Kind returns the segment media kind, or "" for audio.
func (i Info) Kind() composition.MediaKind {
	switch i.Class {
	case ClassImage:
		return composition.MediaImage
	case ClassVideo:
		return composition.MediaVideo
	}
	return ""
}

// Detect sniffs the content of r.
func Detect(r io.Reader) (Info, error) {
	mt, err := mimetype.DetectReader(r)
	if err != nil {
		return Info{}, fmt.Errorf("detect mime type: %w", err)
	}
	for m := mt; m != nil; m = m.Parent() {
		major, _, _ := strings.Cut(m.String(), "/")
		switch major {
		case "image":
			return Info{MIME: mt.String(), Class: ClassImage}, nil
		case "video":
			return Info{MIME: mt.String(), Class: ClassVideo}, nil
		case "audio":
			return Info{MIME: mt.String(), Class: ClassAudio}, nil
		}
	}
	return Info{MIME: mt.String()}, fmt.Errorf("%w: %s", ErrUnsupported, mt.String())
}

// DetectFile sniffs the file at path.
func DetectFile(path string) (Info, error) {
	f, err := os.Open(path)
	if err != nil {
		return Info{}, fmt.Errorf("open media: %w", err)
	}
	defer f.Close()

	info, err := Detect(f)
	if err != nil {
		return info, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return info, nil
}

// FromFile turns a local image or video into a media asset addressed by a
// file:// URL.
func FromFile(path string) (session.MediaAsset, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return session.MediaAsset{}, fmt.Errorf("resolve media path: %w", err)
	}
	info, err := DetectFile(abs)
	if err != nil {
		return session.MediaAsset{}, err
	}
	kind := info.Kind()
	if kind == "" {
		return session.MediaAsset{}, fmt.Errorf("%s: %w: %s is audio", filepath.Base(path), ErrUnsupported, info.MIME)
	}
	return session.MediaAsset{URL: FileURL(abs), Kind: kind}, nil
}

// FileURL returns the file:// URL for an absolute path.
func FileURL(abs string) string {
	return "file://" + filepath.ToSlash(abs)
}
