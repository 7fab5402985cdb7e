package export

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"storyreel/internal/composition"
)

// Format selects an export encoding.
type Format string

const (
	FormatJSON   Format = "json"
	FormatEDL    Format = "edl"
	FormatConcat Format = "concat"
)

// ParseFormat accepts a format name case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatJSON, FormatEDL, FormatConcat:
		return f, nil
	}
	return "", fmt.Errorf("unknown export format %q (want json, edl or concat)", s)
}

// Ext returns the file extension for the format.
func (f Format) Ext() string {
	switch f {
	case FormatEDL:
		return ".edl"
	case FormatConcat:
		return ".ffconcat"
	}
	return ".json"
}

// Write encodes snap in format f.
func Write(w io.Writer, f Format, snap Snapshot, frameRate float64) error {
	switch f {
	case FormatJSON:
		return WriteJSON(w, snap)
	case FormatEDL:
		_, err := io.WriteString(w, EDL(snap, frameRate))
		return err
	case FormatConcat:
		_, err := io.WriteString(w, Concat(snap))
		return err
	}
	return fmt.Errorf("unknown export format %q", f)
}

// FileName derives an output file name from the composition title.
func FileName(title string, f Format) string {
	slug := safeFileSlug(title)
	if slug == "" {
		slug = "composition"
	}
	return slug + f.Ext()
}

// FileRenderer writes an export to Path. It satisfies session.Renderer.
type FileRenderer struct {
	Path      string
	Format    Format
	FrameRate float64
}

// Render encodes c and replaces Path atomically.
func (r FileRenderer) Render(ctx context.Context, c composition.Composition) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := Write(&buf, r.Format, Build(c), r.FrameRate); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(r.Path), 0o755); err != nil {
		return fmt.Errorf("prepare export dir: %w", err)
	}
	tmp := r.Path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write export: %w", err)
	}
	if err := os.Rename(tmp, r.Path); err != nil {
		return fmt.Errorf("replace export: %w", err)
	}
	return nil
}

func safeFileSlug(value string) string {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		return ""
	}

	var builder strings.Builder
	builder.Grow(len(value))

	lastDash := false
	for _, r := range value {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			builder.WriteRune(r)
			lastDash = false
		case r == ' ' || r == '-' || r == '_' || r == '.':
			if !lastDash && builder.Len() > 0 {
				builder.WriteByte('-')
				lastDash = true
			}
		}
	}

	slug := strings.Trim(builder.String(), "-")
	if len(slug) > 64 {
		slug = strings.TrimRight(slug[:64], "-")
	}
	return slug
}
