package export

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"

	"storyreel/internal/composition"
)

// fingerprintInput is the canonical structure hashed for an export.
type fingerprintInput struct {
	Format      Format                  `json:"format"`
	FrameRate   float64                 `json:"frame_rate"`
	Title       string                  `json:"title"`
	Segments    []composition.Segment   `json:"segments"`
	AudioTracks []composition.AudioClip `json:"audio_tracks"`
}

// Fingerprint returns a deterministic hash of everything that affects an
// export of c in the given format.
func Fingerprint(c composition.Composition, format Format, frameRate float64) string {
	return hashJSON(fingerprintInput{
		Format:      format,
		FrameRate:   frameRate,
		Title:       c.Title,
		Segments:    c.Segments,
		AudioTracks: c.AudioTracks,
	})
}

func hashJSON(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		// Only reachable with NaN/Inf, which validation rejects.
		return fmt.Sprintf("sha256:error-%v", err)
	}
	sum := sha256.Sum256(data)
	return fmt.Sprintf("sha256:%x", sum)
}
