package editor

import (
	"slices"
	"strings"

	"storyreel/internal/composition"
)

type tracksResult = Result[[]composition.AudioClip]

// AddTrack appends an audio track built from nt. An empty or colliding id is
// replaced with a fresh one. A nil start time places the track at cursor and
// a nil volume takes the default track volume; explicit values, zero
// included, are clamped and kept. A missing duration falls back to the
// default track length. The new track is the focus.
func (e *Editor) AddTrack(tracks []composition.AudioClip, nt NewTrack, cursor float64) tracksResult {
	if strings.TrimSpace(nt.URL) == "" {
		return rejected[[]composition.AudioClip](ReasonInvalidValue, "empty audio url")
	}
	track := composition.AudioClip{
		ID:              nt.ID,
		URL:             nt.URL,
		Name:            strings.TrimSpace(nt.Name),
		Kind:            nt.Kind,
		StartTime:       max(cursor, 0),
		DurationSeconds: nt.DurationSeconds,
		Volume:          e.defaults.TrackVolume,
	}
	if track.ID == "" || composition.TrackIndexOf(tracks, track.ID) >= 0 {
		track.ID = e.newID()
	}
	if track.Kind != composition.TrackMusic && track.Kind != composition.TrackSFX {
		track.Kind = composition.TrackMusic
	}
	if nt.StartTime != nil && validFloat(*nt.StartTime) {
		track.StartTime = max(*nt.StartTime, 0)
	}
	if !validFloat(track.DurationSeconds) || track.DurationSeconds <= 0 {
		track.DurationSeconds = e.defaults.TrackDuration
	}
	if nt.Volume != nil {
		track.Volume = *nt.Volume
	}
	track.Volume = composition.Clamp01(track.Volume)
	if track.Name == "" {
		track.Name = trackNameFromURL(track.URL)
	}

	out := append(composition.CloneTracks(tracks), track)
	return applied(out, track.ID)
}

// UpdateTrack merges a partial update into an audio track. Start times are
// clamped to zero, durations to the minimum track length and volume to
// [0,1].
func (e *Editor) UpdateTrack(tracks []composition.AudioClip, id string, update AudioUpdate) tracksResult {
	idx := composition.TrackIndexOf(tracks, id)
	if idx < 0 {
		return rejected[[]composition.AudioClip](ReasonNotFound, "audio track %q", id)
	}
	out := composition.CloneTracks(tracks)
	tr := out[idx]
	if update.StartTime != nil && validFloat(*update.StartTime) {
		tr.StartTime = max(*update.StartTime, 0)
	}
	if update.DurationSeconds != nil && validFloat(*update.DurationSeconds) {
		tr.DurationSeconds = max(*update.DurationSeconds, e.minTrackLength())
	}
	if update.Volume != nil {
		tr.Volume = composition.Clamp01(*update.Volume)
	}
	if update.Name != nil {
		tr.Name = strings.TrimSpace(*update.Name)
	}
	if tr == tracks[idx] {
		return rejected[[]composition.AudioClip](ReasonNoChange, "audio track %q unchanged", id)
	}
	out[idx] = tr
	return applied(out, "")
}

// DeleteTrack removes an audio track.
func (e *Editor) DeleteTrack(tracks []composition.AudioClip, id string) tracksResult {
	idx := composition.TrackIndexOf(tracks, id)
	if idx < 0 {
		return rejected[[]composition.AudioClip](ReasonNotFound, "audio track %q", id)
	}
	out := composition.CloneTracks(tracks)
	out = slices.Delete(out, idx, idx+1)
	return applied(out, "")
}

func (e *Editor) minTrackLength() float64 {
	if e.defaults.MinTrackLength > 0 {
		return e.defaults.MinTrackLength
	}
	return 0.1
}

func trackNameFromURL(url string) string {
	name := url
	if i := strings.LastIndexAny(name, "/\\"); i >= 0 {
		name = name[i+1:]
	}
	if i := strings.IndexAny(name, "?#"); i >= 0 {
		name = name[:i]
	}
	if name == "" {
		return "audio"
	}
	return name
}
