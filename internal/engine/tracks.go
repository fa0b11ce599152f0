package engine

import "github.com/tandemreader/tandem/internal/models"

// TrackInputs is everything the track resolver looks at: user toggles,
// URL availability, per-track plan coverage, and the host's explicit
// active-URL override.
type TrackInputs struct {
	Flags    models.TrackFlags
	Manifest *models.Manifest

	// HasOriginalSegments / HasTranslationSegments report plan coverage.
	HasOriginalSegments    bool
	HasTranslationSegments bool

	// ActiveURL, when non-empty, is an explicitly active URL supplied by
	// the host and wins over all fallback rules.
	ActiveURL string

	// AllowCombined permits falling back to the pre-mixed rendition when
	// no separate tracks exist.
	AllowCombined bool
}

// TrackDecision is the resolver's output. Resolution is a pure function of
// the inputs; the coordinator recomputes it whenever any input changes.
type TrackDecision struct {
	// SequenceFeasible means both tracks are enabled, both URLs are
	// present, and both have at least one segment.
	SequenceFeasible bool

	// DefaultTrack is the track sequence playback starts on: original if
	// it has segments, else translation (original-first listening order).
	DefaultTrack models.Track

	// EffectiveURL is the single URL the host should have loaded in
	// non-sequence mode, and EffectiveTrack the track it carries.
	EffectiveURL   string
	EffectiveTrack models.Track
}

// ResolveTracks computes the track decision for the given inputs.
//
// The effective-URL precedence is relied on by resume and now-playing
// consumers and must stay exactly: explicit active URL, then original when
// enabled, then the combined rendition when allowed and no separate tracks
// exist, then translation when enabled, then whatever single URL is
// available at all.
func ResolveTracks(in TrackInputs) TrackDecision {
	var d TrackDecision

	origURL := in.Manifest.URLFor(models.TrackOriginal)
	transURL := in.Manifest.URLFor(models.TrackTranslation)
	combinedURL := in.Manifest.URLFor(models.TrackCombined)

	d.SequenceFeasible = in.Flags.Both() &&
		origURL != "" && transURL != "" &&
		in.HasOriginalSegments && in.HasTranslationSegments

	if in.HasOriginalSegments {
		d.DefaultTrack = models.TrackOriginal
	} else {
		d.DefaultTrack = models.TrackTranslation
	}

	switch {
	case in.ActiveURL != "":
		d.EffectiveURL = in.ActiveURL
		d.EffectiveTrack = trackOf(in.ActiveURL, origURL, transURL, combinedURL)
	case in.Flags.Original && origURL != "":
		d.EffectiveURL = origURL
		d.EffectiveTrack = models.TrackOriginal
	case in.AllowCombined && combinedURL != "" && origURL == "" && transURL == "":
		d.EffectiveURL = combinedURL
		d.EffectiveTrack = models.TrackCombined
	case in.Flags.Translation && transURL != "":
		d.EffectiveURL = transURL
		d.EffectiveTrack = models.TrackTranslation
	case origURL != "":
		d.EffectiveURL = origURL
		d.EffectiveTrack = models.TrackOriginal
	case transURL != "":
		d.EffectiveURL = transURL
		d.EffectiveTrack = models.TrackTranslation
	case combinedURL != "":
		d.EffectiveURL = combinedURL
		d.EffectiveTrack = models.TrackCombined
	}

	return d
}

// trackOf matches a URL back to the manifest entry it came from.
func trackOf(url, origURL, transURL, combinedURL string) models.Track {
	switch url {
	case origURL:
		return models.TrackOriginal
	case transURL:
		return models.TrackTranslation
	case combinedURL:
		return models.TrackCombined
	default:
		return models.TrackNone
	}
}
