package engine

import (
	"testing"

	"github.com/tandemreader/tandem/internal/models"
)

func fullManifest() *models.Manifest {
	return &models.Manifest{
		OriginalURL:    "media/orig.mp3",
		TranslationURL: "media/trans.mp3",
		CombinedURL:    "media/combined.mp3",
	}
}

func TestResolveTracks(t *testing.T) {
	tc := []struct {
		name         string
		in           TrackInputs
		wantFeasible bool
		wantURL      string
		wantTrack    models.Track
	}{
		{
			name: "active URL wins over everything",
			in: TrackInputs{
				Flags:                  models.TrackFlags{Original: true, Translation: true},
				Manifest:               fullManifest(),
				HasOriginalSegments:    true,
				HasTranslationSegments: true,
				ActiveURL:              "media/trans.mp3",
				AllowCombined:          true,
			},
			wantFeasible: true,
			wantURL:      "media/trans.mp3",
			wantTrack:    models.TrackTranslation,
		},
		{
			name: "original preferred when enabled",
			in: TrackInputs{
				Flags:                  models.TrackFlags{Original: true, Translation: true},
				Manifest:               fullManifest(),
				HasOriginalSegments:    true,
				HasTranslationSegments: true,
				AllowCombined:          true,
			},
			wantFeasible: true,
			wantURL:      "media/orig.mp3",
			wantTrack:    models.TrackOriginal,
		},
		{
			name: "combined only when no separate tracks exist",
			in: TrackInputs{
				Flags:         models.TrackFlags{Original: true, Translation: true},
				Manifest:      &models.Manifest{CombinedURL: "media/combined.mp3"},
				AllowCombined: true,
			},
			wantFeasible: false,
			wantURL:      "media/combined.mp3",
			wantTrack:    models.TrackCombined,
		},
		{
			name: "translation when original disabled",
			in: TrackInputs{
				Flags:                  models.TrackFlags{Translation: true},
				Manifest:               fullManifest(),
				HasOriginalSegments:    true,
				HasTranslationSegments: true,
				AllowCombined:          true,
			},
			wantFeasible: false,
			wantURL:      "media/trans.mp3",
			wantTrack:    models.TrackTranslation,
		},
		{
			name: "disabled original still effective when nothing else exists",
			in: TrackInputs{
				Flags:    models.TrackFlags{},
				Manifest: &models.Manifest{OriginalURL: "media/orig.mp3"},
			},
			wantFeasible: false,
			wantURL:      "media/orig.mp3",
			wantTrack:    models.TrackOriginal,
		},
		{
			name: "translation as last available URL",
			in: TrackInputs{
				Flags:    models.TrackFlags{},
				Manifest: &models.Manifest{TranslationURL: "media/trans.mp3"},
			},
			wantFeasible: false,
			wantURL:      "media/trans.mp3",
			wantTrack:    models.TrackTranslation,
		},
		{
			name: "combined as last available URL even when not allowed as preference",
			in: TrackInputs{
				Flags:    models.TrackFlags{},
				Manifest: &models.Manifest{CombinedURL: "media/combined.mp3"},
			},
			wantFeasible: false,
			wantURL:      "media/combined.mp3",
			wantTrack:    models.TrackCombined,
		},
		{
			name: "missing translation segments blocks sequence",
			in: TrackInputs{
				Flags:               models.TrackFlags{Original: true, Translation: true},
				Manifest:            fullManifest(),
				HasOriginalSegments: true,
				AllowCombined:       true,
			},
			wantFeasible: false,
			wantURL:      "media/orig.mp3",
			wantTrack:    models.TrackOriginal,
		},
		{
			name: "missing translation URL blocks sequence",
			in: TrackInputs{
				Flags:                  models.TrackFlags{Original: true, Translation: true},
				Manifest:               &models.Manifest{OriginalURL: "media/orig.mp3"},
				HasOriginalSegments:    true,
				HasTranslationSegments: true,
			},
			wantFeasible: false,
			wantURL:      "media/orig.mp3",
			wantTrack:    models.TrackOriginal,
		},
		{
			name:         "empty manifest resolves nothing",
			in:           TrackInputs{Flags: models.TrackFlags{Original: true, Translation: true}},
			wantFeasible: false,
			wantURL:      "",
			wantTrack:    models.TrackNone,
		},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveTracks(tt.in)

			if got.SequenceFeasible != tt.wantFeasible {
				t.Errorf("SequenceFeasible = %v, want %v", got.SequenceFeasible, tt.wantFeasible)
			}
			if got.EffectiveURL != tt.wantURL {
				t.Errorf("EffectiveURL = %q, want %q", got.EffectiveURL, tt.wantURL)
			}
			if got.EffectiveTrack != tt.wantTrack {
				t.Errorf("EffectiveTrack = %v, want %v", got.EffectiveTrack, tt.wantTrack)
			}
		})
	}
}

func TestDefaultTrack(t *testing.T) {
	withOrig := ResolveTracks(TrackInputs{HasOriginalSegments: true})
	if withOrig.DefaultTrack != models.TrackOriginal {
		t.Errorf("expected original default, got %v", withOrig.DefaultTrack)
	}

	withoutOrig := ResolveTracks(TrackInputs{HasTranslationSegments: true})
	if withoutOrig.DefaultTrack != models.TrackTranslation {
		t.Errorf("expected translation default, got %v", withoutOrig.DefaultTrack)
	}
}
