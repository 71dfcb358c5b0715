package pricing

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTotal(t *testing.T) {
	tests := []struct {
		name     string
		theme    string
		features []string
		want     int64
	}{
		{"base only", "cosmic", nil, 49},
		{"gallery and music", "cosmic", []string{"feature_gallery", "feature_music"}, 87},
		{"unknown keys ignored", "cosmic", []string{"feature_gallery", "feature_hologram"}, 68},
		{"duplicates count once", "cosmic", []string{"feature_music", "feature_music"}, 68},
		{"theme does not change price", "classic", []string{"feature_gallery", "feature_music"}, 87},
		{"everything", "cosmic", []string{
			"feature_gallery", "feature_music", "feature_timeline", "feature_quiz",
			"feature_gift", "feature_countdown", "feature_password", "feature_scratch",
			"feature_spin", "feature_memory", "feature_video", "feature_confetti",
		}, 49 + 19 + 19 + 29 + 19 + 29 + 9 + 9 + 39 + 39 + 39 + 49 + 9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, Total(tt.theme, tt.features))
		})
	}
}

func TestTotal_OrderIndependent(t *testing.T) {
	a := Total("cosmic", []string{"feature_gallery", "feature_timeline", "feature_quiz"})
	b := Total("cosmic", []string{"feature_quiz", "feature_gallery", "feature_timeline"})
	require.Equal(t, a, b)
}

func TestKnownFeature(t *testing.T) {
	require.True(t, KnownFeature("feature_gallery"))
	require.False(t, KnownFeature("feature_hologram"))
}
