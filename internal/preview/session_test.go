package preview

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strp(s string) *string { return &s }

func TestApply_PartialMergeLeavesOtherFieldsAlone(t *testing.T) {
	s := NewSession()
	s.Apply(Envelope{Type: EnvelopeTypeUpdateConfig, Payload: &ConfigPatch{
		Gallery: []string{"a.jpg", "b.jpg"},
	}})

	changed := s.Apply(Envelope{Type: EnvelopeTypeUpdateConfig, Payload: &ConfigPatch{
		PartnerName: strp("Sam"),
	}})

	require.Equal(t, []Region{RegionLetter}, changed)
	cfg := s.Config()
	assert.Equal(t, "Sam", cfg.PartnerName)
	assert.Equal(t, []string{"a.jpg", "b.jpg"}, cfg.Gallery, "unrelated fields must not move")
}

func TestApply_IgnoresForeignEnvelopes(t *testing.T) {
	s := NewSession()
	require.Nil(t, s.Apply(Envelope{Type: "CHAT_MESSAGE", Payload: &ConfigPatch{PartnerName: strp("Sam")}}))
	require.Nil(t, s.Apply(Envelope{Type: EnvelopeTypeUpdateConfig}))
	assert.Equal(t, "", s.Config().PartnerName)
}

func TestApply_EmptyStringsAreAbsent(t *testing.T) {
	s := NewSession()
	s.Apply(Envelope{Type: EnvelopeTypeUpdateConfig, Payload: &ConfigPatch{Message: strp("hello")}})
	changed := s.Apply(Envelope{Type: EnvelopeTypeUpdateConfig, Payload: &ConfigPatch{Message: strp("")}})
	require.Empty(t, changed)
	assert.Equal(t, "hello", s.Config().Message)
}

func TestApply_NoChangeNoRender(t *testing.T) {
	s := NewSession()
	s.Apply(Envelope{Type: EnvelopeTypeUpdateConfig, Payload: &ConfigPatch{PartnerName: strp("Sam")}})
	// same partial snapshot again: dropped or re-sent messages are harmless
	changed := s.Apply(Envelope{Type: EnvelopeTypeUpdateConfig, Payload: &ConfigPatch{PartnerName: strp("Sam")}})
	require.Empty(t, changed)
}

func TestApply_UnmountedRegionDefersRender(t *testing.T) {
	s := NewSession()
	s.SetMounted(RegionTimeline, false)

	changed := s.Apply(Envelope{Type: EnvelopeTypeUpdateConfig, Payload: &ConfigPatch{
		Timeline: []TimelineEntry{{Date: "2023", Title: "First date"}},
	}})
	require.Empty(t, changed, "invisible region must not render eagerly")

	// state still merged
	require.Len(t, s.Config().Timeline, 1)

	// mounting flushes the parked render exactly once
	require.Equal(t, []Region{RegionTimeline}, s.SetMounted(RegionTimeline, true))
	require.Nil(t, s.SetMounted(RegionTimeline, true))
}

func TestApply_FeatureFlagsTouchMusicRegion(t *testing.T) {
	s := NewSession()
	changed := s.Apply(Envelope{Type: EnvelopeTypeUpdateConfig, Payload: &ConfigPatch{
		Features: []string{"feature_music"},
	}})
	assert.Contains(t, changed, RegionFeatures)
	assert.Contains(t, changed, RegionMusic)
}

func TestApplyRaw_MalformedDropped(t *testing.T) {
	s := NewSession()
	require.Nil(t, s.ApplyRaw([]byte("not json")))
	require.Nil(t, s.ApplyRaw([]byte(`{"type":"PING"}`)))

	changed := s.ApplyRaw([]byte(`{"type":"UPDATE_CONFIG","payload":{"senderName":"Ava"}}`))
	require.Equal(t, []Region{RegionLetter}, changed)
	assert.Equal(t, "Ava", s.Config().SenderName)
}

func TestSnapshot_RoundTripsIntoFreshSession(t *testing.T) {
	s := NewSession()
	s.Apply(Envelope{Type: EnvelopeTypeUpdateConfig, Payload: &ConfigPatch{
		PartnerName: strp("Sam"),
		Message:     strp("see you at 7"),
		Gallery:     []string{"x.jpg"},
		Quiz:        &Quiz{Question: "where?", Options: []string{"park", "cafe"}, CorrectIndex: 1},
	}})

	late := NewSession()
	late.Apply(s.Snapshot())

	assert.Equal(t, s.Config(), late.Config())
}
