// Package preview models the builder→preview live sync: an UPDATE_CONFIG
// envelope carries a partial config snapshot that is shallow-merged into
// the session's state. The protocol is fire-and-forget and tolerates
// dropped or reordered messages — every payload is a self-contained
// partial snapshot, so the worst case is a temporarily stale preview,
// never a corrupt one. Nothing here touches the stores.
package preview

import (
	"encoding/json"
	"reflect"
	"sync"
)

const EnvelopeTypeUpdateConfig = "UPDATE_CONFIG"

// Region names a DOM area of the rendered template. A merge reports which
// regions changed so the preview re-renders only those, and only while
// they are mounted.
type Region string

const (
	RegionLetter    Region = "letter" // sender/partner names + message body
	RegionMusic     Region = "music"
	RegionGift      Region = "gift"
	RegionTimeline  Region = "timeline"
	RegionQuiz      Region = "quiz"
	RegionGallery   Region = "gallery"
	RegionCountdown Region = "countdown"
	RegionFeatures  Region = "features"
)

var allRegions = []Region{
	RegionLetter, RegionMusic, RegionGift, RegionTimeline,
	RegionQuiz, RegionGallery, RegionCountdown, RegionFeatures,
}

type TimelineEntry struct {
	Date        string `json:"date"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

type Quiz struct {
	Question       string   `json:"question"`
	Options        []string `json:"options"`
	CorrectIndex   int      `json:"correctIndex"`
	SuccessMessage string   `json:"successMessage,omitempty"`
}

type Countdown struct {
	Enabled bool   `json:"enabled"`
	Date    string `json:"date"`
}

// ConfigPatch is the payload of an UPDATE_CONFIG envelope. Every field is
// independently optional; absent fields leave existing state untouched.
// Empty strings are treated as absent, matching how the templates have
// always merged builder updates.
type ConfigPatch struct {
	SenderName  *string         `json:"senderName,omitempty"`
	PartnerName *string         `json:"partnerName,omitempty"`
	Message     *string         `json:"message,omitempty"`
	MusicURL    *string         `json:"musicUrl,omitempty"`
	GiftURL     *string         `json:"giftUrl,omitempty"`
	Timeline    []TimelineEntry `json:"timeline,omitempty"`
	Quiz        *Quiz           `json:"quiz,omitempty"`
	Gallery     []string        `json:"gallery,omitempty"`
	Countdown   *Countdown      `json:"countdown,omitempty"`
	Features    []string        `json:"features,omitempty"`
}

type Envelope struct {
	Type    string       `json:"type"`
	Payload *ConfigPatch `json:"payload,omitempty"`
}

// Config is the session's merged state.
type Config struct {
	SenderName  string          `json:"senderName,omitempty"`
	PartnerName string          `json:"partnerName,omitempty"`
	Message     string          `json:"message,omitempty"`
	MusicURL    string          `json:"musicUrl,omitempty"`
	GiftURL     string          `json:"giftUrl,omitempty"`
	Timeline    []TimelineEntry `json:"timeline,omitempty"`
	Quiz        *Quiz           `json:"quiz,omitempty"`
	Gallery     []string        `json:"gallery,omitempty"`
	Countdown   *Countdown      `json:"countdown,omitempty"`
	Features    []string        `json:"features,omitempty"`
}

// Session is an owned, explicit preview state — never a shared global.
// It is mutated only through Apply.
type Session struct {
	mu      sync.Mutex
	cfg     Config
	mounted map[Region]bool
	pending map[Region]bool // changed while unmounted; rendered on mount
}

func NewSession() *Session {
	s := &Session{
		mounted: make(map[Region]bool, len(allRegions)),
		pending: make(map[Region]bool),
	}
	for _, r := range allRegions {
		s.mounted[r] = true
	}
	return s
}

// Apply merges one envelope. Envelopes of any other type are ignored (the
// channel is shared and may carry unrelated messages). The returned
// regions are the ones to re-render now: changed and currently mounted.
// Changes to unmounted regions are parked until SetMounted.
func (s *Session) Apply(env Envelope) []Region {
	if env.Type != EnvelopeTypeUpdateConfig || env.Payload == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	changed := s.merge(env.Payload)

	var render []Region
	for _, r := range changed {
		if s.mounted[r] {
			render = append(render, r)
		} else {
			s.pending[r] = true
		}
	}
	return render
}

// ApplyRaw decodes a wire message and applies it. Malformed or foreign
// messages are dropped silently.
func (s *Session) ApplyRaw(raw []byte) []Region {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil
	}
	return s.Apply(env)
}

// SetMounted flips a region's visibility. Mounting a region with parked
// changes returns it so the caller re-renders once, now.
func (s *Session) SetMounted(r Region, mounted bool) []Region {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.mounted[r] = mounted
	if mounted && s.pending[r] {
		delete(s.pending, r)
		return []Region{r}
	}
	return nil
}

// Config returns a copy of the merged state.
func (s *Session) Config() Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg
}

// Snapshot packages the full current state as one UPDATE_CONFIG envelope,
// used to bring a late-joining preview up to date in a single message.
func (s *Session) Snapshot() Envelope {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := &ConfigPatch{
		Timeline:  s.cfg.Timeline,
		Quiz:      s.cfg.Quiz,
		Gallery:   s.cfg.Gallery,
		Countdown: s.cfg.Countdown,
		Features:  s.cfg.Features,
	}
	setIfNonEmpty := func(dst **string, v string) {
		if v != "" {
			val := v
			*dst = &val
		}
	}
	setIfNonEmpty(&p.SenderName, s.cfg.SenderName)
	setIfNonEmpty(&p.PartnerName, s.cfg.PartnerName)
	setIfNonEmpty(&p.Message, s.cfg.Message)
	setIfNonEmpty(&p.MusicURL, s.cfg.MusicURL)
	setIfNonEmpty(&p.GiftURL, s.cfg.GiftURL)

	return Envelope{Type: EnvelopeTypeUpdateConfig, Payload: p}
}

// merge applies the patch field by field and reports the regions whose
// backing data actually changed. Caller holds the lock.
func (s *Session) merge(p *ConfigPatch) []Region {
	var changed []Region
	mark := func(r Region) {
		for _, c := range changed {
			if c == r {
				return
			}
		}
		changed = append(changed, r)
	}

	applyStr := func(dst *string, src *string, r Region) {
		if src != nil && *src != "" && *dst != *src {
			*dst = *src
			mark(r)
		}
	}

	applyStr(&s.cfg.SenderName, p.SenderName, RegionLetter)
	applyStr(&s.cfg.PartnerName, p.PartnerName, RegionLetter)
	applyStr(&s.cfg.Message, p.Message, RegionLetter)
	applyStr(&s.cfg.MusicURL, p.MusicURL, RegionMusic)
	applyStr(&s.cfg.GiftURL, p.GiftURL, RegionGift)

	if p.Timeline != nil && !reflect.DeepEqual(s.cfg.Timeline, p.Timeline) {
		s.cfg.Timeline = p.Timeline
		mark(RegionTimeline)
	}
	if p.Quiz != nil && !reflect.DeepEqual(s.cfg.Quiz, p.Quiz) {
		s.cfg.Quiz = p.Quiz
		mark(RegionQuiz)
	}
	if p.Gallery != nil && !reflect.DeepEqual(s.cfg.Gallery, p.Gallery) {
		s.cfg.Gallery = p.Gallery
		mark(RegionGallery)
	}
	if p.Countdown != nil && !reflect.DeepEqual(s.cfg.Countdown, p.Countdown) {
		s.cfg.Countdown = p.Countdown
		mark(RegionCountdown)
	}
	if p.Features != nil && !reflect.DeepEqual(s.cfg.Features, p.Features) {
		s.cfg.Features = p.Features
		mark(RegionFeatures)
		mark(RegionMusic) // feature flags toggle the music player
	}

	return changed
}
