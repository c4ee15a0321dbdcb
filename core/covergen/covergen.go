// Package covergen supplies candidate cover buffers for the encoding
// engine: byte sequences that look like noise, patterns, prose, or
// audio but carry no meaning of their own. All generators except Noise
// are deterministic for a fixed seed, so both ends of a channel can
// materialize identical pools from shared configuration.
package covergen

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"math"
	"strings"

	"github.com/stegoflow/stegoflow/pkg/securerandom"
)

// Generator produces cover buffers of a requested size.
type Generator interface {
	// Kind returns the media tag of the generated covers.
	Kind() string
	// Generate returns a fresh cover of exactly size bytes.
	Generate(size int) ([]byte, error)
}

// ForKind returns a generator by media kind. Everything but "noise"
// derives its output from the seed.
func ForKind(kind, seed string) (Generator, error) {
	switch kind {
	case "noise":
		return &Noise{}, nil
	case "pattern":
		return NewGradient(seed), nil
	case "text":
		return NewText(seed), nil
	case "audio":
		return NewAudio(seed), nil
	default:
		return nil, fmt.Errorf("unknown cover kind: %q", kind)
	}
}

// Noise generates uniformly random covers from the secure source.
// Random covers carry the least statistical structure for the bit
// plane to disturb.
type Noise struct{}

func (g *Noise) Kind() string { return "noise" }

func (g *Noise) Generate(size int) ([]byte, error) {
	return securerandom.Bytes(size)
}

// Gradient generates smooth byte ramps with seeded jitter, mimicking
// sensor or gradient-fill data. Kind "pattern".
type Gradient struct {
	seed string
}

func NewGradient(seed string) *Gradient {
	return &Gradient{seed: seed}
}

func (g *Gradient) Kind() string { return "pattern" }

func (g *Gradient) Generate(size int) ([]byte, error) {
	stream := newByteStream(g.seed, "gradient")
	out := make([]byte, size)
	level := int(stream.next())
	for i := range out {
		// Drift by at most +/-2 per step so the ramp stays smooth.
		level += int(stream.next()%5) - 2
		if level < 0 {
			level += 256
		}
		out[i] = byte(level % 256)
	}
	return out, nil
}

// wordList is the vocabulary for pseudo-prose covers. Unremarkable
// filler words; the content never matters, only its texture.
var wordList = []string{
	"alpha", "bravo", "cloud", "delta", "echo", "foxtrot", "global",
	"hotel", "india", "juliet", "kilo", "lima", "mike", "november",
	"ocean", "papa", "quebec", "romeo", "sierra", "tango", "uniform",
	"victor", "whiskey", "xray", "yankee", "zulu", "meadow", "harbor",
	"lantern", "orchard", "gravel", "timber", "copper", "marble",
	"cedar", "willow", "summit", "valley", "prairie", "granite",
	"amber", "cobalt", "crimson", "ivory", "olive", "russet",
	"morning", "evening", "autumn", "winter", "spring", "summer",
}

// Text generates wordlist-based pseudo-prose from the seeded stream.
type Text struct {
	seed string
}

func NewText(seed string) *Text {
	return &Text{seed: seed}
}

func (g *Text) Kind() string { return "text" }

func (g *Text) Generate(size int) ([]byte, error) {
	stream := newByteStream(g.seed, "text")
	var b strings.Builder
	b.Grow(size + 16)

	sentence := 0
	for b.Len() < size {
		word := wordList[int(stream.next())%len(wordList)]
		if sentence == 0 {
			word = strings.ToUpper(word[:1]) + word[1:]
		}
		b.WriteString(word)
		sentence++
		if sentence >= 6+int(stream.next()%8) {
			b.WriteString(". ")
			sentence = 0
		} else {
			b.WriteString(" ")
		}
	}
	return []byte(b.String())[:size], nil
}

// Audio generates sine-shaped 8-bit PCM with seeded phase noise,
// resembling a mono audio capture. Kind "audio".
type Audio struct {
	seed string
}

func NewAudio(seed string) *Audio {
	return &Audio{seed: seed}
}

func (g *Audio) Kind() string { return "audio" }

func (g *Audio) Generate(size int) ([]byte, error) {
	stream := newByteStream(g.seed, "audio")
	out := make([]byte, size)

	// Base frequency picked from the seed, in cycles per 256 samples.
	freq := 1.0 + float64(stream.next()%16)
	phase := float64(stream.next()) / 255.0 * 2 * math.Pi
	for i := range out {
		jitter := (float64(stream.next()) - 127.5) / 512.0
		sample := math.Sin(2*math.Pi*freq*float64(i)/256.0+phase) + jitter
		if sample > 1 {
			sample = 1
		} else if sample < -1 {
			sample = -1
		}
		out[i] = byte(128 + sample*127)
	}
	return out, nil
}

// byteStream yields deterministic bytes from an HMAC-SHA256 counter
// stream keyed by SHA-256(seed). The label separates the generators so
// one seed feeds each of them a distinct stream.
type byteStream struct {
	key     []byte
	counter uint64
	block   []byte
	offset  int
}

func newByteStream(seed, label string) *byteStream {
	sum := sha256.Sum256([]byte(label + ":" + seed))
	return &byteStream{key: sum[:]}
}

func (s *byteStream) next() byte {
	if s.offset >= len(s.block) {
		var counterBuf [8]byte
		binary.BigEndian.PutUint64(counterBuf[:], s.counter)
		s.counter++
		mac := hmac.New(sha256.New, s.key)
		mac.Write(counterBuf[:])
		s.block = mac.Sum(nil)
		s.offset = 0
	}
	b := s.block[s.offset]
	s.offset++
	return b
}
