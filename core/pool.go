package core

import "github.com/stegoflow/stegoflow/core/codec"

// fallbackCapacity is the codec-agnostic estimate used when a cover is
// added before any codec is set. Close enough for pool accounting; the
// real value is recomputed as soon as a codec arrives.
func fallbackCapacity(dataLen int) int {
	if dataLen < codec.HeaderBytes {
		return 0
	}
	return (dataLen - codec.HeaderBytes) / 8
}

// coverPool is the ordered cover sequence plus the round-robin cursor.
// Not safe for concurrent use on its own; the Engine mutex guards it.
type coverPool struct {
	media  []CoverMedium
	cursor int
}

// add normalizes and appends one cover. The data is copied so later
// caller-side mutation of the source buffer is never observable.
func (p *coverPool) add(m CoverMedium, active codec.Codec) {
	data := make([]byte, len(m.Data))
	copy(data, m.Data)
	m.Data = data
	if active != nil {
		m.Capacity = active.CalculateCapacity(m.Data)
	} else {
		m.Capacity = fallbackCapacity(len(m.Data))
	}
	p.media = append(p.media, m)
}

// next returns the cover at the cursor and advances it, wrapping at
// the end. Returns nil when the pool is empty.
func (p *coverPool) next() *CoverMedium {
	if len(p.media) == 0 {
		return nil
	}
	m := &p.media[p.cursor]
	p.cursor = (p.cursor + 1) % len(p.media)
	return m
}

// replace drops every entry and resets the cursor.
func (p *coverPool) replace() {
	p.media = nil
	p.cursor = 0
}

// recompute refreshes every entry's capacity under the given codec.
// Called whenever the active codec changes so pool accounting never
// goes stale.
func (p *coverPool) recompute(active codec.Codec) {
	for i := range p.media {
		if active != nil {
			p.media[i].Capacity = active.CalculateCapacity(p.media[i].Data)
		} else {
			p.media[i].Capacity = fallbackCapacity(len(p.media[i].Data))
		}
	}
}

// stats aggregates the pool without side effects.
func (p *coverPool) stats() PoolStats {
	s := PoolStats{Size: len(p.media)}
	if s.Size == 0 {
		return s
	}
	s.MinCapacity = p.media[0].Capacity
	for _, m := range p.media {
		s.TotalCapacity += m.Capacity
		if m.Capacity < s.MinCapacity {
			s.MinCapacity = m.Capacity
		}
	}
	s.AverageCapacity = float64(s.TotalCapacity) / float64(s.Size)
	return s
}
