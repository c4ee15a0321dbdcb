package transport

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"net"

	"github.com/stegoflow/stegoflow/core"
)

// ConnOption configures a steganographic connection.
type ConnOption func(*Conn)

// WithCompression selects the envelope compression for outgoing
// frames. Incoming frames always honor their own tag.
func WithCompression(comp Compression) ConnOption {
	return func(c *Conn) { c.comp = comp }
}

// WithChunkSize caps the payload bytes carried per frame. The default
// is the engine pool's minimum capacity, which every cover can hold.
func WithChunkSize(n int) ConnOption {
	return func(c *Conn) { c.chunk = n }
}

// Conn is a net.Conn that hides every written byte inside cover media
// before it touches the wire. Each Write becomes one or more
// length-prefixed envelopes; each Read opens envelopes and decodes
// their steg buffers back into plaintext. Both sides need engines with
// compatible codecs and seeds.
type Conn struct {
	net.Conn
	engine  *core.Engine
	comp    Compression
	chunk   int
	readBuf bytes.Buffer
}

// NewConn wraps an established connection with a steganographic layer
// driven by the given engine.
func NewConn(inner net.Conn, engine *core.Engine, opts ...ConnOption) *Conn {
	c := &Conn{Conn: inner, engine: engine, comp: CompressionNone}
	for _, opt := range opts {
		opt(c)
	}
	if c.chunk <= 0 {
		c.chunk = engine.PoolStats().MinCapacity
	}
	return c
}

// Write implements net.Conn. The payload is chunked so every frame
// fits whichever cover the round-robin hands out next.
func (c *Conn) Write(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if c.chunk <= 0 {
		return 0, fmt.Errorf("cover pool cannot carry any payload")
	}

	written := 0
	for written < len(p) {
		end := written + c.chunk
		if end > len(p) {
			end = len(p)
		}

		result, err := c.engine.Encode(p[written:end])
		if err != nil {
			return written, fmt.Errorf("steg encode: %w", err)
		}
		if !result.Success {
			return written, fmt.Errorf("steg encode: %s", result.Error)
		}

		frame, err := Seal(result.Data, result.Codec, c.comp)
		if err != nil {
			return written, fmt.Errorf("seal frame: %w", err)
		}
		if err := c.writeFrame(frame); err != nil {
			return written, err
		}
		written = end
	}
	return written, nil
}

// Read implements net.Conn, draining buffered plaintext before
// pulling the next frame off the wire.
func (c *Conn) Read(p []byte) (int, error) {
	for c.readBuf.Len() == 0 {
		frame, err := c.readFrame()
		if err != nil {
			return 0, err
		}

		steg, _, err := Open(frame)
		if err != nil {
			return 0, fmt.Errorf("open frame: %w", err)
		}

		result := c.engine.Decode(steg)
		if !result.Success {
			return 0, fmt.Errorf("steg decode: %s", result.Error)
		}
		c.readBuf.Write(result.Data)
	}
	return c.readBuf.Read(p)
}

// writeFrame sends one envelope with a uint32 big-endian length
// prefix.
func (c *Conn) writeFrame(frame []byte) error {
	var prefix [4]byte
	binary.BigEndian.PutUint32(prefix[:], uint32(len(frame)))
	if _, err := c.Conn.Write(prefix[:]); err != nil {
		return fmt.Errorf("write frame prefix: %w", err)
	}
	if _, err := c.Conn.Write(frame); err != nil {
		return fmt.Errorf("write frame: %w", err)
	}
	return nil
}

func (c *Conn) readFrame() ([]byte, error) {
	var prefix [4]byte
	if _, err := io.ReadFull(c.Conn, prefix[:]); err != nil {
		return nil, err
	}
	length := binary.BigEndian.Uint32(prefix[:])
	if length == 0 {
		return nil, fmt.Errorf("zero-length frame")
	}
	// Envelopes add bounded overhead on top of the steg buffer limit.
	if length > maxEnvelopeSize+4096 {
		return nil, fmt.Errorf("frame of %d bytes exceeds the envelope limit", length)
	}

	frame := make([]byte, length)
	if _, err := io.ReadFull(c.Conn, frame); err != nil {
		return nil, fmt.Errorf("read frame: %w", err)
	}
	return frame, nil
}
