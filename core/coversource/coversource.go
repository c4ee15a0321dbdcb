// Package coversource normalizes JSON-shaped model-provider stream
// chunks into plain text, so live chat traffic can feed the cover
// pool. The engine never depends on this package; it only consumes the
// bytes it yields.
package coversource

import (
	"bufio"
	"bytes"
	"encoding/json"
	"io"
	"strings"
)

// openaiChunk covers both streaming deltas and full completions.
type openaiChunk struct {
	Choices []struct {
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// anthropicChunk covers content_block_delta and content_block_start
// events.
type anthropicChunk struct {
	Delta struct {
		Text string `json:"text"`
	} `json:"delta"`
	ContentBlock struct {
		Text string `json:"text"`
	} `json:"content_block"`
}

// geminiChunk covers generateContent responses.
type geminiChunk struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// ExtractText pulls assistant text out of a JSON-shaped provider
// chunk. It recognizes the OpenAI, Anthropic, and Gemini stream
// shapes; anything else (including malformed JSON) yields ("", false).
func ExtractText(chunk []byte) (string, bool) {
	chunk = bytes.TrimSpace(chunk)
	if len(chunk) == 0 || chunk[0] != '{' {
		return "", false
	}

	var openai openaiChunk
	if err := json.Unmarshal(chunk, &openai); err == nil && len(openai.Choices) > 0 {
		var b strings.Builder
		for _, choice := range openai.Choices {
			b.WriteString(choice.Delta.Content)
			b.WriteString(choice.Message.Content)
		}
		if b.Len() > 0 {
			return b.String(), true
		}
	}

	var anthropic anthropicChunk
	if err := json.Unmarshal(chunk, &anthropic); err == nil {
		if anthropic.Delta.Text != "" {
			return anthropic.Delta.Text, true
		}
		if anthropic.ContentBlock.Text != "" {
			return anthropic.ContentBlock.Text, true
		}
	}

	var gemini geminiChunk
	if err := json.Unmarshal(chunk, &gemini); err == nil && len(gemini.Candidates) > 0 {
		var b strings.Builder
		for _, cand := range gemini.Candidates {
			for _, part := range cand.Content.Parts {
				b.WriteString(part.Text)
			}
		}
		if b.Len() > 0 {
			return b.String(), true
		}
	}

	return "", false
}

const (
	ssePrefix   = "data: "
	sseSentinel = "[DONE]"
)

// Scanner accumulates cover text from a server-sent-event stream of
// provider chunks. Lines without the SSE data prefix and chunks no
// provider shape matches are skipped, never fatal.
type Scanner struct {
	scanner *bufio.Scanner
	text    strings.Builder
	done    bool
}

// NewScanner wraps a reader of SSE lines.
func NewScanner(r io.Reader) *Scanner {
	return &Scanner{scanner: bufio.NewScanner(r)}
}

// Scan consumes the next data line, returning false at end of stream
// or at the [DONE] sentinel.
func (s *Scanner) Scan() bool {
	for !s.done && s.scanner.Scan() {
		line := strings.TrimSpace(s.scanner.Text())
		if !strings.HasPrefix(line, ssePrefix) {
			continue
		}
		payload := strings.TrimPrefix(line, ssePrefix)
		if payload == sseSentinel {
			s.done = true
			return false
		}
		if text, ok := ExtractText([]byte(payload)); ok {
			s.text.WriteString(text)
		}
		return true
	}
	return false
}

// Text returns all cover text accumulated so far.
func (s *Scanner) Text() string {
	return s.text.String()
}

// Err surfaces any underlying read error.
func (s *Scanner) Err() error {
	return s.scanner.Err()
}

// Drain consumes the whole stream and returns the accumulated text.
func (s *Scanner) Drain() (string, error) {
	for s.Scan() {
	}
	return s.Text(), s.Err()
}
