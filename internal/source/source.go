// Package source reads sensor frames and feeds them to the dispatcher.
package source

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/airpen/airpen/pkg/core"
)

// ErrBadFrame marks a frame that could not be decoded. The stream itself is
// still readable and the next frame can be requested.
var ErrBadFrame = errors.New("bad frame")

// Source produces sensor frames. Next returns io.EOF when the stream ends.
// A device SDK binding implements Source the same way the JSON replay does.
type Source interface {
	Next() (core.Frame, error)
}

// JSONSource decodes a stream of JSON frame objects, one after another.
type JSONSource struct {
	dec   *json.Decoder
	count int64
}

// NewJSONSource reads frames from r.
func NewJSONSource(r io.Reader) *JSONSource {
	return &JSONSource{dec: json.NewDecoder(bufio.NewReader(r))}
}

// Next decodes the next frame.
func (s *JSONSource) Next() (core.Frame, error) {
	var f core.Frame
	err := s.dec.Decode(&f)
	if err == nil {
		s.count++
		if err := validate(f); err != nil {
			return core.Frame{}, fmt.Errorf("%w %d: %v", ErrBadFrame, s.count, err)
		}
		return f, nil
	}
	if errors.Is(err, io.EOF) {
		return core.Frame{}, io.EOF
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		s.count++
		return core.Frame{}, fmt.Errorf("%w %d: %v", ErrBadFrame, s.count, err)
	}
	return core.Frame{}, fmt.Errorf("decoding frame %d: %w", s.count+1, err)
}

func validate(f core.Frame) error {
	for _, h := range f.Hands {
		if h.ExtendedFingers < 0 {
			return fmt.Errorf("hand %d: negative extended finger count", h.ID)
		}
	}
	return nil
}
