package crypto

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

var ErrInvalidBound = errors.New("random bound must be positive")

// randomStream hands out uniform integers backed by a secure reader.
// Bytes are read in one batch up front and refilled only when rejection
// sampling eats into the reserve.
type randomStream struct {
	r   io.Reader
	buf []byte
	off int
}

func newRandomStream(r io.Reader, values int) (*randomStream, error) {
	if values < 1 {
		values = 1
	}
	s := &randomStream{r: r, buf: make([]byte, 4*values)}
	if err := s.fill(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *randomStream) fill() error {
	if _, err := io.ReadFull(s.r, s.buf); err != nil {
		return fmt.Errorf("reading random source: %w", err)
	}
	s.off = 0
	return nil
}

func (s *randomStream) uint32() (uint32, error) {
	if s.off+4 > len(s.buf) {
		if err := s.fill(); err != nil {
			return 0, err
		}
	}
	v := binary.BigEndian.Uint32(s.buf[s.off:])
	s.off += 4
	return v, nil
}

// intn returns a uniform value in [0, n). Raw values that fall in the
// incomplete top bucket are discarded so no residue is favoured.
func (s *randomStream) intn(n int) (int, error) {
	if n <= 0 {
		return 0, ErrInvalidBound
	}
	bound := uint64(n)
	limit := (1 << 32) - (1<<32)%bound
	for {
		v, err := s.uint32()
		if err != nil {
			return 0, err
		}
		if uint64(v) < limit {
			return int(uint64(v) % bound), nil
		}
	}
}
