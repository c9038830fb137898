package bnfuzz

import "encoding/binary"

// Source is the oracle: an ordered, finite stream of fuzzer bytes read
// through typed requests. A request that needs more bytes than remain fails
// with ErrOutOfData and consumes nothing.
//
// Two Sources over the same bytes answer the same sequence of requests
// identically. A Source is not safe for concurrent use.
type Source struct {
	data []byte
	off  int
}

// NewSource reads from data. data is not copied and must not change while
// the Source is in use.
func NewSource(data []byte) *Source {
	return &Source{data: data}
}

func (s *Source) take(n int) ([]byte, error) {
	if n < 0 || n > len(s.data)-s.off {
		return nil, ErrOutOfData
	}
	b := s.data[s.off : s.off+n]
	s.off += n
	return b, nil
}

// Bool reads one byte; odd is true.
func (s *Source) Bool() (bool, error) {
	b, err := s.take(1)
	if err != nil {
		return false, err
	}
	return b[0]&1 == 1, nil
}

func (s *Source) Uint8() (uint8, error) {
	b, err := s.take(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (s *Source) Uint16() (uint16, error) {
	b, err := s.take(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

func (s *Source) Uint32() (uint32, error) {
	b, err := s.take(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (s *Source) Uint64() (uint64, error) {
	b, err := s.take(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

// Bytes reads exactly n bytes into a new slice.
func (s *Source) Bytes(n int) ([]byte, error) {
	b, err := s.take(n)
	if err != nil {
		return nil, err
	}
	return append([]byte(nil), b...), nil
}

// Data reads a uint32 length, then that many bytes. If the length is read
// but the bytes are short, the length stays consumed.
func (s *Source) Data() ([]byte, error) {
	n, err := s.Uint32()
	if err != nil {
		return nil, err
	}
	if uint64(n) > uint64(s.Remaining()) {
		return nil, ErrOutOfData
	}
	return s.Bytes(int(n))
}

// Choose picks one of n call paths: one byte modulo n, or 0 once the
// Source is exhausted. n must be positive.
func (s *Source) Choose(n int) int {
	if n <= 0 {
		panic("bnfuzz: choose from empty set")
	}
	b, err := s.Uint8()
	if err != nil {
		return 0
	}
	return int(b) % n
}

// Remaining returns the number of unread bytes.
func (s *Source) Remaining() int { return len(s.data) - s.off }

// Consumed returns the number of bytes read so far.
func (s *Source) Consumed() int { return s.off }
