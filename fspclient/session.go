package fspclient

// sessionState is the per-client FSP session: a 16-bit key (initially
// zero, replaced by any non-zero key observed in a server response), a
// 16-bit sequence counter (wraps modulo 2^16), and an initialized flag
// flipped true after the first successful handshake. There is no retry
// bookkeeping here; retry policy is the caller's responsibility.
type sessionState struct {
	key         uint16
	sequence    uint16
	initialized bool
}

// nextSequence returns the sequence number to stamp on the packet being
// built, then advances the counter modulo 2^16 immediately after, so a
// failed request still consumes a sequence number.
func (s *sessionState) nextSequence() uint16 {
	seq := s.sequence
	s.sequence++
	return seq
}

// adopt updates the session key when the server returns a non-zero key.
// The key advances with every non-zero key observed; once advanced,
// earlier keys are invalid.
func (s *sessionState) adopt(key uint16) {
	if key != 0 {
		s.key = key
	}
}
