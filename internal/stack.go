package internal

const stackDepth = 16

// callStack holds return addresses of subroutine calls. It never grows past
// stackDepth entries.
type callStack struct {
	sp    uint8              // Stack pointer, number of saved addresses
	slots [stackDepth]uint16 // A stack of 16 16-bit values
}

func (s *callStack) push(addr uint16) error {
	if int(s.sp) == len(s.slots) {
		return ErrStackOverflow
	}
	s.slots[s.sp] = addr
	s.sp++
	return nil
}

func (s *callStack) pop() (uint16, error) {
	if s.sp == 0 {
		return 0, ErrStackUnderflow
	}
	s.sp--
	return s.slots[s.sp], nil
}

func (s *callStack) depth() int {
	return int(s.sp)
}
