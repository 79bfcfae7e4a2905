package snake

import (
	"sync/atomic"

	"github.com/hoshinonyaruko/gridsnake/structs"
)

// InputSlot buffers at most one direction between ticks. Writers may run on
// any goroutine; the tick reads and clears it with a single swap.
type InputSlot struct {
	v atomic.Int32 // 0 表示空，否则是 Directions 下标+1
}

// Push overwrites the buffered direction. Non-canonical directions are ignored.
func (s *InputSlot) Push(d structs.Direction) bool {
	for i, c := range structs.Directions {
		if d == c {
			s.v.Store(int32(i + 1))
			return true
		}
	}
	return false
}

// Take returns and clears the buffered direction.
func (s *InputSlot) Take() (structs.Direction, bool) {
	i := s.v.Swap(0)
	if i == 0 {
		return structs.Direction{}, false
	}
	return structs.Directions[i-1], true
}
