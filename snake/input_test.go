package snake

import (
	"sync"
	"testing"

	"github.com/hoshinonyaruko/gridsnake/structs"
)

func TestInputSlot(t *testing.T) {
	var s InputSlot

	if _, ok := s.Take(); ok {
		t.Fatal("empty slot returned a direction")
	}

	s.Push(structs.Up)
	s.Push(structs.Left)
	if d, ok := s.Take(); !ok || d != structs.Left {
		t.Errorf("Take() = %v (%v), want left", d, ok)
	}
	if _, ok := s.Take(); ok {
		t.Error("Take should clear the slot")
	}

	if s.Push(structs.Direction{DX: 3}) {
		t.Error("non-canonical direction should be rejected")
	}
	if _, ok := s.Take(); ok {
		t.Error("rejected direction must not be buffered")
	}
}

func TestInputSlotConcurrentWriters(t *testing.T) {
	var s InputSlot
	var wg sync.WaitGroup

	for _, d := range structs.Directions {
		wg.Add(1)
		go func(d structs.Direction) {
			defer wg.Done()
			for i := 0; i < 1000; i++ {
				s.Push(d)
			}
		}(d)
	}

	done := make(chan struct{})
	readerDone := make(chan struct{})
	go func() {
		defer close(readerDone)
		for {
			select {
			case <-done:
				return
			default:
				if d, ok := s.Take(); ok && !d.Valid() {
					t.Errorf("torn read: %+v", d)
				}
			}
		}
	}()

	wg.Wait()
	close(done)
	<-readerDone

	if d, ok := s.Take(); ok && !d.Valid() {
		t.Errorf("final value %+v is not canonical", d)
	}
}
