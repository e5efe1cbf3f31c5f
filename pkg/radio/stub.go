package radio

import "sync"

// Stub is a host-side radio that keeps the last frames it sent in memory.
type Stub struct {
	mu        sync.Mutex
	InitErr   error
	SendErr   error
	frequency float64
	ready     bool
	tx        ringBuffer
}

func NewStub() *Stub { return &Stub{} }

func (s *Stub) Initialize(frequencyHz float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.InitErr != nil {
		return s.InitErr
	}
	if _, err := CheckFrequency(frequencyHz); err != nil {
		return err
	}
	s.frequency = frequencyHz
	s.ready = true
	return nil
}

func (s *Stub) Send(payload []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.ready {
		return ErrRadioNotReady
	}
	if s.SendErr != nil {
		return s.SendErr
	}
	frame := make([]byte, len(payload))
	copy(frame, payload)
	s.tx.push(frame)
	return nil
}

func (s *Stub) Frequency() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frequency
}

// TxLog returns copies of the frames sent so far, oldest first.
func (s *Stub) TxLog() [][]byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tx.snapshot()
}

const ringCapacity = 64

type ringBuffer struct {
	data       [ringCapacity][]byte
	head, tail int // head = next pop, tail = next push
	count      int
}

func (rb *ringBuffer) push(frame []byte) {
	if rb.count == ringCapacity {
		// overwrite the oldest so memory stays bounded
		rb.head = (rb.head + 1) % ringCapacity
		rb.count--
	}
	rb.data[rb.tail] = frame
	rb.tail = (rb.tail + 1) % ringCapacity
	rb.count++
}

func (rb *ringBuffer) snapshot() [][]byte {
	out := make([][]byte, 0, rb.count)
	for c, i := 0, rb.head; c < rb.count; c, i = c+1, (i+1)%ringCapacity {
		cp := make([]byte, len(rb.data[i]))
		copy(cp, rb.data[i])
		out = append(out, cp)
	}
	return out
}
