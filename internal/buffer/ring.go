package buffer

// Ring is a ring buffer keeping the last x float values.
type Ring struct {
	index  int
	count  int
	values []float64
}

// NewRing creates a new ring with the given buffer size.
func NewRing(size int) *Ring {
	return &Ring{
		values: make([]float64, size),
	}
}

// Push adds an element to the ring.
func (r *Ring) Push(v float64) {
	r.values[r.index] = v
	r.index = r.next(r.index)
	r.count++
}

// Size returns the number of elements within the ring.
func (r *Ring) Size() int {
	if r.count < len(r.values) {
		return r.count
	}
	return len(r.values)
}

// Full returns true when the ring wrapped around at least once.
func (r *Ring) Full() bool {
	return r.count >= len(r.values)
}

// Last returns the most recently pushed element.
func (r *Ring) Last() float64 {
	if r.count == 0 {
		return 0
	}
	return r.values[(r.index-1+len(r.values))%len(r.values)]
}

// Get returns an ordered slice of the ring elements, oldest first.
func (r *Ring) Get() []float64 {
	l := r.Size()
	v := make([]float64, l)
	for i := 0; i < l; i++ {
		idx := i
		if r.count > l {
			idx = (r.index + i) % len(r.values)
		}
		v[i] = r.values[idx]
	}
	return v
}

func (r *Ring) next(index int) int {
	return (index + 1) % len(r.values)
}
