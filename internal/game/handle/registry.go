package handle

// Registry is an arena of handle slots with per-slot generation counters.
// Released slots are reused, but with a bumped generation, so stale handles
// held by other owners stay dead and releasing them twice is harmless.
//
// Not safe for concurrent use: the engine runs on a single update goroutine.
type Registry struct {
	gens []uint32
	live []bool
	free []uint32
	n    int
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		gens: make([]uint32, 0, 32),
		live: make([]bool, 0, 32),
	}
}

// New issues a fresh handle.
func (r *Registry) New() Handle {
	var idx uint32
	if n := len(r.free); n > 0 {
		idx = r.free[n-1]
		r.free = r.free[:n-1]
	} else {
		idx = uint32(len(r.gens))
		r.gens = append(r.gens, 1)
		r.live = append(r.live, false)
	}
	r.live[idx] = true
	r.n++
	return Handle{index: idx, gen: r.gens[idx]}
}

// Release frees the slot behind h.
// Returns false if h is invalid, stale or already released.
func (r *Registry) Release(h Handle) bool {
	if !r.Alive(h) {
		return false
	}
	r.live[h.index] = false
	r.gens[h.index]++
	if r.gens[h.index] == 0 {
		r.gens[h.index] = 1 // generation 0 is reserved for Invalid
	}
	r.free = append(r.free, h.index)
	r.n--
	return true
}

// Alive reports whether h is currently registered.
func (r *Registry) Alive(h Handle) bool {
	if !h.IsValid() || int(h.index) >= len(r.gens) {
		return false
	}
	return r.live[h.index] && r.gens[h.index] == h.gen
}

// Len returns the number of live handles.
func (r *Registry) Len() int {
	return r.n
}
