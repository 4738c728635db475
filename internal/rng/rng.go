package rng

// Source is a deterministic 32-bit pseudo-random stream (Mulberry32).
// All arithmetic is uint32 wraparound, so a seed reproduces the same
// sequence on every platform.
type Source struct {
	state uint32
}

// New returns a Source seeded with seed.
func New(seed uint32) *Source {
	return &Source{state: seed}
}

// Seed resets the stream to the start of the sequence for seed.
func (s *Source) Seed(seed uint32) {
	s.state = seed
}

// Next advances the state and returns the next value.
func (s *Source) Next() uint32 {
	s.state += 0x6D2B79F5
	t := s.state
	t = (t ^ (t >> 15)) * (t | 1)
	t ^= t + (t^(t>>7))*(t|61)
	return t ^ (t >> 14)
}

// Intn returns a value in [0, n). It panics if n <= 0.
func (s *Source) Intn(n int) int {
	if n <= 0 {
		panic("rng: Intn called with n <= 0")
	}
	return int(s.Next() % uint32(n))
}

// Float32 returns a value in [0, 1) built from the top 24 bits, so the
// conversion is exact.
func (s *Source) Float32() float32 {
	return float32(s.Next()>>8) / (1 << 24)
}

// Mix hashes seed and salt into a well-distributed value without touching
// any stream. Used to derive independent sub-seeds and per-cell decisions.
func Mix(seed, salt uint32) uint32 {
	h := seed ^ salt*0x9e3779b1
	h ^= h >> 16
	h *= 0x7feb352d
	h ^= h >> 15
	h *= 0x846ca68b
	h ^= h >> 16
	return h
}

// Mix2 hashes a seed with a pair of integer coordinates.
func Mix2(seed uint32, x, z int) uint32 {
	h := seed
	h ^= uint32(int32(x)) * 0x9e3779b1
	h ^= uint32(int32(z)) * 0x85ebca6b
	return Mix(h, 0)
}
