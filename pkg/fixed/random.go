package fixed

// Random returns a pseudo-random value derived from seed. The same seed
// always yields the same value.
func Random(seed uint64) uint64 {
	z := seed + 0x9e3779b97f4a7c15
	z = (z ^ z>>30) * 0xbf58476d1ce4e5b9
	z = (z ^ z>>27) * 0x94d049bb133111eb
	return z ^ z>>31
}

// RandomRange returns a pseudo-random value in [lo, hi).
func RandomRange(seed uint64, lo, hi Fixed) Fixed {
	if hi <= lo {
		return lo
	}
	return lo + Fixed(Random(seed)%uint64(hi-lo))
}
