package allocator

// SizeClassConfig is the ordered list of upper bounds (inclusive, in bytes)
// for each free-list size class. The last class has no upper bound — any
// size that doesn't fit an earlier class lands there. Generalized into a
// struct (rather than a hardcoded table) so callers can substitute a
// different bracket strategy for benchmarking, the way the teacher's own
// size-class table is config-driven; DefaultSizeClasses reproduces the
// literal brackets this spec calls for.
type SizeClassConfig struct {
	// Bounds holds the upper bound of every class except the last, which is
	// implicitly unbounded. Must be strictly increasing.
	Bounds []uint32
}

// DefaultSizeClasses is the 13-class table: class 1 covers sizes up to 32
// bytes, classes 2..12 double from 64 up to 65536, and class 13 is
// unbounded.
var DefaultSizeClasses = SizeClassConfig{
	Bounds: []uint32{32, 64, 128, 256, 512, 1024, 2048, 4096, 8192, 16384, 32768, 65536},
}

// numClasses is the total number of free lists, including the unbounded
// final class.
func (c SizeClassConfig) numClasses() int {
	return len(c.Bounds) + 1
}

// classOf returns the smallest class index (0-based) whose upper bound is
// >= size, or the final (unbounded) class index if size exceeds every
// bound. A linear scan is used deliberately: the table has at most a
// couple dozen entries and a binary search buys nothing measurable at that
// scale, while staying closer to the reference's direct bracket
// comparisons.
func (c SizeClassConfig) classOf(size uint32) int {
	for i, bound := range c.Bounds {
		if size <= bound {
			return i
		}
	}
	return len(c.Bounds)
}
