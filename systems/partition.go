package systems

// Range is a half-open span [Start, End) of particle indices owned by one worker.
type Range struct {
	Start, End int
}

// Len returns the number of particles in the range.
func (r Range) Len() int {
	return r.End - r.Start
}

// Partition splits [0, count) into threads contiguous ranges of
// count/threads particles each. The remainder goes to the last range.
// threads is clamped to at least 1.
func Partition(count, threads int) []Range {
	if count < 0 {
		count = 0
	}
	if threads < 1 {
		threads = 1
	}

	ranges := make([]Range, threads)
	perThread := count / threads
	allocated := 0
	for i := 0; i < threads-1; i++ {
		ranges[i] = Range{Start: allocated, End: allocated + perThread}
		allocated += perThread
	}
	ranges[threads-1] = Range{Start: allocated, End: count}

	return ranges
}
