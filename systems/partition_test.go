package systems

import "testing"

func TestPartitionCoverage(t *testing.T) {
	for count := 0; count <= 40; count++ {
		for threads := 1; threads <= 9; threads++ {
			ranges := Partition(count, threads)
			if len(ranges) != threads {
				t.Fatalf("Partition(%d, %d): expected %d ranges, got %d", count, threads, threads, len(ranges))
			}

			// Contiguous from 0 to count, no gaps or overlaps
			next := 0
			for i, r := range ranges {
				if r.Start != next {
					t.Fatalf("Partition(%d, %d): range %d starts at %d, expected %d", count, threads, i, r.Start, next)
				}
				if r.End < r.Start {
					t.Fatalf("Partition(%d, %d): range %d is inverted: %+v", count, threads, i, r)
				}
				next = r.End
			}
			if next != count {
				t.Fatalf("Partition(%d, %d): ranges end at %d, expected %d", count, threads, next, count)
			}
		}
	}
}

func TestPartitionRemainderGoesToLast(t *testing.T) {
	ranges := Partition(10, 3)

	want := []Range{{0, 3}, {3, 6}, {6, 10}}
	for i := range want {
		if ranges[i] != want[i] {
			t.Errorf("range %d: expected %+v, got %+v", i, want[i], ranges[i])
		}
	}
}

func TestPartitionClampsThreads(t *testing.T) {
	testCases := []struct {
		threads int
	}{
		{0},
		{-4},
	}

	for _, tc := range testCases {
		ranges := Partition(7, tc.threads)
		if len(ranges) != 1 {
			t.Fatalf("threads=%d: expected 1 range, got %d", tc.threads, len(ranges))
		}
		if ranges[0] != (Range{0, 7}) {
			t.Errorf("threads=%d: expected [0,7), got %+v", tc.threads, ranges[0])
		}
	}
}

func TestPartitionMoreThreadsThanParticles(t *testing.T) {
	ranges := Partition(3, 5)

	for i := 0; i < 4; i++ {
		if ranges[i].Len() != 0 {
			t.Errorf("range %d: expected empty, got %+v", i, ranges[i])
		}
	}
	if ranges[4] != (Range{0, 3}) {
		t.Errorf("last range: expected [0,3), got %+v", ranges[4])
	}
}
