package parallel

import "testing"

func TestSplitRows(t *testing.T) {
	tests := []struct {
		height, parts int
		want          []Band
	}{
		{10, 1, []Band{{0, 10}}},
		{10, 3, []Band{{0, 4}, {4, 7}, {7, 10}}},
		{4, 4, []Band{{0, 1}, {1, 2}, {2, 3}, {3, 4}}},
		{3, 8, []Band{{0, 1}, {1, 2}, {2, 3}}},
		{5, 0, []Band{{0, 5}}},
		{5, -2, []Band{{0, 5}}},
	}

	for _, tt := range tests {
		got := SplitRows(tt.height, tt.parts)
		if len(got) != len(tt.want) {
			t.Errorf("SplitRows(%d, %d) = %v, want %v", tt.height, tt.parts, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("SplitRows(%d, %d)[%d] = %v, want %v", tt.height, tt.parts, i, got[i], tt.want[i])
			}
		}
	}
}

func TestSplitRowsCoversAllRows(t *testing.T) {
	for height := 1; height <= 50; height++ {
		for parts := 1; parts <= 12; parts++ {
			bands := SplitRows(height, parts)
			y, minH, maxH := 0, height, 0
			for _, b := range bands {
				if b.Y0 != y {
					t.Fatalf("SplitRows(%d, %d): gap or overlap at row %d", height, parts, y)
				}
				minH = min(minH, b.Height())
				maxH = max(maxH, b.Height())
				y = b.Y1
			}
			if y != height {
				t.Fatalf("SplitRows(%d, %d) covers %d rows", height, parts, y)
			}
			if maxH-minH > 1 {
				t.Errorf("SplitRows(%d, %d) band heights range %d..%d", height, parts, minH, maxH)
			}
		}
	}
}

func TestSplitRowsEmpty(t *testing.T) {
	if got := SplitRows(0, 4); got != nil {
		t.Errorf("SplitRows(0, 4) = %v, want nil", got)
	}
}
