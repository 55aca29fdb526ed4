package pagination

import "testing"

func TestNormalizeDefaults(t *testing.T) {
	got := Params{}.Normalize()
	if got.Page != 1 {
		t.Fatalf("expected page 1, got %d", got.Page)
	}
	if got.Limit != DefaultLimit {
		t.Fatalf("expected limit %d, got %d", DefaultLimit, got.Limit)
	}
}

func TestNormalizeCapsLimit(t *testing.T) {
	got := Params{Page: 2, Limit: MaxLimit + 500}.Normalize()
	if got.Limit != MaxLimit {
		t.Fatalf("expected limit capped at %d, got %d", MaxLimit, got.Limit)
	}
}

func TestBoundsClampToTotal(t *testing.T) {
	start, end := Params{Page: 3, Limit: 10}.Bounds(25)
	if start != 20 || end != 25 {
		t.Fatalf("expected [20, 25), got [%d, %d)", start, end)
	}

	start, end = Params{Page: 9, Limit: 10}.Bounds(25)
	if start != 25 || end != 25 {
		t.Fatalf("expected empty window at total, got [%d, %d)", start, end)
	}
}

func TestDescribe(t *testing.T) {
	info := Params{Page: 2, Limit: 10}.Describe(25)
	if info.TotalPages != 3 {
		t.Fatalf("expected 3 pages, got %d", info.TotalPages)
	}
	if info.Total != 25 {
		t.Fatalf("expected total 25, got %d", info.Total)
	}

	info = Params{}.Describe(0)
	if info.TotalPages != 1 {
		t.Fatalf("expected 1 page for empty listing, got %d", info.TotalPages)
	}
}
