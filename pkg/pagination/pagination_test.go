package pagination

import "testing"

func TestFromQueryClamps(t *testing.T) {
	p := FromQuery("0", "500")
	if p.Page != 1 || p.PerPage != MaxPerPage {
		t.Fatalf("got page=%d per_page=%d", p.Page, p.PerPage)
	}

	p = FromQuery("x", "")
	if p.Page != 1 || p.PerPage != DefaultPerPage {
		t.Fatalf("defaults not applied: %+v", p)
	}

	p = FromQuery("3", "10")
	if p.Offset() != 20 {
		t.Fatalf("offset = %d, want 20", p.Offset())
	}
}

func TestNewPagination(t *testing.T) {
	pg := NewPagination(2, 10, 25)
	if pg.TotalPages != 3 || !pg.HasNext || !pg.HasPrev {
		t.Fatalf("unexpected pagination %+v", pg)
	}

	res := NewPaginatedResult[int](nil, &PaginationParams{Page: 1, PerPage: 15}, 0)
	if res.Items == nil || len(res.Items) != 0 {
		t.Fatalf("nil items should become an empty slice")
	}
}
