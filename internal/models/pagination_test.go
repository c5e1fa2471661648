package models

import "testing"

func TestPaginate(t *testing.T) {
	cases := []struct {
		name                 string
		total, page, perPage int
		wantPage, wantPages  int
		wantStart, wantEnd   int
		wantPrev, wantNext   bool
	}{
		{"empty", 0, 3, 15, 1, 1, 0, 0, false, false},
		{"first", 40, 1, 15, 1, 3, 1, 15, false, true},
		{"last partial", 40, 3, 15, 3, 3, 31, 40, true, false},
		{"beyond last clamps", 40, 9, 15, 3, 3, 31, 40, true, false},
		{"zero page clamps", 40, 0, 15, 1, 3, 1, 15, false, true},
		{"default per page", 16, 2, 0, 2, 2, 16, 16, true, false},
		{"exact multiple", 30, 2, 15, 2, 2, 16, 30, true, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := Paginate(tc.total, tc.page, tc.perPage)
			if p.Page != tc.wantPage || p.Pages != tc.wantPages {
				t.Fatalf("page/pages got=%d/%d want=%d/%d", p.Page, p.Pages, tc.wantPage, tc.wantPages)
			}
			if p.StartIdx != tc.wantStart || p.EndIdx != tc.wantEnd {
				t.Fatalf("start/end got=%d/%d want=%d/%d", p.StartIdx, p.EndIdx, tc.wantStart, tc.wantEnd)
			}
			if p.HasPrev != tc.wantPrev || p.HasNext != tc.wantNext {
				t.Fatalf("prev/next got=%v/%v want=%v/%v", p.HasPrev, p.HasNext, tc.wantPrev, tc.wantNext)
			}
			if p.Pages*p.PerPage < p.Total {
				t.Fatalf("pages*per_page=%d smaller than total=%d", p.Pages*p.PerPage, p.Total)
			}
		})
	}
}

func TestPaginationBounds(t *testing.T) {
	p := Paginate(7, 2, 5)
	start, end := p.Bounds(7)
	if start != 5 || end != 7 {
		t.Fatalf("bounds got=%d,%d want=5,7", start, end)
	}
}

func TestConflictErrorTruncates(t *testing.T) {
	err := NewConflictError([]string{"G", "F", "E", "D", "C", "B", "A"})
	if err.BillNos[0] != "A" {
		t.Fatalf("bill nos not sorted: %v", err.BillNos)
	}
	msg := err.Error()
	want := "multiple receipts per Bill No are not allowed. Conflicts for Bill Nos: A, B, C, D, E … (7 total)"
	if msg != want {
		t.Fatalf("message got=%q want=%q", msg, want)
	}
	err.Hint = "Edit the existing receipt"
	if got := err.Error(); got != want+". Edit the existing receipt" {
		t.Fatalf("hinted message got=%q", got)
	}
}
