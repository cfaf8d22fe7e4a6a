package entity

import (
	"testing"
)

func TestFirstVisitDate(t *testing.T) {
	req := &Request{UUID: "1773570600000-a1b2c3"}
	got := req.FirstVisitDate()
	if got == nil {
		t.Fatal("expected a parsed first visit date")
	}
	if got.UnixMilli() != 1773570600000 {
		t.Fatalf("expected ms 1773570600000, got %d", got.UnixMilli())
	}

	req = &Request{UUID: "unknown"} // 没有连字符
	if req.FirstVisitDate() != nil {
		t.Fatal("expected nil for uuid without separator")
	}

	req = &Request{UUID: "abc-def"} // 前缀不是数字
	if req.FirstVisitDate() != nil {
		t.Fatal("expected nil for non-numeric prefix")
	}

	req = &Request{}
	if req.FirstVisitDate() != nil {
		t.Fatal("expected nil for empty uuid")
	}
}

func TestValidSizeAllowsEmpty(t *testing.T) {
	if !ValidSize("") {
		t.Fatal("empty size must be accepted")
	}
	if ValidSize("XS") {
		t.Fatal("XS is not a valid size")
	}
}
