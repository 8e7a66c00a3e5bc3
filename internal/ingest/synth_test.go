package ingest

import (
	"testing"
	"unicode/utf8"
)

func TestMakeSKU_Deterministic(t *testing.T) {
	got := MakeSKU("Babies Tableware", "00319526")
	if got != "BT0000319526" {
		t.Fatalf("MakeSKU = %q, want %q", got, "BT0000319526")
	}
}

func TestMakeSKU_AlwaysTwelveChars(t *testing.T) {
	cases := []struct {
		name string
		id   string
	}{
		{"Babies Tableware", "00319526"},
		{"Sofas", "1"},
		{"Very Long Product Name With Many Words", "123456789012345"},
		{"X", ""},
	}

	for _, tc := range cases {
		if got := MakeSKU(tc.name, tc.id); len(got) != skuLength {
			t.Errorf("MakeSKU(%q, %q) = %q, len %d", tc.name, tc.id, got, len(got))
		}
	}
}

func TestMakeSKU_AcronymUppercased(t *testing.T) {
	got := MakeSKU("babies tableware", "00319526")
	if got != "BT0000319526" {
		t.Errorf("MakeSKU = %q, want uppercased acronym", got)
	}
}

func TestMakeSKU_MultibyteInitialsStayValidUTF8(t *testing.T) {
	// Vietnamese product names have multibyte word initials; truncation must
	// count characters, never split one mid-byte.
	cases := []struct {
		name string
		id   string
		want string
	}{
		{"Đèn Ngủ", "00319526", "ĐN0000319526"},
		// 12-rune acronym whose last initial is multibyte: a byte-wise cut at
		// 12 would land inside Đ.
		{"A B C D E F G H I J K Đèn", "1", "ABCDEFGHIJKĐ"},
	}

	for _, tc := range cases {
		got := MakeSKU(tc.name, tc.id)
		if got != tc.want {
			t.Errorf("MakeSKU(%q, %q) = %q, want %q", tc.name, tc.id, got, tc.want)
		}
		if !utf8.ValidString(got) {
			t.Errorf("MakeSKU(%q, %q) = %q is not valid UTF-8", tc.name, tc.id, got)
		}
		if n := utf8.RuneCountInString(got); n != skuLength {
			t.Errorf("MakeSKU(%q, %q) = %q, %d runes", tc.name, tc.id, got, n)
		}
	}
}

func TestRandomPrice_RangeAndAlignment(t *testing.T) {
	for i := 0; i < 10_000; i++ {
		p := RandomPrice()
		if p < 99_000 || p > 6_800_000 {
			t.Fatalf("price %d out of [99000, 6800000]", p)
		}
		if p%1000 != 0 {
			t.Fatalf("price %d not a multiple of 1000", p)
		}
	}
}
