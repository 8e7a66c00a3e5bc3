package ingest

import (
	"math/rand"
	"strings"
	"unicode"
	"unicode/utf8"
)

const skuLength = 12

// MakeSKU derives a fixed-width SKU from the product name's word-initial
// acronym plus the original identifier, zero-padded in between:
//
//	MakeSKU("Babies Tableware", "00319526") == "BT0000319526"
//
// The acronym keeps SKUs human-traceable to their source category; the
// hard truncation guarantees exactly 12 characters even for long inputs.
func MakeSKU(productName, originalID string) string {
	var acronym strings.Builder
	for _, word := range strings.Fields(productName) {
		r := []rune(word)[0]
		acronym.WriteRune(unicode.ToUpper(r))
	}

	// Width is counted in characters, not bytes, so product names with
	// accented initials still yield valid 12-char SKUs.
	sku := acronym.String()
	if pad := skuLength - utf8.RuneCountInString(sku) - utf8.RuneCountInString(originalID); pad > 0 {
		sku += strings.Repeat("0", pad)
	}
	sku += originalID

	if runes := []rune(sku); len(runes) > skuLength {
		sku = string(runes[:skuLength])
	}
	return sku
}

// Placeholder-pricing policy: there is no real pricing feed for scraped
// imagery, so every variant gets a uniform draw aligned to whole thousands.
const (
	priceMinThousands = 99   // 99,000
	priceMaxThousands = 6800 // 6,800,000
)

// RandomPrice returns a pseudo-random price in [99,000 .. 6,800,000] that is
// always an exact multiple of 1,000.
func RandomPrice() int64 {
	thousands := rand.Intn(priceMaxThousands-priceMinThousands+1) + priceMinThousands
	return int64(thousands) * 1000
}
