package repositories

import (
	"errors"
	"fmt"
	"testing"

	"gorm.io/gorm"
)

func TestIsDuplicate(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"translated sentinel", gorm.ErrDuplicatedKey, true},
		{"wrapped sentinel", fmt.Errorf("insert variant: %w", gorm.ErrDuplicatedKey), true},
		{"postgres sqlstate", errors.New(`ERROR: duplicate key value violates unique constraint "idx_product_variants_original_id" (SQLSTATE 23505)`), true},
		{"sqlite message", errors.New("UNIQUE constraint failed: files.path_key"), true},
		{"ordinary error", errors.New("connection refused"), false},
		{"not found", gorm.ErrRecordNotFound, false},
	}

	for _, tc := range cases {
		if got := IsDuplicate(tc.err); got != tc.want {
			t.Errorf("%s: IsDuplicate(%v) = %v, want %v", tc.name, tc.err, got, tc.want)
		}
	}
}

func TestIsNotFound(t *testing.T) {
	if !IsNotFound(gorm.ErrRecordNotFound) {
		t.Error("expected gorm.ErrRecordNotFound to match")
	}
	if IsNotFound(errors.New("boom")) {
		t.Error("unexpected match for ordinary error")
	}
}
