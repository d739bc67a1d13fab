package core_test

import (
	"testing"

	"inventory-backend/internal/core"
)

func TestNormalizePage(t *testing.T) {
	tests := []struct {
		name              string
		number, size      int
		wantNum, wantSize int
		wantOffset        int
	}{
		{"defaults", 0, 0, 1, 50, 0},
		{"negative page", -3, 20, 1, 20, 0},
		{"size clamped to max", 2, 500, 2, 100, 100},
		{"normal", 3, 10, 3, 10, 20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := core.NormalizePage(tt.number, tt.size)
			if p.Number != tt.wantNum || p.Size != tt.wantSize {
				t.Errorf("NormalizePage(%d, %d) = (%d, %d), want (%d, %d)",
					tt.number, tt.size, p.Number, p.Size, tt.wantNum, tt.wantSize)
			}
			if p.Offset() != tt.wantOffset {
				t.Errorf("Offset() = %d, want %d", p.Offset(), tt.wantOffset)
			}
		})
	}
}

func TestPageCount(t *testing.T) {
	p := core.NormalizePage(1, 10)
	for _, tt := range []struct{ total, want int }{
		{0, 1}, {1, 1}, {10, 1}, {11, 2}, {100, 10},
	} {
		if got := p.PageCount(tt.total); got != tt.want {
			t.Errorf("PageCount(%d) = %d, want %d", tt.total, got, tt.want)
		}
	}
}

func TestEnumValidity(t *testing.T) {
	if !core.CategoryBooks.Valid() {
		t.Error("books should be a valid category")
	}
	if core.Category("furniture").Valid() {
		t.Error("furniture should not be a valid category")
	}
	if !core.StatusShipped.Valid() {
		t.Error("shipped should be a valid order status")
	}
	if core.OrderStatus("SHIPPED").Valid() {
		t.Error("statuses are lowercase; SHIPPED should be invalid")
	}
	if !core.MovementAdjustment.Valid() {
		t.Error("adjustment should be a valid movement type")
	}
	if core.MovementType("restock").Valid() {
		t.Error("restock should not be a valid movement type")
	}
}
