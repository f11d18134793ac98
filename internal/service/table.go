package service

import (
	"fmt"

	"github.com/playmatatu/billiards/internal/billiards"
)

// TableSpec is the wire form of a table. Variant selects which dimension
// fields are read: width/height for rectangles and stadiums, a/b for
// ellipses.
type TableSpec struct {
	Variant string  `json:"variant"`
	Width   float64 `json:"width,omitempty"`
	Height  float64 `json:"height,omitempty"`
	A       float64 `json:"a,omitempty"`
	B       float64 `json:"b,omitempty"`
}

// Build validates ts and returns the table it describes.
func (ts TableSpec) Build() (billiards.Table, error) {
	v, err := billiards.ParseVariant(ts.Variant)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	d1, d2 := ts.Width, ts.Height
	if v == billiards.VariantEllipse {
		d1, d2 = ts.A, ts.B
	}
	t, err := billiards.NewTable(string(v), d1, d2)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	return t, nil
}

// SpecFor is the inverse of Build.
func SpecFor(t billiards.Table) TableSpec {
	d1, d2 := t.Dims()
	if t.Variant() == billiards.VariantEllipse {
		return TableSpec{Variant: string(t.Variant()), A: d1, B: d2}
	}
	return TableSpec{Variant: string(t.Variant()), Width: d1, Height: d2}
}
