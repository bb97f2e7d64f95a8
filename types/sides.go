package types

import (
	"fmt"
	"strings"
)

// BoundarySide labels one face of the axis aligned domain box
type BoundarySide uint8

const (
	XLow BoundarySide = iota
	XHigh
	YLow
	YHigh
	ZLow
	ZHigh
)

var sideNames = [...]string{"xlow", "xhigh", "ylow", "yhigh", "zlow", "zhigh"}

func (bs BoundarySide) String() string {
	if int(bs) < len(sideNames) {
		return sideNames[bs]
	}
	return fmt.Sprintf("side(%d)", uint8(bs))
}

// Dim is the coordinate direction normal to the side
func (bs BoundarySide) Dim() int { return int(bs) / 2 }

// IsHigh is true for the side at the upper bound of its dimension
func (bs BoundarySide) IsHigh() bool { return bs%2 == 1 }

func NewBoundarySide(label string) (bs BoundarySide, err error) {
	label = strings.ToLower(strings.TrimSpace(label))
	for i, name := range sideNames {
		if name == label {
			return BoundarySide(i), nil
		}
	}
	return 0, fmt.Errorf("unknown boundary side %q", label)
}
