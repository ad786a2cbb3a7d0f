package timber

import (
	"fmt"
	"strings"
)

// Size is a nominal lumber size code such as "2x8"
type Size string

// WidthClass selects a row of the size table
type WidthClass int

const (
	Narrow WidthClass = iota // 2x
	Medium                   // 4x
	Wide                     // 6x
)

// HeightClasses is the number of height classes per width class
const HeightClasses = 4

// SizeTable lists every nominal size, width class major
var SizeTable = [3][HeightClasses]Size{
	{"2x6", "2x8", "2x10", "2x12"},
	{"4x6", "4x8", "4x10", "4x12"},
	{"6x6", "6x8", "6x10", "6x12"},
}

// Dressed dimensions (cm) keyed by the nominal code's first and second number
var (
	actualWidth = map[int]float64{
		2: 3.8,
		4: 8.9,
		6: 14.0,
	}
	actualHeight = map[int]float64{
		6:  14.0,
		8:  18.4,
		10: 23.5,
		12: 28.6,
	}
)

// ParseWidthClass accepts "narrow", "medium" or "wide"
func ParseWidthClass(s string) (WidthClass, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "narrow", "2x":
		return Narrow, nil
	case "medium", "4x":
		return Medium, nil
	case "wide", "6x":
		return Wide, nil
	}
	return 0, fmt.Errorf("timber: unknown width class %q", s)
}

func (c WidthClass) String() string {
	switch c {
	case Narrow:
		return "narrow"
	case Medium:
		return "medium"
	case Wide:
		return "wide"
	}
	return fmt.Sprintf("WidthClass(%d)", int(c))
}

// Dimensions returns the dressed width and height of s in cm
func (s Size) Dimensions() (width, height float64, err error) {
	var nw, nh int
	if _, err := fmt.Sscanf(string(s), "%dx%d", &nw, &nh); err != nil {
		return 0, 0, fmt.Errorf("timber: bad size code %q", s)
	}
	w, okW := actualWidth[nw]
	h, okH := actualHeight[nh]
	if !okW || !okH {
		return 0, 0, fmt.Errorf("timber: size %q not in table", s)
	}
	return w, h, nil
}
