package domain

import (
	"fmt"
	"strings"
	"time"
)

// Image is an icon or artwork reference attached to a channel or program.
type Image struct {
	URL    string
	Width  int // 0 = unspecified
	Height int // 0 = unspecified
}

// NewImage validates an image reference. Dimensions below zero are rejected;
// zero means the feed did not specify them.
func NewImage(url string, width, height int) (Image, error) {
	if strings.TrimSpace(url) == "" {
		return Image{}, fmt.Errorf("%w: image missing url", ErrInvalidInput)
	}
	if width < 0 || height < 0 {
		return Image{}, fmt.Errorf("%w: negative image dimensions %dx%d", ErrInvalidInput, width, height)
	}
	return Image{URL: url, Width: width, Height: height}, nil
}

// Category is a genre tag on a program, optionally qualified by language.
type Category struct {
	Name     string
	Language string
}

// NewCategory validates a category tag.
func NewCategory(name, language string) (Category, error) {
	if strings.TrimSpace(name) == "" {
		return Category{}, fmt.Errorf("%w: category missing name", ErrInvalidInput)
	}
	return Category{Name: name, Language: language}, nil
}

// DatePrecision records how much of a release date the feed supplied.
type DatePrecision int

const (
	PrecisionYear DatePrecision = iota
	PrecisionMonth
	PrecisionDay
)

func (p DatePrecision) String() string {
	switch p {
	case PrecisionMonth:
		return "month"
	case PrecisionDay:
		return "day"
	default:
		return "year"
	}
}

// ReleaseDate is a program's original air or production date at whatever
// precision the feed provided.
type ReleaseDate struct {
	Time      time.Time
	Precision DatePrecision
}

// releaseDateLayouts maps accepted value lengths to their parse layout.
var releaseDateLayouts = map[int]struct {
	layout    string
	precision DatePrecision
}{
	8: {"20060102", PrecisionDay},
	6: {"200601", PrecisionMonth},
	4: {"2006", PrecisionYear},
}

// ParseReleaseDate parses a <date> value. Only YYYYMMDD, YYYYMM and YYYY
// are accepted; anything else is a format error.
func ParseReleaseDate(raw string) (ReleaseDate, error) {
	val := strings.TrimSpace(raw)
	spec, ok := releaseDateLayouts[len(val)]
	if !ok {
		return ReleaseDate{}, fmt.Errorf("%w: release date %q", ErrInvalidInput, raw)
	}
	t, err := time.Parse(spec.layout, val)
	if err != nil {
		return ReleaseDate{}, fmt.Errorf("%w: release date %q: %v", ErrInvalidInput, raw, err)
	}
	return ReleaseDate{Time: t, Precision: spec.precision}, nil
}

// String renders the date at its original precision.
func (d ReleaseDate) String() string {
	switch d.Precision {
	case PrecisionDay:
		return d.Time.Format("2006-01-02")
	case PrecisionMonth:
		return d.Time.Format("2006-01")
	default:
		return d.Time.Format("2006")
	}
}
