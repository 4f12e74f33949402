package integrations

// PointsPerInch is the PDF unit conversion constant.
const PointsPerInch = 72.0

// DefaultFormat is used when a story carries no recognized trim size.
const DefaultFormat = "8x8"

// BookFormat describes a print trim size offered by the platform.
type BookFormat struct {
	ID          string
	Label       string
	Dimensions  string // human-readable, e.g. `6" x 9"`
	AspectRatio string // "portrait", "landscape", "square" or "unknown"
	WidthIn     float64
	HeightIn    float64
	Tier        string // "standard" or "extended"
}

// BookFormats holds the ten trim sizes accepted by the print pipeline.
// The extended five are reserved for Pro/Reseller plans.
var BookFormats = map[string]BookFormat{
	"5.5x8.5": {
		ID:          "5.5x8.5",
		Label:       "Digest",
		Dimensions:  `5.5" x 8.5"`,
		AspectRatio: "portrait",
		WidthIn:     5.5,
		HeightIn:    8.5,
		Tier:        "standard",
	},
	"7x7": {
		ID:          "7x7",
		Label:       "Small Square",
		Dimensions:  `7" x 7"`,
		AspectRatio: "square",
		WidthIn:     7,
		HeightIn:    7,
		Tier:        "standard",
	},
	"8x8": {
		ID:          "8x8",
		Label:       "Square",
		Dimensions:  `8" x 8"`,
		AspectRatio: "square",
		WidthIn:     8,
		HeightIn:    8,
		Tier:        "standard",
	},
	"6x9": {
		ID:          "6x9",
		Label:       "US Trade",
		Dimensions:  `6" x 9"`,
		AspectRatio: "portrait",
		WidthIn:     6,
		HeightIn:    9,
		Tier:        "standard",
	},
	"8x10": {
		ID:          "8x10",
		Label:       "Portrait",
		Dimensions:  `8" x 10"`,
		AspectRatio: "portrait",
		WidthIn:     8,
		HeightIn:    10,
		Tier:        "standard",
	},
	"5x8": {
		ID:          "5x8",
		Label:       "Pocket",
		Dimensions:  `5" x 8"`,
		AspectRatio: "portrait",
		WidthIn:     5,
		HeightIn:    8,
		Tier:        "extended",
	},
	"8.5x11": {
		ID:          "8.5x11",
		Label:       "Letter",
		Dimensions:  `8.5" x 11"`,
		AspectRatio: "portrait",
		WidthIn:     8.5,
		HeightIn:    11,
		Tier:        "extended",
	},
	"8.5x8.5": {
		ID:          "8.5x8.5",
		Label:       "Large Square",
		Dimensions:  `8.5" x 8.5"`,
		AspectRatio: "square",
		WidthIn:     8.5,
		HeightIn:    8.5,
		Tier:        "extended",
	},
	"6.14x9.21": {
		ID:          "6.14x9.21",
		Label:       "Royal",
		Dimensions:  `6.14" x 9.21"`,
		AspectRatio: "portrait",
		WidthIn:     6.14,
		HeightIn:    9.21,
		Tier:        "extended",
	},
	"8.25x6": {
		ID:          "8.25x6",
		Label:       "Landscape",
		Dimensions:  `8.25" x 6"`,
		AspectRatio: "landscape",
		WidthIn:     8.25,
		HeightIn:    6,
		Tier:        "extended",
	},
}

// GetFormatProfile returns the profile for a format identifier.
func GetFormatProfile(formatID string) (BookFormat, bool) {
	format, ok := BookFormats[formatID]
	return format, ok
}

// DescribeFormat always returns a usable descriptor. Unrecognized
// identifiers yield a synthesized "Custom" profile whose dimensions
// string is the raw identifier.
func DescribeFormat(formatID string) BookFormat {
	if format, ok := BookFormats[formatID]; ok {
		return format
	}
	return BookFormat{
		ID:          formatID,
		Label:       "Custom",
		Dimensions:  formatID,
		AspectRatio: "unknown",
	}
}

// PageSizePoints maps a format identifier to physical page dimensions
// in points. Unrecognized or empty identifiers fall back to 8x8.
func PageSizePoints(formatID string) (width, height float64) {
	format, ok := BookFormats[formatID]
	if !ok {
		format = BookFormats[DefaultFormat]
	}
	return format.WidthIn * PointsPerInch, format.HeightIn * PointsPerInch
}

// formatOrder fixes the display order: standard tier first.
var formatOrder = []string{
	"5.5x8.5", "7x7", "8x8", "6x9", "8x10",
	"5x8", "8.5x11", "8.5x8.5", "6.14x9.21", "8.25x6",
}

// ListFormats returns all format profiles, standard tier first.
func ListFormats() []BookFormat {
	formats := make([]BookFormat, 0, len(formatOrder))
	for _, id := range formatOrder {
		formats = append(formats, BookFormats[id])
	}
	return formats
}

// PrintSettings defines how illustrations are prepared before embedding.
type PrintSettings struct {
	MaxWidth  int // maximum image width in pixels
	MaxHeight int // maximum image height in pixels
	Quality   int // JPEG quality (1-100)
	DPI       int
}

// GetPrintSettings returns the image budget for a format at print resolution.
func (f BookFormat) GetPrintSettings() PrintSettings {
	dpi := 300
	width := f.WidthIn
	height := f.HeightIn
	if width == 0 || height == 0 {
		// Custom descriptors carry no physical size; budget for the default.
		width = BookFormats[DefaultFormat].WidthIn
		height = BookFormats[DefaultFormat].HeightIn
	}

	return PrintSettings{
		MaxWidth:  int(width * float64(dpi)),
		MaxHeight: int(height * float64(dpi)),
		Quality:   90,
		DPI:       dpi,
	}
}
