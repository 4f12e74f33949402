package integrations

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"
)

func TestImageProcessor_CalculateDimensions(t *testing.T) {
	settings := PrintSettings{
		MaxWidth:  800,
		MaxHeight: 1200,
	}
	processor := NewImageProcessor(settings)

	tests := []struct {
		name       string
		width      int
		height     int
		wantWidth  int
		wantHeight int
	}{
		{"no resize needed", 600, 800, 600, 800},
		{"resize width", 1000, 800, 800, 640},
		{"resize height", 800, 1500, 640, 1200},
		{"resize both", 1600, 2400, 800, 1200},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotWidth, gotHeight := processor.calculateDimensions(tt.width, tt.height)
			if gotWidth != tt.wantWidth || gotHeight != tt.wantHeight {
				t.Errorf("calculateDimensions() = (%d, %d), want (%d, %d)",
					gotWidth, gotHeight, tt.wantWidth, tt.wantHeight)
			}
		})
	}
}

func TestImageProcessor_Prepare(t *testing.T) {
	t.Run("png becomes jpeg", func(t *testing.T) {
		img := image.NewRGBA(image.Rect(0, 0, 100, 100))
		for y := 0; y < 100; y++ {
			for x := 0; x < 100; x++ {
				img.Set(x, y, color.RGBA{uint8(x), uint8(y), 128, 255})
			}
		}

		var buf bytes.Buffer
		if err := png.Encode(&buf, img); err != nil {
			t.Fatalf("Failed to encode test image: %v", err)
		}

		processor := NewImageProcessor(PrintSettings{
			MaxWidth:  50,
			MaxHeight: 50,
			Quality:   85,
		})

		result, err := processor.Prepare(buf.Bytes())
		if err != nil {
			t.Fatalf("Prepare() error = %v", err)
		}

		if result.ContentType != "image/jpeg" {
			t.Errorf("ContentType = %q, want image/jpeg", result.ContentType)
		}

		decoded, format, err := image.Decode(bytes.NewReader(result.Content))
		if err != nil {
			t.Fatalf("Prepared image should decode: %v", err)
		}
		if format != "jpeg" {
			t.Errorf("Prepared format = %q, want jpeg", format)
		}
		if decoded.Bounds().Dx() > 50 || decoded.Bounds().Dy() > 50 {
			t.Errorf("Prepared image %v exceeds the print budget", decoded.Bounds())
		}
	})

	t.Run("transparency flattens onto white", func(t *testing.T) {
		// Fully transparent source
		img := image.NewRGBA(image.Rect(0, 0, 10, 10))

		var buf bytes.Buffer
		png.Encode(&buf, img)

		processor := NewImageProcessor(PrintSettings{
			MaxWidth:  10,
			MaxHeight: 10,
			Quality:   95,
		})

		result, err := processor.Prepare(buf.Bytes())
		if err != nil {
			t.Fatalf("Prepare() error = %v", err)
		}

		decoded, _, err := image.Decode(bytes.NewReader(result.Content))
		if err != nil {
			t.Fatalf("Prepared image should decode: %v", err)
		}

		r, g, b, _ := decoded.At(5, 5).RGBA()
		if r>>8 < 240 || g>>8 < 240 || b>>8 < 240 {
			t.Errorf("Transparent areas should land on white, got (%d, %d, %d)",
				r>>8, g>>8, b>>8)
		}
	})

	t.Run("image within budget keeps its size", func(t *testing.T) {
		img := image.NewRGBA(image.Rect(0, 0, 40, 30))
		var buf bytes.Buffer
		png.Encode(&buf, img)

		processor := NewImageProcessor(PrintSettings{
			MaxWidth:  100,
			MaxHeight: 100,
			Quality:   85,
		})

		result, err := processor.Prepare(buf.Bytes())
		if err != nil {
			t.Fatalf("Prepare() error = %v", err)
		}

		decoded, _, _ := image.Decode(bytes.NewReader(result.Content))
		if decoded.Bounds().Dx() != 40 || decoded.Bounds().Dy() != 30 {
			t.Errorf("Bounds = %v, want 40x30", decoded.Bounds())
		}
	})

	t.Run("garbage bytes fail", func(t *testing.T) {
		processor := NewImageProcessor(PrintSettings{MaxWidth: 10, MaxHeight: 10, Quality: 85})
		if _, err := processor.Prepare([]byte("definitely not an image")); err == nil {
			t.Error("Prepare() should fail on undecodable data")
		}
	})
}
