package integrations

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"

	_ "image/gif"
	_ "image/png"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// ImageData is a fetched illustration ready for embedding.
type ImageData struct {
	Content     []byte
	ContentType string
}

// ImageProcessor prepares fetched illustrations for print embedding
type ImageProcessor struct {
	settings PrintSettings
}

// NewImageProcessor creates a new image processor with the given settings
func NewImageProcessor(settings PrintSettings) *ImageProcessor {
	return &ImageProcessor{
		settings: settings,
	}
}

// Prepare decodes an illustration, flattens transparency onto white,
// downscales anything over the format's print budget and re-encodes as
// JPEG so the PDF embedder only ever sees one image type.
func (p *ImageProcessor) Prepare(data []byte) (ImageData, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return ImageData{}, fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	origWidth := bounds.Dx()
	origHeight := bounds.Dy()

	newWidth, newHeight := p.calculateDimensions(origWidth, origHeight)

	flattened := p.flatten(img, newWidth, newHeight)

	var buf bytes.Buffer
	opts := &jpeg.Options{Quality: p.settings.Quality}
	if err := jpeg.Encode(&buf, flattened, opts); err != nil {
		return ImageData{}, fmt.Errorf("failed to encode JPEG: %w", err)
	}

	return ImageData{
		Content:     buf.Bytes(),
		ContentType: "image/jpeg",
	}, nil
}

// calculateDimensions calculates the new dimensions while maintaining aspect ratio
func (p *ImageProcessor) calculateDimensions(width, height int) (int, int) {
	if width <= p.settings.MaxWidth && height <= p.settings.MaxHeight {
		return width, height // No resize needed
	}

	widthScale := float64(p.settings.MaxWidth) / float64(width)
	heightScale := float64(p.settings.MaxHeight) / float64(height)

	// Use the smaller scale to ensure image fits within bounds
	scale := widthScale
	if heightScale < widthScale {
		scale = heightScale
	}

	newWidth := int(float64(width) * scale)
	newHeight := int(float64(height) * scale)

	return newWidth, newHeight
}

// flatten composites the image onto a white background at the target size.
// JPEG has no alpha channel, so translucent PNG/WebP areas must land on
// white rather than black.
func (p *ImageProcessor) flatten(img image.Image, width, height int) image.Image {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	if width == img.Bounds().Dx() && height == img.Bounds().Dy() {
		draw.Draw(dst, dst.Bounds(), img, img.Bounds().Min, draw.Over)
		return dst
	}

	// Use CatmullRom for high-quality downscaling
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Over, nil)

	return dst
}
