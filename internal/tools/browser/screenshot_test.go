package browser

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"
)

func solidPNG(width, height int) []byte {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	png.Encode(&buf, img)
	return buf.Bytes()
}

func TestNormalizeScreenshotLeavesSmallImageUntouched(t *testing.T) {
	data := solidPNG(100, 100)

	result, err := normalizeScreenshot(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.resized {
		t.Fatal("expected a small image to pass through without resizing")
	}
	if result.width != 100 || result.height != 100 {
		t.Fatalf("expected 100x100, got %dx%d", result.width, result.height)
	}
}

func TestNormalizeScreenshotShrinksOversizedImage(t *testing.T) {
	data := solidPNG(screenshotMaxSide+500, 400)

	result, err := normalizeScreenshot(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.resized {
		t.Fatal("expected an oversized image to be resized")
	}
	if result.width > screenshotMaxSide {
		t.Fatalf("expected width <= %d, got %d", screenshotMaxSide, result.width)
	}
	if result.contentType != "image/jpeg" {
		t.Fatalf("expected resized output re-encoded as jpeg, got %s", result.contentType)
	}
}

func TestDescendingSidesUpToIsSortedAndBounded(t *testing.T) {
	sides := descendingSidesUpTo(2000, 3000, 500)
	for i := 1; i < len(sides); i++ {
		if sides[i] > sides[i-1] {
			t.Fatalf("expected descending order, got %v", sides)
		}
	}
	for _, s := range sides {
		if s > 2000 {
			t.Fatalf("expected all sides <= ceiling 2000, got %d", s)
		}
	}
}
