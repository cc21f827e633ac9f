package browser

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png" // register PNG decoder for raw Playwright PNG captures
	"sort"

	"golang.org/x/image/draw"
)

// Screenshot size limits, grounded on spec.md §4.2's "truncate to fit"
// rule for the other two modes, applied here to the binary Attachment
// instead of a text field.
const (
	screenshotMaxSide  = 2000
	screenshotMaxBytes = 5 * 1024 * 1024
)

type screenshotResult struct {
	buffer      []byte
	contentType string
	width       int
	height      int
	resized     bool
}

// normalizeScreenshot resizes and re-encodes a captured screenshot so
// the resulting Attachment fits screenshotMaxSide/screenshotMaxBytes,
// trying progressively smaller dimensions and JPEG quality levels
// until one fits or every combination is exhausted.
func normalizeScreenshot(data []byte) (*screenshotResult, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode screenshot: %w", err)
	}

	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if len(data) <= screenshotMaxBytes && width <= screenshotMaxSide && height <= screenshotMaxSide {
		return &screenshotResult{buffer: data, contentType: "image/" + format, width: width, height: height}, nil
	}

	qualities := []int{85, 75, 65, 55, 45, 35}
	sideGrid := descendingSidesUpTo(screenshotMaxSide, width, height)

	var smallest *screenshotResult
	for _, side := range sideGrid {
		for _, quality := range qualities {
			result, err := resizeAndCompress(img, side, quality)
			if err != nil {
				continue
			}
			if smallest == nil || len(result.buffer) < len(smallest.buffer) {
				smallest = result
			}
			if len(result.buffer) <= screenshotMaxBytes {
				result.resized = true
				return result, nil
			}
		}
	}

	if smallest != nil {
		return nil, fmt.Errorf("screenshot could not be reduced below %dMB (smallest attempt %.2fMB)",
			screenshotMaxBytes/(1024*1024), float64(len(smallest.buffer))/(1024*1024))
	}
	return nil, fmt.Errorf("could not re-encode screenshot")
}

func resizeAndCompress(img image.Image, maxSide, quality int) (*screenshotResult, error) {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	newWidth, newHeight := width, height
	if width > maxSide || height > maxSide {
		if width > height {
			newWidth = maxSide
			newHeight = int(float64(height) * float64(maxSide) / float64(width))
		} else {
			newHeight = maxSide
			newWidth = int(float64(width) * float64(maxSide) / float64(height))
		}
	}

	resized := img
	if newWidth != width || newHeight != height {
		dst := image.NewRGBA(image.Rect(0, 0, newWidth, newHeight))
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
		resized = dst
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, resized, &jpeg.Options{Quality: quality}); err != nil {
		return nil, err
	}
	return &screenshotResult{buffer: buf.Bytes(), contentType: "image/jpeg", width: newWidth, height: newHeight}, nil
}

// descendingSidesUpTo returns a deduplicated, descending candidate
// list of max-side values to try, starting from the image's own
// longest edge (clamped to the ceiling) down through a fixed grid.
func descendingSidesUpTo(ceiling, width, height int) []int {
	longest := width
	if height > longest {
		longest = height
	}
	start := ceiling
	if longest < start {
		start = longest
	}

	seen := make(map[int]bool)
	var out []int
	for _, v := range []int{start, 1800, 1600, 1400, 1200, 1000, 800} {
		if v > 0 && v <= ceiling && !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(out)))
	return out
}
