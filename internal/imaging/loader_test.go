package imaging

import (
	"errors"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
)

// createTestImage writes a solid color PNG into a temp dir and returns its path.
func createTestImage(t *testing.T, width, height int, c color.Color) string {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}
	return saveTestImage(t, img)
}

// createTestImageWithPattern writes a PNG with a red top-left quadrant,
// green top-right, blue bottom-left and white bottom-right.
func createTestImageWithPattern(t *testing.T, width, height int) string {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			var c color.Color
			if x < width/2 && y < height/2 {
				c = color.NRGBA{255, 0, 0, 255} // Red
			} else if x >= width/2 && y < height/2 {
				c = color.NRGBA{0, 255, 0, 255} // Green
			} else if x < width/2 && y >= height/2 {
				c = color.NRGBA{0, 0, 255, 255} // Blue
			} else {
				c = color.NRGBA{255, 255, 255, 255} // White
			}
			img.Set(x, y, c)
		}
	}
	return saveTestImage(t, img)
}

func saveTestImage(t *testing.T, img image.Image) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test-image.png")
	if err := imaging.Save(img, path); err != nil {
		t.Fatalf("failed to save image: %v", err)
	}
	return path
}

func TestDecode(t *testing.T) {
	path := createTestImage(t, 120, 80, color.NRGBA{10, 20, 30, 255})

	img, err := Decode(path)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	bounds := img.Bounds()
	if bounds.Dx() != 120 || bounds.Dy() != 80 {
		t.Errorf("dimensions: got %dx%d, want 120x80", bounds.Dx(), bounds.Dy())
	}
}

func TestDecode_NonExistent(t *testing.T) {
	_, err := Decode("/nonexistent/path/to/image.png")
	if err == nil {
		t.Fatal("Decode should fail for non-existent file")
	}
	if errors.Is(err, ErrDecodeFailure) {
		t.Error("missing file should not be reported as a decode failure")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected os.ErrNotExist in chain, got %v", err)
	}
}

func TestDecode_InvalidImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "invalid-image.png")
	if err := os.WriteFile(path, []byte("not an image"), 0o644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	_, err := Decode(path)
	if !errors.Is(err, ErrDecodeFailure) {
		t.Errorf("expected ErrDecodeFailure, got %v", err)
	}
}

func TestLoadColor(t *testing.T) {
	path := createTestImageWithPattern(t, 100, 60)

	mat, err := LoadColor(path)
	if err != nil {
		t.Fatalf("LoadColor failed: %v", err)
	}
	defer mat.Close()

	if mat.Rows() != 60 || mat.Cols() != 100 {
		t.Errorf("dimensions: got %dx%d, want 100x60", mat.Cols(), mat.Rows())
	}
	if mat.Channels() != 3 {
		t.Errorf("channels: got %d, want 3", mat.Channels())
	}

	// BGR order: the top-left quadrant is red
	px := mat.GetVecbAt(10, 10)
	if px[0] != 0 || px[1] != 0 || px[2] != 255 {
		t.Errorf("top-left pixel: got BGR(%d,%d,%d), want BGR(0,0,255)", px[0], px[1], px[2])
	}

	// Bottom-left quadrant is blue
	px = mat.GetVecbAt(50, 10)
	if px[0] != 255 || px[1] != 0 || px[2] != 0 {
		t.Errorf("bottom-left pixel: got BGR(%d,%d,%d), want BGR(255,0,0)", px[0], px[1], px[2])
	}
}

func TestLoadColor_InvalidImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "invalid.png")
	if err := os.WriteFile(path, []byte{0x89, 'P', 'N', 'G', 0, 0}, 0o644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	mat, err := LoadColor(path)
	defer mat.Close()
	if !errors.Is(err, ErrDecodeFailure) {
		t.Errorf("expected ErrDecodeFailure, got %v", err)
	}
}

func TestLoadGray(t *testing.T) {
	tests := []struct {
		name  string
		c     color.Color
		want  uint8
		slack int
	}{
		{"black", color.NRGBA{0, 0, 0, 255}, 0, 0},
		{"white", color.NRGBA{255, 255, 255, 255}, 255, 0},
		{"mid gray", color.NRGBA{128, 128, 128, 255}, 128, 0},
		{"pure red", color.NRGBA{255, 0, 0, 255}, 76, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := createTestImage(t, 20, 20, tt.c)

			gray, err := LoadGray(path)
			if err != nil {
				t.Fatalf("LoadGray failed: %v", err)
			}
			defer gray.Close()

			if gray.Channels() != 1 {
				t.Fatalf("channels: got %d, want 1", gray.Channels())
			}

			got := int(gray.GetUCharAt(5, 5))
			diff := got - int(tt.want)
			if diff < -tt.slack || diff > tt.slack {
				t.Errorf("intensity: got %d, want %d±%d", got, tt.want, tt.slack)
			}
		})
	}
}

func TestToGray_DoesNotModifyInput(t *testing.T) {
	path := createTestImage(t, 10, 10, color.NRGBA{200, 100, 50, 255})

	src, err := LoadColor(path)
	if err != nil {
		t.Fatalf("LoadColor failed: %v", err)
	}
	defer src.Close()

	gray := ToGray(src)
	defer gray.Close()

	if src.Channels() != 3 {
		t.Errorf("source channels changed: got %d, want 3", src.Channels())
	}
	if gray.Channels() != 1 {
		t.Errorf("gray channels: got %d, want 1", gray.Channels())
	}

	again := ToGray(gray)
	defer again.Close()
	if again.Channels() != 1 || again.GetUCharAt(0, 0) != gray.GetUCharAt(0, 0) {
		t.Error("ToGray on a gray matrix should return an identical clone")
	}
}

func TestIsBlank(t *testing.T) {
	t.Run("all black", func(t *testing.T) {
		path := createTestImage(t, 30, 30, color.NRGBA{0, 0, 0, 255})

		blank, err := IsBlank(path)
		if err != nil {
			t.Fatalf("IsBlank failed: %v", err)
		}
		if !blank {
			t.Error("all-black image should be blank")
		}
	})

	t.Run("single bright pixel", func(t *testing.T) {
		img := image.NewNRGBA(image.Rect(0, 0, 30, 30))
		for y := 0; y < 30; y++ {
			for x := 0; x < 30; x++ {
				img.Set(x, y, color.NRGBA{0, 0, 0, 255})
			}
		}
		img.Set(17, 3, color.NRGBA{255, 255, 255, 255})
		path := saveTestImage(t, img)

		blank, err := IsBlank(path)
		if err != nil {
			t.Fatalf("IsBlank failed: %v", err)
		}
		if blank {
			t.Error("image with a non-zero pixel should not be blank")
		}
	})

	t.Run("missing file", func(t *testing.T) {
		if _, err := IsBlank(filepath.Join(t.TempDir(), "missing.png")); err == nil {
			t.Error("IsBlank should fail for a missing file")
		}
	})
}
