package imaging

import (
	"errors"
	"fmt"
	"image"
	"os"

	"github.com/disintegration/imaging"
	"gocv.io/x/gocv"
	_ "golang.org/x/image/webp" // Register WebP format decoder
)

// ErrDecodeFailure reports that a file exists but could not be parsed as a raster.
var ErrDecodeFailure = errors.New("image decode failure")

// Decode reads an image file from disk.
//
// Supported formats are PNG, JPEG, GIF, BMP, TIFF and WebP. The returned error
// wraps ErrDecodeFailure when the file was readable but its contents were not a
// valid image; open errors are returned wrapped as-is.
func Decode(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	img, err := imaging.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrDecodeFailure, path, err)
	}

	return img, nil
}

// LoadColor decodes an image file into a 3-channel BGR matrix.
//
// The caller owns the returned Mat and must Close it.
func LoadColor(path string) (gocv.Mat, error) {
	img, err := Decode(path)
	if err != nil {
		return gocv.NewMat(), err
	}

	mat, err := gocv.ImageToMatRGB(img)
	if err != nil {
		return gocv.NewMat(), fmt.Errorf("%w: %s: %w", ErrDecodeFailure, path, err)
	}
	if mat.Empty() {
		mat.Close()
		return gocv.NewMat(), fmt.Errorf("%w: %s: empty raster", ErrDecodeFailure, path)
	}

	return mat, nil
}

// LoadGray decodes an image file into a single-channel intensity matrix.
//
// Color sources are converted with the BGR to gray luminance weights, the same
// conversion applied when OpenCV reads a file in grayscale mode.
func LoadGray(path string) (gocv.Mat, error) {
	color, err := LoadColor(path)
	if err != nil {
		return color, err
	}
	defer color.Close()

	return ToGray(color), nil
}

// ToGray returns a fresh single-channel copy of m. Single-channel inputs are cloned.
func ToGray(m gocv.Mat) gocv.Mat {
	if m.Channels() == 1 {
		return m.Clone()
	}

	gray := gocv.NewMat()
	switch m.Channels() {
	case 4:
		gocv.CvtColor(m, &gray, gocv.ColorBGRAToGray)
	default:
		gocv.CvtColor(m, &gray, gocv.ColorBGRToGray)
	}
	return gray
}

// IsBlank re-reads the image at path as grayscale and reports whether every
// pixel is zero.
func IsBlank(path string) (bool, error) {
	gray, err := LoadGray(path)
	if err != nil {
		return false, err
	}
	defer gray.Close()

	return gocv.CountNonZero(gray) == 0, nil
}
