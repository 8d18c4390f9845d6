package detection

import (
	"image"
	"image/color"
	"testing"

	"gocv.io/x/gocv"
)

// createColorCanvas returns a black 3-channel matrix.
func createColorCanvas(t *testing.T, width, height int) gocv.Mat {
	t.Helper()
	return createColorMat(t, image.NewNRGBA(image.Rect(0, 0, width, height)))
}

// createColorMat converts img to a 3-channel BGR matrix.
func createColorMat(t *testing.T, img image.Image) gocv.Mat {
	t.Helper()
	mat, err := gocv.ImageToMatRGB(img)
	if err != nil {
		t.Fatalf("failed to convert image: %v", err)
	}
	return mat
}

// createShapeImage returns a black image with each rect filled at its gray level,
// painted in order. Rect Max is exclusive.
func createShapeImage(width, height int, shapes ...shape) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for i := 3; i < len(img.Pix); i += 4 {
		img.Pix[i] = 255
	}
	for _, s := range shapes {
		for y := s.rect.Min.Y; y < s.rect.Max.Y; y++ {
			for x := s.rect.Min.X; x < s.rect.Max.X; x++ {
				img.Set(x, y, color.NRGBA{s.level, s.level, s.level, 255})
			}
		}
	}
	return img
}

type shape struct {
	rect  image.Rectangle
	level uint8
}

// boundingBox returns the inclusive extent of a polygon.
func boundingBox(points []image.Point) image.Rectangle {
	r := image.Rectangle{Min: points[0], Max: points[0]}
	for _, p := range points[1:] {
		if p.X < r.Min.X {
			r.Min.X = p.X
		}
		if p.Y < r.Min.Y {
			r.Min.Y = p.Y
		}
		if p.X > r.Max.X {
			r.Max.X = p.X
		}
		if p.Y > r.Max.Y {
			r.Max.Y = p.Y
		}
	}
	return r
}

func TestFindContours_FilledRectangle(t *testing.T) {
	img := createColorMat(t, createShapeImage(60, 50, shape{image.Rect(10, 15, 30, 40), 200}))
	defer img.Close()

	set, err := FindContours(img, 10)
	if err != nil {
		t.Fatalf("FindContours failed: %v", err)
	}

	if set.Len() != 1 {
		t.Fatalf("contour count: got %d, want 1", set.Len())
	}
	if n := len(set.Polygons[0]); n != 4 {
		t.Errorf("vertex count: got %d, want 4 (%v)", n, set.Polygons[0])
	}

	got := boundingBox(set.Polygons[0])
	want := image.Rect(10, 15, 29, 39)
	if got != want {
		t.Errorf("contour extent: got %v, want %v", got, want)
	}
}

func TestFindContours_ThresholdIsStrict(t *testing.T) {
	tests := []struct {
		name  string
		level uint8
		want  int
	}{
		{"at threshold is background", 10, 0},
		{"just above threshold is foreground", 11, 1},
		{"bright is foreground", 255, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img := createColorMat(t, createShapeImage(40, 40, shape{image.Rect(5, 5, 20, 20), tt.level}))
			defer img.Close()

			set, err := FindContours(img, 10)
			if err != nil {
				t.Fatalf("FindContours failed: %v", err)
			}
			if set.Len() != tt.want {
				t.Errorf("contour count: got %d, want %d", set.Len(), tt.want)
			}
		})
	}
}

func TestFindContours_NestedHierarchy(t *testing.T) {
	img := createColorMat(t, createShapeImage(80, 80,
		shape{image.Rect(10, 10, 70, 70), 255}, // outer object
		shape{image.Rect(20, 20, 60, 60), 0},   // hole
		shape{image.Rect(30, 30, 50, 50), 255}, // object inside the hole
	))
	defer img.Close()

	set, err := FindContours(img, 10)
	if err != nil {
		t.Fatalf("FindContours failed: %v", err)
	}

	// outer boundary, hole boundary, inner object
	if set.Len() != 3 {
		t.Errorf("contour count: got %d, want 3", set.Len())
	}
}

func TestFindContours_Blank(t *testing.T) {
	img := createColorCanvas(t, 30, 30)
	defer img.Close()

	set, err := FindContours(img, 10)
	if err != nil {
		t.Fatalf("FindContours failed: %v", err)
	}
	if set.Len() != 0 {
		t.Errorf("contour count: got %d, want 0", set.Len())
	}
}

func TestFindContours_Empty(t *testing.T) {
	empty := gocv.NewMat()
	defer empty.Close()

	if _, err := FindContours(empty, 10); err == nil {
		t.Error("FindContours should fail for an empty image")
	}
}

func TestBinarize(t *testing.T) {
	img := createColorMat(t, createShapeImage(20, 20,
		shape{image.Rect(0, 0, 10, 20), 50},
		shape{image.Rect(10, 0, 20, 20), 5},
	))
	defer img.Close()

	mask := Binarize(img, 10)
	defer mask.Close()

	if mask.Channels() != 1 {
		t.Fatalf("channels: got %d, want 1", mask.Channels())
	}
	if v := mask.GetUCharAt(5, 5); v != 255 {
		t.Errorf("bright pixel: got %d, want 255", v)
	}
	if v := mask.GetUCharAt(5, 15); v != 0 {
		t.Errorf("dim pixel: got %d, want 0", v)
	}
	if img.Channels() != 3 {
		t.Error("Binarize must not modify its input")
	}
}

func TestContourSet_Draw(t *testing.T) {
	src := createColorMat(t, createShapeImage(60, 50, shape{image.Rect(10, 15, 30, 40), 200}))
	defer src.Close()

	set, err := FindContours(src, 10)
	if err != nil {
		t.Fatalf("FindContours failed: %v", err)
	}

	canvas := createColorCanvas(t, 60, 50)
	defer canvas.Close()
	set.Draw(&canvas, color.RGBA{R: 0, G: 233, B: 255, A: 255}, 1)

	// Top edge of the rectangle is stroked in BGR(255,233,0)
	px := canvas.GetVecbAt(15, 20)
	if px[0] < 128 || px[2] != 0 {
		t.Errorf("edge pixel: got BGR(%d,%d,%d), want blue-dominant stroke", px[0], px[1], px[2])
	}

	// Far from the contour nothing is drawn
	px = canvas.GetVecbAt(2, 50)
	if px[0] != 0 || px[1] != 0 || px[2] != 0 {
		t.Errorf("background pixel: got BGR(%d,%d,%d), want black", px[0], px[1], px[2])
	}
}

func TestContourSet_DrawEmpty(t *testing.T) {
	canvas := createColorCanvas(t, 10, 10)
	defer canvas.Close()

	ContourSet{}.Draw(&canvas, color.RGBA{255, 255, 255, 255}, 1)

	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(canvas, &gray, gocv.ColorBGRToGray)
	if n := gocv.CountNonZero(gray); n != 0 {
		t.Errorf("drawing an empty set changed %d pixels", n)
	}
}
