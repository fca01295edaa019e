package platform

import (
	"image"

	"github.com/go-vgo/robotgo"
	"golang.org/x/image/draw"
)

// screenBounds returns the primary display's logical (pre-scale) pixel
// bounds, grounded on the teacher's pkg/screen.GetDisplayBounds. Only
// geometry is reused here; pkg/screen's screenshot-persisting functions
// (CaptureDisplay, SavePNG, ...) are explicitly out of scope (spec.md
// Non-goals: "pixel-level rendering") and are not carried into this
// package.
func screenBounds(displayIndex int) (x, y, w, h int) {
	return robotgo.GetDisplayBounds(displayIndex)
}

// numDisplays returns the count of attached displays.
func numDisplays() int {
	return robotgo.DisplaysNum()
}

// dpiScaleFactor estimates the display scale factor (2.0 on Retina/HiDPI,
// 1.0 otherwise) by capturing a 10x10 logical-pixel probe region and
// dividing the captured image's pixel width by 10. The probe stays in memory
// and nothing is written to disk: unlike the teacher's
// pkg/screen.ScaleFactor (which this is grounded on), no screenshot is
// persisted or returned to any caller, keeping full-frame capture out of
// scope while still answering "what scale factor is this display" for
// Screen.Scale (§3). The capture is also resampled to a single pixel with
// golang.org/x/image/draw; that pixel does not feed the returned value,
// which is read from img.Bounds().
func dpiScaleFactor() float64 {
	_, _, logicalW, _ := screenBounds(0)
	if logicalW == 0 {
		return 1.0
	}

	img, err := robotgo.CaptureImg(0, 0, 10, 10)
	if err != nil {
		return 1.0
	}

	probe := image.NewRGBA(image.Rect(0, 0, 1, 1))
	draw.ApproxBiLinear.Scale(probe, probe.Bounds(), img, img.Bounds(), draw.Over, nil)

	physicalW := img.Bounds().Dx()
	if physicalW == 0 {
		return 1.0
	}
	return float64(physicalW) / 10.0
}
