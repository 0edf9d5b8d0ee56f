package h261

import (
	"image"
	"image/color"
	"image/draw"
	"unsafe"
)

const (
	// Width is the CIF luma width.
	Width = 352
	// Height is the CIF luma height.
	Height = 288

	chromaWidth  = Width / 2
	chromaHeight = Height / 2

	mbSize    = 16
	gobWidth  = 11 // macroblocks
	gobHeight = 3  // macroblocks
	gobCount  = 12

	// DefaultSample is the value of every sample before the first picture is decoded.
	DefaultSample = 128
)

// Frame represents decoded video frame.
type Frame struct {
	Time float64

	// TemporalReference is the 5-bit TR of the picture header.
	TemporalReference int

	SplitScreen       bool
	DocumentCamera    bool
	FreezeRelease     bool
	ExtraInformation  int // number of PSPARE bytes
	MacroblocksCoded  int
	MacroblocksIntra  int
	MacroblocksMotion int

	Width  int
	Height int

	Y  Plane
	Cb Plane
	Cr Plane

	// prev is the reference picture used for inter prediction while the frame is decoded.
	prev *Frame

	imYCbCr image.YCbCr
	imRGBA  image.RGBA
}

// Plane represents decoded video plane.
// The byte length of the data is width * height. The Luma plane (Y) is 352x288,
// each of the two Chroma planes (Cb, Cr) is 176x144.
type Plane struct {
	Width  int
	Height int
	Data   []byte
}

// at returns the sample at (x, y), clamping the position to the plane.
func (p *Plane) at(x, y int) int {
	if x < 0 {
		x = 0
	} else if x >= p.Width {
		x = p.Width - 1
	}

	if y < 0 {
		y = 0
	} else if y >= p.Height {
		y = p.Height - 1
	}

	return int(p.Data[y*p.Width+x])
}

// newFrame allocates a frame whose planes are a copy of prev. The frame takes ownership of prev
// as its reference picture until release. A nil prev yields a reference filled with DefaultSample.
func newFrame(prev *Frame) *Frame {
	if prev == nil {
		prev = allocFrame()
		prev.fill(DefaultSample)
	}

	frame := allocFrame()
	copy(frame.Y.Data, prev.Y.Data)
	copy(frame.Cb.Data, prev.Cb.Data)
	copy(frame.Cr.Data, prev.Cr.Data)

	frame.prev = prev

	return frame
}

func allocFrame() *Frame {
	lumaSize := Width * Height
	chromaSize := chromaWidth * chromaHeight
	frameSize := lumaSize + 2*chromaSize

	base := make([]byte, frameSize)

	frame := &Frame{}
	frame.Width = Width
	frame.Height = Height

	frame.Y.Width = Width
	frame.Y.Height = Height
	frame.Y.Data = base[0:lumaSize:lumaSize]

	frame.Cb.Width = chromaWidth
	frame.Cb.Height = chromaHeight
	frame.Cb.Data = base[lumaSize : lumaSize+chromaSize : lumaSize+chromaSize]

	frame.Cr.Width = chromaWidth
	frame.Cr.Height = chromaHeight
	frame.Cr.Data = base[lumaSize+chromaSize : frameSize : frameSize]

	frame.imYCbCr = image.YCbCr{
		Y:              frame.Y.Data,
		Cb:             frame.Cb.Data,
		Cr:             frame.Cr.Data,
		SubsampleRatio: image.YCbCrSubsampleRatio420,
		YStride:        Width,
		CStride:        chromaWidth,
		Rect:           image.Rect(0, 0, Width, Height),
	}

	return frame
}

func (f *Frame) fill(value byte) {
	for _, d := range [][]byte{f.Y.Data, f.Cb.Data, f.Cr.Data} {
		for i := range d {
			d[i] = value
		}
	}
}

// clone returns a deep copy of the planes and picture information, without the reference.
func (f *Frame) clone() *Frame {
	c := allocFrame()
	copy(c.Y.Data, f.Y.Data)
	copy(c.Cb.Data, f.Cb.Data)
	copy(c.Cr.Data, f.Cr.Data)

	c.Time = f.Time
	c.TemporalReference = f.TemporalReference
	c.SplitScreen = f.SplitScreen
	c.DocumentCamera = f.DocumentCamera
	c.FreezeRelease = f.FreezeRelease

	return c
}

// release drops the reference picture once the frame is complete.
func (f *Frame) release() {
	f.prev = nil
}

// YCbCr returns frame as image.YCbCr.
func (f *Frame) YCbCr() *image.YCbCr {
	return &f.imYCbCr
}

// RGBA returns frame as image.RGBA.
func (f *Frame) RGBA() *image.RGBA {
	if f.imRGBA.Pix == nil {
		f.imRGBA = image.RGBA{
			Pix:    make([]byte, Width*Height*4),
			Stride: 4 * Width,
			Rect:   image.Rect(0, 0, Width, Height),
		}
	}

	b := f.imYCbCr.Bounds()
	draw.Draw(&f.imRGBA, b.Bounds(), &f.imYCbCr, b.Min, draw.Src)

	return &f.imRGBA
}

// Pixels returns frame as slice of color.RGBA.
func (f *Frame) Pixels() []color.RGBA {
	img := f.RGBA()
	return unsafe.Slice((*color.RGBA)(unsafe.Pointer(&img.Pix[0])), len(img.Pix)/4)
}
