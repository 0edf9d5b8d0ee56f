package h261

import (
	"io"
	"log/slog"

	"github.com/pkg/errors"
)

// Framerate is the nominal picture rate of H.261, one temporal reference tick per picture.
const Framerate = 30000.0 / 1001.0

// Video decodes H.261 pictures from a Buffer.
type Video struct {
	frameRate     float64
	time          float64
	frameTime     float64
	framesDecoded int
	pictures      int

	// lastReference is the temporal reference of the last decoded picture, -1 before the first.
	lastReference int

	buf *Buffer

	// reference is the last completed picture, owned by the decoder.
	reference *Frame

	group   int
	gquant  int
	address int

	motionH int
	motionV int

	blockData [64]float64

	logger *slog.Logger
}

// NewVideo creates a video decoder with buffer as a source.
func NewVideo(buf *Buffer) *Video {
	video := &Video{}
	video.buf = buf
	video.frameRate = Framerate
	video.lastReference = -1

	return video
}

// Buffer returns video buffer.
func (v *Video) Buffer() *Buffer {
	return v.buf
}

// SetLogger sets the logger used for decoder tracing. A nil logger disables tracing.
func (v *Video) SetLogger(logger *slog.Logger) {
	v.logger = logger
}

// Framerate returns the framerate in frames per second.
func (v *Video) Framerate() float64 {
	return v.frameRate
}

// Width returns the display width.
func (v *Video) Width() int {
	return Width
}

// Height returns the display height.
func (v *Video) Height() int {
	return Height
}

// Time returns the current internal time in seconds.
func (v *Video) Time() float64 {
	return v.time
}

// FramesDecoded returns the number of successfully decoded pictures since the last rewind.
func (v *Video) FramesDecoded() int {
	return v.framesDecoded
}

// Tell returns the bit position of the decoder in the stream.
func (v *Video) Tell() int {
	return v.buf.Tell()
}

// Rewind rewinds the internal buffer and drops the reference picture.
func (v *Video) Rewind() {
	v.buf.Rewind()
	v.time = 0
	v.frameTime = 0
	v.framesDecoded = 0
	v.pictures = 0
	v.lastReference = -1
	v.reference = nil
}

// HasEnded checks whether the file has ended. This will be cleared on rewind.
func (v *Video) HasEnded() bool {
	return v.buf.HasEnded()
}

// Resync moves the cursor to the next picture start code and reports whether one was found.
// Decode does the same on its own, Resync lets callers check for a following picture first.
func (v *Video) Resync() bool {
	return v.buf.findStartCode(pictureStartCode, 20)
}

// Decode decodes and returns the next picture. The returned frame is owned by the caller, the
// decoder keeps its own copy as the reference for the following picture.
//
// At the end of the stream io.EOF is returned. On any other error the reference picture is left
// untouched, and calling Decode again continues with the next picture start code.
func (v *Video) Decode() (*Frame, error) {
	if !v.buf.findStartCode(pictureStartCode, 20) {
		return nil, io.EOF
	}

	v.pictures++

	frame := newFrame(v.reference)
	err := v.decodePicture(frame)
	frame.release()

	if err != nil {
		v.debug("picture failed", "picture", v.pictures, "err", err)

		return nil, err
	}

	if v.lastReference < 0 {
		frame.Time = v.time
	} else {
		ticks := (frame.TemporalReference - v.lastReference) & 31
		frame.Time = v.frameTime + float64(ticks)/v.frameRate
	}

	v.lastReference = frame.TemporalReference
	v.frameTime = frame.Time
	v.time = frame.Time + 1/v.frameRate
	v.framesDecoded++

	v.reference = frame.clone()

	return frame, nil
}

func (v *Video) decodePicture(frame *Frame) error {
	v.group, v.address = 0, 0

	v.buf.skip(20) // PSC
	frame.TemporalReference = v.buf.ReadBits(5)

	frame.SplitScreen = v.buf.read1() == 1
	frame.DocumentCamera = v.buf.read1() == 1
	frame.FreezeRelease = v.buf.read1() == 1

	sourceFormat := v.buf.read1()
	hiRes := v.buf.read1()
	if sourceFormat != 1 || hiRes != 1 {
		return v.fail(errors.Wrapf(ErrUnsupportedFormat, "source format %d, hi_res %d", sourceFormat, hiRes), -1)
	}

	v.buf.skip(1) // spare
	frame.ExtraInformation = v.buf.skipExtra()

	v.debug("picture", "picture", v.pictures, "tr", frame.TemporalReference, "pos", v.buf.Tell())

	for i := 0; i < gobCount; i++ {
		if err := v.decodeGroup(frame); err != nil {
			return err
		}
	}

	return nil
}

func (v *Video) decodeGroup(frame *Frame) error {
	v.group, v.address = 0, 0

	if code := v.buf.ReadBits(16); code != groupStartCode {
		return v.fail(errors.Wrapf(ErrInvalidGOBStart, "got %#04x", code), -1)
	}

	group := v.buf.ReadBits(4)
	if group == 0 || group > gobCount {
		return v.fail(errors.Wrapf(ErrInvalidGroupNumber, "group number %d", group), -1)
	}

	v.group = group
	v.gquant = v.buf.ReadBits(5)
	v.buf.skipExtra()

	v.debug("group", "group", group, "gquant", v.gquant, "pos", v.buf.Tell())

	// Motion vector predictor
	v.motionH, v.motionV = 0, 0

	for v.address < mbaMax {
		increment, n := v.buf.readVlcOr(mbaTable, vlcMiss)

		if increment == mbaStuffing {
			return v.fail(ErrStuffing, -1)
		}

		if increment == vlcMiss || increment == mbaStartCode {
			// Start of the next group or picture
			v.buf.SeekRelative(-n)
			break
		}

		if v.address != 0 && increment != 1 {
			v.motionH, v.motionV = 0, 0
		}

		v.address += increment
		if v.address > mbaMax {
			return v.fail(errors.Wrapf(ErrInvalidAddress, "address %d", v.address), -1)
		}

		end, err := v.decodeMacroblock(frame)
		if err != nil {
			return err
		}
		if end {
			break
		}
	}

	return nil
}

// decodeMacroblock decodes the macroblock at v.address. It reports true when the motion vector
// data turned out to be the start of the next group.
func (v *Video) decodeMacroblock(frame *Frame) (bool, error) {
	typ := v.buf.CountLeadingZeroBits()
	if typ >= len(macroblockTypes) {
		return false, v.fail(errors.Wrapf(ErrInvalidMacroblockType, "%d leading zeros", typ), -1)
	}

	mb := macroblockTypes[typ]

	quant := v.gquant
	if mb.quant {
		quant = v.buf.ReadBits(5)
	}

	if mb.motion {
		if v.address == 1 || v.address == 12 || v.address == 23 {
			v.motionH, v.motionV = 0, 0
		}

		start := v.buf.Tell()

		h, err := v.decodeMotionVector(v.motionH)
		if err == nil {
			v.motionH = h
			v.motionV, err = v.decodeMotionVector(v.motionV)
		}

		if err == errMotionMiss {
			v.buf.Seek(start)
			return true, nil
		} else if err != nil {
			return false, v.fail(err, -1)
		}
	} else {
		v.motionH, v.motionV = 0, 0
	}

	// Intra macroblocks code all six blocks.
	cbp := 0
	if mb.coeffs {
		cbp = 0x3f
	}

	if mb.pattern {
		value, err := v.buf.readVlc(cbpTable)
		if err != nil {
			return false, v.fail(errors.Wrap(err, "cbp"), -1)
		}
		cbp = value
	}

	frame.MacroblocksCoded++
	if mb.prediction == predictionIntra {
		frame.MacroblocksIntra++
	}
	if mb.motion {
		frame.MacroblocksMotion++
	}

	gx := ((v.group - 1) & 1) * gobWidth * mbSize
	gy := ((v.group - 1) >> 1) * gobHeight * mbSize
	mbx := gx + ((v.address-1)%gobWidth)*mbSize
	mby := gy + ((v.address-1)/gobWidth)*mbSize

	for block := 0; block < 6; block++ {
		coded := cbp&(1<<(5-block)) != 0

		var residual *[64]float64
		if coded {
			if err := v.decodeBlock(mb.prediction == predictionIntra, quant); err != nil {
				return false, v.fail(err, block)
			}
			residual = &v.blockData
		} else if mb.prediction&predictionMotionBit == 0 {
			// The frame already holds the co-located reference samples.
			continue
		}

		if block < 4 {
			x := mbx + (block&1)*8
			y := mby + (block>>1)*8
			filter := mb.prediction&predictionFilterBit != 0
			predictBlock(&frame.Y, &frame.prev.Y, x, y, mb.prediction, v.motionH, v.motionV, filter, residual)

			continue
		}

		dst, ref := &frame.Cb, &frame.prev.Cb
		if block == 5 {
			dst, ref = &frame.Cr, &frame.prev.Cr
		}

		// Chroma is written unfiltered.
		predictBlock(dst, ref, mbx/2, mby/2, mb.prediction, v.motionH/2, v.motionV/2, false, residual)
	}

	return false, nil
}

var errMotionMiss = errors.New("motion vector code miss")

func (v *Video) decodeMotionVector(prev int) (int, error) {
	code, _ := v.buf.readVlcOr(mvdTable, vlcMiss)
	if code == vlcMiss {
		return prev, errMotionMiss
	}

	return reconstructMotion(prev, code)
}

// reconstructMotion adds the code to the predictor, choosing between the two values the code
// stands for so that the component stays within [-16,15].
func reconstructMotion(prev, code int) (int, error) {
	if code >= -1 && code <= 1 {
		return prev + code, nil
	}

	value := prev + code
	if value >= -16 && value <= 15 {
		return value, nil
	}

	if code > 0 {
		value -= 32
	} else {
		value += 32
	}

	if value >= -16 && value <= 15 {
		return value, nil
	}

	return 0, errors.Wrapf(ErrInvalidMotionVector, "predictor %d, code %d", prev, code)
}

// decodeBlock decodes the coefficients of one coded block into v.blockData and applies the inverse DCT.
func (v *Video) decodeBlock(intra bool, quant int) error {
	var coeffs [64]int

	n := 0

	if intra {
		dc, err := reconstructDC(v.buf.ReadBits(8))
		if err != nil {
			return err
		}

		coeffs[0] = dc
		n = 1
	} else if check := v.buf.PeekBits(2); check&2 != 0 {
		// First coefficient "1s", run 0 and level +-1
		v.buf.skip(2)

		level := 1
		if check&1 != 0 {
			level = -1
		}

		coeffs[0] = reconstruct(level, quant)
		n = 1
	}

	for {
		coeff, err := v.buf.readVlcUint(tcoeffTable)
		if err != nil {
			return errors.Wrapf(err, "tcoeff at position %d", n)
		}

		if coeff == tcoeffEOB {
			break
		}

		var run, level int
		if coeff == tcoeffEscape {
			run = v.buf.ReadBits(6)
			level = int(int8(v.buf.ReadBits(8)))
		} else {
			run = int(coeff >> 8)
			level = int(coeff & 0xff)
			if v.buf.read1() != 0 {
				level = -level
			}
		}

		// Encoders emit a zero escape level in place of the end of block.
		if level == 0 {
			break
		}

		n += run
		if n > 63 {
			return errors.Wrapf(ErrCoefficientOverflow, "run %d to position %d", run, n)
		}

		coeffs[zigZag[n]] = reconstruct(level, quant)
		n++
	}

	for i, c := range coeffs {
		v.blockData[i] = float64(c)
	}
	idct(&v.blockData)

	return nil
}

// reconstruct dequantizes a transform coefficient level.
func reconstruct(level, quant int) int {
	if level == 0 {
		return 0
	}

	sign := 1
	if level < 0 {
		sign = -1
	}

	value := quant * (2*level + sign)
	if quant&1 == 0 {
		value -= sign
	}

	if value > 2047 {
		return 2047
	} else if value < -2048 {
		return -2048
	}

	return value
}

// reconstructDC maps the 8-bit intra DC level to its coefficient.
func reconstructDC(level int) (int, error) {
	switch level {
	case 0, 128:
		return 0, errors.Wrapf(ErrInvalidDC, "level %d", level)
	case 255:
		return 1024, nil
	}

	return level * 8, nil
}

func (v *Video) fail(err error, block int) error {
	return &DecodeError{
		Picture: v.pictures,
		Group:   v.group,
		Address: v.address,
		Block:   block,
		Pos:     v.buf.Tell(),
		Err:     err,
	}
}

func (v *Video) debug(msg string, args ...any) {
	if v.logger != nil {
		v.logger.Debug(msg, args...)
	}
}
