// Package h261 implements an H.261 video decoder for CIF pictures.
//
// This library provides two interfaces to decode H.261 elementary streams.
// A high-level H261 API wraps the frame decoder in an easy-to-use player loop.
//
// With the high-level interface you have two options to decode video:
//
// 1. Decode() and just hand over the delta time since the last call.
// It will decode everything needed and call your callback (specified through
// SetVideoCallback()) any number of times.
//
// 2. Use DecodeVideo() to decode exactly one frame at a time.
//
// Video data is decoded into a struct with all 3 planes (Y, Cb, Cr) stored in separate buffers,
// you can get image.YCbCr via YCbCr() function. You can either convert to image.RGBA on the CPU (slow)
// via the RGBA() function or do it on the GPU with the following matrix:
//
//	mat4 bt601 = mat4(
//	    1.16438,  0.00000,  1.59603, -0.87079,
//	    1.16438, -0.39176, -0.81297,  0.52959,
//	    1.16438,  2.01723,  0.00000, -1.08139,
//	    0, 0, 0, 1
//	);
//
//	gl_FragColor = vec4(y, cb, cr, 1.0) * bt601;
//
// Only CIF (352x288) pictures are supported, QCIF and still images are rejected.
// Streams may be compressed with gzip, zstd or xz, they are decompressed when the Buffer is created.
//
// If you get raw H.261 data from a different source, Buffer and Video can be used directly.
// Video.Decode reports every failure with its position in the picture, see DecodeError.
package h261

import (
	"io"
	"log/slog"
	"time"

	"github.com/pkg/errors"
)

// VideoFunc callback function.
type VideoFunc func(h *H261, frame *Frame)

// H261 is high-level interface implementation.
type H261 struct {
	time float64

	loop     bool
	hasEnded bool
	err      error

	buf   *Buffer
	video *Video

	done chan bool

	videoCallback VideoFunc
}

// New creates a new H261 instance.
func New(r io.Reader) (*H261, error) {
	h := &H261{}

	buf, err := NewBuffer(r)
	if err != nil {
		return nil, err
	}

	if !buf.hasStartCode(pictureStartCode, 20) {
		return nil, ErrInvalidH261
	}

	h.buf = buf
	h.video = NewVideo(buf)
	h.done = make(chan bool, 1)

	return h, nil
}

// Done returns done channel.
func (h *H261) Done() chan bool {
	return h.done
}

// Video returns video decoder.
func (h *H261) Video() *Video {
	return h.video
}

// SetVideoCallback sets a video callback.
func (h *H261) SetVideoCallback(callback VideoFunc) {
	h.videoCallback = callback
}

// SetLogger sets the logger used for decoder tracing.
func (h *H261) SetLogger(logger *slog.Logger) {
	h.video.SetLogger(logger)
}

// Width returns the display width of the video stream.
func (h *H261) Width() int {
	return h.video.Width()
}

// Height returns the display height of the video stream.
func (h *H261) Height() int {
	return h.video.Height()
}

// Framerate returns the framerate of the video stream in frames per second.
func (h *H261) Framerate() float64 {
	return h.video.Framerate()
}

// Time returns the current internal time in seconds.
func (h *H261) Time() time.Duration {
	return time.Duration(h.time * float64(time.Second))
}

// Err returns the error that stopped decoding, nil if the stream ended normally.
func (h *H261) Err() error {
	return h.err
}

// Rewind rewinds the stream back to the beginning.
func (h *H261) Rewind() {
	h.video.Rewind()
	h.time = 0
	h.err = nil
	h.hasEnded = false
}

// Loop returns looping.
func (h *H261) Loop() bool {
	return h.loop
}

// SetLoop sets looping.
func (h *H261) SetLoop(loop bool) {
	h.loop = loop
}

// HasEnded checks whether the stream has ended or decoding stopped on an error.
// If looping is enabled, this will return false unless decoding failed.
func (h *H261) HasEnded() bool {
	return h.hasEnded
}

// Decode advances the internal timer by tick and decodes video up to this time.
// This will call the video callback any number of times.
// A frame-skip is not implemented, i.e. everything up to current time will be decoded.
func (h *H261) Decode(tick time.Duration) {
	if h.videoCallback == nil || h.hasEnded {
		// Nothing to do here
		return
	}

	targetTime := h.time + tick.Seconds()

	for h.video.Time() < targetTime {
		frame := h.decodeFrame()
		if frame == nil {
			h.handleEnd()

			return
		}

		h.videoCallback(h, frame)
	}

	h.time += tick.Seconds()
}

// DecodeVideo decodes and returns one video frame. Returns nil if no frame could be decoded
// (either because the source ended or data is corrupt, see Err). The returned Frame is owned by the caller.
func (h *H261) DecodeVideo() *Frame {
	if h.hasEnded {
		return nil
	}

	frame := h.decodeFrame()
	if frame != nil {
		h.time = frame.Time
	} else {
		h.handleEnd()
	}

	return frame
}

// SeekFrame seeks, similar to Seek(), but will not call the VideoFunc callback.
// Pictures are predicted from their predecessors, so every frame up to the target time is decoded
// from the start of the stream. Returns the first frame at or after tm, the last frame of the stream
// if tm is past its end, or nil if no frame could be decoded.
func (h *H261) SeekFrame(tm time.Duration) *Frame {
	if tm < 0 {
		tm = 0
	}

	h.Rewind()

	var frame *Frame

	for {
		f, err := h.video.Decode()
		if err != nil {
			if !errors.Is(err, io.EOF) {
				h.err = err
			}

			break
		}

		frame = f
		if frame.Time >= tm.Seconds() {
			break
		}
	}

	if frame != nil {
		h.time = frame.Time
	}

	return frame
}

// Seek seeks to the specified time. If seeking succeeds, this function will call
// the VideoFunc callback exactly once with the target frame.
// Returns true if seeking succeeded or false if no frame could be found.
func (h *H261) Seek(tm time.Duration) bool {
	frame := h.SeekFrame(tm)
	if frame == nil {
		return false
	}

	if h.videoCallback != nil {
		h.videoCallback(h, frame)
	}

	return true
}

func (h *H261) decodeFrame() *Frame {
	frame, err := h.video.Decode()
	if err != nil {
		if !errors.Is(err, io.EOF) {
			h.err = err
		}

		return nil
	}

	return frame
}

func (h *H261) handleEnd() {
	if h.loop && h.err == nil {
		h.Rewind()

		return
	}

	h.hasEnded = true

	select {
	case h.done <- true:
	default:
	}
}
