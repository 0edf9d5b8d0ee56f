package h261

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrInvalidH261 is the error returned when the reader does not contain an H.261 picture start code.
	ErrInvalidH261 = errors.New("invalid H.261 stream")

	// ErrStreamTooLarge is returned when the (decompressed) stream exceeds MaxStreamSize.
	ErrStreamTooLarge = errors.New("stream too large")

	// ErrInvalidGOBStart is returned when a group of blocks does not begin with the GBSC.
	ErrInvalidGOBStart = errors.New("invalid group of blocks start code")

	// ErrInvalidGroupNumber is returned for group number 0 (a picture start where a group was expected)
	// or a group number outside of the CIF range.
	ErrInvalidGroupNumber = errors.New("invalid group number")

	// ErrUnsupportedFormat is returned for QCIF and still image pictures.
	ErrUnsupportedFormat = errors.New("unsupported picture format")

	// ErrStuffing is returned when macroblock address stuffing reaches the macroblock layer.
	ErrStuffing = errors.New("unexpected macroblock address stuffing")

	// ErrInvalidAddress is returned when the running macroblock address leaves [1,33].
	ErrInvalidAddress = errors.New("invalid macroblock address")

	// ErrInvalidMacroblockType is returned for a leading zero count with no macroblock type.
	ErrInvalidMacroblockType = errors.New("invalid macroblock type")

	// ErrInvalidDC is returned for the forbidden intra DC levels 0 and 128.
	ErrInvalidDC = errors.New("invalid intra DC level")

	// ErrInvalidMotionVector is returned when neither motion vector candidate is in [-16,15].
	ErrInvalidMotionVector = errors.New("invalid motion vector")

	// ErrCoefficientOverflow is returned when a run moves past coefficient 63.
	ErrCoefficientOverflow = errors.New("coefficient position overflow")

	// ErrInvalidCode is returned when a variable length code is not in its table.
	ErrInvalidCode = errors.New("invalid variable length code")
)

// VLCError reports a code table miss together with the bits read so far.
type VLCError struct {
	Trace string
	Pos   int
}

func (e *VLCError) Error() string {
	return fmt.Sprintf("%s: trace %s at bit %d", ErrInvalidCode, e.Trace, e.Pos)
}

// Is makes errors.Is(err, ErrInvalidCode) match.
func (e *VLCError) Is(target error) bool {
	return target == ErrInvalidCode
}

// DecodeError locates a decode failure within the picture.
// Group and Address are zero and Block is -1 when the failure happened outside of them.
type DecodeError struct {
	Picture int
	Group   int
	Address int
	Block   int
	Pos     int
	Err     error
}

func (e *DecodeError) Error() string {
	switch {
	case e.Block >= 0:
		return fmt.Sprintf("picture %d, gob %d, mb %d, block %d (bit %d): %v", e.Picture, e.Group, e.Address, e.Block, e.Pos, e.Err)
	case e.Address > 0:
		return fmt.Sprintf("picture %d, gob %d, mb %d (bit %d): %v", e.Picture, e.Group, e.Address, e.Pos, e.Err)
	case e.Group > 0:
		return fmt.Sprintf("picture %d, gob %d (bit %d): %v", e.Picture, e.Group, e.Pos, e.Err)
	}

	return fmt.Sprintf("picture %d (bit %d): %v", e.Picture, e.Pos, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
