package h261

import (
	"bufio"
	"bytes"
	"io"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pkg/errors"
	"github.com/ulikunitz/xz"
)

// MaxStreamSize is the largest stream, after decompression, that NewBuffer accepts.
var MaxStreamSize int64 = 256 << 20

var (
	magicGzip = []byte{0x1f, 0x8b}
	magicZstd = []byte{0x28, 0xb5, 0x2f, 0xfd}
	magicXz   = []byte{0xfd, 0x37, 0x7a, 0x58, 0x5a, 0x00}
)

// readSource reads the whole stream, unwrapping gzip, zstd and xz containers.
func readSource(r io.Reader) ([]byte, error) {
	if r == nil {
		return nil, errors.Wrap(ErrInvalidH261, "nil reader")
	}

	br := bufio.NewReader(r)
	magic, err := br.Peek(len(magicXz))
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return nil, errors.Wrap(err, "peek stream")
	}

	var src io.Reader = br

	switch {
	case bytes.HasPrefix(magic, magicGzip):
		gz, err := gzip.NewReader(br)
		if err != nil {
			return nil, errors.Wrap(err, "gzip")
		}
		defer gz.Close()

		src = gz
	case bytes.HasPrefix(magic, magicZstd):
		dec, err := zstd.NewReader(br)
		if err != nil {
			return nil, errors.Wrap(err, "zstd")
		}
		defer dec.Close()

		src = dec
	case bytes.HasPrefix(magic, magicXz):
		xr, err := xz.NewReader(br)
		if err != nil {
			return nil, errors.Wrap(err, "xz")
		}

		src = xr
	}

	data, err := io.ReadAll(io.LimitReader(src, MaxStreamSize+1))
	if err != nil {
		return nil, errors.Wrap(err, "read stream")
	}

	if int64(len(data)) > MaxStreamSize {
		return nil, errors.Wrapf(ErrStreamTooLarge, "limit %d bytes", MaxStreamSize)
	}

	return data, nil
}
