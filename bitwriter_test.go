package h261

import (
	"fmt"
	"strings"
)

// bitWriter builds synthetic bitstreams MSB first.
type bitWriter struct {
	data  []byte
	nbits int
}

func (w *bitWriter) write(value, count int) {
	for i := count - 1; i >= 0; i-- {
		if w.nbits&7 == 0 {
			w.data = append(w.data, 0)
		}
		if (value>>i)&1 != 0 {
			w.data[w.nbits>>3] |= 0x80 >> (w.nbits & 7)
		}
		w.nbits++
	}
}

// writeCode writes a code given as a string of '0' and '1', spaces are ignored.
func (w *bitWriter) writeCode(code string) {
	for _, c := range code {
		switch c {
		case '0':
			w.write(0, 1)
		case '1':
			w.write(1, 1)
		}
	}
}

func (w *bitWriter) bytes() []byte {
	return w.data
}

func vlcCodes(table []vlc) map[int]string {
	codes := make(map[int]string)

	var walk func(state int, path string)
	walk = func(state int, path string) {
		for bit := 0; bit < 2; bit++ {
			entry := table[state+bit]
			code := path + fmt.Sprint(bit)
			switch {
			case entry.Index > 0:
				walk(int(entry.Index), code)
			case entry.Index == 0:
				codes[int(entry.Value)] = code
			}
		}
	}
	walk(0, "")

	return codes
}

func vlcUintCodes(table []vlcUint) map[uint16]string {
	codes := make(map[uint16]string)

	var walk func(state int, path string)
	walk = func(state int, path string) {
		for bit := 0; bit < 2; bit++ {
			entry := table[state+bit]
			code := path + fmt.Sprint(bit)
			switch {
			case entry.Index > 0:
				walk(int(entry.Index), code)
			case entry.Index == 0:
				codes[entry.Value] = code
			}
		}
	}
	walk(0, "")

	return codes
}

var (
	mbaCodes    = vlcCodes(mbaTable)
	mvdCodes    = vlcCodes(mvdTable)
	cbpCodes    = vlcCodes(cbpTable)
	tcoeffCodes = vlcUintCodes(tcoeffTable)
)

// streamWriter writes pictures with the syntax elements the decoder understands.
type streamWriter struct {
	bitWriter
}

func (s *streamWriter) picture(tr int) {
	s.write(pictureStartCode, 20)
	s.write(tr, 5)
	s.write(0, 3) // PTYPE flags
	s.write(1, 1) // CIF
	s.write(1, 1) // hi_res off
	s.write(1, 1) // spare
	s.write(0, 1) // PEI
}

func (s *streamWriter) group(number, gquant int) {
	s.write(groupStartCode, 16)
	s.write(number, 4)
	s.write(gquant, 5)
	s.write(0, 1) // GEI
}

// emptyGroups writes headers for the groups from..12 without macroblocks.
func (s *streamWriter) emptyGroups(from int) {
	for g := from; g <= gobCount; g++ {
		s.group(g, 8)
	}
}

func (s *streamWriter) mba(increment int) {
	s.writeCode(mbaCodes[increment])
}

func (s *streamWriter) mtype(index int) {
	s.writeCode(strings.Repeat("0", index) + "1")
}

func (s *streamWriter) mvd(h, v int) {
	s.writeCode(mvdCodes[h])
	s.writeCode(mvdCodes[v])
}

func (s *streamWriter) cbp(pattern int) {
	s.writeCode(cbpCodes[pattern])
}

func (s *streamWriter) eob() {
	s.writeCode(tcoeffCodes[tcoeffEOB])
}

// coeff writes a run/level pair from the table with its sign bit.
func (s *streamWriter) coeff(run, level int) {
	sign := 0
	if level < 0 {
		sign = 1
		level = -level
	}

	s.writeCode(tcoeffCodes[uint16(run<<8|level)])
	s.write(sign, 1)
}

func (s *streamWriter) escape(run, level int) {
	s.writeCode(tcoeffCodes[tcoeffEscape])
	s.write(run, 6)
	s.write(level&0xff, 8)
}

// intraMacroblock writes an intra macroblock with DC only blocks.
func (s *streamWriter) intraMacroblock(luma, chroma int) {
	s.mtype(3)
	for block := 0; block < 6; block++ {
		dc := luma
		if block >= 4 {
			dc = chroma
		}
		s.write(dc, 8)
		s.eob()
	}
}
