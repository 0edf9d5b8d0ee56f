package h261

import "math"

// loopFilter is the 3x3 kernel of the MC loop filter, normalized by 16.
var loopFilter = [3][3]int{
	{1, 2, 1},
	{2, 4, 2},
	{1, 2, 1},
}

// predictBlock writes one 8x8 block at (x, y) of dst. The prediction is taken from ref according to
// the prediction kind, displaced by (motionH, motionV) when motion compensated. A nil residual
// writes the prediction alone.
func predictBlock(dst, ref *Plane, x, y, prediction, motionH, motionV int, filter bool, residual *[64]float64) {
	var pred [64]int

	switch {
	case prediction&predictionInterBit == 0:
		// Intra, nothing to add to.
	case prediction&predictionMotionBit == 0:
		fetchBlock(&pred, ref, x, y)
	default:
		fetchBlock(&pred, ref, x+motionH, y+motionV)
		if filter {
			filterBlock(&pred)
		}
	}

	scan := dst.Width - 8
	di := y*dst.Width + x

	for i := 0; i < 64; i += 8 {
		for j := 0; j < 8; j++ {
			value := pred[i+j]
			if residual != nil {
				value += int(math.Round(residual[i+j]))
			}

			dst.Data[di] = clamp(value)
			di++
		}
		di += scan
	}
}

// fetchBlock copies the 8x8 reference samples at (x, y), clamped to the plane.
func fetchBlock(block *[64]int, ref *Plane, x, y int) {
	if x >= 0 && y >= 0 && x+8 <= ref.Width && y+8 <= ref.Height {
		si := y*ref.Width + x
		for i := 0; i < 64; i += 8 {
			for j := 0; j < 8; j++ {
				block[i+j] = int(ref.Data[si+j])
			}
			si += ref.Width
		}

		return
	}

	for i := 0; i < 8; i++ {
		for j := 0; j < 8; j++ {
			block[i*8+j] = ref.at(x+j, y+i)
		}
	}
}

// filterBlock applies the loop filter to the interior samples. Border samples keep their value.
func filterBlock(block *[64]int) {
	src := *block

	for i := 1; i < 7; i++ {
		for j := 1; j < 7; j++ {
			sum := 0
			for fi := 0; fi < 3; fi++ {
				for fj := 0; fj < 3; fj++ {
					sum += loopFilter[fi][fj] * src[(i+fi-1)*8+j+fj-1]
				}
			}

			block[i*8+j] = sum >> 4
		}
	}
}

func clamp(n int) byte {
	if n > 255 {
		n = 255
	} else if n < 0 {
		n = 0
	}

	return byte(n)
}
