package h261

import "math"

// Scaled 8-point DCT constants (Arai, Agui, Nakajima).
// See https://www.nayuki.io/page/fast-discrete-cosine-transform-algorithms for more info.
var (
	idctS [8]float64
	idctA [6]float64

	idctDet float64
)

func init() {
	var c [8]float64
	for i := range c {
		c[i] = math.Cos(math.Pi / 16 * float64(i))
		idctS[i] = 1 / (4 * c[i])
	}
	idctS[0] = 1 / (2 * math.Sqrt2)

	idctA = [6]float64{math.NaN(), c[4], c[2] - c[6], c[4], c[6] + c[2], c[6]}

	idctDet = idctA[2]*idctA[5] - idctA[2]*idctA[4] - idctA[4]*idctA[5]
}

// idct applies the orthonormal 2-D inverse DCT in place. Coefficients are in raster
// order (row = vertical frequency), results in raster order (row = y).
func idct(block *[64]float64) {
	for i := 0; i < 64; i += 8 {
		idct8((*[8]float64)(block[i : i+8]))
	}
	transpose(block)

	for i := 0; i < 64; i += 8 {
		idct8((*[8]float64)(block[i : i+8]))
	}
	transpose(block)
}

// idct8 is the scaled type III DCT, the exact inverse of the AAN forward transform.
func idct8(v *[8]float64) {
	a := &idctA

	v15 := v[0] / idctS[0]
	v26 := v[1] / idctS[1]
	v21 := v[2] / idctS[2]
	v28 := v[3] / idctS[3]
	v16 := v[4] / idctS[4]
	v25 := v[5] / idctS[5]
	v22 := v[6] / idctS[6]
	v27 := v[7] / idctS[7]

	v19 := (v25 - v28) / 2
	v20 := (v26 - v27) / 2
	v23 := (v26 + v27) / 2
	v24 := (v25 + v28) / 2

	v7 := (v23 + v24) / 2
	v11 := (v21 + v22) / 2
	v13 := (v23 - v24) / 2
	v17 := (v21 - v22) / 2

	v8 := (v15 + v16) / 2
	v9 := (v15 - v16) / 2

	v18 := (v19 - v20) * a[5]
	v12 := (v19*a[4] - v18) / idctDet
	v14 := (v18 - v20*a[2]) / idctDet

	v6 := v14 - v7
	v5 := v13/a[3] - v6
	v4 := -v5 - v12
	v10 := v17/a[1] - v11

	v0 := (v8 + v11) / 2
	v1 := (v9 + v10) / 2
	v2 := (v9 - v10) / 2
	v3 := (v8 - v11) / 2

	v[0] = (v0 + v7) / 2
	v[1] = (v1 + v6) / 2
	v[2] = (v2 + v5) / 2
	v[3] = (v3 + v4) / 2
	v[4] = (v3 - v4) / 2
	v[5] = (v2 - v5) / 2
	v[6] = (v1 - v6) / 2
	v[7] = (v0 - v7) / 2
}

func transpose(block *[64]float64) {
	for i := 0; i < 8; i++ {
		for j := i + 1; j < 8; j++ {
			block[i*8+j], block[j*8+i] = block[j*8+i], block[i*8+j]
		}
	}
}
