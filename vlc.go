package h261

const (
	pictureStartCode = 0x00010 // 20 bits
	groupStartCode   = 0x0001  // 16 bits

	mbaStartCode = 0
	mbaStuffing  = 34
	mbaMax       = 33

	tcoeffEOB    = 0xfffe
	tcoeffEscape = 0xffff

	vlcMiss = -1 << 20
)

// Prediction kinds; bit 0 marks inter, bit 1 motion compensation, bit 2 the loop filter.
const (
	predictionIntra      = 0
	predictionInter      = 1
	predictionInterMC    = 3
	predictionInterMCFil = 7

	predictionInterBit  = 1
	predictionMotionBit = 2
	predictionFilterBit = 4
)

// macroblockType is one MTYPE entry.
type macroblockType struct {
	prediction int
	quant      bool // MQUANT follows
	motion     bool // MVD follows
	pattern    bool // CBP follows
	coeffs     bool // TCOEFF follows
}

// macroblockTypes is keyed by the number of leading zeros of the MTYPE code.
var macroblockTypes = [...]macroblockType{
	0: {prediction: predictionInter, pattern: true, coeffs: true},
	1: {prediction: predictionInterMCFil, motion: true, pattern: true, coeffs: true},
	2: {prediction: predictionInterMCFil, motion: true},
	3: {prediction: predictionIntra, coeffs: true},
	4: {prediction: predictionInter, quant: true, pattern: true, coeffs: true},
	5: {prediction: predictionInterMCFil, quant: true, motion: true, pattern: true, coeffs: true},
	6: {prediction: predictionIntra, quant: true, coeffs: true},
	7: {prediction: predictionInterMC, motion: true, pattern: true, coeffs: true},
	8: {prediction: predictionInterMC, motion: true},
	9: {prediction: predictionInterMC, quant: true, motion: true, pattern: true, coeffs: true},
}

var zigZag = [64]byte{
	0, 1, 8, 16, 9, 2, 3, 10,
	17, 24, 32, 25, 18, 11, 4, 5,
	12, 19, 26, 33, 40, 48, 41, 34,
	27, 20, 13, 6, 7, 14, 21, 28,
	35, 42, 49, 56, 57, 50, 43, 36,
	29, 22, 15, 23, 30, 37, 44, 51,
	58, 59, 52, 45, 38, 31, 39, 46,
	53, 60, 61, 54, 47, 55, 62, 63,
}

// Macroblock address. Symbol 0 is the group/picture start code prefix
// (0000 0000 0000 0001), 34 is stuffing.
var mbaTable = []vlc{
	{1 << 1, 0}, {0, 1}, //   0: x
	{2 << 1, 0}, {3 << 1, 0}, //   1: 0x
	{4 << 1, 0}, {5 << 1, 0}, //   2: 00x
	{0, 3}, {0, 2}, //   3: 01x
	{6 << 1, 0}, {7 << 1, 0}, //   4: 000x
	{0, 5}, {0, 4}, //   5: 001x
	{8 << 1, 0}, {9 << 1, 0}, //   6: 0000x
	{0, 7}, {0, 6}, //   7: 0001x
	{10 << 1, 0}, {11 << 1, 0}, //   8: 0000 0x
	{12 << 1, 0}, {13 << 1, 0}, //   9: 0000 1x
	{14 << 1, 0}, {15 << 1, 0}, //  10: 0000 00x
	{16 << 1, 0}, {17 << 1, 0}, //  11: 0000 01x
	{18 << 1, 0}, {19 << 1, 0}, //  12: 0000 10x
	{0, 9}, {0, 8}, //  13: 0000 11x
	{20 << 1, 0}, {21 << 1, 0}, //  14: 0000 000x
	{-1, 0}, {22 << 1, 0}, //  15: 0000 001x
	{23 << 1, 0}, {24 << 1, 0}, //  16: 0000 010x
	{0, 15}, {0, 14}, //  17: 0000 011x
	{0, 13}, {0, 12}, //  18: 0000 100x
	{0, 11}, {0, 10}, //  19: 0000 101x
	{25 << 1, 0}, {-1, 0}, //  20: 0000 0000x
	{-1, 0}, {26 << 1, 0}, //  21: 0000 0001x
	{27 << 1, 0}, {28 << 1, 0}, //  22: 0000 0011x
	{29 << 1, 0}, {30 << 1, 0}, //  23: 0000 0100x
	{31 << 1, 0}, {32 << 1, 0}, //  24: 0000 0101x
	{33 << 1, 0}, {-1, 0}, //  25: 0000 0000 0x
	{-1, 0}, {34 << 1, 0}, //  26: 0000 0001 1x
	{35 << 1, 0}, {36 << 1, 0}, //  27: 0000 0011 0x
	{37 << 1, 0}, {38 << 1, 0}, //  28: 0000 0011 1x
	{39 << 1, 0}, {40 << 1, 0}, //  29: 0000 0100 0x
	{0, 21}, {0, 20}, //  30: 0000 0100 1x
	{0, 19}, {0, 18}, //  31: 0000 0101 0x
	{0, 17}, {0, 16}, //  32: 0000 0101 1x
	{41 << 1, 0}, {-1, 0}, //  33: 0000 0000 00x
	{-1, 0}, {0, 34}, //  34: 0000 0001 11x
	{0, 33}, {0, 32}, //  35: 0000 0011 00x
	{0, 31}, {0, 30}, //  36: 0000 0011 01x
	{0, 29}, {0, 28}, //  37: 0000 0011 10x
	{0, 27}, {0, 26}, //  38: 0000 0011 11x
	{0, 25}, {0, 24}, //  39: 0000 0100 00x
	{0, 23}, {0, 22}, //  40: 0000 0100 01x
	{42 << 1, 0}, {-1, 0}, //  41: 0000 0000 000x
	{43 << 1, 0}, {-1, 0}, //  42: 0000 0000 0000x
	{44 << 1, 0}, {-1, 0}, //  43: 0000 0000 0000 0x
	{45 << 1, 0}, {-1, 0}, //  44: 0000 0000 0000 00x
	{-1, 0}, {0, 0}, //  45: 0000 0000 0000 000x
}

// Motion vector difference. Values are the codes in [-16,15]; the ambiguous
// alternative (value -/+ 32) is resolved against the predictor.
var mvdTable = []vlc{
	{1 << 1, 0}, {0, 0}, //   0: x
	{2 << 1, 0}, {3 << 1, 0}, //   1: 0x
	{4 << 1, 0}, {5 << 1, 0}, //   2: 00x
	{0, 1}, {0, -1}, //   3: 01x
	{6 << 1, 0}, {7 << 1, 0}, //   4: 000x
	{0, 2}, {0, -2}, //   5: 001x
	{8 << 1, 0}, {9 << 1, 0}, //   6: 0000x
	{0, 3}, {0, -3}, //   7: 0001x
	{10 << 1, 0}, {11 << 1, 0}, //   8: 0000 0x
	{12 << 1, 0}, {13 << 1, 0}, //   9: 0000 1x
	{-1, 0}, {14 << 1, 0}, //  10: 0000 00x
	{15 << 1, 0}, {16 << 1, 0}, //  11: 0000 01x
	{17 << 1, 0}, {18 << 1, 0}, //  12: 0000 10x
	{0, 4}, {0, -4}, //  13: 0000 11x
	{-1, 0}, {19 << 1, 0}, //  14: 0000 001x
	{20 << 1, 0}, {21 << 1, 0}, //  15: 0000 010x
	{0, 7}, {0, -7}, //  16: 0000 011x
	{0, 6}, {0, -6}, //  17: 0000 100x
	{0, 5}, {0, -5}, //  18: 0000 101x
	{22 << 1, 0}, {23 << 1, 0}, //  19: 0000 0011x
	{24 << 1, 0}, {25 << 1, 0}, //  20: 0000 0100x
	{26 << 1, 0}, {27 << 1, 0}, //  21: 0000 0101x
	{28 << 1, 0}, {29 << 1, 0}, //  22: 0000 0011 0x
	{30 << 1, 0}, {31 << 1, 0}, //  23: 0000 0011 1x
	{32 << 1, 0}, {33 << 1, 0}, //  24: 0000 0100 0x
	{0, 10}, {0, -10}, //  25: 0000 0100 1x
	{0, 9}, {0, -9}, //  26: 0000 0101 0x
	{0, 8}, {0, -8}, //  27: 0000 0101 1x
	{-1, 0}, {0, -16}, //  28: 0000 0011 00x
	{0, 15}, {0, -15}, //  29: 0000 0011 01x
	{0, 14}, {0, -14}, //  30: 0000 0011 10x
	{0, 13}, {0, -13}, //  31: 0000 0011 11x
	{0, 12}, {0, -12}, //  32: 0000 0100 00x
	{0, 11}, {0, -11}, //  33: 0000 0100 01x
}

var cbpTable = []vlc{
	{1 << 1, 0}, {2 << 1, 0}, //   0: x
	{3 << 1, 0}, {4 << 1, 0}, //   1: 0x
	{5 << 1, 0}, {6 << 1, 0}, //   2: 1x
	{7 << 1, 0}, {8 << 1, 0}, //   3: 00x
	{9 << 1, 0}, {10 << 1, 0}, //   4: 01x
	{11 << 1, 0}, {12 << 1, 0}, //   5: 10x
	{13 << 1, 0}, {0, 60}, //   6: 11x
	{14 << 1, 0}, {15 << 1, 0}, //   7: 000x
	{16 << 1, 0}, {17 << 1, 0}, //   8: 001x
	{18 << 1, 0}, {19 << 1, 0}, //   9: 010x
	{20 << 1, 0}, {21 << 1, 0}, //  10: 011x
	{22 << 1, 0}, {23 << 1, 0}, //  11: 100x
	{0, 32}, {0, 16}, //  12: 101x
	{0, 8}, {0, 4}, //  13: 110x
	{24 << 1, 0}, {25 << 1, 0}, //  14: 0000x
	{26 << 1, 0}, {27 << 1, 0}, //  15: 0001x
	{28 << 1, 0}, {29 << 1, 0}, //  16: 0010x
	{30 << 1, 0}, {31 << 1, 0}, //  17: 0011x
	{0, 62}, {0, 2}, //  18: 0100x
	{0, 61}, {0, 1}, //  19: 0101x
	{0, 56}, {0, 52}, //  20: 0110x
	{0, 44}, {0, 28}, //  21: 0111x
	{0, 40}, {0, 20}, //  22: 1000x
	{0, 48}, {0, 12}, //  23: 1001x
	{32 << 1, 0}, {33 << 1, 0}, //  24: 0000 0x
	{34 << 1, 0}, {35 << 1, 0}, //  25: 0000 1x
	{36 << 1, 0}, {37 << 1, 0}, //  26: 0001 0x
	{38 << 1, 0}, {39 << 1, 0}, //  27: 0001 1x
	{40 << 1, 0}, {41 << 1, 0}, //  28: 0010 0x
	{42 << 1, 0}, {43 << 1, 0}, //  29: 0010 1x
	{0, 63}, {0, 3}, //  30: 0011 0x
	{0, 36}, {0, 24}, //  31: 0011 1x
	{44 << 1, 0}, {45 << 1, 0}, //  32: 0000 00x
	{46 << 1, 0}, {47 << 1, 0}, //  33: 0000 01x
	{48 << 1, 0}, {49 << 1, 0}, //  34: 0000 10x
	{50 << 1, 0}, {51 << 1, 0}, //  35: 0000 11x
	{52 << 1, 0}, {53 << 1, 0}, //  36: 0001 00x
	{54 << 1, 0}, {55 << 1, 0}, //  37: 0001 01x
	{56 << 1, 0}, {57 << 1, 0}, //  38: 0001 10x
	{58 << 1, 0}, {59 << 1, 0}, //  39: 0001 11x
	{0, 34}, {0, 18}, //  40: 0010 00x
	{0, 10}, {0, 6}, //  41: 0010 01x
	{0, 33}, {0, 17}, //  42: 0010 10x
	{0, 9}, {0, 5}, //  43: 0010 11x
	{-1, 0}, {60 << 1, 0}, //  44: 0000 000x
	{61 << 1, 0}, {62 << 1, 0}, //  45: 0000 001x
	{0, 58}, {0, 54}, //  46: 0000 010x
	{0, 46}, {0, 30}, //  47: 0000 011x
	{0, 57}, {0, 53}, //  48: 0000 100x
	{0, 45}, {0, 29}, //  49: 0000 101x
	{0, 38}, {0, 26}, //  50: 0000 110x
	{0, 37}, {0, 25}, //  51: 0000 111x
	{0, 43}, {0, 23}, //  52: 0001 000x
	{0, 51}, {0, 15}, //  53: 0001 001x
	{0, 42}, {0, 22}, //  54: 0001 010x
	{0, 50}, {0, 14}, //  55: 0001 011x
	{0, 41}, {0, 21}, //  56: 0001 100x
	{0, 49}, {0, 13}, //  57: 0001 101x
	{0, 35}, {0, 19}, //  58: 0001 110x
	{0, 11}, {0, 7}, //  59: 0001 111x
	{0, 39}, {0, 27}, //  60: 0000 0001x
	{0, 59}, {0, 55}, //  61: 0000 0010x
	{0, 47}, {0, 31}, //  62: 0000 0011x
}

// Transform coefficients:
//
//	0xff00  run
//	0x00ff  level
//
// Decoded values are unsigned. Sign bit follows in the stream.
// "1s" for the first coefficient of an inter block is not part of the table.
var tcoeffTable = []vlcUint{
	{1 << 1, 0}, {2 << 1, 0}, //   0: x
	{3 << 1, 0}, {4 << 1, 0}, //   1: 0x
	{0, 0xfffe}, {0, 0x0001}, //   2: 1x
	{5 << 1, 0}, {6 << 1, 0}, //   3: 00x
	{7 << 1, 0}, {0, 0x0101}, //   4: 01x
	{8 << 1, 0}, {9 << 1, 0}, //   5: 000x
	{10 << 1, 0}, {11 << 1, 0}, //   6: 001x
	{0, 0x0002}, {0, 0x0201}, //   7: 010x
	{12 << 1, 0}, {13 << 1, 0}, //   8: 0000x
	{14 << 1, 0}, {15 << 1, 0}, //   9: 0001x
	{16 << 1, 0}, {0, 0x0003}, //  10: 0010x
	{0, 0x0401}, {0, 0x0301}, //  11: 0011x
	{17 << 1, 0}, {0, 0xffff}, //  12: 0000 0x
	{18 << 1, 0}, {19 << 1, 0}, //  13: 0000 1x
	{0, 0x0701}, {0, 0x0601}, //  14: 0001 0x
	{0, 0x0102}, {0, 0x0501}, //  15: 0001 1x
	{20 << 1, 0}, {21 << 1, 0}, //  16: 0010 0x
	{22 << 1, 0}, {23 << 1, 0}, //  17: 0000 00x
	{0, 0x0202}, {0, 0x0901}, //  18: 0000 10x
	{0, 0x0004}, {0, 0x0801}, //  19: 0000 11x
	{24 << 1, 0}, {25 << 1, 0}, //  20: 0010 00x
	{26 << 1, 0}, {27 << 1, 0}, //  21: 0010 01x
	{28 << 1, 0}, {29 << 1, 0}, //  22: 0000 000x
	{30 << 1, 0}, {31 << 1, 0}, //  23: 0000 001x
	{0, 0x0d01}, {0, 0x0006}, //  24: 0010 000x
	{0, 0x0c01}, {0, 0x0b01}, //  25: 0010 001x
	{0, 0x0302}, {0, 0x0103}, //  26: 0010 010x
	{0, 0x0005}, {0, 0x0a01}, //  27: 0010 011x
	{-1, 0}, {32 << 1, 0}, //  28: 0000 0000x
	{33 << 1, 0}, {34 << 1, 0}, //  29: 0000 0001x
	{35 << 1, 0}, {36 << 1, 0}, //  30: 0000 0010x
	{37 << 1, 0}, {38 << 1, 0}, //  31: 0000 0011x
	{39 << 1, 0}, {40 << 1, 0}, //  32: 0000 0000 1x
	{41 << 1, 0}, {42 << 1, 0}, //  33: 0000 0001 0x
	{43 << 1, 0}, {44 << 1, 0}, //  34: 0000 0001 1x
	{0, 0x1001}, {0, 0x0502}, //  35: 0000 0010 0x
	{0, 0x0007}, {0, 0x0203}, //  36: 0000 0010 1x
	{0, 0x0104}, {0, 0x0f01}, //  37: 0000 0011 0x
	{0, 0x0e01}, {0, 0x0402}, //  38: 0000 0011 1x
	{45 << 1, 0}, {46 << 1, 0}, //  39: 0000 0000 10x
	{47 << 1, 0}, {48 << 1, 0}, //  40: 0000 0000 11x
	{49 << 1, 0}, {50 << 1, 0}, //  41: 0000 0001 00x
	{51 << 1, 0}, {52 << 1, 0}, //  42: 0000 0001 01x
	{53 << 1, 0}, {54 << 1, 0}, //  43: 0000 0001 10x
	{55 << 1, 0}, {56 << 1, 0}, //  44: 0000 0001 11x
	{57 << 1, 0}, {58 << 1, 0}, //  45: 0000 0000 100x
	{59 << 1, 0}, {60 << 1, 0}, //  46: 0000 0000 101x
	{61 << 1, 0}, {62 << 1, 0}, //  47: 0000 0000 110x
	{63 << 1, 0}, {64 << 1, 0}, //  48: 0000 0000 111x
	{0, 0x000b}, {0, 0x0802}, //  49: 0000 0001 000x
	{0, 0x0403}, {0, 0x000a}, //  50: 0000 0001 001x
	{0, 0x0204}, {0, 0x0702}, //  51: 0000 0001 010x
	{0, 0x1501}, {0, 0x1401}, //  52: 0000 0001 011x
	{0, 0x0009}, {0, 0x1301}, //  53: 0000 0001 100x
	{0, 0x1201}, {0, 0x0105}, //  54: 0000 0001 101x
	{0, 0x0303}, {0, 0x0008}, //  55: 0000 0001 110x
	{0, 0x0602}, {0, 0x1101}, //  56: 0000 0001 111x
	{0, 0x0a02}, {0, 0x0902}, //  57: 0000 0000 1000x
	{0, 0x0503}, {0, 0x0304}, //  58: 0000 0000 1001x
	{0, 0x0205}, {0, 0x0107}, //  59: 0000 0000 1010x
	{0, 0x0106}, {0, 0x000f}, //  60: 0000 0000 1011x
	{0, 0x000e}, {0, 0x000d}, //  61: 0000 0000 1100x
	{0, 0x000c}, {0, 0x1a01}, //  62: 0000 0000 1101x
	{0, 0x1901}, {0, 0x1801}, //  63: 0000 0000 1110x
	{0, 0x1701}, {0, 0x1601}, //  64: 0000 0000 1111x
}
