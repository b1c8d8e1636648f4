package flate

// RFC 1951 §3.2.5: length codes 257..285, (extra bits, base length).
var lengthTable = [...]struct {
	extra uint
	base  int
}{
	/*257*/ {0, 3}, {0, 4}, {0, 5}, {0, 6}, {0, 7}, {0, 8}, {0, 9}, {0, 10},
	/*265*/ {1, 11}, {1, 13}, {1, 15}, {1, 17},
	/*269*/ {2, 19}, {2, 23}, {2, 27}, {2, 31},
	/*273*/ {3, 35}, {3, 43}, {3, 51}, {3, 59},
	/*277*/ {4, 67}, {4, 83}, {4, 99}, {4, 115},
	/*281*/ {5, 131}, {5, 163}, {5, 195}, {5, 227},
	/*285*/ {0, 258},
}

// RFC 1951 §3.2.5: distance codes 0..29, (extra bits, base distance).
var distanceTable = [...]struct {
	extra uint
	base  int
}{
	{0, 1}, {0, 2}, {0, 3}, {0, 4},
	{1, 5}, {1, 7},
	{2, 9}, {2, 13},
	{3, 17}, {3, 25},
	{4, 33}, {4, 49},
	{5, 65}, {5, 97},
	{6, 129}, {6, 193},
	{7, 257}, {7, 385},
	{8, 513}, {8, 769},
	{9, 1025}, {9, 1537},
	{10, 2049}, {10, 3073},
	{11, 4097}, {11, 6145},
	{12, 8193}, {12, 12289},
	{13, 16385}, {13, 24577},
}

// codeOrder is the permutation RFC 1951 §3.2.7 assigns the HCLEN
// tree-code lengths to.
var codeOrder = [...]int{16, 17, 18, 0, 8, 7, 9, 6, 10, 5, 11, 4, 12, 3, 13, 2, 14, 1, 15}

func fixedLiteralLengths() []int {
	lens := make([]int, 288)
	for i := 0; i <= 143; i++ {
		lens[i] = 8
	}
	for i := 144; i <= 255; i++ {
		lens[i] = 9
	}
	for i := 256; i <= 279; i++ {
		lens[i] = 7
	}
	for i := 280; i <= 287; i++ {
		lens[i] = 8
	}
	return lens
}

func fixedDistanceLengths() []int {
	lens := make([]int, 30)
	for i := range lens {
		lens[i] = 5
	}
	return lens
}

func identitySymbols(n int) []int {
	s := make([]int, n)
	for i := range s {
		s[i] = i
	}
	return s
}
