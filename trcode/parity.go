package trcode

// parityTable[x] = popcount(x) mod 2, built the way TRRawEncoder.preCompute
// builds it: p[i] = p[i>>1] ^ (i&1). Encoder and decoder must agree on
// exactly this construction, so it is not swapped for bits.OnesCount8.
var parityTable [256]byte

func init() {
	for i := 1; i < 256; i++ {
		parityTable[i] = parityTable[i>>1] ^ byte(i&1)
	}
}

// parity8 returns the XOR of all 8 bits of x.
func parity8(x byte) byte { return parityTable[x] }
