package gf

import "fmt"

// GenCauchyMatrix builds an n x k generator matrix over GF(2^8) whose top
// k x k sub-matrix is the identity and whose bottom m x k sub-matrix (m =
// n-k) is a Cauchy matrix, giving an MDS systematic RS code. Grounded on the
// teacher's packet_rs.go Vandermonde construction, generalized from a square
// K x K Vandermonde to the systematic n x k shape the TR encoder needs.
//
// matrix[i*k+j] is the coefficient applied to data unit j when producing
// shard i. Rows 0..k are the identity; rows k..n hold the Cauchy parity
// coefficients x_i = alpha^i, y_j = alpha^(n+j), entry = 1/(x_i ^ y_j) in the
// sense of GF(2^8) subtraction-as-XOR.
func GenCauchyMatrix(n, k int) ([]byte, error) {
	if n <= 0 || k <= 0 || k > n {
		return nil, fmt.Errorf("gf: invalid n=%d k=%d", n, k)
	}
	if n >= FieldSize {
		return nil, fmt.Errorf("gf: n=%d exceeds field size %d", n, FieldSize)
	}
	m := n - k
	matrix := make([]byte, n*k)
	for i := 0; i < k; i++ {
		matrix[i*k+i] = 1
	}
	for p := 0; p < m; p++ {
		x := AlphaPow(k + p)
		row := matrix[(k+p)*k : (k+p)*k+k]
		for j := 0; j < k; j++ {
			y := AlphaPow(n + j)
			denom := x ^ y
			if denom == 0 {
				return nil, fmt.Errorf("gf: degenerate cauchy parameters at p=%d j=%d", p, j)
			}
			row[j] = Inv(denom)
		}
	}
	return matrix, nil
}

// InitTables precomputes, for every (parity, data) coefficient pair in the
// bottom m x k block of matrix, two 16-entry multiply tables (low/high
// nibble) — n*k*32 bytes total, matching the teacher's gfTables sizing
// convention (getNumAllUnits()*getNumDataUnits()*32 in TRRawEncoder). Rows
// for the identity block are not populated since EncodeData never consults
// them (data units copy through unchanged).
func InitTables(k, m int, matrix []byte) []byte {
	n := k + m
	tables := make([]byte, n*k*32)
	for p := 0; p < m; p++ {
		row := matrix[(k+p)*k : (k+p)*k+k]
		for j := 0; j < k; j++ {
			base := ((k+p)*k + j) * 32
			coeff := row[j]
			lo := tables[base : base+16]
			hi := tables[base+16 : base+32]
			for v := 0; v < 16; v++ {
				lo[v] = Mul(coeff, byte(v))
				hi[v] = Mul(coeff, byte(v<<4))
			}
		}
	}
	return tables
}

// coeffFromTables recovers mul(coefficient, b) from the precomputed
// low/high-nibble tables for coefficient (p, j) produced by InitTables.
func coeffFromTables(tables []byte, k, p, j int, b byte) byte {
	base := ((k+p)*k + j) * 32
	lo := tables[base : base+16]
	hi := tables[base+16 : base+32]
	return lo[b&0x0f] ^ hi[b>>4]
}

// EncodeData produces m parity shards from k data shards using the
// precomputed multiply tables: out[p][b] = XOR over d of
// mul(coef(p,d), dataIn[d][b+inOff[d]]), written at out[p][b+outOff[p]].
// Parity outputs are zeroed before accumulation. Mirrors RSUtil.encodeData's
// offset-aware signature from the teacher's Java original.
func EncodeData(tables []byte, k, m, l int, dataIn [][]byte, inOff []int, out [][]byte, outOff []int) error {
	if len(dataIn) != k {
		return fmt.Errorf("gf: expected %d data inputs, got %d", k, len(dataIn))
	}
	if len(out) != m {
		return fmt.Errorf("gf: expected %d parity outputs, got %d", m, len(out))
	}
	if l <= 0 || l%8 != 0 {
		return fmt.Errorf("gf: encode length %d must be a positive multiple of 8", l)
	}
	for d := 0; d < k; d++ {
		if inOff[d]+l > len(dataIn[d]) {
			return fmt.Errorf("gf: data input %d too short for offset %d and length %d", d, inOff[d], l)
		}
	}
	for p := 0; p < m; p++ {
		if outOff[p]+l > len(out[p]) {
			return fmt.Errorf("gf: parity output %d too short for offset %d and length %d", p, outOff[p], l)
		}
		dst := out[p][outOff[p] : outOff[p]+l]
		for i := range dst {
			dst[i] = 0
		}
		for d := 0; d < k; d++ {
			src := dataIn[d][inOff[d] : inOff[d]+l]
			for b := 0; b < l; b++ {
				dst[b] ^= coeffFromTables(tables, k, p, d, src[b])
			}
		}
	}
	return nil
}
