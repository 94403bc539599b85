// Package gf implements GF(2^8) arithmetic and the Cauchy-matrix Reed-Solomon
// kernel the TR codec builds its repair traces on top of.
package gf

import "errors"

// FieldSize is the size of GF(2^8); codec instances over this field require
// n < FieldSize total units.
const FieldSize = 256

// Primitive polynomial 0x11d, generator 0x02 — same construction the
// teacher's gf256Init used, carried over unchanged since it is the field the
// static tables in package tables are generated against.
var (
	expTable [2*FieldSize - 1]byte
	logTable [FieldSize]byte
)

func init() {
	x := 1
	for i := 0; i < FieldSize-1; i++ {
		expTable[i] = byte(x)
		logTable[byte(x)] = byte(i)
		x <<= 1
		if x&0x100 != 0 {
			x ^= 0x11d
		}
	}
	for i := FieldSize - 1; i < len(expTable); i++ {
		expTable[i] = expTable[i-(FieldSize-1)]
	}
}

// Mul multiplies two GF(2^8) elements via log/antilog tables.
func Mul(a, b byte) byte {
	if a == 0 || b == 0 {
		return 0
	}
	return expTable[int(logTable[a])+int(logTable[b])]
}

// Inv returns the multiplicative inverse of a non-zero element.
func Inv(a byte) byte {
	if a == 0 {
		return 0
	}
	return expTable[FieldSize-1-int(logTable[a])]
}

// AlphaPow returns generator^e, with e taken mod (FieldSize-1).
func AlphaPow(e int) byte {
	e %= FieldSize - 1
	if e < 0 {
		e += FieldSize - 1
	}
	if e == 0 {
		return 1
	}
	return expTable[e]
}

// MulAddBytes computes dst[i] ^= a*src[i] for the overlapping length of the
// two slices. a == 0 is a no-op; a == 1 degenerates to a plain XOR.
func MulAddBytes(dst, src []byte, a byte) {
	if a == 0 {
		return
	}
	n := len(dst)
	if len(src) < n {
		n = len(src)
	}
	if a == 1 {
		for i := 0; i < n; i++ {
			dst[i] ^= src[i]
		}
		return
	}
	row := expTable[int(logTable[a]):]
	for i := 0; i < n; i++ {
		s := src[i]
		if s == 0 {
			continue
		}
		dst[i] ^= row[logTable[s]]
	}
}

// InvertMatrix inverts a square matrix over GF(2^8) by Gauss-Jordan
// elimination with an adjoined identity. Returns ok=false if singular.
func InvertMatrix(a [][]byte) ([][]byte, bool) {
	n := len(a)
	aug := make([][]byte, n)
	for i := 0; i < n; i++ {
		aug[i] = make([]byte, 2*n)
		copy(aug[i][:n], a[i])
		aug[i][n+i] = 1
	}
	row := 0
	for col := 0; col < n && row < n; col++ {
		pivot := -1
		for r := row; r < n; r++ {
			if aug[r][col] != 0 {
				pivot = r
				break
			}
		}
		if pivot == -1 {
			continue
		}
		aug[row], aug[pivot] = aug[pivot], aug[row]
		inv := Inv(aug[row][col])
		for j := 0; j < 2*n; j++ {
			aug[row][j] = Mul(aug[row][j], inv)
		}
		for r := 0; r < n; r++ {
			if r == row {
				continue
			}
			factor := aug[r][col]
			if factor == 0 {
				continue
			}
			for j := 0; j < 2*n; j++ {
				aug[r][j] ^= Mul(aug[row][j], factor)
			}
		}
		row++
	}
	if row < n {
		return nil, false
	}
	inv := make([][]byte, n)
	for i := 0; i < n; i++ {
		inv[i] = make([]byte, n)
		copy(inv[i], aug[i][n:])
	}
	return inv, true
}

// ErrSingular names the "matrix not invertible" condition. No function in
// this package returns it; InvertMatrix reports a singular matrix through its
// ok result.
var ErrSingular = errors.New("gf: matrix not invertible")
