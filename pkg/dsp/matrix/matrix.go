// Package matrix builds the orthonormal feedback matrices used to couple
// the channels of a feedback delay network.
package matrix

import "math"

// Kind selects the construction used to build a feedback matrix.
type Kind int

const (
	// Hadamard builds a Sylvester-construction Hadamard matrix, scaled to
	// be orthonormal. Only defined for sizes that are powers of two.
	Hadamard Kind = iota
	// Householder builds the reflector I - (2/N)*J, where J is the all-
	// ones matrix: a reflection of the all-ones direction, orthonormal
	// for any size and requiring no power of two.
	Householder
)

// Build returns an n x n orthonormal matrix of the requested kind, stored
// row-major as a flat slice (row i, column j is at i*n+j). seed is
// unused by either construction here; it selects the independent per-row
// sign masks via SignMask.
func Build(kind Kind, n int, seed uint32) []float64 {
	_ = seed
	switch kind {
	case Householder:
		return householder(n)
	default:
		if isPowerOfTwo(n) {
			return hadamard(n)
		}
		return householder(n)
	}
}

func isPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}

// hadamard builds the Sylvester-construction Hadamard matrix of order n
// (a power of two), scaled by 1/sqrt(n) so it is orthonormal.
func hadamard(n int) []float64 {
	h := make([]float64, n*n)
	h[0] = 1
	for size := 1; size < n; size *= 2 {
		for i := 0; i < size; i++ {
			for j := 0; j < size; j++ {
				v := h[i*n+j]
				h[i*n+(j+size)] = v
				h[(i+size)*n+j] = v
				h[(i+size)*n+(j+size)] = -v
			}
		}
	}
	scale := 1.0 / math.Sqrt(float64(n))
	for i := range h {
		h[i] *= scale
	}
	return h
}

// householder builds I - (2/n)*J, where J is the n x n all-ones matrix:
// the reflection that sends the all-ones direction to its negative,
// orthonormal for any n (spec §4.5).
func householder(n int) []float64 {
	m := make([]float64, n*n)
	c := 2.0 / float64(n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			d := 0.0
			if i == j {
				d = 1
			}
			m[i*n+j] = d - c
		}
	}
	return m
}

// SignMask derives an n-element ±1 vector from a fixed-seed 32-bit LCG,
// used as the per-row input/output sign masks that randomise phase
// without affecting a matrix's orthonormality (spec §4.5).
func SignMask(n int, seed uint32) []float64 {
	mask := make([]float64, n)
	state := seed
	if state == 0 {
		state = 1
	}
	for i := 0; i < n; i++ {
		state = 1664525*state + 1013904223
		if state&0x80000000 != 0 {
			mask[i] = 1
		} else {
			mask[i] = -1
		}
	}
	return mask
}

// Apply computes out = M * in for an n x n matrix m built by Build. out and
// in must both have length n and must not alias.
func Apply(m []float64, in, out []float64) {
	n := len(in)
	for i := 0; i < n; i++ {
		var acc float64
		row := m[i*n : i*n+n]
		for j := 0; j < n; j++ {
			acc += row[j] * in[j]
		}
		out[i] = acc
	}
}

// ApplyWithSigns computes out = S_out * M * (S_in ⊙ in), where S_in and
// S_out are the diagonal ±1 matrices given by signIn and signOut. Since
// diagonal ±1 matrices are themselves orthonormal, this preserves the
// energy-preservation property of m while randomising phase per channel
// (spec §4.5). scratch must have length n and must not alias in or out.
func ApplyWithSigns(m []float64, signIn, signOut, in, out, scratch []float64) {
	n := len(in)
	for i := 0; i < n; i++ {
		scratch[i] = signIn[i] * in[i]
	}
	Apply(m, scratch, out)
	for i := 0; i < n; i++ {
		out[i] *= signOut[i]
	}
}
