// Package sequence classifies and summarizes read payloads.
//
// FASTQ read payloads come in two encodings: nucleotide base calls (the
// IUPAC alphabet, ambiguity codes included) and legacy SOLiD colorspace,
// where a leading base call is followed by numeric color calls. The
// classification here drives tokenization; composition helpers serve the
// statistics layer.
package sequence

import "strings"

// Bases covers the IUPAC nucleotide alphabet, both cases.
const Bases = "ACGTUNRYSWKMBDHVacgtunryswkmbdhv"

// IsBase reports whether b is a valid nucleotide base call.
func IsBase(b byte) bool {
	return strings.IndexByte(Bases, b) >= 0
}

// IsBaseRun reports whether the run is entirely nucleotide base calls.
func IsBaseRun(run []byte) bool {
	if len(run) == 0 {
		return false
	}
	for _, b := range run {
		if !IsBase(b) {
			return false
		}
	}
	return true
}

// IsColorRun reports whether the run is a SOLiD colorspace sequence: a
// leading base call followed by color digits (0-3) or missing calls ('.').
func IsColorRun(run []byte) bool {
	if len(run) < 2 || !IsBase(run[0]) {
		return false
	}
	for _, b := range run[1:] {
		if (b < '0' || b > '3') && b != '.' {
			return false
		}
	}
	return true
}

// BaseCounts holds per-base composition of a read.
type BaseCounts struct {
	A     int
	C     int
	G     int
	T     int // also counts U
	N     int
	Other int
}

// CountBases tallies the composition of a base-space read. Case is
// ignored; ambiguity codes other than N land in Other.
func CountBases(bases string) BaseCounts {
	counts := BaseCounts{}
	for i := 0; i < len(bases); i++ {
		switch bases[i] {
		case 'A', 'a':
			counts.A++
		case 'C', 'c':
			counts.C++
		case 'G', 'g':
			counts.G++
		case 'T', 't', 'U', 'u':
			counts.T++
		case 'N', 'n':
			counts.N++
		default:
			counts.Other++
		}
	}
	return counts
}

// Total returns the total count of all bases.
func (bc BaseCounts) Total() int {
	return bc.A + bc.C + bc.G + bc.T + bc.N + bc.Other
}

// GCContent calculates the GC content (proportion of G and C bases).
func GCContent(bases string) float64 {
	if len(bases) == 0 {
		return 0.0
	}
	counts := CountBases(bases)
	return float64(counts.G+counts.C) / float64(len(bases))
}
