// Package suffixarray builds a suffix array over a reference byte buffer
// and performs longest-common-prefix search against it. Everything here
// operates purely in memory, with no notion of patches, blocks, or
// records.
package suffixarray

// Build constructs the suffix array of ref: an index slice sa of length
// len(ref)+1 such that ref[sa[0]:], ref[sa[1]:], ..., ref[sa[len(ref)]:]
// are the suffixes of ref (plus the empty suffix) in lexicographic order.
//
// This is the Larsson-Sadakane ternary-split qsufsort, the same
// construction the bsdiff family has used since Colin Percival's original
// implementation: a bucket-based O(n log n) doubling sort with an
// in-place ternary partition at each doubling step.
func Build(ref []byte) []int32 {
	n := len(ref)
	sa := make([]int32, n+1)
	rank := make([]int32, n+1)

	var buckets [256]int32
	for _, c := range ref {
		buckets[c]++
	}
	for i := 1; i < 256; i++ {
		buckets[i] += buckets[i-1]
	}
	copy(buckets[1:], buckets[:255])
	buckets[0] = 0

	for i, c := range ref {
		buckets[c]++
		sa[buckets[c]] = int32(i) //nolint:gosec // i < n, and n is capped well under 2^31 by the public API
	}
	sa[0] = int32(n) //nolint:gosec // n is capped well under 2^31 by the public API

	for i, c := range ref {
		rank[i] = buckets[c]
	}
	rank[n] = 0

	for i := 1; i < 256; i++ {
		if buckets[i] == buckets[i-1]+1 {
			sa[buckets[i]] = -1
		}
	}
	sa[0] = -1

	for h := int32(1); sa[0] != -(int32(n) + 1); h += h {
		var run int32
		i := int32(0)
		for i < int32(n)+1 {
			if sa[i] < 0 {
				run -= sa[i]
				i -= sa[i]
			} else {
				if run != 0 {
					sa[i-run] = -run
				}
				run = rank[sa[i]] + 1 - i
				split(sa, rank, i, run, h)
				i += run
				run = 0
			}
		}
		if run != 0 {
			sa[i-run] = -run
		}
	}

	for i := int32(0); i < int32(n)+1; i++ {
		sa[rank[i]] = i
	}
	return sa
}

func swap32(a []int32, i, j int32) { a[i], a[j] = a[j], a[i] }

// split is the ternary-split partition step of qsufsort: within
// sa[start:start+length], partition by rank[sa[x]+h] into <, ==, > the
// pivot and recurse into the outer two partitions, updating rank for the
// newly-resolved equal-run.
func split(sa, rank []int32, start, length, h int32) {
	if length < 16 {
		var k int32
		for k = start; k < start+length; {
			j := int32(1)
			x := rank[sa[k]+h]
			var i int32
			for i = 1; k+i < start+length; i++ {
				if rank[sa[k+i]+h] < x {
					x = rank[sa[k+i]+h]
					j = 0
				}
				if rank[sa[k+i]+h] == x {
					swap32(sa, k+i, k+j)
					j++
				}
			}
			for i = 0; i < j; i++ {
				rank[sa[k+i]] = k + j - 1
			}
			if j == 1 {
				sa[k] = -1
			}
			k += j
		}
		return
	}

	x := rank[sa[start+length/2]+h]
	var jj, kk int32
	for i := start; i < start+length; i++ {
		if rank[sa[i]+h] < x {
			jj++
		}
		if rank[sa[i]+h] == x {
			kk++
		}
	}
	jj += start
	kk += jj

	i, j, k := start, int32(0), int32(0)
	for i < jj {
		switch {
		case rank[sa[i]+h] < x:
			i++
		case rank[sa[i]+h] == x:
			swap32(sa, i, jj+j)
			j++
		default:
			swap32(sa, i, kk+k)
			k++
		}
	}

	for jj+j < kk {
		if rank[sa[jj+j]+h] == x {
			j++
		} else {
			swap32(sa, jj+j, kk+k)
			k++
		}
	}

	if jj > start {
		split(sa, rank, start, jj-start, h)
	}

	for i = 0; i < kk-jj; i++ {
		rank[sa[jj+i]] = kk - 1
	}
	if jj == kk-1 {
		sa[jj] = -1
	}

	if start+length > kk {
		split(sa, rank, kk, start+length-kk, h)
	}
}
