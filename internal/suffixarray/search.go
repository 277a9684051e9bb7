package suffixarray

// Search returns the longest-prefix match between target and some suffix
// of ref recorded in sa, searching the whole array.
//
// It returns (pos, length) with 0 <= pos < len(ref), 0 <= length <=
// len(target), and ref[pos:pos+length] == target[:length]. The returned
// pos need not be globally unique; any suffix-array position achieving
// the maximal local prefix length is an acceptable answer.
func Search(sa []int32, ref, target []byte) (pos, length int) {
	if len(ref) == 0 {
		return 0, 0
	}
	p, l := search(sa, ref, target, 0, int32(len(ref)))
	return int(p), int(l)
}

// search is a recursive binary search over the suffix array: the base
// case returns whichever of sa[st], sa[en] has the longer common prefix
// with target, ties broken toward the higher index (en); the recursive
// step compares ref[sa[x]:] against target lexicographically to pick a
// half.
func search(sa []int32, ref, target []byte, st, en int32) (pos, length int32) {
	if en-st < 2 {
		x := matchlen(ref[sa[st]:], target)
		y := matchlen(ref[sa[en]:], target)
		if x > y {
			return sa[st], x
		}
		return sa[en], y
	}

	mid := st + (en-st)/2
	if lexLess(ref[sa[mid]:], target) {
		return search(sa, ref, target, mid, en)
	}
	return search(sa, ref, target, st, mid)
}

// lexLess reports whether a is lexicographically less than b: bytes are
// compared over their shared prefix length, and when that prefix is
// equal the shorter slice is the lesser.
func lexLess(a, b []byte) bool {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return len(a) < len(b)
}

// matchlen returns the number of bytes common to the prefixes of a and b.
func matchlen(a, b []byte) int32 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var i int32
	for int(i) < n && a[i] == b[i] {
		i++
	}
	return i
}
