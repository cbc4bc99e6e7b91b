package aggregation

import (
	"hash/fnv"
	"strconv"
	"strings"

	"rollup/pkg/types"
)

// encodeGroupKey flattens an ordered tuple of grouping values into an
// unambiguous string key. Each value is tagged NULL or non-NULL and
// length-prefixed, so no value content can collide with another key.
//
// The NULL tag is what gives grouping its NULL-equals-NULL semantics:
// two NULLs encode identically and land in the same group, which native
// field equality would never grant them.
func encodeGroupKey(fields []types.Field) string {
	var b strings.Builder
	for _, f := range fields {
		if f == nil {
			b.WriteByte('n')
			continue
		}
		s := f.String()
		b.WriteByte('v')
		b.WriteString(strconv.Itoa(len(s)))
		b.WriteByte(':')
		b.WriteString(s)
	}
	return b.String()
}

// partitionOf assigns a group key to one of n disjoint partitions.
// Rows of the same group always hash to the same partition, which is what
// makes partition-parallel grouping safe.
func partitionOf(key string, n int) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return int(h.Sum32() % uint32(n)) // #nosec G115
}
