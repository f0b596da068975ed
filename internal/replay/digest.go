package replay

import (
	"fmt"
	"strconv"

	"github.com/cespare/xxhash/v2"

	"github.com/zeusync/broadphase/internal/core/spatial/grid"
)

// Digest folds every (cell, element) entry of g into an order-independent
// 64-bit checksum. Equal grid contents give equal digests regardless of
// insertion order or map iteration order.
func Digest(g *grid.Grid[string]) uint64 {
	sum := xxhash.Sum64String("cell_size=" + strconv.Itoa(g.CellSize()))
	buf := make([]byte, 0, 64)
	for c, bucket := range g.Cells() {
		for elem := range bucket {
			buf = strconv.AppendInt(buf[:0], int64(c.X), 10)
			buf = append(buf, ',')
			buf = strconv.AppendInt(buf, int64(c.Y), 10)
			buf = append(buf, ',')
			buf = strconv.AppendInt(buf, int64(c.Z), 10)
			buf = append(buf, ':')
			buf = append(buf, elem...)
			sum += xxhash.Sum64(buf)
		}
	}
	return sum
}

func FormatDigest(d uint64) string {
	return fmt.Sprintf("%016x", d)
}
