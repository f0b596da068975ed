package axis

import (
	"github.com/RoaringBitmap/roaring/v2"

	"github.com/zeusync/broadphase/pkg/generic"
)

// IDIndex is Index specialized for uint32 handles. Buckets are Roaring
// bitmaps, so the per-axis union and the cross-axis intersection of Nearby run
// as bitmap operations instead of hash set walks.
type IDIndex struct {
	axes       [3]map[int]*roaring.Bitmap
	placements map[uint32]generic.Set[Coord]
}

func NewIDIndex() *IDIndex {
	idx := &IDIndex{placements: make(map[uint32]generic.Set[Coord])}
	for a := range idx.axes {
		idx.axes[a] = make(map[int]*roaring.Bitmap)
	}
	return idx
}

func (idx *IDIndex) Insert(id uint32, x, y, z int) {
	c := Coord{X: x, Y: y, Z: z}
	for a := X; a <= Z; a++ {
		bm, ok := idx.axes[a][c.on(a)]
		if !ok {
			bm = roaring.New()
			idx.axes[a][c.on(a)] = bm
		}
		bm.Add(id)
	}

	placed, ok := idx.placements[id]
	if !ok {
		placed = make(generic.Set[Coord], 1)
		idx.placements[id] = placed
	}
	placed.Add(c)
}

// Erase has the same value-keyed contract as Index.Erase.
func (idx *IDIndex) Erase(id uint32, x, y, z int) {
	c := Coord{X: x, Y: y, Z: z}
	idx.erase(id, c)

	if placed := idx.placements[id]; placed.Remove(c) && placed.Len() == 0 {
		delete(idx.placements, id)
	}
}

func (idx *IDIndex) Remove(id uint32) bool {
	placed, ok := idx.placements[id]
	if !ok {
		return false
	}
	for c := range placed {
		idx.erase(id, c)
	}
	delete(idx.placements, id)
	return true
}

func (idx *IDIndex) Contains(id uint32) bool {
	_, ok := idx.placements[id]
	return ok
}

func (idx *IDIndex) Len() int {
	return len(idx.placements)
}

// Nearby returns a fresh bitmap of the ids within radius of the query on every axis.
func (idx *IDIndex) Nearby(x, y, z, radius int) *roaring.Bitmap {
	if radius < 0 {
		return roaring.New()
	}

	query := Coord{X: x, Y: y, Z: z}
	var out *roaring.Bitmap
	for a := X; a <= Z; a++ {
		union := idx.collect(a, query.on(a), radius)
		if out == nil {
			out = union
		} else {
			out.And(union)
		}
		if out.IsEmpty() {
			break
		}
	}
	return out
}

// NearbyIDs is Nearby flattened to an ascending slice.
func (idx *IDIndex) NearbyIDs(x, y, z, radius int) []uint32 {
	return idx.Nearby(x, y, z, radius).ToArray()
}

func (idx *IDIndex) collect(a Axis, c, radius int) *roaring.Bitmap {
	buckets := idx.axes[a]
	lo, hi := generic.Window(c, radius)
	var hits []*roaring.Bitmap
	if generic.SpanLen(lo, hi) <= uint64(len(buckets)) {
		for k := range generic.Span(lo, hi) {
			if bm, ok := buckets[k]; ok {
				hits = append(hits, bm)
			}
		}
	} else {
		for k, bm := range buckets {
			if k >= lo && k <= hi {
				hits = append(hits, bm)
			}
		}
	}
	switch len(hits) {
	case 0:
		return roaring.New()
	case 1:
		return hits[0].Clone()
	default:
		return roaring.FastOr(hits...)
	}
}

func (idx *IDIndex) erase(id uint32, c Coord) {
	for a := X; a <= Z; a++ {
		bm, ok := idx.axes[a][c.on(a)]
		if !ok {
			continue
		}
		bm.Remove(id)
		if bm.IsEmpty() {
			delete(idx.axes[a], c.on(a))
		}
	}
}
