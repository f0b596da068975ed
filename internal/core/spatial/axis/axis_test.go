package axis

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/zeusync/broadphase/internal/core/observability/log"
	"github.com/zeusync/broadphase/pkg/generic"
)

func requireSet(t *testing.T, expected []string, got generic.Set[string]) {
	t.Helper()
	if diff := cmp.Diff(expected, generic.Sorted(got)); diff != "" {
		t.Fatalf("set mismatch (-want +got):\n%s", diff)
	}
}

func TestIndex_Scenario(t *testing.T) {
	idx := New[string]()
	idx.Insert("A", 1, 1, 1)
	idx.Insert("B", 2, 1, 1)

	requireSet(t, []string{"A", "B"}, idx.Nearby(1, 1, 1, 1))
	requireSet(t, []string{"A"}, idx.Nearby(1, 1, 1, 0))
}

func TestIndex_BucketMembership(t *testing.T) {
	idx := New[string]()
	idx.Insert("e", 3, -4, 7)
	idx.Insert("other", 0, 0, 0)

	tests := []struct {
		axis   Axis
		member int
	}{
		{axis: X, member: 3},
		{axis: Y, member: -4},
		{axis: Z, member: 7},
	}
	for _, tt := range tests {
		t.Run(tt.axis.String(), func(t *testing.T) {
			require.True(t, idx.Bucket(tt.axis, tt.member).Has("e"))
			for coord := -10; coord <= 10; coord++ {
				if coord == tt.member {
					continue
				}
				require.False(t, idx.Bucket(tt.axis, coord).Has("e"), "coord %d", coord)
			}
		})
	}
	require.Nil(t, idx.Bucket(Axis(9), 3))
}

func TestIndex_NearbyIntersectsAxes(t *testing.T) {
	idx := New[string]()
	idx.Insert("origin", 0, 0, 0)
	idx.Insert("diag", 2, 2, 2)
	idx.Insert("farY", 0, 5, 0)
	idx.Insert("farZ", 1, 1, -3)
	idx.Insert("neg", -2, -1, 0)

	tests := []struct {
		name     string
		query    Coord
		radius   int
		expected []string
	}{
		{name: "Negative radius", query: Coord{}, radius: -1, expected: []string{}},
		{name: "Exact match", query: Coord{}, radius: 0, expected: []string{"origin"}},
		{name: "Radius one", query: Coord{}, radius: 1, expected: []string{"origin"}},
		{name: "Radius two", query: Coord{}, radius: 2, expected: []string{"diag", "neg", "origin"}},
		{name: "Radius three", query: Coord{}, radius: 3, expected: []string{"diag", "farZ", "neg", "origin"}},
		{name: "Large radius", query: Coord{}, radius: 1000, expected: []string{"diag", "farY", "farZ", "neg", "origin"}},
		{name: "Empty neighborhood", query: Coord{X: 50, Y: 50, Z: 50}, radius: 3, expected: []string{}},
		{name: "Negative query", query: Coord{X: -2, Y: -2, Z: 0}, radius: 1, expected: []string{"neg"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := idx.Nearby(tt.query.X, tt.query.Y, tt.query.Z, tt.radius)
			require.ElementsMatch(t, tt.expected, got.Items())
		})
	}
}

func TestIndex_NearbyResultIsDetached(t *testing.T) {
	idx := New[string]()
	idx.Insert("a", 0, 0, 0)

	got := idx.Nearby(0, 0, 0, 0)
	got.Add("intruder")

	requireSet(t, []string{"a"}, idx.Nearby(0, 0, 0, 0))
	require.False(t, idx.Bucket(X, 0).Has("intruder"))
}

func TestIndex_EraseRequiresMatchingCoordinates(t *testing.T) {
	idx := New[string]()
	idx.Insert("e", 1, 1, 1)

	t.Run("Disjoint coordinates leave everything", func(t *testing.T) {
		idx.Erase("e", 2, 2, 2)
		require.True(t, idx.Contains("e"))
		requireSet(t, []string{"e"}, idx.Nearby(1, 1, 1, 0))
	})

	t.Run("Partial match leaves stale entries", func(t *testing.T) {
		idx.Erase("e", 1, 9, 9)
		require.False(t, idx.Bucket(X, 1).Has("e"))
		require.True(t, idx.Bucket(Y, 1).Has("e"))
		require.True(t, idx.Bucket(Z, 1).Has("e"))
		requireSet(t, nil, idx.Nearby(1, 1, 1, 0))
	})

	t.Run("Remove clears stale entries", func(t *testing.T) {
		require.True(t, idx.Remove("e"))
		require.False(t, idx.Bucket(Y, 1).Has("e"))
		require.False(t, idx.Bucket(Z, 1).Has("e"))
		require.False(t, idx.Contains("e"))
		require.False(t, idx.Remove("e"))
		require.Equal(t, 0, idx.Len())
	})
}

func TestIndex_EraseRoundTrip(t *testing.T) {
	idx := New[int]()
	idx.Insert(7, 4, 5, 6)
	idx.Erase(7, 4, 5, 6)

	require.False(t, idx.Contains(7))
	require.Empty(t, idx.Nearby(4, 5, 6, 2))
	for a := X; a <= Z; a++ {
		require.Empty(t, idx.axes[a])
	}
}

func TestIndex_MultiplePlacements(t *testing.T) {
	idx := New[string]()
	idx.Insert("p", 0, 0, 0)
	idx.Insert("p", 10, 10, 10)

	require.ElementsMatch(t, []Coord{{}, {X: 10, Y: 10, Z: 10}}, idx.Placements("p"))
	requireSet(t, []string{"p"}, idx.Nearby(10, 10, 10, 0))

	idx.Erase("p", 0, 0, 0)
	require.Equal(t, []Coord{{X: 10, Y: 10, Z: 10}}, idx.Placements("p"))
	require.Empty(t, idx.Nearby(0, 0, 0, 1))

	idx.Reset()
	require.Equal(t, 0, idx.Len())
	require.Empty(t, idx.Nearby(10, 10, 10, 0))
}

func TestIndex_MismatchedEraseIsLogged(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	idx := New[string](WithLogger(log.FromZap(zap.New(core))))
	idx.Insert("e", 1, 2, 3)
	idx.Erase("e", 3, 2, 1)

	entries := logs.FilterMessage("erase did not match a recorded placement").All()
	require.Len(t, entries, 1)
	require.Equal(t, "3,2,1", entries[0].ContextMap()["coord"])
}

func TestIDIndex(t *testing.T) {
	idx := NewIDIndex()
	idx.Insert(1, 1, 1, 1)
	idx.Insert(2, 2, 1, 1)
	idx.Insert(3, 1, 4, 1)

	require.Equal(t, []uint32{1, 2}, idx.NearbyIDs(1, 1, 1, 1))
	require.Equal(t, []uint32{1}, idx.NearbyIDs(1, 1, 1, 0))
	require.Equal(t, []uint32{1, 2, 3}, idx.NearbyIDs(1, 1, 1, 3))
	require.Empty(t, idx.NearbyIDs(1, 1, 1, -1))
	require.Equal(t, 3, idx.Len())

	t.Run("Result does not alias buckets", func(t *testing.T) {
		got := idx.Nearby(1, 1, 1, 0)
		got.Add(99)
		require.Equal(t, []uint32{1}, idx.NearbyIDs(1, 1, 1, 0))
	})

	t.Run("Erase and Remove", func(t *testing.T) {
		idx.Erase(2, 2, 1, 1)
		require.False(t, idx.Contains(2))
		require.Equal(t, []uint32{1}, idx.NearbyIDs(1, 1, 1, 1))

		require.True(t, idx.Remove(3))
		require.False(t, idx.Remove(3))
		require.Equal(t, []uint32{1}, idx.NearbyIDs(1, 1, 1, 100))
	})
}

func TestIDIndex_MatchesGenericIndex(t *testing.T) {
	byValue := New[uint32]()
	ids := NewIDIndex()

	for i := uint32(0); i < 200; i++ {
		x, y, z := int(i%7)-3, int(i%11)-5, int(i%5)-2
		byValue.Insert(i, x, y, z)
		ids.Insert(i, x, y, z)
	}
	for i := uint32(0); i < 200; i += 3 {
		x, y, z := int(i%7)-3, int(i%11)-5, int(i%5)-2
		byValue.Erase(i, x, y, z)
		ids.Erase(i, x, y, z)
	}

	for radius := 0; radius <= 3; radius++ {
		want := byValue.Nearby(0, 0, 0, radius).Items()
		got := ids.NearbyIDs(0, 0, 0, radius)
		require.ElementsMatch(t, want, got, "radius %d", radius)
	}
}

func TestIndex_ExtremeCoordinates(t *testing.T) {
	idx := New[string]()
	ids := NewIDIndex()
	idx.Insert("max", math.MaxInt, 0, 0)
	idx.Insert("min", math.MinInt, 0, math.MaxInt)
	ids.Insert(1, math.MaxInt, 0, 0)
	ids.Insert(2, math.MinInt, 0, math.MaxInt)

	tests := []struct {
		name     string
		query    Coord
		radius   int
		expected []string
		ids      []uint32
	}{
		{name: "Exact at MaxInt", query: Coord{X: math.MaxInt}, radius: 0, expected: []string{"max"}, ids: []uint32{1}},
		{name: "Window clamped at MaxInt", query: Coord{X: math.MaxInt}, radius: 5, expected: []string{"max"}, ids: []uint32{1}},
		{name: "Window reaching MaxInt", query: Coord{X: math.MaxInt - 1}, radius: 1, expected: []string{"max"}, ids: []uint32{1}},
		{name: "Exact at MinInt", query: Coord{X: math.MinInt, Z: math.MaxInt}, radius: 0, expected: []string{"min"}, ids: []uint32{2}},
		{name: "Window clamped at MinInt", query: Coord{X: math.MinInt, Z: math.MaxInt}, radius: 3, expected: []string{"min"}, ids: []uint32{2}},
		{name: "Radius MaxInt from origin", query: Coord{}, radius: math.MaxInt, expected: []string{"max"}, ids: []uint32{1}},
		{name: "Radius MaxInt from MinInt", query: Coord{X: math.MinInt}, radius: math.MaxInt, expected: []string{"min"}, ids: []uint32{2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			requireSet(t, tt.expected, idx.Nearby(tt.query.X, tt.query.Y, tt.query.Z, tt.radius))
			require.Equal(t, tt.ids, ids.NearbyIDs(tt.query.X, tt.query.Y, tt.query.Z, tt.radius))
		})
	}

	require.True(t, idx.Remove("max"))
	require.Empty(t, idx.Nearby(math.MaxInt, 0, 0, math.MaxInt))
}
