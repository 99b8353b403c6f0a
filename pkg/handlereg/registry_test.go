package handlereg

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Mesh stands in for a renderer-owned value.
type Mesh struct {
	Name     string
	Vertices int
}

func TestNew(t *testing.T) {
	r := New[string]()
	require.NotNil(t, r)
	assert.Equal(t, 0, r.Len())
	assert.True(t, r.Empty())
	assert.Equal(t, DefaultName, r.Name())
	assert.NotEmpty(t, r.Instance())
	require.NoError(t, r.Check())
}

func TestNew_InstancesAreDistinct(t *testing.T) {
	a := New[int](WithName("meshes"))
	b := New[int](WithName("meshes"))
	assert.NotEqual(t, a.Instance(), b.Instance())
}

func TestScenario(t *testing.T) {
	r := New[string]()

	require.True(t, r.EmplaceWithID(10, "a"))
	require.True(t, r.EmplaceWithID(20, "b"))
	require.True(t, r.EmplaceWithID(30, "c"))
	assert.Equal(t, 3, r.Len())

	require.True(t, r.Erase(20))
	assert.Equal(t, 2, r.Len())
	assert.False(t, r.Contains(20))
	assert.Equal(t, "a", *r.Get(10))
	assert.Equal(t, "c", *r.Get(30))

	require.True(t, r.EmplaceWithID(40, "d"))
	assert.Equal(t, 3, r.Len())

	var seen []string
	for _, v := range r.All() {
		seen = append(seen, *v)
	}
	assert.ElementsMatch(t, []string{"a", "c", "d"}, seen)
	assert.ElementsMatch(t, []string{"a", "c", "d"}, r.Values())
	require.NoError(t, r.Check())
}

func TestEmplaceWithID_RoundTrip(t *testing.T) {
	r := New[Mesh]()

	for i := range uint64(64) {
		id := i*7919 + 3
		require.True(t, r.EmplaceWithID(id, Mesh{Name: "m", Vertices: int(i)}))

		got := r.Get(id)
		require.NotNil(t, got)
		assert.Equal(t, int(i), got.Vertices)
	}
	assert.Equal(t, 64, r.Len())
	require.NoError(t, r.Check())
}

func TestEmplaceWithID_RejectsDuplicate(t *testing.T) {
	r := New[string]()
	require.True(t, r.EmplaceWithID(7, "first"))
	before := r.Stats()

	assert.False(t, r.EmplaceWithID(7, "second"))

	assert.Equal(t, "first", *r.Get(7))
	assert.Equal(t, before, r.Stats())
	require.NoError(t, r.Check())
}

func TestEmplaceWithID_ZeroAndMaxIdentity(t *testing.T) {
	r := New[string]()
	require.True(t, r.EmplaceWithID(0, "zero"))
	require.True(t, r.EmplaceWithID(^uint64(0), "max"))

	assert.Equal(t, "zero", *r.Get(0))
	assert.Equal(t, "max", *r.Get(^uint64(0)))
}

func TestInsert(t *testing.T) {
	r := New[string](WithName("meshes"))
	require.NoError(t, r.Insert(1, "a"))

	err := r.Insert(1, "b")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDuplicateIdentity)

	var idErr *IdentityError
	require.True(t, errors.As(err, &idErr))
	assert.Equal(t, "meshes", idErr.Table)
	assert.Equal(t, uint64(1), idErr.ID)
	assert.Equal(t, "insert", idErr.Op)
	assert.Equal(t, "meshes insert 1: identity already present", err.Error())
}

func TestGet_Absent(t *testing.T) {
	r := New[string]()
	assert.Nil(t, r.Get(1))

	r.EmplaceWithID(1, "a")
	assert.Nil(t, r.Get(2))
}

func TestGet_PointerAliasesStorage(t *testing.T) {
	r := New[Mesh]()
	r.EmplaceWithID(5, Mesh{Name: "crate"})

	r.Get(5).Vertices = 24
	assert.Equal(t, 24, r.Get(5).Vertices)
	assert.Equal(t, 24, r.Values()[0].Vertices)
}

func TestLookup(t *testing.T) {
	r := New[int]()
	r.EmplaceWithID(1, 100)

	v, ok := r.Lookup(1)
	assert.True(t, ok)
	assert.Equal(t, 100, v)

	v, ok = r.Lookup(2)
	assert.False(t, ok)
	assert.Equal(t, 0, v)
}

func TestErase(t *testing.T) {
	t.Run("keeps other entries intact", func(t *testing.T) {
		r := New[int]()
		for id := uint64(1); id <= 5; id++ {
			r.EmplaceWithID(id, int(id)*10)
		}

		require.True(t, r.Erase(2))

		assert.Equal(t, 4, r.Len())
		assert.False(t, r.Contains(2))
		for _, id := range []uint64{1, 3, 4, 5} {
			require.True(t, r.Contains(id))
			assert.Equal(t, int(id)*10, *r.Get(id))
		}
		require.NoError(t, r.Check())
	})

	t.Run("moves last value into the hole", func(t *testing.T) {
		r := New[string]()
		r.EmplaceWithID(10, "a")
		r.EmplaceWithID(20, "b")
		r.EmplaceWithID(30, "c")

		r.Erase(10)

		d, ok := r.DenseIndexOf(30)
		require.True(t, ok)
		assert.Equal(t, 0, d)
		assert.Equal(t, []string{"c", "b"}, r.Values())
	})

	t.Run("last entry", func(t *testing.T) {
		r := New[string]()
		r.EmplaceWithID(10, "a")
		r.EmplaceWithID(20, "b")

		require.True(t, r.Erase(20))
		assert.Equal(t, []string{"a"}, r.Values())
		require.NoError(t, r.Check())
	})

	t.Run("only entry", func(t *testing.T) {
		r := New[string]()
		r.EmplaceWithID(10, "a")

		require.True(t, r.Erase(10))
		assert.True(t, r.Empty())
		require.NoError(t, r.Check())
	})
}

func TestErase_Idempotent(t *testing.T) {
	r := New[string]()
	r.EmplaceWithID(1, "a")
	r.EmplaceWithID(2, "b")

	assert.False(t, r.Erase(99))
	assert.Equal(t, 2, r.Len())

	require.True(t, r.Erase(1))
	assert.False(t, r.Erase(1))
	assert.False(t, r.Erase(1))
	assert.Equal(t, 1, r.Len())
	require.NoError(t, r.Check())
}

func TestErase_ZeroesVacatedCell(t *testing.T) {
	r := New[*Mesh]()
	r.EmplaceWithID(1, &Mesh{Name: "a"})
	r.EmplaceWithID(2, &Mesh{Name: "b"})

	r.Erase(1)

	backing := r.values[:2]
	assert.Nil(t, backing[1], "erased tail cell must not keep the value reachable")
}

func TestTake(t *testing.T) {
	r := New[Mesh]()
	r.EmplaceWithID(1, Mesh{Name: "crate"})
	r.EmplaceWithID(2, Mesh{Name: "barrel"})

	v, ok := r.Take(1)
	require.True(t, ok)
	assert.Equal(t, "crate", v.Name)
	assert.False(t, r.Contains(1))

	v, ok = r.Take(1)
	assert.False(t, ok)
	assert.Equal(t, Mesh{}, v)
}

func TestRemove(t *testing.T) {
	r := New[string](WithName("images"))
	r.EmplaceWithID(1, "a")

	require.NoError(t, r.Remove(1))

	err := r.Remove(1)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)

	var idErr *IdentityError
	require.ErrorAs(t, err, &idErr)
	assert.Equal(t, "erase", idErr.Op)
	assert.Equal(t, "images", idErr.Table)
}

func TestSlotReuse(t *testing.T) {
	r := New[string]()
	require.True(t, r.EmplaceWithID(100, "A"))
	slotsBefore := r.Stats().Slots

	require.True(t, r.Erase(100))
	assert.Equal(t, 1, r.Stats().FreeSlots)

	require.True(t, r.EmplaceWithID(200, "B"))

	assert.False(t, r.Contains(100))
	assert.Nil(t, r.Get(100))
	assert.Equal(t, "B", *r.Get(200))
	assert.Equal(t, slotsBefore, r.Stats().Slots, "slot should be recycled, not appended")
	assert.Equal(t, 0, r.Stats().FreeSlots)
	require.NoError(t, r.Check())
}

func TestClear(t *testing.T) {
	r := New[string]()
	r.Reserve(32)
	for id := range uint64(10) {
		r.EmplaceWithID(id, "v")
	}
	r.Erase(3)
	capBefore := r.Cap()

	r.Clear()

	assert.Equal(t, 0, r.Len())
	assert.True(t, r.Empty())
	assert.Equal(t, capBefore, r.Cap())
	assert.Equal(t, Stats{Cap: capBefore}, r.Stats())
	for id := range uint64(10) {
		assert.False(t, r.Contains(id))
	}
	require.NoError(t, r.Check())

	require.True(t, r.EmplaceWithID(3, "again"))
	assert.Equal(t, "again", *r.Get(3))
	require.NoError(t, r.Check())
}

func TestReserve(t *testing.T) {
	r := New[int]()

	r.Reserve(100)
	assert.GreaterOrEqual(t, r.Cap(), 100)
	assert.Equal(t, 0, r.Len())

	for id := range uint64(100) {
		r.EmplaceWithID(id, int(id))
	}
	assert.GreaterOrEqual(t, r.Cap(), 100)

	capBefore := r.Cap()
	r.Reserve(10)
	assert.Equal(t, capBefore, r.Cap(), "reserve never shrinks")

	r.Reserve(0)
	r.Reserve(-5)
	assert.Equal(t, 100, r.Len())

	r.Reserve(500)
	assert.GreaterOrEqual(t, r.Cap(), 500)
	for id := range uint64(100) {
		assert.Equal(t, int(id), *r.Get(id))
	}
	require.NoError(t, r.Check())
}

func TestWithCapacity(t *testing.T) {
	r := New[int](WithCapacity(64))
	assert.GreaterOrEqual(t, r.Cap(), 64)
	assert.True(t, r.Empty())
}

func TestValues_CannotGrowIntoRegistry(t *testing.T) {
	r := New[int](WithCapacity(8))
	r.EmplaceWithID(1, 1)

	vals := r.Values()
	assert.Equal(t, len(vals), cap(vals))

	grown := append(vals, 99)
	grown[0] = 42
	assert.Equal(t, 1, *r.Get(1), "append must reallocate away from registry storage")
}

func TestIDs(t *testing.T) {
	r := New[string]()
	r.EmplaceWithID(10, "a")
	r.EmplaceWithID(20, "b")
	r.EmplaceWithID(30, "c")
	r.Erase(10)

	ids := r.IDs()
	vals := r.Values()
	require.Len(t, ids, 2)
	for i, id := range ids {
		assert.Equal(t, vals[i], *r.Get(id))
	}

	ids[0] = 999
	got, _ := r.IDAt(0)
	assert.NotEqual(t, uint64(999), got, "IDs must return a copy")
}

func TestIDAt(t *testing.T) {
	r := New[string]()
	r.EmplaceWithID(10, "a")
	r.EmplaceWithID(20, "b")

	id, ok := r.IDAt(1)
	assert.True(t, ok)
	assert.Equal(t, uint64(20), id)

	for _, d := range []int{-1, 2, 100} {
		_, ok := r.IDAt(d)
		assert.False(t, ok, "dense index %d", d)
	}
}

func TestDenseIndexOf(t *testing.T) {
	r := New[string]()
	r.EmplaceWithID(10, "a")
	r.EmplaceWithID(20, "b")

	d, ok := r.DenseIndexOf(20)
	require.True(t, ok)
	assert.Equal(t, "b", r.Values()[d])

	id, _ := r.IDAt(d)
	assert.Equal(t, uint64(20), id)

	_, ok = r.DenseIndexOf(99)
	assert.False(t, ok)
}

func TestRange(t *testing.T) {
	r := New[int]()
	for id := uint64(1); id <= 3; id++ {
		r.EmplaceWithID(id, int(id))
	}

	visited := map[uint64]int{}
	r.Range(func(id uint64, v *int) bool {
		visited[id] = *v
		return true
	})
	assert.Equal(t, map[uint64]int{1: 1, 2: 2, 3: 3}, visited)

	count := 0
	r.Range(func(uint64, *int) bool {
		count++
		return false
	})
	assert.Equal(t, 1, count)
}

func TestAll_Restartable(t *testing.T) {
	r := New[int]()
	r.EmplaceWithID(1, 1)
	r.EmplaceWithID(2, 2)

	seq := r.All()
	first, second := 0, 0
	for range seq {
		first++
	}
	for range seq {
		second++
	}
	assert.Equal(t, 2, first)
	assert.Equal(t, 2, second)
}

func TestAll_MutateThroughPointer(t *testing.T) {
	r := New[Mesh]()
	r.EmplaceWithID(1, Mesh{Vertices: 1})
	r.EmplaceWithID(2, Mesh{Vertices: 2})

	for _, m := range r.All() {
		m.Vertices *= 10
	}
	assert.Equal(t, 10, r.Get(1).Vertices)
	assert.Equal(t, 20, r.Get(2).Vertices)
}

func TestAll_EraseDuringIterationDoesNotPanic(t *testing.T) {
	r := New[int]()
	for id := range uint64(5) {
		r.EmplaceWithID(id, int(id))
	}

	assert.NotPanics(t, func() {
		for id := range r.All() {
			r.Erase(id)
		}
	})
	require.NoError(t, r.Check())
}

func TestEmpty(t *testing.T) {
	r := New[int]()
	assert.True(t, r.Empty())
	r.EmplaceWithID(1, 1)
	assert.False(t, r.Empty())
	r.Erase(1)
	assert.True(t, r.Empty())
}
