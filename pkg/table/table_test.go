package table

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"go-bptdb/pkg/column"
	"go-bptdb/pkg/customerrors"

	"github.com/stretchr/testify/require"
)

func newUsers(t *testing.T, order int) *Table {
	t.Helper()
	cols, err := column.ParseSchema("id:int, name:str, score:float, active:bool")
	require.NoError(t, err)
	tbl, err := New("users", cols, &Options{Order: order, SearchKey: "id"})
	require.NoError(t, err)
	return tbl
}

func user(id int, name string) Record {
	return Record{"id": id, "name": name, "score": float64(id) / 2, "active": id%2 == 0}
}

func TestNew(t *testing.T) {
	cols, err := column.ParseSchema("id:int, name:str")
	require.NoError(t, err)

	_, err = New("", cols, &Options{Order: 4, SearchKey: "id"})
	require.True(t, errors.Is(err, customerrors.ErrEmptyName))

	_, err = New("t", nil, &Options{Order: 4, SearchKey: "id"})
	require.True(t, errors.Is(err, customerrors.ErrInvalidSchema))

	_, err = New("t", cols, &Options{Order: 2, SearchKey: "id"})
	require.True(t, errors.Is(err, customerrors.ErrInvalidOrder))

	_, err = New("t", cols, &Options{Order: 4, SearchKey: "email"})
	require.True(t, errors.Is(err, customerrors.ErrInvalidSchema))

	_, err = New("t", cols, nil)
	require.True(t, errors.Is(err, customerrors.ErrInvalidSchema), "default options carry no search key")

	tbl, err := New("t", cols, &Options{Order: 4, SearchKey: "name"})
	require.NoError(t, err)
	require.Equal(t, "t", tbl.Name())
	require.Equal(t, "name", tbl.SearchKey())
	require.Equal(t, 4, tbl.Order())
	require.Equal(t, 0, tbl.Len())

	// the schema is copied
	cols[0].Name = "changed"
	require.Equal(t, "id", tbl.Columns()[0].Name)
}

func TestInsertAndGet(t *testing.T) {
	tbl := newUsers(t, 3)
	for _, id := range []int{5, 1, 9, 3, 7} {
		require.NoError(t, tbl.Insert(user(id, fmt.Sprintf("user%d", id))))
	}
	require.Equal(t, 5, tbl.Len())

	rec, ok := tbl.Get(3)
	require.True(t, ok)
	require.Equal(t, Record{"id": int64(3), "name": "user3", "score": 1.5, "active": false}, rec)

	// lookups accept any integer representation
	_, ok = tbl.Get(int64(9))
	require.True(t, ok)
	_, ok = tbl.Get(4)
	require.False(t, ok)
	_, ok = tbl.Get("3")
	require.False(t, ok)

	// returned records are copies
	rec["name"] = "mutated"
	again, _ := tbl.Get(3)
	require.Equal(t, "user3", again["name"])

	require.NoError(t, tbl.Tree().CheckConsistency())
}

func TestInsertValidation(t *testing.T) {
	tbl := newUsers(t, 4)
	require.NoError(t, tbl.Insert(user(1, "a")))

	err := tbl.Insert(user(1, "b"))
	require.True(t, errors.Is(err, customerrors.ErrKeyExists))

	for _, rec := range []Record{
		nil,
		{"id": 2, "name": "x", "score": 1.0},
		{"id": 2, "name": 5, "score": 1.0, "active": true},
		{"id": "2", "name": "x", "score": 1.0, "active": true},
		{"id": 2, "name": "x", "score": 1.0, "active": true, "extra": 1},
	} {
		err := tbl.Insert(rec)
		require.True(t, errors.Is(err, customerrors.ErrInvalidRecord), "%v", rec)
	}

	// int accepted for float columns
	require.NoError(t, tbl.Insert(Record{"id": 2, "name": "x", "score": 3, "active": true}))
	rec, _ := tbl.Get(2)
	require.Equal(t, 3.0, rec["score"])

	// the caller's record is not retained
	in := user(10, "ten")
	require.NoError(t, tbl.Insert(in))
	in["name"] = "changed"
	rec, _ = tbl.Get(10)
	require.Equal(t, "ten", rec["name"])

	require.Equal(t, 3, tbl.Len())
}

func TestGetAllAndRange(t *testing.T) {
	tbl := newUsers(t, 3)
	for id := 20; id >= 1; id-- {
		require.NoError(t, tbl.Insert(user(id, "u")))
	}

	all := tbl.GetAll()
	require.Len(t, all, 20)
	for i, rec := range all {
		require.Equal(t, int64(i+1), rec["id"])
	}

	ids := func(rows []Record) []int64 {
		out := []int64{}
		for _, r := range rows {
			out = append(out, r["id"].(int64))
		}
		return out
	}
	require.Equal(t, []int64{5, 6, 7, 8}, ids(tbl.RangeQuery(5, 8)))
	require.Equal(t, []int64{19, 20}, ids(tbl.RangeQuery(19, 100)))
	require.Empty(t, tbl.RangeQuery(8, 5))
	require.Empty(t, tbl.RangeQuery("a", 5))

	seen := 0
	tbl.FullScan(func(row Record) bool {
		seen++
		return seen == 3
	})
	require.Equal(t, 3, seen)
}

func TestStringKey(t *testing.T) {
	cols, err := column.ParseSchema("code:str, qty:int")
	require.NoError(t, err)
	tbl, err := New("stock", cols, &Options{Order: 3, SearchKey: "code"})
	require.NoError(t, err)

	for _, code := range []string{"m", "c", "x", "a", "q"} {
		require.NoError(t, tbl.Insert(Record{"code": code, "qty": 1}))
	}
	rows := tbl.RangeQuery("b", "p")
	require.Len(t, rows, 2)
	require.Equal(t, "c", rows[0]["code"])
	require.Equal(t, "m", rows[1]["code"])
}

func TestFloatKeyRejectsNonFinite(t *testing.T) {
	cols, err := column.ParseSchema("k:float, label:str")
	require.NoError(t, err)
	tbl, err := New("readings", cols, &Options{Order: 3, SearchKey: "k"})
	require.NoError(t, err)

	for _, k := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		err := tbl.Insert(Record{"k": k, "label": "bad"})
		require.True(t, errors.Is(err, customerrors.ErrInvalidRecord), "%v", k)
	}
	require.Equal(t, 0, tbl.Len())

	for _, k := range []float64{1.0, 2.0, 3.0} {
		require.NoError(t, tbl.Insert(Record{"k": k, "label": fmt.Sprint(k)}))
	}
	require.Equal(t, 3, tbl.Len())
	rows := tbl.RangeQuery(1.5, 3)
	require.Len(t, rows, 2)
	require.Equal(t, 2.0, rows[0]["k"])
	_, ok := tbl.Get(math.NaN())
	require.False(t, ok)
}

func TestUpdate(t *testing.T) {
	tbl := newUsers(t, 3)
	for id := 1; id <= 6; id++ {
		require.NoError(t, tbl.Insert(user(id, "old")))
	}

	require.NoError(t, tbl.Update(4, user(4, "new")))
	rec, _ := tbl.Get(4)
	require.Equal(t, "new", rec["name"])

	err := tbl.Update(42, user(42, "x"))
	require.True(t, errors.Is(err, customerrors.ErrKeyNotFound))

	err = tbl.Update(4, Record{"id": 4})
	require.True(t, errors.Is(err, customerrors.ErrInvalidRecord))

	err = tbl.Update(4, user(5, "x"))
	require.True(t, errors.Is(err, customerrors.ErrKeyImmutable))

	rec, _ = tbl.Get(4)
	require.Equal(t, "new", rec["name"])
	require.Equal(t, 6, tbl.Len())
}

func TestDelete(t *testing.T) {
	tbl := newUsers(t, 3)
	for id := 1; id <= 30; id++ {
		require.NoError(t, tbl.Insert(user(id, "u")))
	}

	for id := 1; id <= 30; id += 2 {
		require.NoError(t, tbl.Delete(id))
		require.NoError(t, tbl.Tree().CheckConsistency())
	}
	require.Equal(t, 15, tbl.Len())

	err := tbl.Delete(1)
	require.True(t, errors.Is(err, customerrors.ErrKeyNotFound))
	err = tbl.Delete("1")
	require.True(t, errors.Is(err, customerrors.ErrKeyNotFound))

	_, ok := tbl.Get(2)
	require.True(t, ok)
	_, ok = tbl.Get(3)
	require.False(t, ok)
}
