// Package performance compares the B+ tree against a brute force store and
// google/btree. Every test builds fresh, independent instances so that one
// operation never warms up another.
package performance

import (
	"fmt"
	"math"
	"math/rand"
	"runtime"
	"slices"
	"time"

	"go-bptdb/pkg/bptree"
	"go-bptdb/pkg/bruteforce"
	"go-bptdb/pkg/gbtree"
	"go-bptdb/pkg/kvstore"
	"go-bptdb/util/helpers"
	"go-bptdb/util/logger"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

type Structure string

const (
	BruteForce    Structure = "bruteforce"
	BPlusUnsorted Structure = "bplus_unsorted"
	BPlusSorted   Structure = "bplus_sorted"
	GoogleBTree   Structure = "google_btree"
)

// Structures lists every measured structure in report order.
var Structures = []Structure{BPlusUnsorted, BPlusSorted, GoogleBTree, BruteForce}

type Op string

const (
	OpInsert Op = "insert"
	OpSearch Op = "search"
	OpRange  Op = "range"
	OpDelete Op = "delete"
	OpUpdate Op = "update"
	OpMix    Op = "mix"
)

type Measurement struct {
	Structure Structure
	Op        Op
	Size      int
	Order     int
	Duration  time.Duration
	// Bytes allocated while building the structure, only set for inserts.
	Bytes uint64
	Ops   int
}

type Result map[Structure]Measurement

type store = kvstore.Store[int, string]

type Analyzer struct {
	rnd *rand.Rand
	log *logrus.Entry
}

func New(seed int64) *Analyzer {
	return &Analyzer{
		rnd: rand.New(rand.NewSource(seed)),
		log: logger.For("performance"),
	}
}

// RunInsertion measures time and allocated bytes of building each
// structure from size random keys. The sorted B+ tree variant receives the
// same keys in ascending order.
func (a *Analyzer) RunInsertion(size, order int) (Result, error) {
	if err := checkArgs(size, order); err != nil {
		return nil, err
	}

	keys := a.keys(size)
	sorted := slices.Clone(keys)
	slices.Sort(sorted)

	res := Result{}
	for _, s := range Structures {
		input := keys
		if s == BPlusSorted {
			input = sorted
		}

		st, err := newStore(s, order)
		if err != nil {
			return nil, err
		}

		var before, after runtime.MemStats
		runtime.GC()
		runtime.ReadMemStats(&before)
		start := time.Now()
		for _, k := range input {
			st.Insert(k, value(k))
		}
		elapsed := time.Since(start)
		runtime.ReadMemStats(&after)
		runtime.KeepAlive(st)

		res[s] = Measurement{
			Structure: s, Op: OpInsert, Size: size, Order: order,
			Duration: elapsed, Bytes: after.TotalAlloc - before.TotalAlloc, Ops: len(input),
		}
	}

	a.logResult(OpInsert, size, order, res)
	return res, nil
}

// RunSearch looks up a sample of present keys.
func (a *Analyzer) RunSearch(size, order int) (Result, error) {
	stores, keys, err := a.setup(size, order)
	if err != nil {
		return nil, err
	}

	sample := a.sample(keys, searchSampleSize(len(keys)))
	res := a.timeEach(OpSearch, size, order, stores, len(sample), func(st store) {
		for _, k := range sample {
			st.Search(k)
		}
	})
	a.logResult(OpSearch, size, order, res)
	return res, nil
}

// RunRange runs queries range queries, each spanning up to a twentieth of
// the key space.
func (a *Analyzer) RunRange(size, order, queries int) (Result, error) {
	if queries < 0 {
		return nil, errors.Errorf("range query count must not be negative, got %d", queries)
	}
	stores, keys, err := a.setup(size, order)
	if err != nil {
		return nil, err
	}

	lo, hi := helpers.Min(keys...), helpers.Max(keys...)
	span := hi - lo
	bounds := make([][2]int, queries)
	for i := range bounds {
		width := 1 + a.rnd.Intn(helpers.Max(2, span/20))
		start := lo + a.rnd.Intn(helpers.Max(1, span-width+1))
		bounds[i] = [2]int{start, start + width}
	}

	res := a.timeEach(OpRange, size, order, stores, queries, func(st store) {
		for _, b := range bounds {
			st.RangeQuery(b[0], b[1])
		}
	})
	a.logResult(OpRange, size, order, res)
	return res, nil
}

// RunDelete deletes percent percent of the keys in random order.
func (a *Analyzer) RunDelete(size, order, percent int) (Result, error) {
	if percent < 0 || percent > 100 {
		return nil, errors.Errorf("delete percentage must be within [0, 100], got %d", percent)
	}
	stores, keys, err := a.setup(size, order)
	if err != nil {
		return nil, err
	}

	victims := a.sample(keys, len(keys)*percent/100)
	res := a.timeEach(OpDelete, size, order, stores, len(victims), func(st store) {
		for _, k := range victims {
			st.Delete(k)
		}
	})
	a.logResult(OpDelete, size, order, res)
	return res, nil
}

// RunUpdate replaces the value of a sample of present keys.
func (a *Analyzer) RunUpdate(size, order int) (Result, error) {
	stores, keys, err := a.setup(size, order)
	if err != nil {
		return nil, err
	}

	sample := a.sample(keys, searchSampleSize(len(keys)))
	res := a.timeEach(OpUpdate, size, order, stores, len(sample), func(st store) {
		for _, k := range sample {
			st.Update(k, fmt.Sprintf("upd_%d", k))
		}
	})
	a.logResult(OpUpdate, size, order, res)
	return res, nil
}

type mixOp struct {
	op  Op
	key int
}

// RunMix replays the same random sequence of inserts, searches, updates
// and deletes against every structure. factor scales the number of
// operations relative to size.
func (a *Analyzer) RunMix(size, order int, factor float64) (Result, error) {
	if factor < 0 || math.IsNaN(factor) {
		return nil, errors.Errorf("mix factor must not be negative, got %v", factor)
	}
	stores, keys, err := a.setup(size, order)
	if err != nil {
		return nil, err
	}

	maxKey := size * 3
	live := slices.Clone(keys)
	ops := make([]mixOp, int(float64(size)*factor))
	for i := range ops {
		switch kind := a.rnd.Intn(4); {
		case kind == 0 || len(live) == 0:
			ops[i] = mixOp{OpInsert, 1 + a.rnd.Intn(maxKey)}
		case kind == 1:
			k := 1 + a.rnd.Intn(maxKey)
			if a.rnd.Float64() >= 0.3 {
				k = live[a.rnd.Intn(len(live))]
			}
			ops[i] = mixOp{OpSearch, k}
		case kind == 2:
			ops[i] = mixOp{OpUpdate, live[a.rnd.Intn(len(live))]}
		default:
			j := a.rnd.Intn(len(live))
			ops[i] = mixOp{OpDelete, live[j]}
			live[j] = live[len(live)-1]
			live = live[:len(live)-1]
		}
	}

	res := a.timeEach(OpMix, size, order, stores, len(ops), func(st store) {
		for _, o := range ops {
			switch o.op {
			case OpInsert:
				st.Insert(o.key, value(o.key))
			case OpSearch:
				st.Search(o.key)
			case OpUpdate:
				st.Update(o.key, fmt.Sprintf("upd_%d", o.key))
			case OpDelete:
				st.Delete(o.key)
			}
		}
	})
	a.logResult(OpMix, size, order, res)
	return res, nil
}

// setup builds every structure from the same random keys.
func (a *Analyzer) setup(size, order int) (map[Structure]store, []int, error) {
	if err := checkArgs(size, order); err != nil {
		return nil, nil, err
	}

	keys := a.keys(size)
	sorted := slices.Clone(keys)
	slices.Sort(sorted)

	stores := make(map[Structure]store, len(Structures))
	for _, s := range Structures {
		st, err := newStore(s, order)
		if err != nil {
			return nil, nil, err
		}
		input := keys
		if s == BPlusSorted {
			input = sorted
		}
		for _, k := range input {
			st.Insert(k, value(k))
		}
		stores[s] = st
	}
	return stores, keys, nil
}

func (a *Analyzer) timeEach(op Op, size, order int, stores map[Structure]store, ops int, fn func(st store)) Result {
	res := Result{}
	for _, s := range Structures {
		start := time.Now()
		fn(stores[s])
		res[s] = Measurement{
			Structure: s, Op: op, Size: size, Order: order,
			Duration: time.Since(start), Ops: ops,
		}
	}
	return res
}

// keys returns size distinct random keys from [1, 3*size].
func (a *Analyzer) keys(size int) []int {
	perm := a.rnd.Perm(size * 3)[:size]
	for i := range perm {
		perm[i]++
	}
	return perm
}

func (a *Analyzer) sample(keys []int, n int) []int {
	cp := slices.Clone(keys)
	a.rnd.Shuffle(len(cp), func(i, j int) { cp[i], cp[j] = cp[j], cp[i] })
	return cp[:helpers.Min(n, len(cp))]
}

func (a *Analyzer) logResult(op Op, size, order int, res Result) {
	fields := logrus.Fields{"op": op, "size": size, "order": order}
	for s, m := range res {
		fields[string(s)] = m.Duration.String()
	}
	a.log.WithFields(fields).Debug("benchmark finished")
}

func newStore(s Structure, order int) (store, error) {
	switch s {
	case BruteForce:
		return bruteforce.New[int, string](helpers.Compare[int]), nil
	case BPlusUnsorted, BPlusSorted:
		tree, err := bptree.NewOrdered[int, string](order)
		if err != nil {
			return nil, err
		}
		return tree, nil
	case GoogleBTree:
		return gbtree.New[int, string](order, helpers.Compare[int]), nil
	}
	panic(errors.Errorf("unknown structure '%s'", s))
}

func checkArgs(size, order int) error {
	if size < 1 {
		return errors.Errorf("data size must be positive, got %d", size)
	}
	if order < bptree.MinOrder {
		return errors.Errorf("order must be at least %d, got %d", bptree.MinOrder, order)
	}
	return nil
}

func searchSampleSize(n int) int {
	return helpers.Min(n, helpers.Max(500, n/10))
}

func value(k int) string {
	return fmt.Sprintf("value_%d", k*2)
}
