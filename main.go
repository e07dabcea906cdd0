package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"

	"go-bptdb/config"
	"go-bptdb/pkg/column"
	"go-bptdb/pkg/dbms"
	"go-bptdb/pkg/performance"
	"go-bptdb/pkg/table"
	"go-bptdb/util/helpers"
	"go-bptdb/util/logger"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var log = logger.For("main")

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	mode := flag.String("mode", "demo", "what to run: demo or bench")
	snapshotPath := flag.String("snapshot", "", "snapshot file, overrides storage.snapshot_path")
	dotPath := flag.String("dot", "", "write the demo table index as Graphviz DOT to this file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fatal(err)
	}
	if err := logger.SetLevel(cfg.Log.Level); err != nil {
		fatal(err)
	}
	if *snapshotPath != "" {
		cfg.Storage.SnapshotPath = *snapshotPath
	}

	switch *mode {
	case "demo":
		err = runDemo(cfg, *dotPath)
	case "bench":
		err = runBench(cfg.Bench)
	default:
		err = errors.Errorf("unknown mode '%s', use demo or bench", *mode)
	}
	if err != nil {
		fatal(err)
	}
}

func runDemo(cfg *config.AppConfig, dotPath string) error {
	m := dbms.New()
	if err := m.CreateDatabase("company"); err != nil {
		return err
	}

	cols, err := column.ParseSchema("id:int, name:str, department:str, salary:float, remote:bool")
	if err != nil {
		return err
	}
	employees, err := m.CreateTable("company", "employees", cols, &table.Options{
		Order:     cfg.Storage.DefaultOrder,
		SearchKey: "id",
	})
	if err != nil {
		return err
	}

	departments := []string{"engineering", "sales", "support", "finance"}
	rnd := rand.New(rand.NewSource(cfg.Bench.Seed))
	for _, id := range rnd.Perm(40) {
		err := employees.Insert(table.Record{
			"id":         id + 1,
			"name":       fmt.Sprintf("employee_%02d", id+1),
			"department": departments[id%len(departments)],
			"salary":     40000 + rnd.Float64()*60000,
			"remote":     id%3 == 0,
		})
		if err != nil {
			return err
		}
	}

	rec, _ := employees.Get(7)
	log.WithField("record", rec).Info("lookup id=7")
	log.WithField("count", len(employees.RangeQuery(10, 20))).Info("range 10..20")

	rec["salary"] = 99999.0
	if err := employees.Update(7, rec); err != nil {
		return err
	}
	for id := 2; id <= 40; id += 4 {
		if err := employees.Delete(id); err != nil {
			return err
		}
	}
	if err := employees.Tree().CheckConsistency(); err != nil {
		return err
	}

	log.WithFields(logrus.Fields{
		"records": employees.Len(),
		"tree":    employees.Tree().String(),
	}).Info("table ready")
	if err := employees.Tree().Print(os.Stdout); err != nil {
		return err
	}

	if dotPath != "" {
		if err := writeDot(employees, dotPath); err != nil {
			return err
		}
		log.WithField("path", dotPath).Info("index written as DOT")
	}

	if err := m.SaveToDisk(cfg.Storage.SnapshotPath); err != nil {
		return err
	}
	restored := dbms.New()
	if err := restored.LoadFromDisk(cfg.Storage.SnapshotPath); err != nil {
		return err
	}
	t, err := restored.GetTable("company", "employees")
	if err != nil {
		return err
	}
	if t.Len() != employees.Len() {
		return errors.Errorf("restored %d records, expected %d", t.Len(), employees.Len())
	}
	return nil
}

func writeDot(t *table.Table, path string) error {
	if err := helpers.CreateParentDir(path); err != nil {
		return errors.WithStack(err)
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.WithStack(err)
	}
	if err := t.Tree().WriteDot(f); err != nil {
		f.Close()
		return err
	}
	return errors.WithStack(f.Close())
}

func runBench(cfg *config.BenchConfig) error {
	a := performance.New(cfg.Seed)
	results := []performance.Result{}

	for _, size := range cfg.Sizes {
		for _, order := range cfg.Orders {
			log.WithFields(logrus.Fields{"size": size, "order": order}).Info("running benchmarks")

			runs := []func() (performance.Result, error){
				func() (performance.Result, error) { return a.RunInsertion(size, order) },
				func() (performance.Result, error) { return a.RunSearch(size, order) },
				func() (performance.Result, error) { return a.RunRange(size, order, cfg.RangeQueries) },
				func() (performance.Result, error) { return a.RunDelete(size, order, cfg.DeletePercent) },
				func() (performance.Result, error) { return a.RunUpdate(size, order) },
				func() (performance.Result, error) { return a.RunMix(size, order, cfg.MixFactor) },
			}
			for _, run := range runs {
				res, err := run()
				if err != nil {
					return err
				}
				results = append(results, res)
			}
		}
	}

	return performance.Report(os.Stdout, results...)
}

func fatal(val interface{}) {
	log.Errorf("%+v", val)
	os.Exit(1)
}
