package performance

import (
	"bytes"
	"cmp"
	"fmt"
	"io"
	"slices"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/pkg/errors"
)

var opOrder = map[Op]int{OpInsert: 0, OpSearch: 1, OpRange: 2, OpDelete: 3, OpUpdate: 4, OpMix: 5}

var structureOrder = map[Structure]int{}

func init() {
	for i, s := range Structures {
		structureOrder[s] = i
	}
}

// Measurements flattens results into one list ordered by operation, size,
// order and structure.
func Measurements(results ...Result) []Measurement {
	out := []Measurement{}
	for _, res := range results {
		for _, m := range res {
			out = append(out, m)
		}
	}
	slices.SortFunc(out, func(a, b Measurement) int {
		return cmp.Or(
			cmp.Compare(opOrder[a.Op], opOrder[b.Op]),
			cmp.Compare(a.Size, b.Size),
			cmp.Compare(a.Order, b.Order),
			cmp.Compare(structureOrder[a.Structure], structureOrder[b.Structure]),
		)
	})
	return out
}

// Report writes the measurements as an aligned table. The fastest
// structure of every group is highlighted when colors are enabled.
// Colors are applied after alignment so that escape codes do not count
// towards column widths.
func Report(w io.Writer, results ...Result) error {
	header := color.New(color.Bold)
	best := color.New(color.FgGreen)

	buf := &bytes.Buffer{}
	tw := tabwriter.NewWriter(buf, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "OP\tSIZE\tORDER\tSTRUCTURE\tTIME\tPER OP\tALLOCATED")

	// highlight holds row numbers, the header being row 0
	highlight := map[int]bool{}
	ms := Measurements(results...)
	for i := 0; i < len(ms); {
		j := i
		for j < len(ms) && ms[j].Op == ms[i].Op && ms[j].Size == ms[i].Size && ms[j].Order == ms[i].Order {
			j++
		}

		fastest := i
		for k := i; k < j; k++ {
			if ms[k].Duration < ms[fastest].Duration {
				fastest = k
			}
		}
		if j-i > 1 {
			highlight[fastest+1] = true
		}

		for k := i; k < j; k++ {
			m := ms[k]
			fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\t%s\t%s\n",
				m.Op, humanize.Comma(int64(m.Size)), m.Order, m.Structure,
				m.Duration.Round(time.Microsecond), perOp(m), allocated(m),
			)
		}
		i = j
	}
	if err := tw.Flush(); err != nil {
		return errors.Wrap(err, "failed to align report")
	}

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	for row, line := range lines {
		switch {
		case row == 0:
			line = header.Sprint(line)
		case highlight[row]:
			line = best.Sprint(line)
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return errors.Wrap(err, "failed to write report")
		}
	}
	return nil
}

func perOp(m Measurement) string {
	if m.Ops == 0 {
		return "-"
	}
	return (m.Duration / time.Duration(m.Ops)).String()
}

func allocated(m Measurement) string {
	if m.Op != OpInsert {
		return "-"
	}
	return humanize.Bytes(m.Bytes)
}
