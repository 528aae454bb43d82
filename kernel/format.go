package kernel

import (
	"bytes"
	"strconv"

	"github.com/olekukonko/tablewriter"
)

// FormatTable renders the table's non-UNUSED, non-EMBRYO processes as the
// printInfo listing from spec.md §6: one row per process, columns name,
// pid, state, remainedPriority (1 decimal), lotteryTicket, queueNumber,
// executedCycleNumber, HRRN (3 decimals), arrivalTime. tablewriter does
// the box-drawing the original hand-padded to widths 10/5/10/10/8/10/7/9
// with sprintf.
func (t *Table) FormatTable() []byte {
	rows := t.Snapshot()

	var buf bytes.Buffer
	tbl := tablewriter.NewWriter(&buf)
	tbl.SetHeader([]string{
		"name", "pid", "state", "priority", "ticket", "queue", "cycle", "hrrn", "arrival",
	})

	body := [][]string{}
	for _, r := range rows {
		if r.State == StateEmbryo {
			continue
		}
		body = append(body, []string{
			r.Name,
			strconv.Itoa(r.PID),
			r.State.tag(),
			r.RemainedPriority.StringPlaces(1),
			strconv.Itoa(r.LotteryTicket),
			strconv.Itoa(r.QueueNumber),
			strconv.Itoa(r.ExecutedCycleNumber),
			r.HRRN.StringPlaces(3),
			r.ArrivalTime.Format("15:04:05"),
		})
	}
	tbl.AppendBulk(body)
	tbl.Render()
	return buf.Bytes()
}
