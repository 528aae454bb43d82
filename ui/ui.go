// Package ui serves a live view of a kernel.Table: the same listing
// schedsim ps prints on a terminal, in a browser, plus a per-process
// detail view and a parent/child tree view. The listing takes a new
// snapshot each time it is loaded or its Refresh button is pressed; pages
// do not reload themselves. Adapted from the
// teacher's plib.Inspector dashboard (ui/ui.go), polling
// kernel.Table.Snapshot() in place of plib.Inspector.GetProcesses()
// under the same refreshLock shape.
package ui

import (
	"fmt"
	"html/template"
	"log"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/arctir/schedsim/kernel"
)

const (
	defaultAddr       = ":8080"
	refreshPath       = "/refresh"
	processesPath     = "/process/"
	processesTreePath = "/tree/"
)

// UI serves the dashboard for a single kernel.Table.
type UI struct {
	table       *kernel.Table
	addr        string
	data        Data
	refreshLock sync.Mutex
}

// Data is the template context for the all-processes view.
type Data struct {
	LastRefresh time.Time
	Rows        []kernel.ProcSnapshot
}

// DetailKV is one field/value pair rendered on the process detail view.
type DetailKV struct {
	Field string
	Value string
}

// New returns a UI serving table on addr. An empty addr defaults to
// ":8080".
func New(table *kernel.Table, addr string) *UI {
	if addr == "" {
		addr = defaultAddr
	}
	return &UI{table: table, addr: addr}
}

// RunUI registers the dashboard's handlers and blocks serving HTTP.
func (ui *UI) RunUI() error {
	mux := http.NewServeMux()
	mux.HandleFunc("/", ui.handleAllProcesses)
	mux.HandleFunc(refreshPath, ui.handleRefresh)
	mux.HandleFunc(processesPath, ui.handleProcessDetails)
	mux.HandleFunc(processesTreePath, ui.handleProcessTree)

	log.Printf("serving schedsim dashboard at %s", ui.addr)
	return http.ListenAndServe(ui.addr, mux)
}

func (ui *UI) refresh() {
	ui.refreshLock.Lock()
	defer ui.refreshLock.Unlock()
	ui.data.Rows = ui.table.Snapshot()
	ui.data.LastRefresh = time.Now()
}

func (ui *UI) handleAllProcesses(w http.ResponseWriter, r *http.Request) {
	ui.refresh()
	ui.refreshLock.Lock()
	data := ui.data
	ui.refreshLock.Unlock()

	t, err := createTemplate(allProcessesView)
	if err != nil {
		writeFailure(w, err)
		return
	}
	if err := t.Execute(w, data); err != nil {
		writeFailure(w, err)
	}
}

func (ui *UI) handleRefresh(w http.ResponseWriter, r *http.Request) {
	ui.refresh()
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (ui *UI) findRow(pid int) (kernel.ProcSnapshot, bool) {
	ui.refreshLock.Lock()
	defer ui.refreshLock.Unlock()
	for _, row := range ui.data.Rows {
		if row.PID == pid {
			return row, true
		}
	}
	return kernel.ProcSnapshot{}, false
}

func (ui *UI) handleProcessDetails(w http.ResponseWriter, r *http.Request) {
	pid, err := pidFromPath(r.URL.Path, processesPath)
	if err != nil {
		writeFailure(w, err)
		return
	}
	row, ok := ui.findRow(pid)
	if !ok {
		writeFailure(w, fmt.Errorf("process %d does not exist", pid))
		return
	}
	t, err := createTemplate(viewProcessDetails)
	if err != nil {
		writeFailure(w, err)
		return
	}
	if err := t.Execute(w, row); err != nil {
		writeFailure(w, err)
	}
}

func (ui *UI) handleProcessTree(w http.ResponseWriter, r *http.Request) {
	pid, err := pidFromPath(r.URL.Path, processesTreePath)
	if err != nil {
		writeFailure(w, err)
		return
	}
	ui.refreshLock.Lock()
	rows := ui.data.Rows
	ui.refreshLock.Unlock()

	hierarchy, err := processHierarchy(rows, pid)
	if err != nil {
		writeFailure(w, err)
		return
	}
	t, err := createTemplate(viewTreeDetails)
	if err != nil {
		writeFailure(w, err)
		return
	}
	if err := t.Execute(w, hierarchy); err != nil {
		writeFailure(w, err)
	}
}

func pidFromPath(path, prefix string) (int, error) {
	return strconv.Atoi(strings.TrimPrefix(path, prefix))
}

// processDetails flattens a ProcSnapshot into field/value pairs via
// reflection, the same approach the teacher's dashboard used for
// plib.Process.
func processDetails(row kernel.ProcSnapshot) []DetailKV {
	result := []DetailKV{}
	t := reflect.TypeOf(row)
	v := reflect.ValueOf(row)
	for i := 0; i < t.NumField(); i++ {
		result = append(result, DetailKV{t.Field(i).Name, fmt.Sprintf("%v", v.Field(i).Interface())})
	}
	return result
}

// processHierarchy walks parent links from pid up to the init process,
// returning the chain child-first.
func processHierarchy(rows []kernel.ProcSnapshot, pid int) ([]kernel.ProcSnapshot, error) {
	byPID := make(map[int]kernel.ProcSnapshot, len(rows))
	for _, row := range rows {
		byPID[row.PID] = row
	}
	current, ok := byPID[pid]
	if !ok {
		return nil, fmt.Errorf("process %d does not exist", pid)
	}
	result := []kernel.ProcSnapshot{current}
	for current.ParentPID != 0 {
		parent, ok := byPID[current.ParentPID]
		if !ok {
			break
		}
		result = append(result, parent)
		current = parent
	}
	return result, nil
}

func createTemplate(temp string) (*template.Template, error) {
	return template.New("response").
		Funcs(template.FuncMap{"details": processDetails}).
		Parse(uiHeader + temp + uiFooter)
}

func writeFailure(w http.ResponseWriter, err error) {
	w.WriteHeader(http.StatusInternalServerError)
	t, tErr := createTemplate(errorView)
	if tErr != nil {
		return
	}
	_ = t.Execute(w, err.Error())
}
