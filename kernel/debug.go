package kernel

import "github.com/davecgh/go-spew/spew"

// DumpProc returns a deep, field-by-field dump of a process slot, for the
// schedsim ps --debug flag and for test failure output. This is the same
// deep-struct-dump role go-spew plays in every other repo in this
// project's retrieved reference set that reaches for it.
func DumpProc(p *Proc) string {
	return spew.Sdump(p)
}
