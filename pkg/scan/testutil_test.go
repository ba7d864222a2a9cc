package scan

import "github.com/ssargent/eflrscan/pkg/scan/scantest"

const setDescriptor = scantest.SetDescriptor

var (
	join         = scantest.Join
	first        = scantest.First
	continuation = scantest.Continuation
	singleColumn = scantest.SingleColumn
	fileHeader   = scantest.FileHeader
)
