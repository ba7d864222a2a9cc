package scan

import "fmt"

// ProtocolError reports a first segment found while another record was still
// waiting for continuations. The segment is rejected and the scan resumes one
// byte later with the pending record intact.
type ProtocolError struct {
	Offset        int64  `json:"offset"`
	SetType       string `json:"set_type"`
	PendingOffset int64  `json:"pending_offset"`
	PendingSet    string `json:"pending_set_type"`
	PendingBytes  int    `json:"pending_bytes"`
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("%s segment at offset %d while %s record from offset %d is pending with %d bytes, segment rejected",
		e.SetType, e.Offset, e.PendingSet, e.PendingOffset, e.PendingBytes)
}
