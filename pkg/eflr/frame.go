package eflr

import "strings"

// IdentityColumn is the blank header slot that lines up with each row's object identity
const IdentityColumn = ""

// Frame is the tabular view of one decoded set
type Frame struct {
	Header []string   `json:"header" yaml:"header"`
	Data   [][]string `json:"data" yaml:"data"`
}

// NewFrame creates a frame whose header is the template's labels after the identity slot
func NewFrame(t Template) Frame {
	header := make([]string, 0, len(t)+1)
	header = append(header, IdentityColumn)
	header = append(header, t.Labels()...)
	return Frame{Header: header, Data: [][]string{}}
}

// Column returns the header index of label, or -1
func (f Frame) Column(label string) int {
	for i, h := range f.Header {
		if i > 0 && h == label {
			return i
		}
	}
	return -1
}

// ObjectName returns the trimmed value of the ID column in the first row
func (f Frame) ObjectName() (string, bool) {
	col := f.Column("ID")
	if col < 0 || len(f.Data) == 0 || col >= len(f.Data[0]) {
		return "", false
	}
	return strings.TrimSpace(f.Data[0][col]), true
}
