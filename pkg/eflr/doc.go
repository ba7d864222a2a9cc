// Package eflr decodes the body of an Explicitly Formatted Logical Record.
//
// An EFLR body is a set: a template of attribute components that names the
// columns, followed by objects that each supply one row. Every component starts
// with a descriptor byte. Its three high bits give the role (ABSATR, ATTRIB,
// INVATR, OBJECT, SET...) and its five low bits say which of label, count,
// representation code, units and value follow.
//
// Fields missing from a component inherit the value held before the read. In
// the template that is the previous column, in an object it is the template
// column at the same position. Decoder renders every cell to text and returns
// the set as a Frame.
//
// The package also holds the registry of logical record type codes and the
// set types each of them permits.
package eflr
