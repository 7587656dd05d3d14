// Package msgs defines the wire messages published by the terminal.
//
// Every message travels inside a Typed envelope whose TypeID tells the
// consumer how to decode the payload.
package msgs

//go:generate protoc --go_out=paths=source_relative:. gate.proto
