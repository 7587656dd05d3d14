// Package access talks to the remote authorization server.
//
// The protocol is one text line each way over TCP:
//
//	-> checkaccess <gate> <user> <pin>\n
//	<- checkaccess ... ok\n
//
// Any response without both the echoed command token and the "ok"
// marker is a denial.
package access

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"
)

// Command is the request verb, echoed back by the server.
const Command = "checkaccess"

// GrantedToken marks a successful check in a response.
const GrantedToken = "ok"

// MaxResponse bounds a single response line including the newline.
const MaxResponse = 256

// Errors
var (
	ErrClosed          = errors.New("connection closed before response")
	ErrResponseTooLong = errors.New("response too long")
)

// Request is one access check.
type Request struct {
	Gate int
	User int
	PIN  int
}

// String implements fmt.Stringer. The PIN is never included.
func (r Request) String() string {
	return fmt.Sprintf("gate %d user %d", r.Gate, r.User)
}

// Line formats the wire form of the request.
func (r Request) Line() string {
	return fmt.Sprintf("%s %d %d %d\n", Command, r.Gate, r.User, r.PIN)
}

// Conn is an established connection to the server.
type Conn struct {
	net.Conn
}

// SendRequest writes the whole request line.
func (c *Conn) SendRequest(req Request) error {
	return writeFull(c.Conn, []byte(req.Line()))
}

func writeFull(w io.Writer, buf []byte) error {
	for len(buf) > 0 {
		n, err := w.Write(buf)
		if err != nil {
			return err
		}
		if n == 0 {
			return io.ErrShortWrite
		}
		buf = buf[n:]
	}
	return nil
}

// ReceiveResponse reads one response line, without the trailing newline.
func (c *Conn) ReceiveResponse() (string, error) {
	return readLine(c.Conn)
}

func readLine(r io.Reader) (string, error) {
	buf := make([]byte, MaxResponse)
	var size int
	for size < len(buf) {
		n, err := r.Read(buf[size:])
		if n > 0 {
			if i := bytes.IndexByte(buf[size:size+n], '\n'); i >= 0 {
				return strings.TrimRight(string(buf[:size+i]), "\r"), nil
			}
			size += n
			continue
		}
		if err == nil || err == io.EOF {
			return "", ErrClosed
		}
		return "", err
	}
	return "", ErrResponseTooLong
}

// IsGranted interprets a response line: it grants only when the line
// carries the Command field followed later by the GrantedToken field.
// Fields are matched whole so that "okay" or "broken" never grant.
func IsGranted(resp string) bool {
	echoed := false
	for _, f := range strings.Fields(resp) {
		switch {
		case f == Command:
			echoed = true
		case echoed && f == GrantedToken:
			return true
		}
	}
	return false
}
