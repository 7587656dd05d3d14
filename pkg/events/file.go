package events

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/fxamacker/cbor/v2"
	"github.com/golang/glog"
)

var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	var err error
	encOpts := cbor.EncOptions{
		Sort:          cbor.SortCanonical,
		IndefLength:   cbor.IndefLengthForbidden,
		NilContainers: cbor.NilContainerAsNull,
		Time:          cbor.TimeRFC3339Nano,
	}
	if encMode, err = encOpts.EncMode(); err != nil {
		panic(fmt.Sprintf("events: cbor encoder mode: %v", err))
	}
	decOpts := cbor.DecOptions{
		DupMapKey:   cbor.DupMapKeyQuiet,
		IndefLength: cbor.IndefLengthAllowed,
	}
	if decMode, err = decOpts.DecMode(); err != nil {
		panic(fmt.Sprintf("events: cbor decoder mode: %v", err))
	}
}

// FileLog appends events to a file as a CBOR sequence.
// It is safe for concurrent use.
type FileLog struct {
	file    *os.File
	encoder *cbor.Encoder
	lock    sync.Mutex
	closed  bool
	failed  int
}

// OpenFileLog opens path for appending, creating it if needed.
func OpenFileLog(path string) (*FileLog, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0640)
	if err != nil {
		return nil, err
	}
	return &FileLog{file: f, encoder: encMode.NewEncoder(f)}, nil
}

// Record implements Recorder. Write failures are logged and counted.
func (l *FileLog) Record(ev Event) {
	l.lock.Lock()
	defer l.lock.Unlock()
	if l.closed {
		return
	}
	if err := l.encoder.Encode(ev); err != nil {
		l.failed++
		glog.Warningf("audit log %s: event %s lost: %v", l.file.Name(), ev.ID, err)
	}
}

// Failed returns the number of events which could not be written.
func (l *FileLog) Failed() int {
	l.lock.Lock()
	defer l.lock.Unlock()
	return l.failed
}

// Close implements io.Closer. Later events are ignored.
func (l *FileLog) Close() error {
	l.lock.Lock()
	defer l.lock.Unlock()
	if l.closed {
		return nil
	}
	l.closed = true
	return l.file.Close()
}

// ReadAll decodes every event in r.
func ReadAll(r io.Reader) ([]Event, error) {
	dec := decMode.NewDecoder(r)
	var evs []Event
	for {
		var ev Event
		if err := dec.Decode(&ev); err != nil {
			if err == io.EOF {
				return evs, nil
			}
			return evs, err
		}
		evs = append(evs, ev)
	}
}

// ReadFile decodes every event in the file at path.
func ReadFile(path string) ([]Event, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadAll(f)
}
