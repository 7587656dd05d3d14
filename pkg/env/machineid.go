package env

import (
	"os"

	"github.com/denisbrodbeck/machineid"
	"github.com/golang/glog"
)

// MachineID retrieves an ID identifying this terminal. The raw machine
// id is hashed with the application name and shortened.
func MachineID() string {
	id, err := machineid.ProtectedID("gate")
	if err != nil {
		glog.Warningf("machine id: %v", err)
		if host, err := os.Hostname(); err == nil {
			return host
		}
		return "gate"
	}
	if len(id) > 12 {
		id = id[:12]
	}
	return id
}
