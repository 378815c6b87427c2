package nbody

import (
	"os"
	"path/filepath"
	"sync"
)

// stopSentinelDir is the directory checked for a STOP file before
// every integrator step. Defaults to the process's working directory.
var (
	stopSentinelMu  sync.RWMutex
	stopSentinelDir = "."
)

// SetStopSentinelDir overrides where the cooperative STOP sentinel
// file is looked for. Mainly useful for tests, which should never
// depend on the real working directory.
func SetStopSentinelDir(dir string) {
	stopSentinelMu.Lock()
	defer stopSentinelMu.Unlock()
	stopSentinelDir = dir
}

// stopSentinelPresent reports whether a file named STOP exists in the
// configured sentinel directory. A running integrator finishes its
// current step and returns when this becomes true; there is no
// wall-clock timeout inside the core.
func stopSentinelPresent() bool {
	stopSentinelMu.RLock()
	dir := stopSentinelDir
	stopSentinelMu.RUnlock()
	_, err := os.Stat(filepath.Join(dir, "STOP"))
	return err == nil
}
