package lib

/* thread.go contains functions useful for multi-threading. */

import (
	"runtime"

	"github.com/phil-mansfield/ember/lib/diag"
)

// SetThreads caps the number of threads the process may run on. n = -1
// means one thread per core.
func SetThreads(n int) {
	if n == -1 {
		n = runtime.NumCPU()
	}
	if n > runtime.NumCPU() {
		diag.External("%d threads requested, but your system only has %d " +
			"cores per node. If you want ember to use the maximum number " +
			"of threads per node, set Threads=-1.", n, runtime.NumCPU())
	}

	runtime.GOMAXPROCS(n)
}
