/*package diag is the logging and error sink for ember. All human-readable
output goes through here so that the rest of the code doesn't need to care
about formatting or where messages end up.
*/
package diag

import (
	"os"
	"runtime/debug"

	"github.com/sirupsen/logrus"
)

// Log reports normal diagnostic output. It has the same signature as the
// standard fmt.*printf() functions.
func Log(format string, a ...interface{}) {
	logrus.Infof(format, a...)
}

// Warn reports a numerical sanity violation or other degraded-but-continuing
// condition. The computation that called it keeps going with a best-effort
// value.
func Warn(format string, a ...interface{}) {
	logrus.Warnf(format, a...)
}

// External reports an error and kills the process. It should be used when an
// error is something a user could reasonably be expected to fix through
// changes in configuration/data/environment. It has the same signature as the
// standard fmt.*printf() functions.
func External(format string, a ...interface{}) {
	logrus.Errorf("Ember exited early with the following error:\n"+format, a...)
	os.Exit(1)
}

// Internal reports an error along with a stack trace and kills the process.
// It should be used when the error requires a code dive to fix. It has the
// same signature as the standard fmt.*printf() functions.
func Internal(format string, a ...interface{}) {
	logrus.Errorf("Ember exited early with the following error:\n"+format, a...)
	debug.PrintStack()
	os.Exit(1)
}
