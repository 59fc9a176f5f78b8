/*package lib contains the process-level pieces of ember that don't belong
to any one computation: parameter-file parsing and thread control. Almost
all of the heavy lifting is done by lib/'s subpackages.
*/
package lib

var (
	// Version is the version of the software. This can potentially be used
	// to differentiate between breaking changes to the checkpoint format.
	Version uint64 = 0x1
)
