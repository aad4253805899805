package spancontext

import "fmt"

// formatDebug renders value the way the host framework's debug visitor
// would: using the type's default textual representation.
func formatDebug(value interface{}) string {
	return fmt.Sprintf("%+v", value)
}
