package nbody

import (
	"os"

	kitlog "github.com/go-kit/kit/log"
)

// NewLogger returns the default logfmt logger used by the core,
// tagged with the component name. Callers that want silence can pass
// kitlog.NewNopLogger() to State.SetLogger instead.
func NewLogger(component string) kitlog.Logger {
	l := kitlog.NewLogfmtLogger(kitlog.NewSyncWriter(os.Stdout))
	l = kitlog.With(l, "component", component, "ts", kitlog.DefaultTimestampUTC)
	return l
}
