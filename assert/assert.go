package assert

import (
	"log/slog"

	"github.com/oomph-ac/traverse/oerror"
)

// IsTrue checks an invariant. When ok is false the failure is fatal in debug builds and
// logged as an error otherwise. The value of ok is returned so callers can bail out.
func IsTrue(ok bool, message string, args ...any) bool {
	if ok {
		return true
	}

	err := oerror.New(message, args...)
	if development {
		panic(err)
	}
	slog.Default().Error("assertion failed", "err", err)
	return false
}
