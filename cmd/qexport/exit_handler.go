package main

import (
	"os"

	"github.com/loykin/qexport/internal/common"
)

// ExitHandler abstracts process termination so command failures can be
// asserted in tests instead of killing the test binary.
type ExitHandler interface {
	Exit(code int)
	LogFatalError(err error, msg string, keyvals ...any)
}

type defaultExitHandler struct {
	logger *common.Logger
}

func newDefaultExitHandler() *defaultExitHandler {
	return &defaultExitHandler{logger: common.GetLogger().WithComponent("main")}
}

func (h *defaultExitHandler) Exit(code int) {
	os.Exit(code)
}

// LogFatalError reports the error with any extra context and exits non-zero.
func (h *defaultExitHandler) LogFatalError(err error, msg string, keyvals ...any) {
	h.logger.Error(msg, append([]any{"error", err}, keyvals...)...)
	h.Exit(1)
}

// Replaced in tests.
var exitHandler ExitHandler = newDefaultExitHandler()
