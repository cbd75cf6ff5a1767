// Package debug holds process-wide flags and lightweight invariant
// checks shared by the compiler and the companion VM.
package debug

// DEBUG gates verbose disassembly/step tracing and the Assertf/AssertEq
// invariant checks. Off by default; cmd's -v flag only sets the logrus
// level and leaves DEBUG unchanged.
var DEBUG = false
