// Package errors provides the classified error primitives used across tinypub.
//
// Errors carry a category (config, filesystem, content, state, build, internal),
// a severity and a retry strategy. The CLI adapter turns a category into an exit
// code so that a failed build can be told apart from a bad configuration by the
// calling site generator.
//
// Example usage:
//
//	err := errors.FileSystemError("write document").
//		WithContext("path", target).
//		WithCause(writeErr).
//		Build()
package errors
