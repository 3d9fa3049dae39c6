package resc

import "errors"

// Common errors used throughout the resc package
var (
	// ErrConfigValidation is returned when configuration validation fails.
	// Configuration errors
	ErrConfigValidation = errors.New("configuration validation failed")

	// ErrMissingInputFilename indicates no input .rc file was given on the command line.
	// Driver errors
	ErrMissingInputFilename = errors.New("missing input filename")
	// ErrCompilationFailed indicates one or more error diagnostics were recorded.
	ErrCompilationFailed = errors.New("compilation failed")
	// ErrInvalidOptions indicates the command line could not be parsed into options.
	ErrInvalidOptions = errors.New("invalid command line options")

	// ErrFileNotFound indicates a referenced resource data file could not be resolved.
	// Resource file errors
	ErrFileNotFound = errors.New("resource file not found on search path")
)
