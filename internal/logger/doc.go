// Package logger wraps zap with a global sugared logger writing to stderr,
// context helpers (ToContext, FromContext, WithName, WithKV), level parsing
// and the Info/Infof/InfoKV style convenience functions.
//
// Stdout stays free for command output such as replay events.
package logger
