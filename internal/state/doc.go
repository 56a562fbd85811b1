// Package state persists the records a build keeps between runs so unchanged
// jobs can be skipped. Records are opaque byte values addressed by job name;
// backends are a JSON file, SQLite, a NATS JetStream key-value bucket, or a
// Redis hash.
package state
