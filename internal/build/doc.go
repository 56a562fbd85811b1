// Package build runs tinypub build jobs.
//
// A Job names the files it writes, the files and tasks it depends on, and a
// staleness key. The Runner orders jobs by task dependency, checks that no two
// jobs write the same target, and executes only jobs whose key, file
// dependencies or targets changed since the run recorded in the state store.
package build
