// Package memory provides a volatile, process-local implementation of
// store.TaskStore. Data lives only as long as the process.
package memory
