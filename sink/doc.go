// Package sink holds the destinations a pipeline run writes surviving
// results to.
//
// Memory accumulates every line and hands them back after the run. File
// streams each chunk to disk followed by the configured terminator and
// flushes after every chunk, so a failed run leaves everything written so
// far on disk. A path ending in ".gz" is written gzip-compressed.
package sink
