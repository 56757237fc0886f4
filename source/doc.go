// Package source opens line-oriented inputs and measures them.
//
// Inputs whose name ends in ".gz" are decompressed transparently; every
// other name (including domain record formats such as ".vcf") is read as
// plain text. The package also provides the two measurement tools used
// around a pipeline run:
//
//   - EstimateSize approximates the decompressed size of a gzip input by
//     decompressing a bounded prefix, for progress reporting only.
//   - CountLines counts newline-terminated records by streaming fixed-size
//     buffers, without splitting the input into lines.
package source
