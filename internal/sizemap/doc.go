// Package sizemap measures compiled assets. It maps hash-stripped asset
// identifiers to gzip-compressed byte sizes so that two compilations can be
// compared even though content hashes in the file names differ, and renders
// the per-asset size delta labels shown in the build report.
package sizemap
