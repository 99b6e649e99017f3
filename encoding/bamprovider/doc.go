// Package bamprovider reads a coordinate-sorted, indexed BAM file from
// several goroutines at once.
//
// A Provider hands out Iterators over the records that start in one shard of
// a reference, typically a window plus some look-back padding.
package bamprovider
