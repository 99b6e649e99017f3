/*Package interval reads the genomic intervals that drive realignment and
  answers point-overlap queries over read footprints.

  Intervals come from BED files or samtools-style region strings.  Unlike a
  union, the loaded intervals are kept separately and in input order, since
  each one is processed as its own window.  Positions fit in a PosType, which
  is int32 since that's what BAM files are limited to.
*/
package interval
