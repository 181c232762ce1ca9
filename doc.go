// Package probkit provides small probabilistic data structures for
// answering set questions over large inputs in sub-linear memory.
//
// The root package holds the membership engine: a bloom filter ([Filter])
// and a screener ([Screen]) that classifies a batch of candidate strings,
// such as passwords, as unique or already seen. The cardinality engine,
// a HyperLogLog sketch and its exact baseline, lives in the cardinality
// subpackage.
//
// # Hashing
//
// Bit positions are derived from a single seeded hash oracle ([Hasher])
// evaluated under the seeds 0..k-1. Each 64-bit hash is reduced modulo the
// filter capacity as an unsigned value. Three oracles are built in:
// [XXH3] (the default), [Murmur3] and [XXHash]. Tests and callers can
// supply their own with [HasherFunc] and [WithHasher].
//
// # Choosing Parameters
//
// Use [New] when you know the capacity in bits and the number of hash
// functions, or [NewWithEstimates] with the expected number of items and
// desired false positive rate:
//
//	// Filter for 1 million items with 1% false positive rate
//	f, err := probkit.NewWithEstimates(1_000_000, 0.01)
//
// More hash functions lower the false positive rate until the filter
// saturates, after which they raise it. Filters are not resized; adding
// more items than planned raises the false positive rate. Use
// [Filter.EstimatedFalsePositiveRate] to monitor the current rate.
//
// # Errors
//
// Invalid construction parameters fail with [ErrInvalidConfig]. Empty
// items are rejected by [Filter.Add] and [Filter.Contains] with
// [ErrInvalidItem]. [Screen] records such rejections per item instead of
// failing the batch.
//
// # Thread Safety
//
// [Filter] is NOT thread-safe. Use external synchronization when sharing a
// filter between goroutines.
package probkit
