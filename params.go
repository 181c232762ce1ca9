package probkit

import "math"

const (
	// ln2 is the natural logarithm of 2.
	ln2 = 0.6931471805599453
	// ln2Squared is ln(2)^2.
	ln2Squared = 0.4804530139182014

	// maxHashCount bounds the k chosen by OptimalParams. Past this point
	// extra probes cost more than they save.
	maxHashCount = 30
)

// OptimalParams calculates bloom filter parameters for the expected number
// of items and target false positive rate. Returns the capacity in bits,
// the number of hash functions (k), and the bits per item.
func OptimalParams(expectedItems uint64, fpRate float64) (capacity uint64, k uint32, bitsPerItem float64) {
	if expectedItems == 0 {
		expectedItems = 1
	}
	if fpRate <= 0 {
		fpRate = 0.0001 // default to 0.01%
	}
	if fpRate >= 1 {
		fpRate = 0.99
	}

	// Optimal bits per item: -ln(fpRate) / ln(2)^2
	bitsPerItem = -math.Log(fpRate) / ln2Squared

	capacity = uint64(math.Ceil(float64(expectedItems) * bitsPerItem))

	// Optimal k: (m/n) * ln(2)
	kFloat := float64(capacity) / float64(expectedItems) * ln2
	k = uint32(math.Round(kFloat))

	k = max(k, 1)
	k = min(k, maxHashCount)

	return capacity, k, bitsPerItem
}

// EstimateFalsePositiveRate estimates the false positive rate for given parameters.
// Formula: (1 - e^(-kn/m))^k
func EstimateFalsePositiveRate(capacity uint64, k uint32, itemsAdded uint64) float64 {
	m := float64(capacity)
	n := float64(itemsAdded)
	kf := float64(k)

	if m == 0 || n == 0 {
		return 0
	}

	return math.Pow(1-math.Exp(-kf*n/m), kf)
}
