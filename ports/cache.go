package ports

import "statdemo/domain/scenario"

// SampleCache memoizes generated scenario samples by their input key.
// Implementations are append-only: once a key is stored its sample never changes.
type SampleCache interface {
	// Get returns the stored sample for key, if any.
	Get(key scenario.Key) (*scenario.Sample, bool)

	// PutIfAbsent stores s unless key is already present and returns the
	// sample that is stored after the call.
	PutIfAbsent(key scenario.Key, s *scenario.Sample) *scenario.Sample

	// Len reports the number of stored samples.
	Len() int

	// Reset drops every stored sample.
	Reset()
}
