// Package datasets provides concrete labeled datasets to put behind the
// fewshot sampler, plus the glue to feed sampled episodes into gomlx
// training loops.
//
// Two dataset implementations are included:
//
//   - ClassificationDataset lazily loads CSV files matching a glob pattern.
//     It stores file paths and per-file row counts only, reading rows
//     on demand, so large CSV collections don't have to fit in memory.
//   - BlobsDataset generates Gaussian clusters in memory, one cluster per
//     class. Useful for demos, benchmarks and tests that need a separable
//     classification problem without any files on disk.
//
// Both implement fewshot.Labeled[[]float32, L] and can be wrapped by
// fewshot.NewIndexedDataset directly.
//
// TaskStream adapts a fewshot.TaskGenerator to gomlx's train.Dataset
// interface: every Yield samples a fresh episode and returns it as gomlx
// tensors, so a meta-learning training loop can consume episodes the same
// way it consumes ordinary batches.
package datasets
