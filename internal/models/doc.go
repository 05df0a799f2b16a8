// Package models defines the core data types for synabon.
//
// # Models
//
//   - Record: one event in a synthetic dataset (a registration or a transaction)
//   - Dataset: an ordered sequence of records, sorted by date ascending
//   - UserState: the last known state of one user, reconstructed from a dataset
//
// # Design Principles
//
// 1. **Datasets are values**: components never mutate a dataset they received;
// extension and annotation produce new datasets.
// 2. **Nullable by pointer**: Amount and Commission are *float64 because
// registration records carry neither. A nil pointer maps to SQL NULL and an
// empty CSV cell.
// 3. **Fixed column order**: every serialization surface (CSV, SQLite) uses the
// order in Columns.
package models
