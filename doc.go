// Package zmph builds minimal perfect hash functions (MPHFs) over a fixed key
// set using hash-and-displace construction.
//
// An MPHF maps each of the n keys it was built from to a distinct slot in
// [0, n). The values are stored in slot order, so a lookup is two hash
// evaluations and two array reads, and keys are never stored.
//
// # Basic Usage
//
// Building:
//
//	m, err := zmph.Build(map[string]int{"a": 0, "b": 1, "c": 2})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Querying:
//
//	v := m.Lookup("b") // 1
//
// Lookup is only defined for keys that were present at build time. Any other
// key returns some unrelated value from the table. Callers that need
// membership testing store the key next to each value and compare, using
// Slot to find the position.
//
// # Construction
//
// Keys are split into n buckets by the primary hash H(0, key) mod n. Buckets
// holding two or more keys are resolved largest first: for each one the
// builder searches d = 1, 2, ... until H(d, key) mod n sends every key of the
// bucket to a distinct free slot, and records d in the intermediate table.
// The search is capped by WithMaxAttempts. Single-key buckets then take the
// remaining free slots directly, recorded as a negative slot encoding.
//
// # Package Structure
//
//   - Public API: builder.go (Build, BuildContext, BuildSlices), mphf.go (MPHF, Lookup)
//   - Configuration: builder_options.go (Option, With* functions)
//   - Construction stages: bucket.go, solver.go, singleton.go
//   - Table encoding: table.go
//   - Hash primitives: hashfn/ (murmur3, xxHash, XXH3)
//   - Error sentinels: errors/
package zmph
