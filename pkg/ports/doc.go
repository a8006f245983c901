/*
Package ports defines the driven ports (interfaces) for stepwise.

These interfaces decouple the core from external implementations, so progress
can live in memory, on disk or in Redis without the tracker knowing.

# Key Interfaces

  - ProgressStore: persists a learner's progress record per profile.
  - DistributedLocker: serializes read-modify-write cycles on a profile across replicas.
*/
package ports
