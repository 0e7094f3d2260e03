// Package domain contains the core domain entities and value objects for boxcar.
//
// This package represents the innermost layer of the Clean Architecture. It has
// no dependencies on infrastructure concerns (Kafka, logging, configuration) and
// contains only pure business logic.
//
// # Entities
//
//   - [Boxcar]: A size-bounded batch of messages for one stream, produced to
//     the broker as a single record
//   - [Ack]: The completion handle shared by every message in a boxcar,
//     settled exactly once when the broker acknowledges or rejects the record
//   - [Record]: The serialized wire form of a boxcar
//
// # Design Principles
//
// Domain entities are:
//   - Free of infrastructure dependencies
//   - Focused on business rules and invariants
//   - Testable without mocks or external systems
package domain
