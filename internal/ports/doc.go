// Package ports defines the interfaces (ports) that connect the application
// layer to infrastructure adapters.
//
// In Clean Architecture / Hexagonal Architecture, ports are the boundaries
// between the application core and the outside world. They define what the
// application needs from external systems without specifying how those needs
// are fulfilled.
//
// # Port Interfaces
//
//   - [Broker]: Producer-side contract of the partitioned log broker client
//   - [BrokerHandler]: Asynchronous broker events (ready, disconnect, delivery reports)
//   - [Logger]: Structured logging abstraction
//
// # Usage
//
// The application layer (internal/app) depends only on these interfaces.
// Infrastructure adapters (internal/adapters) implement them with concrete
// implementations (Kafka, zerolog, etc.).
//
// This separation enables:
//   - Testing application logic with mock implementations
//   - Swapping broker implementations without changing batching logic
//   - Clear boundaries and dependency direction
package ports
