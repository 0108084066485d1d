/*
Package ports defines the driven ports (interfaces) for the Canopy host.

These interfaces decouple the invocation flow from external implementations,
allowing the host to work with various result storage backends.

# Key Interfaces

  - ResultStore: Responsible for persisting and loading invocation Results.
*/
package ports
