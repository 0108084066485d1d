/*
Package domain contains the core domain models for Canopy nodes.

It defines the fundamental entities of a node invocation: the image payload
handed over by the host, the invocation record, and the stored result. This
package is kept pure and free of external dependencies like I/O or
persistence, following Hexagonal Architecture principles.

# Key Entities

  - Image: An encoded image payload (PNG/JPEG bytes plus media type).
  - Invocation: A single execution request for a named node.
  - Result: The recorded outcome of an invocation.
  - LifecycleHooks: Observability callbacks fired around node and model calls.
*/
package domain
