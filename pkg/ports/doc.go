/*
Package ports defines the driven ports (interfaces) of immense.

These interfaces decouple the HTTP, MCP and CLI surfaces from concrete
storage backends.

# Key Interfaces

  - SceneStore: persists named scene documents (memory, Redis or SQLite).
*/
package ports
