/*
Package ports defines the driven and driving ports (interfaces) of JN Suite.

These interfaces decouple the conversation engine from storage backends,
catalog sources and transports.

# Key Interfaces

  - CatalogProvider: supplies the dialogue catalog (built-in, file or database).
  - StateStore: loads and merge-updates per-session conversation state.
  - MessageLog: append-only conversation history.
  - DistributedLocker: distributed locking for concurrent session access.
  - ConversationEngine: what HTTP, MCP and the terminal drive.
*/
package ports
