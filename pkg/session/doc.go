/*
Package session implements session management and persistence orchestration.

The Manager wraps any ports.StateStore, serialising access per session inside
the process and, when a DistributedLocker is configured, across API replicas.
It also provides the get-or-create lookup the conversation engine relies on.
*/
package session
