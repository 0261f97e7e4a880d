/*
Package observability turns Conversation Engine lifecycle events and
assistant provider outcomes into Prometheus metrics and structured logs.

Metrics live on their own registry so several engines (or tests) can run in
one process. Handler exposes that registry for scraping.
*/
package observability
