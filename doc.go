/*
Package jnsuite is the conversation engine behind the JavaNet edTech Suite
sales assistant, together with the backend services that surround it.

The engine is a rule-based dialogue: every visitor utterance is checked for
relevance, classified against an ordered catalog of intents, and answered
with a scripted reply enriched by what the session already knows about the
visitor (institution type, country, user volume). Session state is kept per
session ID and only grows; each turn reports the fields it changed.

# Usage

	eng, err := jnsuite.New()
	if err != nil {
		log.Fatal(err)
	}

	turn, err := eng.Turn(ctx, "", "We are a secondary school in Lagos")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(turn.Intent, turn.SessionID)

New defaults to the built-in catalog and in-process storage. Production
deployments inject shared storage through WithStore (see
pkg/adapters/redis and pkg/adapters/sqldb) and a catalog source through
WithCatalog.

# Layout

  - pkg/domain: catalog, session state and turn types.
  - pkg/ports: interfaces for catalogs, state stores, history, locks and mail.
  - pkg/session: per-session serialisation of state merges.
  - pkg/adapters: memory, redis, SQL, HTTP, MCP and mail adapters.
  - pkg/pricing, pkg/proposal, pkg/content, pkg/account, pkg/assistant: the
    services exposed next to the engine by the HTTP API.
  - cmd/jnsuite: the serve, chat, mcp, seed and catalog commands.
*/
package jnsuite
