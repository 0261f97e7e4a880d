/*
Package domain contains the core models of the JN Suite conversation engine.

It defines the dialogue catalog, the per-session conversation state and the
shape of a single turn. The package is kept free of I/O and persistence so
that the engine, the stores and the transports can share it.

# Key Entities

  - Node: a scripted intent (tag, trigger patterns, responses, followups, flags).
  - Catalog: the immutable, ordered set of nodes the engine matches against.
  - SessionState: the fixed-shape record of what is known about a visitor.
  - StateDelta: a partial update merged field by field into SessionState.
  - Turn: the result of processing one utterance.
*/
package domain
