/*
Package domain contains the core types shared by the delta automaton, its
adapters and its renderers.

It is kept pure and free of I/O: no storage, no transport, no logging.

# Key Entities

  - StateID, RowID, Symbol: identifiers handed out or accepted by an automaton.
  - Target: one transition-table cell, a destination state or None.
  - Row / Table: a transition row and a read-only snapshot of a whole automaton.
  - Step / Result: the trace and verdict produced by one evaluation.
  - Run: a stored evaluation record, used by diagnostics stores.
*/
package domain
