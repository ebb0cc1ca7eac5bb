/*
Package ports defines the driven ports (interfaces) used around the delta automaton.

These interfaces decouple the automaton and its command-line and HTTP callers
from concrete infrastructure.

# Key Interfaces

  - RunStore: persists evaluation records (input, verdict, trace) for later inspection.

RunRunStoreContract is a reusable test suite every RunStore adapter runs.
*/
package ports
