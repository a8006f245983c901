/*
Package domain contains the core data model of the stepwise playback core.

It defines the trace contract every algorithm visualization produces, the
playback cursor over that trace, and the learner progress record. This package
is kept pure and free of I/O, timers or persistence.

# Key Entities

  - Step: one immutable, self-contained snapshot (description, data, variables, code reference).
  - Trace: the ordered, finite sequence of Steps generated for one input.
  - Variables: the untyped bag of named algorithm state with typed accessors that never panic.
  - PlaybackState: the cursor, trace length, play mode and speed.
  - Progress: completed, in-progress and favorite problem sets plus user settings.
*/
package domain
