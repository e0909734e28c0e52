// Package janitor prunes old, unaliased versions of deployed functions.
//
// # Retention Policy
//
// For every function the janitor keeps:
//
//   - every version referenced by an alias, and
//   - the KeepCount most recent versions, aliased or not.
//
// Everything else is deleted. [DecideDeletions] evaluates the policy and has
// no side effects.
//
// # Resumable Cleanup
//
// An [Engine] is built once per process and its Run method is invoked
// repeatedly by a schedule. The engine keeps a work queue of the functions
// still to clean in the current cycle. The queue is filled from the platform
// only when it is empty, and a function leaves the queue only after every
// one of its deletions succeeded. When a deletion fails, Run returns the
// error and the function stays at the head of the queue, so the next Run
// carries on from where the previous one stopped without listing functions
// again and without revisiting functions already cleaned.
//
// # Usage
//
//	engine := janitor.NewEngine(client, janitor.Config{KeepCount: 3})
//	if err := engine.Run(ctx); err != nil {
//	    // the next scheduled Run resumes from the failed function
//	    return err
//	}
package janitor
