// Package frame provides the cooperative scheduler that drives shadowtree.
//
// A Scheduler owns two queues: a microtask queue (Post) drained to
// quiescence at the end of every turn, and a frame queue (RequestFrame)
// whose callbacks run once at the next rendering opportunity. Mutation
// observer delivery rides the microtask queue; reconciliation rides the
// frame queue.
//
// Tests drive the scheduler by hand with Tick and Frame for fully
// deterministic ordering. Production code runs it on a ticker:
//
//	sched := frame.NewScheduler()
//	go sched.Run(ctx, 16*time.Millisecond)
package frame
