// Package jobs runs bulk upload jobs over several engine invocations.
//
// Each invocation processes at most MaxRecordsPerRun items from the stored resume offset.
// The Repository keeps the job row and its results, and RecordInvocation advances the
// offset in the same transaction that stores the results. Runner.Drain invokes a job
// until it completes, while Scheduler steps every pending job once per interval with
// gocron.
package jobs
