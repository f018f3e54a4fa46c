// Package engine turns a validated feed document into entry operations on the
// entry-management service.
//
// Each Run walks the channels in document order from the job's start index, builds
// the entry and its assets for every item, submits them as one transaction and
// records one UploadResult per item. Per-item failures become error results;
// schema failures, unsupported actions, aborts and transport errors stop the run.
// A run stops early once it has emitted more results than MaxRecordsPerRun and
// reports the index the next invocation should resume from.
package engine
