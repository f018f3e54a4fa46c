// Package bulkupload exposes bulk upload jobs over HTTP.
//
// Routes:
//
//	POST /bulkupload/validate          validate a raw feed body
//	POST /bulkupload/jobs              store the feed and queue a job
//	GET  /bulkupload/jobs/:id          job status and counters
//	GET  /bulkupload/jobs/:id/results  per-item results
//	POST /bulkupload/jobs/:id/abort    stop the job before its next item
//
// Jobs are processed by the scheduler in the jobs package.
package bulkupload
