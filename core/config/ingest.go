package config

// IngestConfig holds configuration for the bulk ingestion engine and the job invoker.
type IngestConfig struct {
	// SchemaPath points to a YAML schema rule document. Empty uses the embedded schema.
	SchemaPath string `mapstructure:"schema_path" default:""`
	// MaxRecordsPerRun is the per-invocation result cap.
	MaxRecordsPerRun int `mapstructure:"max_records_per_run" default:"100"`
	// DefaultIngestionProfileID is the run-level ingestion profile. Zero means unset.
	DefaultIngestionProfileID int `mapstructure:"default_ingestion_profile_id" default:"0"`
	// MaxInvocations bounds how many times Drain re-invokes the engine for one job.
	MaxInvocations int `mapstructure:"max_invocations" default:"1000"`
	// ScheduleIntervalSeconds is the period of the job scheduler.
	ScheduleIntervalSeconds int `mapstructure:"schedule_interval_seconds" default:"30"`
	// ScheduleConcurrency is the number of jobs stepped in parallel on one tick.
	ScheduleConcurrency int `mapstructure:"schedule_concurrency" default:"4"`
}
