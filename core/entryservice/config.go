package entryservice

// Config holds configuration for the entry-management service client.
type Config struct {
	// Endpoint is the base URL of the service (e.g. https://entries.example.com).
	Endpoint string `mapstructure:"endpoint" default:"http://localhost:8081"`
	// Secret is the session secret sent with every call.
	Secret string `mapstructure:"secret" default:""`
	// PartnerID is the acting partner when no impersonation is requested.
	PartnerID int `mapstructure:"partner_id" default:"0"`
	// TimeoutSeconds bounds one HTTP attempt.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"60"`
	// RetryMax is the number of retries for transient failures.
	RetryMax int `mapstructure:"retry_max" default:"3"`
	// RequestsPerSecond throttles outgoing calls. Zero disables throttling.
	RequestsPerSecond float64 `mapstructure:"requests_per_second" default:"10"`
	// Burst is the limiter bucket size.
	Burst int `mapstructure:"burst" default:"5"`
}
