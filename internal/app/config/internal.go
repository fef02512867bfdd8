package config

type InternalConfig struct {
	App      App
	FHIR     AppFHIR
	Session  AppSession
	Timeline AppTimeline
}

type App struct {
	Env                        string
	Port                       string
	Version                    string
	Address                    string
	EndpointPrefix             string
	AllowedOrigins             []string
	MaxRequests                int
	MaxTimeRequestsPerSeconds  int
	RequestBodyLimitInMegabyte int
	ShutdownTimeoutInSeconds   int
}

type AppFHIR struct {
	BaseUrl string
	// UseHistory pins timelines to HistoryVersion unless a request names one.
	UseHistory             bool
	HistoryVersion         string
	AuthToken              string
	MaxRequestsPerSecond   float64
	RequestTimeoutInSecond int
}

type AppSession struct {
	Store        string
	TTLInMinutes int
}

type AppTimeline struct {
	EventsEnabled bool
	EventsQueue   string
}

// DefaultHistoryVersion returns the configured pinned version, or "" when
// history pinning is off.
func (c *InternalConfig) DefaultHistoryVersion() string {
	if !c.FHIR.UseHistory {
		return ""
	}
	return c.FHIR.HistoryVersion
}
