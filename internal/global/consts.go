package global

import "time"

const (
	// Descriptive Names for available verbosity levels
	VerbosityNone int = iota
	VerbosityStandard
	VerbosityProgress
	VerbosityData
	VerbosityFullData
	VerbosityDebug

	// Descriptive names for available severity levels
	ErrorLog string = "Error"
	WarnLog  string = "Warn"
	InfoLog  string = "Info"
)

const (
	ProgBaseName string = "dettrace"
	ProgVersion  string = "v0.3.0"

	// Context keys
	LoggerKey  CtxKey = "logger"  // Event queue (mostly for variable log verbosity handling)
	LogTagsKey CtxKey = "logtags" // List of tags in order of broad->specific appended/popped at various parts of the program

	DefaultConfigPath string = "/etc/dettrace.json"
	DefaultDumpPath   string = "events.dump"

	// Event store sizing (slots, one per unique signature)
	DefaultStoreCapacity int = 64
	MinStoreCapacity     int = 8
	MaxStoreCapacity     int = 256

	// Callback registry sizing
	DefaultMaxCallbacks int = 8
	MaxCallbackSlots    int = 32

	// Store lock spin budget (attempts x pause ~= 1ms worst case wait)
	DefaultSpinBudget int           = 1000
	DefaultSpinPause  time.Duration = 1 * time.Microsecond

	// Simulation defaults
	DefaultSimCores      int = 4
	DefaultSimSignatures int = 32

	// Timeout values
	HarnessShutdownTimeout time.Duration = 10 * time.Second

	// Metric/event query HTTP server
	HTTPListenPort   int           = 18514
	HTTPListenAddr   string        = "localhost" // Queries only exposed to local machine
	HTTPReadTimeout  time.Duration = 30 * time.Second
	HTTPWriteTimeout time.Duration = 10 * time.Second
	HTTPIdleTimeout  time.Duration = 180 * time.Second

	// Query server paths
	StatisticsPath string = "/statistics"
	EventsPath     string = "/events"
	DataPath       string = "/metrics/data"
	DiscoveryPath  string = "/metrics/discover"

	// Namespacing Name Components
	NSMetric    string = "Metrics"
	NSMetricSrv string = "Server"
	NSTest      string = "Test"
	NSCLI       string = "CLI"
	NSTracer    string = "Tracer"
	NSStore     string = "Store"
	NSHarness   string = "Harness"
	NSInjector  string = "Injector"
	NSCollector string = "Collector"
	NSExport    string = "Export"
)
