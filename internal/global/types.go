package global

type CommandSet struct {
	CommandName     string                 // Exact name of cli command
	UsageOption     string                 // Expected command value in usage top line
	Description     string                 // Short text displayed on parent command
	FullDescription string                 // Long text displayed on current command
	ChildCommands   map[string]*CommandSet // Available subcommands
}

type CtxKey string

// Simulation Harness

type SimConfig struct {
	Cores   int    `json:"cores"`    // Concurrent reporting goroutines
	RunTime string `json:"runTime"`  // Total simulation duration
	Faults  Faults `json:"faults"`   // Synthetic workload shape
	Tracer  Tracer `json:"tracer"`   // Tracer build-time equivalents
	Filters []Rule `json:"filters"`  // Per-module severity thresholds applied at startup
	Metrics Metric `json:"metrics"`  // Statistic collection
	Export  Export `json:"export"`   // End of run event dump
	Server  Server `json:"server"`   // Local query server
}

type Faults struct {
	UniqueSignatures int    `json:"uniqueSignatures"` // Distinct (module,instance,api,error) tuples to cycle
	ReportInterval   string `json:"reportInterval"`   // Delay between reports per core
	RuntimeShare     int    `json:"runtimeSharePct"`  // Percent of reports sent as runtime errors
	TransientShare   int    `json:"transientSharePct"` // Percent of reports sent as transient faults
}

type Tracer struct {
	Capacity               int  `json:"storeCapacity"` // 0 selects auto-sizing from system memory
	MaxCallbacks           int  `json:"maxCallbacks"`
	MultiCore              bool `json:"multiCoreLock"`
	FilterEnabled          bool `json:"severityFiltering"`
	DuplicateCallbackCheck bool `json:"duplicateCallbackCheck"`
}

type Rule struct {
	ModuleID    uint16 `json:"moduleId"`
	Global      bool   `json:"global,omitempty"`
	MinSeverity string `json:"minSeverity"`
}

type Metric struct {
	Enabled  bool   `json:"enabled"`
	Interval string `json:"interval"`
	MaxAge   string `json:"maxAge"`
}

type Export struct {
	FilePath     string `json:"filePath,omitempty"`
	SealKey      string `json:"sealKey,omitempty"` // Passphrase, sealed dump written when set
	BeatsAddress string `json:"beatsAddress,omitempty"`
}

type Server struct {
	Enabled bool `json:"enabled"`
	Port    int  `json:"port"`
}
