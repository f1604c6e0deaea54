package global

var (
	// How much the simulation tooling prints, set by the -v flag
	//
	//	0 - None: errors only
	//	1 - Standard: harness startup/shutdown and run summary
	//	2 - Progress: per-interval collection and server activity
	//	3 - Data: individual injected reports and callback fan-out
	//	4 - FullData: full record contents as they move
	//	5 - Debug: internal state transitions and raw values
	Verbosity int
)
