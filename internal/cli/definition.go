package cli

import "dettrace/internal/global"

func DefineOptions() (cmdOpts *global.CommandSet) {
	// Root level
	root := &global.CommandSet{
		Description:     "Development Error Tracer (dettrace)",
		FullDescription: "  Deduplicating bounded event tracer with a synthetic fault simulation harness",
		CommandName:     RootCLICommand,
		ChildCommands:   make(map[string]*global.CommandSet),
	}

	// Simulation
	root.ChildCommands["simulate"] = &global.CommandSet{
		CommandName:     "simulate",
		Description:     "Run Fault Simulation",
		FullDescription: "Drives the tracer with synthetic concurrent fault reports, collects metrics, and optionally serves local queries",
		ChildCommands:   nil,
	}

	// Event dump retrieval
	root.ChildCommands["dump"] = &global.CommandSet{
		CommandName:     "dump",
		Description:     "Fetch Event Dump",
		FullDescription: "Retrieves accumulated event records from a running simulation's query server and writes them to a file",
		ChildCommands:   nil,
	}

	// Setup
	root.ChildCommands["configure"] = &global.CommandSet{
		CommandName:     "configure",
		Description:     "Setup Actions",
		FullDescription: "Creates template configuration files for the simulation harness",
		ChildCommands:   nil,
	}

	// Version Info
	root.ChildCommands["version"] = &global.CommandSet{
		CommandName:     "version",
		Description:     "Show Version Information",
		FullDescription: "Display meta information about program",
	}

	cmdOpts = root
	return
}
