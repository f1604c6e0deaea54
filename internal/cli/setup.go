package cli

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"

	"dettrace/internal/global"
)

// Setup options
func SetupMode(cliOpts *global.CommandSet, commandname string, args []string) {
	var newSimConf bool
	var templateConfPath string

	commandFlags := flag.NewFlagSet(commandname, flag.ExitOnError)
	commandFlags.StringVar(&templateConfPath, "c", global.DefaultConfigPath, "Path to template config file")
	commandFlags.StringVar(&templateConfPath, "config", global.DefaultConfigPath, "Path to template config file")
	commandFlags.BoolVar(&newSimConf, "sim-config-template", false, "Create new template config for the simulation harness (using config-path argument)")

	commandFlags.Usage = func() {
		PrintHelpMenu(commandFlags, commandname, cliOpts)
	}
	if len(args) < 1 {
		PrintHelpMenu(commandFlags, commandname, cliOpts)
		os.Exit(1)
	}
	commandFlags.Parse(args[0:])

	var err error

	if newSimConf {
		err = createSimTemplateConfig(templateConfPath)
	} else {
		PrintHelpMenu(commandFlags, commandname, cliOpts)
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// Writes a starter simulation config with every section populated
func createSimTemplateConfig(path string) (err error) {
	if path == "" {
		err = fmt.Errorf("config path must not be empty")
		return
	}

	_, err = os.Stat(path)
	if err == nil {
		// File exists, only overwrite with explicit interactive consent
		if !term.IsTerminal(int(os.Stdin.Fd())) {
			err = fmt.Errorf("refusing to overwrite existing config '%s' without a terminal", path)
			return
		}

		fmt.Printf("Config '%s' already exists. Overwrite? [y/N]: ", path)
		reader := bufio.NewReader(os.Stdin)
		var answer string
		answer, err = reader.ReadString('\n')
		if err != nil {
			err = fmt.Errorf("failed reading confirmation: %v", err)
			return
		}
		answer = strings.ToLower(strings.TrimSpace(answer))
		if answer != "y" && answer != "yes" {
			fmt.Println("Aborted.")
			return
		}
	} else if !os.IsNotExist(err) {
		err = fmt.Errorf("failed checking for existing config: %v", err)
		return
	}

	template := global.SimConfig{
		Cores:   global.DefaultSimCores,
		RunTime: "30s",
		Faults: global.Faults{
			UniqueSignatures: global.DefaultSimSignatures,
			ReportInterval:   "1ms",
			RuntimeShare:     10,
			TransientShare:   10,
		},
		Tracer: global.Tracer{
			Capacity:               0, // auto-size from system memory
			MaxCallbacks:           global.DefaultMaxCallbacks,
			MultiCore:              true,
			FilterEnabled:          true,
			DuplicateCallbackCheck: true,
		},
		Filters: []global.Rule{
			{Global: true, MinSeverity: "warning"},
		},
		Metrics: global.Metric{
			Enabled:  true,
			Interval: "1s",
			MaxAge:   "10m",
		},
		Export: global.Export{
			FilePath: global.DefaultDumpPath,
		},
		Server: global.Server{
			Enabled: true,
			Port:    global.HTTPListenPort,
		},
	}

	contents, err := json.MarshalIndent(template, "", "  ")
	if err != nil {
		err = fmt.Errorf("failed marshaling template config: %v", err)
		return
	}
	contents = append(contents, '\n')

	err = os.WriteFile(path, contents, 0644)
	if err != nil {
		err = fmt.Errorf("failed writing template config: %v", err)
		return
	}

	fmt.Printf("Wrote template config to %s\n", path)
	return
}
