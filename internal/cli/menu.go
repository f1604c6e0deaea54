package cli

import (
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"

	"dettrace/internal/global"
)

const RootCLICommand string = "root"

// Full standardized help menu (wraps option printer as well)
func PrintHelpMenu(fs *flag.FlagSet, command string, rootCmd *global.CommandSet) {
	const baseIndentSpaces = 2

	var curCmdSet *global.CommandSet

	// Find the command in tree (single level deep)
	usageParts := []string{os.Args[0]}
	if command == "" || command == RootCLICommand {
		curCmdSet = rootCmd
	} else if cmd, ok := rootCmd.ChildCommands[command]; ok {
		curCmdSet = cmd
		usageParts = append(usageParts, cmd.CommandName)
	} else {
		fmt.Printf("Unknown command: %s\n", command)
		return
	}

	if len(curCmdSet.ChildCommands) > 0 {
		usageParts = append(usageParts, "[subcommand]")
	}
	if curCmdSet.UsageOption != "" {
		usageParts = append(usageParts, curCmdSet.UsageOption)
	}

	fmt.Printf("Usage: %s\n\n", strings.Join(usageParts, " "))

	// Description
	if curCmdSet == rootCmd {
		fmt.Println(curCmdSet.Description)
		fmt.Println(curCmdSet.FullDescription)
		fmt.Println()
	} else if curCmdSet.FullDescription != "" {
		fmt.Println("  Description:")
		fmt.Printf("    %s\n\n", curCmdSet.FullDescription)
	}

	// Subcommands
	if len(curCmdSet.ChildCommands) > 0 {
		indent := strings.Repeat(" ", baseIndentSpaces)
		fmt.Printf("%sSubcommands:\n", indent)

		maxLen := 0
		subNames := make([]string, 0, len(curCmdSet.ChildCommands))
		for name := range curCmdSet.ChildCommands {
			subNames = append(subNames, name)
			if len(name) > maxLen {
				maxLen = len(name)
			}
		}
		sort.Strings(subNames)

		cmdIndent := strings.Repeat(" ", baseIndentSpaces+2)
		for _, name := range subNames {
			sub := curCmdSet.ChildCommands[name]
			padding := strings.Repeat(" ", maxLen-len(name)+2)
			fmt.Printf("%s%s%s - %s\n", cmdIndent, name, padding, sub.Description)
		}
		fmt.Println()
	}

	// Flags
	printFlagOptions(fs, baseIndentSpaces)
}

// Custom printer to deduplicate short/long usages and indent automatically
func printFlagOptions(fs *flag.FlagSet, baseIndentSpaces int) {
	const shortLongArgJoiner string = ", "
	const argToUsageSpaces int = 2

	type optInfo struct {
		names      []string
		usage      string
		defaultVal string
		hasShort   bool
	}

	// Deduplicate usages by exact usage text match
	seen := make(map[string]*optInfo)
	fs.VisitAll(func(arg *flag.Flag) {
		prefix := "--"
		short := len(arg.Name) == 1
		if short {
			prefix = "-"
		}

		opt, seenUsage := seen[arg.Usage]
		if !seenUsage {
			opt = &optInfo{usage: arg.Usage, defaultVal: arg.DefValue}
			seen[arg.Usage] = opt
		}
		opt.names = append(opt.names, prefix+arg.Name)
		opt.hasShort = opt.hasShort || short
	})

	opts := make([]*optInfo, 0, len(seen))
	for _, opt := range seen {
		// Short args come before long args
		sort.Slice(opt.names, func(indexA, indexB int) bool {
			return len(opt.names[indexA]) < len(opt.names[indexB])
		})
		opts = append(opts, opt)
	}

	sort.Slice(opts, func(indexA, indexB int) bool {
		return strings.ToLower(opts[indexA].names[0]) < strings.ToLower(opts[indexB].names[0])
	})

	// Offset for entries without a short form ("-x, " worth of characters)
	const longShortArgOffset = 4

	// Calculate max length flags for alignment
	maxLen := 0
	for _, opt := range opts {
		leftLen := len(strings.Join(opt.names, shortLongArgJoiner))
		if !opt.hasShort {
			leftLen += longShortArgOffset
		}
		if leftLen > maxLen {
			maxLen = leftLen
		}
	}

	// Print option list
	fmt.Printf("%sOptions:\n", strings.Repeat(" ", baseIndentSpaces))
	for _, opt := range opts {
		left := strings.Join(opt.names, shortLongArgJoiner)

		indentSpaces := baseIndentSpaces
		leftLen := len(left)
		if !opt.hasShort {
			indentSpaces += longShortArgOffset
			leftLen += longShortArgOffset
		}

		paddingSpaces := maxLen - leftLen + argToUsageSpaces
		if paddingSpaces < argToUsageSpaces {
			paddingSpaces = argToUsageSpaces
		}

		// Skip printing any "empty" defaults
		desc := opt.usage
		if opt.defaultVal != "" && opt.defaultVal != "false" && opt.defaultVal != "0" {
			desc += fmt.Sprintf(" [default: %s]", opt.defaultVal)
		}

		fmt.Printf("%s%s%s%s\n", strings.Repeat(" ", indentSpaces), left, strings.Repeat(" ", paddingSpaces), desc)
	}
}
