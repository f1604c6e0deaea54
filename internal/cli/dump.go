package cli

import (
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"

	"dettrace/internal/export"
	"dettrace/internal/global"
)

// Fetches the event dump from a running simulation's query server
func DumpMode(cliOpts *global.CommandSet, commandname string, args []string) {
	var outputPath string
	var serverPort int
	var sealPassphrase string

	commandFlags := flag.NewFlagSet(commandname, flag.ExitOnError)
	SetGlobalArguments(commandFlags)
	commandFlags.StringVar(&outputPath, "o", global.DefaultDumpPath, "Path to write the event dump to")
	commandFlags.StringVar(&outputPath, "output", global.DefaultDumpPath, "Path to write the event dump to")
	commandFlags.IntVar(&serverPort, "p", global.HTTPListenPort, "Port of the running query server")
	commandFlags.IntVar(&serverPort, "port", global.HTTPListenPort, "Port of the running query server")
	commandFlags.StringVar(&sealPassphrase, "seal", "", "Encrypt the dump with this passphrase")

	commandFlags.Usage = func() {
		PrintHelpMenu(commandFlags, commandname, cliOpts)
	}
	commandFlags.Parse(args[0:])

	url := "http://" + global.HTTPListenAddr + ":" + strconv.Itoa(serverPort) + global.EventsPath
	response, err := http.Get(url)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: no running query server at %s: %v\n", url, err)
		os.Exit(1)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		fmt.Fprintf(os.Stderr, "Error: query server returned status %d\n", response.StatusCode)
		os.Exit(1)
	}

	dump, err := io.ReadAll(response.Body)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading query server response: %v\n", err)
		os.Exit(1)
	}

	err = export.WriteDump(outputPath, dump, sealPassphrase)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error writing dump file: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Wrote event dump to %s\n", outputPath)
}
