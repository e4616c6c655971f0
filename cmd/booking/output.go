package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/jrsteele09/go-booking-client/apiclient"
	"github.com/jrsteele09/go-booking-client/internal/ui"
)

// printJSON writes v to stdout as indented JSON
func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printTrace returns a tracer that prints one coloured line per request.
func printTrace(w io.Writer) apiclient.Tracer {
	return func(ev apiclient.TraceEvent) {
		status := ui.Red + "ERR" + ui.ResetColor
		if ev.Err == nil {
			status = ui.Status(ev.Status)
		}
		retry := ""
		if ev.Attempt > 0 {
			retry = ui.Magenta + " (retry)" + ui.ResetColor
		}
		fmt.Fprintf(w, "%s %s %s %s%v%s%s\n",
			ui.Method(ev.Method), ev.URL, status,
			ui.Gray, ev.Duration.Round(time.Millisecond), ui.ResetColor, retry)
	}
}

func printUsage(w io.Writer) {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Fprintln(w, "Usage: booking <command> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	for _, name := range names {
		fmt.Fprintf(w, "  %-18s %s\n", name, commands[name].usage)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'booking <command> -h' for the flags of a command.")
}

// splitList splits a comma separated flag value, dropping blanks.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
