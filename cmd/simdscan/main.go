package main

import (
	"log/slog"
	"net/http"
	"os"
	"strings"

	_ "net/http/pprof" // profiling

	"simdscan/internal/simdscan/cmd"
	"simdscan/internal/simdscan/log"
)

const defaultProfileAddr = "localhost:6060"

// profileAddr maps SIMDSCAN_PROFILE to a pprof listen address. Any value
// without a colon, such as "1", selects the default address.
func profileAddr(env string) (string, bool) {
	env = strings.TrimSpace(env)
	switch {
	case env == "":
		return "", false
	case strings.Contains(env, ":"):
		return env, true
	default:
		return defaultProfileAddr, true
	}
}

func main() {
	defer log.RecoverPanic("main", func() {
		slog.Error("Application terminated due to unhandled panic")
		os.Exit(2)
	})

	if addr, ok := profileAddr(os.Getenv("SIMDSCAN_PROFILE")); ok {
		go func() {
			slog.Info("Serving pprof", "addr", addr)
			if httpErr := http.ListenAndServe(addr, nil); httpErr != nil {
				slog.Error("Failed to pprof listen", "addr", addr, "error", httpErr)
			}
		}()
	}

	cmd.Execute()
}
