package cli

import (
	"fmt"
	"os"
	"runtime"
	"runtime/pprof"
	"runtime/trace"

	"github.com/spf13/cobra"

	"github.com/yaklabco/eflint/internal/logging"
)

type profileFlags struct {
	cpuProfile string
	memProfile string
	tracePath  string
}

func addProfileFlags(cmd *cobra.Command, flags *profileFlags) {
	cmd.Flags().StringVar(&flags.cpuProfile, "cpuprofile", "", "write a CPU profile to `file`")
	cmd.Flags().StringVar(&flags.memProfile, "memprofile", "", "write a heap profile to `file` on exit")
	cmd.Flags().StringVar(&flags.tracePath, "trace", "", "write a runtime trace to `file`")
}

// startProfiling starts the requested profiles. The returned function stops
// them and writes the heap profile, and is safe to call when nothing was
// requested.
func startProfiling(flags profileFlags) (func(), error) {
	var stops []func()
	stopAll := func() {
		for i := len(stops) - 1; i >= 0; i-- {
			stops[i]()
		}
	}

	if flags.cpuProfile != "" {
		f, err := os.Create(flags.cpuProfile)
		if err != nil {
			return nil, fmt.Errorf("create CPU profile: %w", err)
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("start CPU profile: %w", err)
		}
		stops = append(stops, func() {
			pprof.StopCPUProfile()
			_ = f.Close()
		})
	}

	if flags.tracePath != "" {
		f, err := os.Create(flags.tracePath)
		if err != nil {
			stopAll()
			return nil, fmt.Errorf("create trace file: %w", err)
		}
		if err := trace.Start(f); err != nil {
			_ = f.Close()
			stopAll()
			return nil, fmt.Errorf("start trace: %w", err)
		}
		stops = append(stops, func() {
			trace.Stop()
			_ = f.Close()
		})
	}

	if flags.memProfile != "" {
		path := flags.memProfile
		stops = append(stops, func() {
			if err := writeHeapProfile(path); err != nil {
				logging.Default().Warn("heap profile not written", logging.FieldPath, path, logging.FieldError, err)
			}
		})
	}

	return stopAll, nil
}

func writeHeapProfile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	runtime.GC()
	return pprof.WriteHeapProfile(f)
}
