// Package profilers installs the profiling flags of the hexdomains programs, and sets up the
// profilers they ask for.
package profilers

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"runtime"
	"runtime/pprof"

	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

var (
	flagHTTPPort   = flag.Int("prof", -1, "If set, serves the pprof profiles on localhost at the given port.")
	flagKeepAlive  = flag.Bool("prof_keep_alive", false, "If set with -prof, keeps the program alive at the end until interrupted.")
	flagCPUProfile = flag.String("cpu_profile", "", "write cpu profile to `file`")
	flagMemProfile = flag.String("mem_profile", "", "write heap profile to `file` at exit")
)

// Setup starts the profilers configured by the flags. The returned stop function must be
// called (typically deferred) before the program exits, to flush the profiles.
func Setup(ctx context.Context) (stop func(), err error) {
	var cpuFile *os.File
	if *flagCPUProfile != "" {
		cpuFile, err = os.Create(*flagCPUProfile)
		if err != nil {
			return nil, errors.Wrap(err, "could not create CPU profile")
		}
		if err = pprof.StartCPUProfile(cpuFile); err != nil {
			_ = cpuFile.Close()
			return nil, errors.Wrap(err, "could not start CPU profile")
		}
	}
	if *flagHTTPPort >= 0 {
		addr := fmt.Sprintf("localhost:%d", *flagHTTPPort)
		klog.Infof("Serving profiles on http://%s/debug/pprof, e.g.: $ go tool pprof %s/debug/pprof/heap", addr, addr)
		go func() {
			klog.Fatal(http.ListenAndServe(addr, nil))
		}()
	}

	stop = func() {
		if cpuFile != nil {
			pprof.StopCPUProfile()
			_ = cpuFile.Close()
		}
		if *flagMemProfile != "" {
			writeHeapProfile(*flagMemProfile)
		}
		if *flagHTTPPort >= 0 && *flagKeepAlive && ctx.Err() == nil {
			runtime.GC()
			klog.Infof("Finished: kept alive with the profiler open, interrupt (Ctrl+C) to exit")
			<-ctx.Done()
		}
	}
	return stop, nil
}

func writeHeapProfile(path string) {
	f, err := os.Create(path)
	if err != nil {
		klog.Errorf("could not create heap profile: %+v", err)
		return
	}
	defer func() { _ = f.Close() }()
	runtime.GC()
	if err := pprof.WriteHeapProfile(f); err != nil {
		klog.Errorf("could not write heap profile to %q: %+v", path, err)
	}
}
