// hexdomains analyses scenes of scalar fields sampled on hexagonal grids: it extracts the
// contours of the fields, labels each cell with the winning field and traces the boundaries of
// the resulting Dirichlet domains.
//
// Usage:
//
//	$ hexdomains [flags] scene1.yaml [scene2.yaml ...]
//
// The scenes are analysed concurrently, then printed and optionally saved in order.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/gomlx/exceptions"
	"github.com/janpfeifer/hexdomains/internal/parameters"
	"github.com/janpfeifer/hexdomains/internal/profilers"
	"github.com/janpfeifer/hexdomains/internal/scene"
	"github.com/janpfeifer/hexdomains/internal/shape"
	"github.com/janpfeifer/hexdomains/internal/store"
	"github.com/janpfeifer/hexdomains/internal/ui/cli"
	"github.com/janpfeifer/hexdomains/internal/ui/progress"
	"github.com/janpfeifer/must"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"
	"k8s.io/klog/v2"
)

var (
	flagConfig = flag.String("config", "",
		"Analysis configuration, a comma separated list of key=value, e.g. \"max_steps_factor=8,islands=false,trace=2\".")
	flagDB          = flag.String("db", "", "If set, saves the domain vertices to this SQLite database `file`.")
	flagGob         = flag.String("gob", "", "If set, saves the domain vertices to this gob `file`.")
	flagContainer   = flag.String("container", "", "Prefix of the container names used when saving, the scene name is appended.")
	flagParallelism = flag.Int("parallelism", 0, "If > 0 ignore GOMAXPROCS and analyse these many scenes simultaneously.")
	flagQuiet       = flag.Bool("quiet", false, "Don't print the maps and summaries of the scenes.")
	flagColor       = flag.Bool("color", true, "Use colors when printing.")
)

// Result of the analysis of one scene.
type Result struct {
	Scene    *scene.Scene
	IDs      []float32
	Contours [][]int
	Domains  []shape.Domain
	Err      error
}

func main() {
	klog.InitFlags(nil)
	flag.Parse()
	if flag.NArg() == 0 {
		klog.Exitf("Usage: %s [flags] <scene.yaml>...", os.Args[0])
	}

	// Capture Control+C
	ctx, cancel := context.WithCancel(context.Background())
	progress.SafeInterrupt(cancel, 3*time.Second)
	defer cancel()

	stopProfilers := must.M1(profilers.Setup(ctx))
	defer stopProfilers()

	params := parameters.NewFromConfigString(*flagConfig)
	opts, err := shape.OptionsFromParams(params)
	if err == nil {
		err = parameters.CheckAllUsed(params)
	}
	if err != nil {
		klog.Exitf("Invalid -config=%q: %v", *flagConfig, err)
	}

	scenes := make([]*scene.Scene, 0, flag.NArg())
	for _, path := range flag.Args() {
		s, err := scene.Load(path)
		if err != nil {
			klog.Exitf("Failed to load scene: %+v", err)
		}
		scenes = append(scenes, s)
	}

	sinks := must.M1(openSinks())
	defer func() {
		for _, sink := range sinks {
			if err := sink.Close(); err != nil {
				klog.Errorf("Failed to close sink: %+v", err)
			}
		}
	}()

	results := analyseAll(ctx, scenes, opts)
	if ctx.Err() != nil {
		fmt.Printf("Interrupted: %s\n", ctx.Err())
		return
	}
	var numFailed int
	ui := cli.New(os.Stdout, *flagColor)
	for _, r := range results {
		if r == nil {
			continue
		}
		if r.Err != nil {
			numFailed++
			klog.Errorf("Scene %q failed: %+v", r.Scene.Name, r.Err)
			continue
		}
		if !*flagQuiet {
			g := must.M1(r.Scene.NewGrid())
			ui.PrintAnalysis(r.Scene.Name, g, r.IDs, r.Domains)
		}
		if klog.V(1).Enabled() {
			for fieldIdx, contour := range r.Contours {
				klog.Infof("Scene %q: field #%d contour has %d cells", r.Scene.Name, fieldIdx, len(contour))
			}
		}
		must.M(save(ctx, sinks, *flagContainer+r.Scene.Name, r.Domains))
	}
	if numFailed > 0 {
		stopProfilers()
		klog.Exitf("%d out of %d scenes failed", numFailed, len(results))
	}
}

// openSinks configured by the flags.
func openSinks() (sinks []store.Sink, err error) {
	if *flagDB != "" {
		db, err := store.NewSQLite(*flagDB)
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, db)
	}
	if *flagGob != "" {
		f, err := os.Create(*flagGob)
		if err != nil {
			for _, sink := range sinks {
				_ = sink.Close()
			}
			return nil, errors.Wrapf(err, "failed to create -gob=%q", *flagGob)
		}
		sinks = append(sinks, store.NewGob(f))
	}
	return sinks, nil
}

func save(ctx context.Context, sinks []store.Sink, container string, domains []shape.Domain) error {
	if len(sinks) == 0 {
		return nil
	}
	records := store.Records(domains)
	for _, sink := range sinks {
		if err := sink.Save(ctx, container, records); err != nil {
			return errors.WithMessagef(err, "saving %q", container)
		}
	}
	return nil
}

// analyseAll analyses the scenes concurrently. Failures are reported in each Result.
func analyseAll(ctx context.Context, scenes []*scene.Scene, opts shape.Options) []*Result {
	results := make([]*Result, len(scenes))
	var counter *progress.Counter
	if !*flagQuiet && term.IsTerminal(int(os.Stderr.Fd())) {
		counter = progress.NewCounter(ctx, os.Stderr, len(scenes), 200*time.Millisecond)
		defer counter.Done()
	}
	var wg errgroup.Group
	wg.SetLimit(getParallelism())
	for sceneIdx, s := range scenes {
		wg.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			r := &Result{Scene: s}
			// Panics while analysing a scene only fail that scene.
			r.Err = exceptions.TryCatch[error](func() {
				analyse(r, opts)
			})
			results[sceneIdx] = r
			if counter != nil {
				counter.Inc(r.Err != nil)
			}
			return nil
		})
	}
	_ = wg.Wait()
	return results
}

// analyse one scene, panicking on errors.
func analyse(r *Result, opts shape.Options) {
	start := time.Now()
	g := must.M1(r.Scene.NewGrid())
	fields := must.M1(r.Scene.Sample(g))
	r.Contours = must.M1(shape.Contours(g, fields, r.Scene.Threshold))
	r.IDs = must.M1(shape.Regions(g, fields))
	a := must.M1(shape.New(g, r.IDs, opts))
	r.Domains = must.M1(a.DirichletDomains())
	klog.V(1).Infof("Scene %q: %d cells, %d candidate vertices, %d domains in %s",
		r.Scene.Name, g.NumCells(), len(a.Vertices), len(r.Domains), time.Since(start))
}

// getParallelism returns the parallelism.
func getParallelism() (parallelism int) {
	parallelism = runtime.GOMAXPROCS(0)
	if *flagParallelism > 0 {
		parallelism = *flagParallelism
	}
	return
}
