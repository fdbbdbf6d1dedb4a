// Command gradaccum runs micro-batches of a small regression model on
// synthetic data and reports the gradients merged over each accumulation
// window.
//
// Usage:
//
//	gradaccum [flags]
//	gradaccum version
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"

	"github.com/gomlx/exceptions"
	"github.com/janpfeifer/must"
	"github.com/schollz/progressbar/v3"
	"k8s.io/klog/v2"

	"github.com/born-ml/gradaccum/internal/autodiff"
	"github.com/born-ml/gradaccum/internal/backend/cpu"
	"github.com/born-ml/gradaccum/internal/nn"
	"github.com/born-ml/gradaccum/internal/optim"
	"github.com/born-ml/gradaccum/internal/tensor"
	"github.com/born-ml/gradaccum/internal/train"
)

// Version is the release version, overridden at link time.
var Version = "v0.1.0"

var (
	flagSteps    = flag.Int("steps", 12, "Number of micro-batches to run.")
	flagAccum    = flag.Int("accum", 4, "Micro-batches summed per accumulation window.")
	flagBatch    = flag.Int("batch", 8, "Examples per micro-batch.")
	flagIn       = flag.Int("in", 16, "Input features.")
	flagHidden   = flag.Int("hidden", 8, "Hidden units.")
	flagOut      = flag.Int("out", 1, "Output features.")
	flagSeed     = flag.Int64("seed", 1, "Random seed for data and initialization.")
	flagProgress = flag.Bool("progress", true, "Show a progress bar.")
)

type backendType = *autodiff.AutodiffBackend[*cpu.CPUBackend]

func main() {
	klog.InitFlags(nil)
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() > 0 {
		switch flag.Arg(0) {
		case "version":
			fmt.Printf("gradaccum %s\n", Version)
			return
		case "help":
			usage()
			return
		default:
			klog.Errorf("Unknown command %q. See 'gradaccum -help'.", flag.Arg(0))
			os.Exit(1)
		}
	}

	cfg := train.Config{AccumulationSteps: *flagAccum}
	if err := cfg.Validate(); err != nil {
		klog.Errorf("Invalid flags: %v", err)
		os.Exit(1)
	}

	err := exceptions.TryCatch[error](func() {
		run(cfg)
	})
	if err != nil {
		klog.Fatalf("Failed with error: %+v", err)
	}
}

func usage() {
	fmt.Fprintf(flag.CommandLine.Output(), `gradaccum - gradient accumulation over micro-batches

Usage:
  gradaccum [flags]
  gradaccum version

Flags:
`)
	flag.PrintDefaults()
}

// window is one released set of merged gradients.
type window struct {
	microBatches int
	grads        *optim.GradientsParams
}

func run(cfg train.Config) {
	rng := rand.New(rand.NewSource(*flagSeed))
	backend := autodiff.New(cpu.New())
	inner := backend.Inner()

	linearCfg := nn.LinearConfig{Bias: true, Rand: rng}
	model := nn.NewSequential[backendType](
		nn.NewLinearWithConfig(*flagIn, *flagHidden, linearCfg, backend),
		nn.NewLinearWithConfig(*flagHidden, *flagOut, linearCfg, backend),
	)
	mse := nn.NewMSELoss[backendType]()

	// Targets come from a fixed random linear map.
	truth := tensor.RandnWith[float32](tensor.Shape{*flagIn, *flagOut}, rng, inner)

	acc := must.M1(train.NewAccumulation(cfg, inner))
	bar := newProgressBar(*flagSteps)

	var (
		windows []window
		losses  []float32
	)
	for step := 0; step < *flagSteps; step++ {
		x := tensor.RandnWith[float32](tensor.Shape{*flagBatch, *flagIn}, rng, inner)
		y := x.MatMul(truth)

		loss, grads := microBatch(backend, model, mse, x, y)
		losses = append(losses, loss)

		pending := acc.Pending() + 1
		if merged, ok := acc.Step(model, grads); ok {
			windows = append(windows, window{microBatches: pending, grads: merged})
		}
		advance(bar, 1)
	}
	pending := acc.Pending()
	if merged, ok := acc.Flush(); ok {
		windows = append(windows, window{microBatches: pending, grads: merged})
	}
	finish(bar)
	fmt.Println()

	report(cfg, model, losses, windows)
}

// microBatch runs one forward/backward pass and keys the gradients by
// parameter id.
func microBatch(
	backend backendType,
	model nn.Module[backendType],
	mse *nn.MSELoss[backendType],
	x, y *tensor.Tensor[float32, *cpu.CPUBackend],
) (float32, *optim.GradientsParams) {
	tape := backend.Tape()
	tape.Clear()
	tape.StartRecording()
	defer tape.StopRecording()

	input := tensor.New[float32](x.Raw(), backend)
	target := tensor.New[float32](y.Raw(), backend)

	loss := mse.Forward(model.Forward(input), target)
	grads := autodiff.Backward(loss, backend)
	klog.V(2).Infof("backward: %d ops on tape, loss=%.4f", tape.NumOps(), loss.Item())
	return loss.Item(), optim.FromGrads(grads, model)
}

func newProgressBar(steps int) *progressbar.ProgressBar {
	if !*flagProgress {
		return progressbar.DefaultSilent(int64(steps))
	}
	return progressbar.NewOptions(steps,
		progressbar.OptionSetDescription("micro-batches"),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("batches"),
		progressbar.OptionSetTheme(progressbar.ThemeASCII),
	)
}

// advance moves bar forward by n steps. Rendering errors are logged and
// otherwise ignored.
func advance(bar *progressbar.ProgressBar, n int) {
	if err := bar.Add(n); err != nil {
		klog.V(1).Infof("progress bar: %v", err)
	}
}

func finish(bar *progressbar.ProgressBar) {
	if err := bar.Finish(); err != nil {
		klog.V(1).Infof("progress bar: %v", err)
	}
}
