// Command psfinfo prints spectral properties of common point spread
// function models installed on a cyclic convolution operator.
//
// Usage:
//
//	psfinfo [flags] [psf-name ...]
//
// Without arguments it prints info for all known PSF models.
//
// Examples:
//
//	psfinfo gaussian
//	psfinfo -size 512 box motion
//	psfinfo -size 256 -param 2.5 gaussian
//	psfinfo -list
package main

import (
	"flag"
	"fmt"
	"math"
	"math/cmplx"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/cwbudde/algo-restore/restore/conv"
	"github.com/cwbudde/algo-restore/restore/shape"
	"github.com/cwbudde/algo-restore/restore/vecspace"
)

type psfEntry struct {
	name     string
	hasParam bool
	defParam float64
	build    func(size int, param float64) (*shape.Array[float64], error)
}

var registry = []psfEntry{
	{"delta", false, 0, buildDelta},
	{"box", true, 3, buildBox},
	{"gaussian", true, 1.5, buildGaussian},
	{"motion", true, 7, buildMotion},
}

func main() {
	size := flag.Int("size", 256, "object grid size (square)")
	param := flag.Float64("param", math.NaN(), "model parameter (box width, gaussian sigma, motion length)")
	all := flag.Bool("all", false, "show all PSF models")
	list := flag.Bool("list", false, "list available PSF names")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: psfinfo [flags] [psf-name ...]\n\n")
		fmt.Fprintf(os.Stderr, "Prints spectral properties of point spread function models.\n")
		fmt.Fprintf(os.Stderr, "Without arguments or with -all, prints info for all models.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  psfinfo gaussian motion\n")
		fmt.Fprintf(os.Stderr, "  psfinfo -size 512 -param 2.5 gaussian\n")
		fmt.Fprintf(os.Stderr, "  psfinfo -list\n")
	}
	flag.Parse()

	if *list {
		printList()
		return
	}

	names := flag.Args()
	if len(names) == 0 || *all {
		names = nil
		for _, e := range registry {
			names = append(names, e.name)
		}
	}

	entries := resolveEntries(names, *param)
	if len(entries) == 0 {
		fmt.Fprintf(os.Stderr, "error: no matching PSF models\n")
		os.Exit(1)
	}

	printAnalysis(entries, *size)
}

func printList() {
	names := make([]string, len(registry))
	for i, e := range registry {
		names[i] = e.name
	}
	sort.Strings(names)
	fmt.Println(strings.Join(names, "\n"))
}

type resolved struct {
	psfEntry
	param float64
}

func resolveEntries(names []string, param float64) []resolved {
	var out []resolved
	for _, name := range names {
		found := false
		for _, e := range registry {
			if e.name != strings.ToLower(name) {
				continue
			}
			p := e.defParam
			if e.hasParam && !math.IsNaN(param) {
				p = param
			}
			out = append(out, resolved{e, p})
			found = true
			break
		}
		if !found {
			fmt.Fprintf(os.Stderr, "warning: unknown PSF model %q\n", name)
		}
	}
	return out
}

func printAnalysis(entries []resolved, size int) {
	object, err := vecspace.NewSpace(size, size)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tPARAM\tSUPPORT\tMIN |H|\tMAX |H|\tCONDITION\tFFT TIME")

	for _, e := range entries {
		psf, err := e.build(size, e.param)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %s: %v\n", e.name, err)
			continue
		}

		op, err := conv.New(object, object, nil)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %s: %v\n", e.name, err)
			continue
		}
		if err := op.SetPSF(psf, conv.PSFOptions{Normalize: true}); err != nil {
			fmt.Fprintf(os.Stderr, "error: %s: %v\n", e.name, err)
			continue
		}

		mtf, err := op.MTF()
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %s: %v\n", e.name, err)
			continue
		}

		minMod := math.Inf(1)
		maxMod := 0.0
		for _, h := range mtf {
			m := cmplx.Abs(h)
			if m < minMod {
				minMod = m
			}
			if m > maxMod {
				maxMod = m
			}
		}

		cond := "inf"
		if minMod > 0 {
			cond = fmt.Sprintf("%.3g", maxMod/minMod)
		}

		paramStr := "-"
		if e.hasParam {
			paramStr = fmt.Sprintf("%g", e.param)
		}

		fmt.Fprintf(w, "%s\t%s\t%dx%d\t%.3e\t%.3e\t%s\t%v\n",
			e.name, paramStr, psf.Dim(0), psf.Dim(1), minMod, maxMod, cond, op.ElapsedFFT())
	}
	w.Flush()
}

func buildDelta(size int, _ float64) (*shape.Array[float64], error) {
	psf, err := shape.NewArray[float64](shape.Shape{1, 1})
	if err != nil {
		return nil, err
	}
	psf.Data()[0] = 1
	return psf, nil
}

func buildBox(size int, param float64) (*shape.Array[float64], error) {
	w := clampSupport(int(math.Round(param)), size)
	psf, err := shape.NewArray[float64](shape.Shape{w, w})
	if err != nil {
		return nil, err
	}
	for i := range psf.Data() {
		psf.Data()[i] = 1
	}
	return psf, nil
}

func buildGaussian(size int, sigma float64) (*shape.Array[float64], error) {
	if sigma <= 0 {
		return nil, fmt.Errorf("sigma must be positive, got %g", sigma)
	}
	w := clampSupport(1+2*int(math.Ceil(3*sigma)), size)
	psf, err := shape.NewArray[float64](shape.Shape{w, w})
	if err != nil {
		return nil, err
	}
	c := w / 2
	for i := 0; i < w; i++ {
		for j := 0; j < w; j++ {
			dx := float64(i - c)
			dy := float64(j - c)
			psf.Data()[i*w+j] = math.Exp(-(dx*dx + dy*dy) / (2 * sigma * sigma))
		}
	}
	return psf, nil
}

func buildMotion(size int, param float64) (*shape.Array[float64], error) {
	l := clampSupport(int(math.Round(param)), size)
	psf, err := shape.NewArray[float64](shape.Shape{1, l})
	if err != nil {
		return nil, err
	}
	for i := range psf.Data() {
		psf.Data()[i] = 1
	}
	return psf, nil
}

func clampSupport(w, size int) int {
	if w < 1 {
		return 1
	}
	if w > size {
		return size
	}
	return w
}
