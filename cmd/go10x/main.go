package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/plan-systems/klog"

	"github.com/10x-systems/go10x/go10x"
	"github.com/10x-systems/go10x/lib10x"
	"github.com/10x-systems/go10x/lib10x/catalog"
)

const usage = "Usage: go10x <K> <saves path> <contigs path> <contigs binning info> " +
	"<left reads> <right reads> <output prefix> (<bins of interest>)+"

func main() {

	flag.Set("logtostderr", "true")
	flag.Set("v", "2")

	fset := flag.NewFlagSet("", flag.ContinueOnError)
	klog.InitFlags(fset)
	fset.Set("logtostderr", "true")
	fset.Set("v", "2")
	klog.SetFormatter(&klog.FmtConstWidth{
		FileNameCharWidth: 16,
		UseColor:          true,
	})

	flag.Parse()

	args := flag.Args()
	if len(args) < 8 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(1)
	}

	k, err := strconv.Atoi(args[0])
	if err != nil {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(1)
	}
	savesPath := args[1]
	contigsPath := args[2]
	binningPath := args[3]
	leftReads := args[4]
	rightReads := args[5]
	outPrefix := args[6]
	binsOfInterest := args[7:]

	klog.Infof("binning for K = %d, output prefix %s", k, outPrefix)
	klog.Infof("loading barcode index store from %s", savesPath)

	st, err := catalog.OpenStore(go10x.StoreOpts{
		DbPathName: savesPath,
		ReadOnly:   true,
	})
	if err != nil {
		klog.Fatalf("opening store: %v", err)
	}
	defer st.Close()

	klog.Infof("store holds %d entries over %d barcodes, frame size %d",
		st.EntryCount(), st.NumBarcodes(), st.FrameSize())
	klog.V(2).Infof("contigs at %s", contigsPath)

	logReadLibraries(leftReads, rightReads)

	perBin, err := readBinning(binningPath, binsOfInterest)
	if err != nil {
		klog.Fatalf("reading binning info: %v", err)
	}

	for _, bin := range binsOfInterest {
		klog.Infof("bin %s: %d contigs", bin, len(perBin[bin]))
	}

	klog.Flush()
}

// logReadLibraries reports the read files to bin.  A library manifest in
// place of the left reads expands to one pair per barcoded library.
func logReadLibraries(leftReads, rightReads string) {
	if strings.HasSuffix(leftReads, ".manifest") {
		text, err := os.ReadFile(leftReads)
		if err != nil {
			klog.Fatalf("reading library manifest: %v", err)
		}
		libs, err := lib10x.ParseLibraryManifest(string(text))
		if err != nil {
			klog.Fatalf("parsing library manifest: %v", err)
		}
		for _, lib := range libs {
			klog.Infof("library %s: %s / %s", lib.Barcode, lib.Left, lib.Right)
		}
		return
	}
	klog.Infof("paired reads: %s / %s", leftReads, rightReads)
}

// readBinning parses the annotation file, one contig per line followed by
// its bin ids, and returns the contigs of each bin of interest.
func readBinning(path string, binsOfInterest []string) (map[string][]string, error) {
	interesting := make(map[string]bool, len(binsOfInterest))
	for _, bin := range binsOfInterest {
		interesting[bin] = true
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	perBin := make(map[string][]string)
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) < 2 {
			continue
		}
		contig := fields[0]
		for _, bin := range fields[1:] {
			if interesting[bin] {
				perBin[bin] = append(perBin[bin], contig)
			}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return perBin, nil
}
