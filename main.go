// Lzw compresses and decompresses files with trie based Lempel-Ziv-Welch coding.
package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"math"
	"os"
	"runtime/debug"
	"strings"

	"fortio.org/cli"
	"fortio.org/log"
	"fortio.org/safecast"
	"fortio.org/struct2env"
	"grol.io/lzw/container"
	"grol.io/lzw/lzw"
)

func main() {
	os.Exit(Main())
}

// Config holds the defaults that can be set from the environment (LZW_ prefix).
type Config struct {
	MaxDict     int
	InitialDict int
	GrowthStep  int
}

var config = Config{}

func EnvHelp(w io.Writer) {
	res, _ := struct2env.StructToEnvVars(config)
	str := struct2env.ToShellWithPrefix("LZW_", res, true)
	fmt.Fprintln(w, "# Lzw environment variables:")
	fmt.Fprint(w, str)
}

var hookBefore, hookAfter func() int

func Main() int {
	cli.EnvHelpFuncs = append(cli.EnvHelpFuncs, EnvHelp)
	errs := struct2env.SetFromEnv("LZW_", &config)
	if len(errs) > 0 {
		log.Errf("Error setting config from env: %v", errs)
	}
	decompress := flag.Bool("d", false, "decompress instead of compress")
	output := flag.String("o", "", "output `file` or - for stdout (default is the input name with "+container.Extension+" added or removed)")
	force := flag.Bool("f", false, "overwrite the output file if it exists")
	stats := flag.Bool("stats", false, "only print compression statistics, don't write any output")
	maxDict := flag.Int("max-dict", config.MaxDict, "maximum number of phrases learned, 0 for unbounded")
	initialDict := flag.Int("initial-dict", config.InitialDict, "expected number of phrases, to size the dictionary upfront")
	growthStep := flag.Int("growth-step", config.GrowthStep, "dictionary storage growth step in nodes, 0 for automatic")
	cli.ArgsHelp = "input file or `-` for stdin"
	cli.MinArgs = 1
	cli.MaxArgs = 1
	cli.Main()
	if *maxDict < 0 || *initialDict < 0 || *growthStep < 0 {
		return log.FErrf("-max-dict, -initial-dict and -growth-step must not be negative")
	}
	if *decompress && *stats {
		return log.FErrf("-stats only applies to compression, can't be used with -d")
	}
	if debug.SetMemoryLimit(-1) == math.MaxInt64 {
		log.Warnf("Memory limit not set, please set the GOMEMLIMIT env var; e.g. GOMEMLIMIT=1GiB")
	}
	if hookBefore != nil {
		ret := hookBefore()
		if ret != 0 {
			return ret
		}
	}
	input := flag.Arg(0)
	out := *output
	if out == "" {
		out = defaultOutput(input, *decompress)
	}
	var ret int
	switch {
	case *decompress:
		ret = decompressFile(input, out, *force)
	case *stats:
		ret = compressFile(input, "", false, lzw.Options{MaxDictSize: *maxDict, InitialDictSize: *initialDict, GrowthStep: *growthStep})
	default:
		ret = compressFile(input, out, *force, lzw.Options{MaxDictSize: *maxDict, InitialDictSize: *initialDict, GrowthStep: *growthStep})
	}
	if ret != 0 {
		return ret
	}
	if hookAfter != nil {
		return hookAfter()
	}
	return 0
}

func defaultOutput(input string, decompress bool) string {
	switch {
	case input == "-":
		return "-"
	case !decompress:
		return input + container.Extension
	case strings.HasSuffix(input, container.Extension):
		return strings.TrimSuffix(input, container.Extension)
	default:
		return input + ".out"
	}
}

func openInput(name string) (io.ReadCloser, error) {
	if name == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	return os.Open(name)
}

func createOutput(name string, force bool) (io.WriteCloser, error) {
	if name == "-" {
		return nopWriteCloser{os.Stdout}, nil
	}
	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if !force {
		flags |= os.O_EXCL
	}
	return os.OpenFile(name, flags, 0o644)
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }

// compressFile encodes input into output, or only prints statistics if output is empty.
func compressFile(input, output string, force bool, opts lzw.Options) int {
	in, err := openInput(input)
	if err != nil {
		return log.FErrf("Error opening input: %v", err)
	}
	data, err := io.ReadAll(in)
	in.Close()
	if err != nil {
		return log.FErrf("Error reading %s: %v", input, err)
	}
	log.Infof("Compressing %s (%d bytes)", input, len(data))
	res, err := lzw.Encode(data, opts)
	if err != nil {
		return log.FErrf("Error compressing %s: %v", input, err)
	}
	size, err := safecast.Convert[uint64](len(data))
	if err != nil {
		return log.FErrf("Input too large: %v", err)
	}
	compressed := safecast.MustConvert[uint64](container.HeaderSize + res.Count()*res.Width)
	if output == "" {
		ratio := 0.
		if compressed > 0 {
			ratio = float64(size) / float64(compressed)
		}
		fmt.Printf("input %d bytes, %d codes of %d bytes, dictionary %d (%d phrases, %d dropped), output %d bytes, ratio %.3f\n",
			size, res.Count(), res.Width, res.DictSize, res.Phrases, res.Dropped, compressed, ratio)
		return 0
	}
	out, err := createOutput(output, force)
	if err != nil {
		return log.FErrf("Error creating output: %v", err)
	}
	bw := bufio.NewWriter(out)
	err = container.Write(bw, container.Header{Width: res.Width, Size: size}, res.Codes)
	if err == nil {
		err = bw.Flush()
	}
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return log.FErrf("Error writing %s: %v", output, err)
	}
	log.S(log.Info, "Compressed", log.Str("input", input), log.Str("output", output),
		log.Attr("bytes", size), log.Attr("codes", res.Count()), log.Attr("width", res.Width),
		log.Attr("compressed", compressed))
	return 0
}

type countingWriter struct {
	w io.Writer
	n uint64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += safecast.MustConvert[uint64](n)
	return n, err
}

func decompressFile(input, output string, force bool) int {
	in, err := openInput(input)
	if err != nil {
		return log.FErrf("Error opening input: %v", err)
	}
	defer in.Close()
	h, codes, err := container.Read(bufio.NewReader(in))
	if err != nil {
		return log.FErrf("Error reading %s: %v", input, err)
	}
	log.Infof("Decompressing %s: %d codes of %d bytes", input, h.Count, h.Width)
	out, err := createOutput(output, force)
	if err != nil {
		return log.FErrf("Error creating output: %v", err)
	}
	bw := bufio.NewWriter(out)
	cw := &countingWriter{w: bw}
	err = lzw.DecodeFrom(cw, codes, h.Count)
	// Partial output is kept, flush what was decoded either way.
	if ferr := bw.Flush(); err == nil {
		err = ferr
	}
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err == nil && cw.n != h.Size {
		err = fmt.Errorf("%w: decoded %d bytes, expected %d", lzw.ErrCorrupt, cw.n, h.Size)
	}
	if err != nil {
		if errors.Is(err, lzw.ErrCorrupt) || errors.Is(err, lzw.ErrTruncated) {
			log.Errf("Decoded %d bytes before the error", cw.n)
		}
		return log.FErrf("Error decompressing %s: %v", input, err)
	}
	log.S(log.Info, "Decompressed", log.Str("input", input), log.Str("output", output), log.Attr("bytes", cw.n))
	return 0
}
