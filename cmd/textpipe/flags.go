package main

import (
	"fmt"
	"io"

	"github.com/spf13/pflag"

	"github.com/kbukum/textstream/config"
)

// flagKeys maps each configurable flag to its config key.
var flagKeys = map[string]string{
	"from":         "pipeline.from",
	"to":           "pipeline.to",
	"buffer-size":  "pipeline.buffer_size",
	"read-buffer":  "pipeline.read_buffer",
	"write-buffer": "pipeline.write_buffer",
	"replace":      "pipeline.replace",
	"decompress":   "pipeline.decompress",
	"compress":     "pipeline.compress",
	"log-level":    "logging.level",
}

func newFlagSet(stderr io.Writer) *pflag.FlagSet {
	fs := pflag.NewFlagSet(serviceName, pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.SortFlags = false

	fs.String("from", "UTF-8", "charset of the input file")
	fs.String("to", "", "charset of the output (default: platform charset)")
	fs.String("buffer-size", "1KB", "capacity of each text and encoded chunk")
	fs.String("read-buffer", "1KB", "size of each read from the input file")
	fs.String("write-buffer", "1KB", "size of the staging buffer in front of stdout")
	fs.Bool("replace", false, "substitute malformed or unmappable input instead of failing")
	fs.String("decompress", "none", "decompress the input first: none, zstd or snappy")
	fs.String("compress", "none", "compress the output: none, zstd or snappy")
	fs.String("config", "", "path to a config.yml")
	fs.String("log-level", "", "log level: trace, debug, info, warn or error")
	fs.Bool("version", false, "print the version and exit")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "usage: %s [flags] <input-path>\n\n", serviceName)
		fmt.Fprintln(stderr, "Decodes <input-path> and writes it re-encoded to standard output.")
		fmt.Fprintln(stderr)
		fmt.Fprint(stderr, fs.FlagUsages())
	}
	return fs
}

// loaderOptions binds the flag set to the config keys it overrides.
func loaderOptions(fs *pflag.FlagSet) []config.LoaderOption {
	opts := make([]config.LoaderOption, 0, len(flagKeys)+2)
	for name, key := range flagKeys {
		opts = append(opts, config.WithFlag(key, fs.Lookup(name)))
	}
	if path, _ := fs.GetString("config"); path != "" {
		opts = append(opts, config.WithConfigFile(path))
	}
	return opts
}
