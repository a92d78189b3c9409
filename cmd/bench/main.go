package main

import (
	"flag"

	"github.com/downfa11-org/boundlog/pkg/bench"
	"github.com/downfa11-org/boundlog/pkg/config"
	"github.com/downfa11-org/boundlog/util"
)

func main() {
	path := flag.String("path", "bench.log", "log file to write")
	writers := flag.Int("writers", 12, "number of concurrent writers")
	lines := flag.Int("lines", 1000, "lines per writer")
	payload := flag.Int("payload", 128, "message size in bytes")
	maxBytes := flag.Int64("max-bytes", config.DefaultMaxBytes, "byte size that triggers truncation")
	maxLines := flag.Int("max-lines", config.DefaultMaxLines, "line count that triggers truncation")
	flag.Parse()

	runner := bench.NewBenchmarkRunner(*path, *writers, *lines, *payload, *maxBytes, *maxLines)
	res, err := runner.Run()
	if err != nil {
		util.Fatal("Benchmark failed: %v", err)
	}
	runner.Print(res)
}
