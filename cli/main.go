package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/joho/godotenv"
	"github.com/stegoflow/stegoflow"
	"github.com/stegoflow/stegoflow/core/codec"
	"github.com/stegoflow/stegoflow/core/covergen"
	"github.com/stegoflow/stegoflow/pkg/logging"
)

func main() {
	// A local .env can carry STEGOFLOW_SEED and friends; absence is fine.
	_ = godotenv.Load()

	// Manually parse global flags for logging, as they are needed before subcommands.
	var logLevel, logFormat string
	fs := flag.NewFlagSet("global", flag.ContinueOnError)
	fs.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	fs.StringVar(&logFormat, "log-format", "console", "Log format (console, json)")
	// Ignore errors, we'll just use defaults if flags are not there.
	_ = fs.Parse(os.Args)

	logging.InitLogger(logLevel, logFormat, nil)

	if len(os.Args) < 2 {
		logging.GetLogger().Error("expected 'encode', 'decode', 'gen' or 'stats' subcommands")
		os.Exit(1)
	}

	switch os.Args[1] {
	case "encode":
		cmd := flag.NewFlagSet("encode", flag.ExitOnError)
		configFile := cmd.String("config", "stegoflow.yaml", "Path to the engine YAML file.")
		in := cmd.String("in", "-", "Payload file, or - for stdin.")
		out := cmd.String("out", "-", "Output file, or - for stdout.")
		addLoggingFlags(cmd)
		if err := cmd.Parse(os.Args[2:]); err != nil {
			logging.GetLogger().Error("Failed to parse encode flags", "error", err)
			os.Exit(1)
		}
		runEncode(*configFile, *in, *out)

	case "decode":
		cmd := flag.NewFlagSet("decode", flag.ExitOnError)
		configFile := cmd.String("config", "stegoflow.yaml", "Path to the engine YAML file.")
		in := cmd.String("in", "-", "Carrier file, or - for stdin.")
		out := cmd.String("out", "-", "Output file, or - for stdout.")
		addLoggingFlags(cmd)
		if err := cmd.Parse(os.Args[2:]); err != nil {
			logging.GetLogger().Error("Failed to parse decode flags", "error", err)
			os.Exit(1)
		}
		runDecode(*configFile, *in, *out)

	case "gen":
		cmd := flag.NewFlagSet("gen", flag.ExitOnError)
		kind := cmd.String("kind", "noise", "Cover kind (noise, pattern, text, audio).")
		size := cmd.Int("size", 4096, "Cover size in bytes.")
		seed := cmd.String("seed", "", "Generator seed; empty means non-deterministic.")
		out := cmd.String("out", "-", "Output file, or - for stdout.")
		addLoggingFlags(cmd)
		if err := cmd.Parse(os.Args[2:]); err != nil {
			logging.GetLogger().Error("Failed to parse gen flags", "error", err)
			os.Exit(1)
		}
		runGen(*kind, *size, *seed, *out)

	case "stats":
		cmd := flag.NewFlagSet("stats", flag.ExitOnError)
		configFile := cmd.String("config", "stegoflow.yaml", "Path to the engine YAML file.")
		addLoggingFlags(cmd)
		if err := cmd.Parse(os.Args[2:]); err != nil {
			logging.GetLogger().Error("Failed to parse stats flags", "error", err)
			os.Exit(1)
		}
		runStats(*configFile)

	default:
		logging.GetLogger().Error("expected 'encode', 'decode', 'gen' or 'stats' subcommands", "command", os.Args[1])
		os.Exit(1)
	}
}

// addLoggingFlags registers the global logging flags on a subcommand so
// they show up in its help text; parsing already happened globally.
func addLoggingFlags(cmd *flag.FlagSet) {
	cmd.String("log-level", "info", "Log level (debug, info, warn, error)")
	cmd.String("log-format", "console", "Log format (console, json)")
}

func runEncode(configFile, in, out string) {
	logger := logging.GetLogger()

	engine, err := stegoflow.NewFromFile(configFile, logger)
	if err != nil {
		logger.Error("Failed to build engine", "error", err)
		os.Exit(1)
	}

	payload, err := readInput(in)
	if err != nil {
		logger.Error("Failed to read payload", "error", err)
		os.Exit(1)
	}

	result, err := engine.Encode(payload)
	if err != nil {
		logger.Error("Encode failed", "error", err)
		os.Exit(1)
	}
	if !result.Success {
		logger.Error("Encode did not succeed", "reason", result.Error)
		os.Exit(1)
	}

	if err := writeOutput(out, result.Data); err != nil {
		logger.Error("Failed to write carrier", "error", err)
		os.Exit(1)
	}
	logger.Info("Payload embedded",
		"payload_bytes", result.PayloadSize,
		"cover_bytes", result.CoverSize,
		"codec", result.Codec)
}

func runDecode(configFile, in, out string) {
	logger := logging.GetLogger()

	engine, err := stegoflow.NewFromFile(configFile, logger)
	if err != nil {
		logger.Error("Failed to build engine", "error", err)
		os.Exit(1)
	}

	carrier, err := readInput(in)
	if err != nil {
		logger.Error("Failed to read carrier", "error", err)
		os.Exit(1)
	}

	result := engine.Decode(carrier)
	if !result.Success {
		logger.Error("Decode failed", "reason", result.Error)
		os.Exit(1)
	}

	if err := writeOutput(out, result.Data); err != nil {
		logger.Error("Failed to write payload", "error", err)
		os.Exit(1)
	}
	logger.Info("Payload recovered", "payload_bytes", result.PayloadSize, "codec", result.Codec)
}

func runGen(kind string, size int, seed, out string) {
	logger := logging.GetLogger()

	gen, err := covergen.ForKind(kind, seed)
	if err != nil {
		logger.Error("Unknown cover kind", "error", err)
		os.Exit(1)
	}
	data, err := gen.Generate(size)
	if err != nil {
		logger.Error("Failed to generate cover", "error", err)
		os.Exit(1)
	}

	if err := writeOutput(out, data); err != nil {
		logger.Error("Failed to write cover", "error", err)
		os.Exit(1)
	}
	logger.Info("Cover generated", "kind", kind, "bytes", len(data))
}

func runStats(configFile string) {
	logger := logging.GetLogger()

	engine, err := stegoflow.NewFromFile(configFile, logger)
	if err != nil {
		logger.Error("Failed to build engine", "error", err)
		os.Exit(1)
	}

	stats := engine.PoolStats()

	// Print the pool summary in a nice table format.
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', tabwriter.Debug)
	fmt.Fprintln(w, "COVERS\tTOTAL CAPACITY\tAVG CAPACITY\tMIN CAPACITY\tCODECS")
	fmt.Fprintln(w, "------\t--------------\t------------\t------------\t------")
	fmt.Fprintf(w, "%d\t%d B\t%.1f B\t%d B\t%v\n",
		stats.Size, stats.TotalCapacity, stats.AverageCapacity, stats.MinCapacity, codec.Names())
	w.Flush()
}

func readInput(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

func writeOutput(path string, data []byte) error {
	if path == "-" {
		_, err := os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
