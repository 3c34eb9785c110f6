package main

import (
	"errors"
	"fmt"
	"os"

	apperrors "github.com/ironsheep/board-vector/internal/errors"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// errUsage reports bad command-line arguments after usage was printed.
var errUsage = errors.New("usage")

func main() {
	if len(os.Args) < 2 {
		printHelp()
		os.Exit(1)
	}

	args := os.Args[2:]
	var err error
	switch os.Args[1] {
	case "add":
		err = runAdd(args)
	case "delete":
		err = runDelete(args)
	case "list":
		err = runList(args)
	case "capture":
		err = runCapture(args)
	case "filter":
		err = runFilter(args)
	case "experiment":
		err = runExperiment(args)
	case "review":
		err = runReview(args)
	case "serve":
		err = runServe(args)
	case "--version", "-v", "version":
		fmt.Printf("board-vector %s\n", Version)
		fmt.Printf("  Build time: %s\n", BuildTime)
		fmt.Printf("  Git commit: %s\n", GitCommit)
		return
	case "--help", "-h", "help":
		printHelp()
		return
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", os.Args[1])
		printHelp()
		os.Exit(1)
	}

	switch {
	case err == nil:
	case apperrors.IsType(err, apperrors.ErrorTypeCancelled):
		fmt.Printf("%s cancelled\n", os.Args[1])
	case errors.Is(err, errUsage):
		os.Exit(1)
	default:
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func printHelp() {
	fmt.Println("board-vector - straighten board photos and extract what is written on them")
	fmt.Println()
	fmt.Println("Usage: board-vector <command> [options]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  add <photo> <x1,y1,x2,y2,x3,y3,x4,y4>   Store a photo with its board corners")
	fmt.Println("  delete <index>                          Remove a stored photo")
	fmt.Println("  list                                    List stored photos")
	fmt.Println("  capture <photo>...                      Click the board corners in a window and store each photo")
	fmt.Println("  filter                                  Run the letterform filter on one photo")
	fmt.Println("  experiment                              Filter one photo with random parameter sets")
	fmt.Println("  review                                  Judge experiment outputs and print the recommended parameters")
	fmt.Println("  serve                                   Run the MCP tool server on stdin/stdout")
	fmt.Println("  version                                 Print version information")
	fmt.Println()
	fmt.Println("Run 'board-vector <command> -h' for command options.")
	fmt.Println()
	fmt.Println("Capture keys: click four corners clockwise from top-left, then Enter to")
	fmt.Println("commit or click again to start over. q or Esc quits.")
	fmt.Println()
	fmt.Println("Environment variables:")
	fmt.Println("  BOARD_VECTOR_LOG_LEVEL=debug    Enable debug logging")
	fmt.Println("  BOARD_VECTOR_ASSET_DIR=path     Override the asset directory")
}
