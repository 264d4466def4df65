// Command mdserve serves a directory of Markdown files as styled HTML with
// live browser reload.
package main

import (
	"fmt"
	"os"

	"github.com/pagefold/mdserve/cmd/mdserve/commands"
)

const version = "0.1.0"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	var err error
	switch command {
	case "serve":
		err = commands.ServeCommand(args)
	case "init":
		err = commands.InitCommand(args)
	case "version":
		fmt.Printf("mdserve version %s\n", version)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("mdserve - Markdown preview server with live reload")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  mdserve serve [directory] [flags]  Start development server")
	fmt.Println("  mdserve init [directory]           Write a default mdserve.yaml")
	fmt.Println("  mdserve version                    Show version")
	fmt.Println("  mdserve help                       Show this help")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  mdserve serve                      # Serve current directory")
	fmt.Println("  mdserve serve ./docs               # Serve docs directory")
	fmt.Println("  mdserve serve --port 8080          # Pin the HTTP port")
	fmt.Println("  mdserve serve --stylesheet my.css  # Custom theme")
	fmt.Println()
	fmt.Println("Run 'mdserve serve --help' for serve flags.")
}
