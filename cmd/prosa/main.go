package main

import (
	"fmt"
	"os"
)

// version is set at build time via ldflags.
var version = "dev"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "serve":
		if err := runServe(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "new":
		if len(os.Args) < 3 {
			fmt.Fprintln(os.Stderr, "Usage: prosa new <project-name>")
			os.Exit(1)
		}
		if err := runNew(os.Args[2]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "covers":
		if len(os.Args) < 4 {
			fmt.Fprintln(os.Stderr, "Usage: prosa covers <src-dir> <dst-dir>")
			os.Exit(1)
		}
		if err := runCovers(os.Args[2], os.Args[3]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "version":
		fmt.Printf("prosa %s\n", version)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`prosa - A bilingual markdown blog engine built with Go, Echo, and templ

Usage:
  prosa <command> [arguments]

Commands:
  serve              Run the blog server from the current directory
  new <name>         Create a new prosa project
  covers <src> <dst> Convert cover images to web-ready JPEGs
  version            Print the prosa version
  help               Show this help message

Examples:
  prosa new myblog
  prosa new github.com/user/myblog
  prosa covers covers-raw public/covers`)
}
