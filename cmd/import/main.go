package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/thep200/github-analyzer/api"
)

func main() {
	// Parse command line arguments
	user := flag.String("user", "", "GitHub login to import")
	flag.Parse()

	if *user == "" {
		fmt.Println("Please specify a user: -user=<login>")
		os.Exit(1)
	}

	ctx := context.Background()

	analyzer := api.NewAnalyzerAPI()
	if err := analyzer.Initialize(ctx); err != nil {
		fmt.Printf("Failed to initialize analyzer: %v\n", err)
		os.Exit(1)
	}

	summary, err := analyzer.Analyze(ctx, *user)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Successfully imported %s: %d repositories, %d languages in %s\n",
		summary.Login, summary.ReposImported, summary.LanguagesFound, summary.Duration)
}
