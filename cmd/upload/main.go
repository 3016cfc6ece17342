// Command upload posts a single document to a running server and prints the
// raw response.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/docqa/backend/internal/client"
)

func main() {
	server := flag.String("server", client.DefaultBaseURL, "server base URL")
	timeout := flag.Duration("timeout", 5*time.Minute, "request timeout")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [-server URL] FILE\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	c := client.New(*server, *timeout)
	status, body, err := c.UploadRaw(context.Background(), flag.Arg(0))
	if err != nil {
		fmt.Printf("Upload failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Status Code: %d\n", status)
	fmt.Printf("Response: %s\n", body)
}
