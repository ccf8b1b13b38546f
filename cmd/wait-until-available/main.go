package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/alecthomas/kong"
)

// requestTimeout bounds a single attempt.
const requestTimeout = 5 * time.Second

// CLI is the command line of the availability check.
type CLI struct {
	URL      string        `help:"Endpoint that must answer with 200 OK." default:"http://localhost:8080/contacts"`
	Interval time.Duration `help:"Pause between two attempts." default:"5s"`
	Timeout  time.Duration `help:"Give up after this long; 0 waits forever." default:"0s"`
}

// Usage example on the command line:
// > go run main.go --url=http://localhost:8080/contacts --timeout=2m
func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("wait-until-available"),
		kong.Description("Block until the contact book REST API answers."),
	)
	if err := ctx.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err)
		os.Exit(1)
	}
}

// Run polls the URL until it answers with 200 OK or the timeout expires.
func (c *CLI) Run() error {
	client := &http.Client{Timeout: requestTimeout}
	start := time.Now()
	for {
		res, err := client.Get(c.URL)
		if err == nil {
			res.Body.Close()
			if res.StatusCode == http.StatusOK {
				fmt.Println(res.Status)
				return nil
			}
			fmt.Println(res.Status)
		} else {
			fmt.Println(err)
		}
		waited := time.Since(start)
		if c.Timeout > 0 && waited+c.Interval > c.Timeout {
			return fmt.Errorf("%s not available after %s", c.URL, waited.Round(time.Second))
		}
		fmt.Printf("Waiting %s\n", (waited + c.Interval).Round(time.Second))
		time.Sleep(c.Interval)
	}
}
