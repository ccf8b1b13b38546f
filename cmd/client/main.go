package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"os"
	"time"

	"github.com/alecthomas/kong"
	pkgmodel "gitlab.com/dirk.krummacker/contact-book/pkg/model"
)

// CLI is the command line of the benchmark client.
type CLI struct {
	BaseURL string `help:"Base URL of the REST API." default:"http://localhost:8080"`
	Sizes   []int  `help:"Number of requests per method and round." default:"1000,5000,10000"`
}

// Usage example on the command line:
// > go run main.go --sizes=100,1000
func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("client"),
		kong.Description("Measure the average latency of the contact book REST API in microseconds."),
	)
	if err := ctx.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err)
		os.Exit(1)
	}
}

// Run sends POST, PUT, GET and DELETE requests in rounds of the configured sizes and prints one
// line of average latencies per round.
func (c *CLI) Run() error {
	jsonBody, err := json.Marshal(pkgmodel.Contact{
		Name:  "Marcus Antonius",
		Phone: "39999777555",
		Email: "marcus@example.com",
	})
	if err != nil {
		return err
	}
	fmt.Println()
	fmt.Println("  Elements      POST       PUT       GET    DELETE ")
	fmt.Println("---------------------------------------------------")
	for _, loops := range c.Sizes {
		if loops < 1 {
			return fmt.Errorf("size must be positive, got %d", loops)
		}
		fmt.Printf("%10d", loops)
		ids := make([]int64, 0, loops)
		var duration int64
		for i := 0; i < loops; i++ {
			id, d, err := c.sendPostRequest(bytes.NewReader(jsonBody))
			if err != nil {
				return err
			}
			ids = append(ids, id)
			duration += d
		}
		fmt.Printf("%10d", duration/int64(loops*1000))

		for _, method := range []string{http.MethodPut, http.MethodGet, http.MethodDelete} {
			var body []byte
			if method == http.MethodPut {
				body = jsonBody
			}
			d, err := c.callInLoop(ids, method, body)
			if err != nil {
				return err
			}
			fmt.Printf("%10d", d/int64(loops*1000))
		}
		fmt.Println()
	}
	return nil
}

// callInLoop sends one request per id in random order and returns the summed duration.
func (c *CLI) callInLoop(ids []int64, method string, body []byte) (int64, error) {
	shuffled := append([]int64(nil), ids...)
	rand.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	var duration int64
	for _, id := range shuffled {
		var bodyReader io.Reader
		if body != nil {
			bodyReader = bytes.NewReader(body)
		}
		requestURL := fmt.Sprintf("%s/contacts/%d", c.BaseURL, id)
		_, d, err := sendRequest(method, requestURL, bodyReader)
		if err != nil {
			return 0, err
		}
		duration += d
	}
	return duration, nil
}

func (c *CLI) sendPostRequest(bodyReader io.Reader) (int64, int64, error) {
	resBody, duration, err := sendRequest(http.MethodPost, c.BaseURL+"/contacts", bodyReader)
	if err != nil {
		return 0, 0, err
	}
	var contact pkgmodel.Contact
	if err := json.Unmarshal(resBody, &contact); err != nil {
		return 0, 0, fmt.Errorf("could not unmarshal JSON: %w", err)
	}
	return contact.Id, duration, nil
}

func sendRequest(method string, requestURL string, bodyReader io.Reader) ([]byte, int64, error) {
	req, err := http.NewRequest(method, requestURL, bodyReader)
	if err != nil {
		return nil, 0, fmt.Errorf("could not create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	before := time.Now()
	res, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("error making http request: %w", err)
	}
	defer res.Body.Close()
	resBody, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("could not read response body: %w", err)
	}
	if res.StatusCode >= 300 {
		return nil, 0, fmt.Errorf("%s %s: %s", method, requestURL, res.Status)
	}
	return resBody, time.Since(before).Nanoseconds(), nil
}
