// Package debug is the ANSI request/response pretty-printer cmd/gofetchctl
// uses for its one-shot "send every request in the scenario and show me
// everything" mode, adapted from the teacher's dry-run debug mode.
package debug

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/amr9/gofetch/pkg/config"
	"github.com/amr9/gofetch/pkg/gofetch"
	"github.com/amr9/gofetch/pkg/retry"
)

const (
	colorReset   = "\033[0m"
	colorRed     = "\033[31m"
	colorGreen   = "\033[32m"
	colorYellow  = "\033[33m"
	colorCyan    = "\033[36m"
	colorMagenta = "\033[35m"
	colorBold    = "\033[1m"
	colorDim     = "\033[2m"
)

// Run executes every request in cfg once, printing the full request and
// response for each (§ cmd/gofetchctl "one-shot debug mode").
func Run(ctx context.Context, cfg *config.ScenarioConfig) error {
	fmt.Println()
	fmt.Printf("%s%s🛠️  STARTING DEBUG MODE (single pass) 🛠️%s\n", colorBold, colorCyan, colorReset)

	client, err := config.BuildClient(cfg)
	if err != nil {
		return fmt.Errorf("failed to build client: %w", err)
	}
	defer client.Close()

	allSuccess := true
	for i, reqCfg := range cfg.Requests {
		name := reqCfg.Name
		if name == "" {
			name = fmt.Sprintf("request %d", i+1)
		}
		printStepHeader(i+1, name)

		req, assertionValidator, err := config.BuildRequest(reqCfg)
		if err != nil {
			fmt.Printf("\n%s❌ Error building request: %v%s\n", colorRed, err, colorReset)
			allSuccess = false
			continue
		}

		printRequest(req)

		start := time.Now()
		resp := req.Fetch(ctx, client)
		latency := time.Since(start)

		if resp.Err != nil {
			printResponseError(resp.Err, latency)
			allSuccess = false
			continue
		}

		printResponse(resp, latency)

		success := printAssertions(resp, assertionValidator)
		if !success {
			allSuccess = false
		}
	}

	printSeparator()
	if allSuccess {
		fmt.Printf("%s%s✅ DEBUG SESSION COMPLETED SUCCESSFULLY%s\n\n", colorBold, colorGreen, colorReset)
	} else {
		fmt.Printf("%s%s❌ DEBUG SESSION COMPLETED WITH ERRORS%s\n\n", colorBold, colorRed, colorReset)
	}
	return nil
}

func printStepHeader(stepNum int, name string) {
	printSeparator()
	fmt.Printf("%s%s📍 REQUEST %d: %s%s\n", colorBold, colorMagenta, stepNum, name, colorReset)
	printSeparator()
}

func printSeparator() {
	fmt.Printf("%s----------------------------------------------------%s\n", colorDim, colorReset)
}

func printRequest(req *gofetch.Request) {
	fmt.Printf("\n%s[REQUEST]%s\n", colorBold, colorReset)
	location := req.RawURL
	if location == "" {
		location = req.Path
	}
	fmt.Printf("%s%s%s %s%s%s\n", colorBold, colorGreen, req.Method, colorCyan, location, colorReset)

	if len(req.Header) > 0 {
		fmt.Printf("%sHeaders:%s\n", colorDim, colorReset)
		printHeaders(req.Header)
	}
}

func printResponse(resp *gofetch.Response, latency time.Duration) {
	fmt.Printf("\n%s[RESPONSE]%s\n", colorBold, colorReset)

	status := resp.StatusCode()
	statusColor := colorGreen
	if status >= 400 {
		statusColor = colorRed
	} else if status >= 300 {
		statusColor = colorYellow
	}
	fmt.Printf("%sStatus:%s %s%d%s %s(Time: %s)%s\n",
		colorDim, colorReset,
		statusColor, status, colorReset,
		colorDim, latency.Round(time.Millisecond), colorReset)

	if len(resp.Bytes) > 0 {
		fmt.Printf("%sBody:%s\n", colorDim, colorReset)
		bodyStr := string(resp.Bytes)
		if len(bodyStr) > 2000 {
			bodyStr = bodyStr[:2000] + fmt.Sprintf("\n  ... (truncated, %d bytes total)", len(resp.Bytes))
		}
		printFormattedJSON(bodyStr, "  ")
	}
}

func printResponseError(err error, latency time.Duration) {
	fmt.Printf("\n%s[RESPONSE]%s\n", colorBold, colorReset)
	fmt.Printf("%s❌ Request Failed%s %s(Time: %s)%s\n",
		colorRed, colorReset, colorDim, latency.Round(time.Millisecond), colorReset)
	fmt.Printf("  %sError:%s %v\n", colorRed, colorReset, err)
}

// printAssertions runs av (if non-nil) against resp and prints a pass/fail
// line per check, returning whether the request should count as a
// success overall (status in 2xx/3xx range AND every assertion passed).
func printAssertions(resp *gofetch.Response, av *retry.AssertionValidator) bool {
	fmt.Printf("\n%s[🛡️ ASSERTIONS]%s\n", colorBold, colorReset)

	status := resp.StatusCode()
	statusOK := status >= 200 && status < 400
	if statusOK {
		fmt.Printf("  %s✅ Status Code: %d OK%s\n", colorGreen, status, colorReset)
	} else {
		fmt.Printf("  %s❌ Status Code: %d (Expected 2xx/3xx)%s\n", colorRed, status, colorReset)
	}

	if av == nil {
		return statusOK
	}

	passed := av.Validate(resp, nil).Passed()
	if passed {
		fmt.Printf("  %s✅ Assertions: Passed%s\n", colorGreen, colorReset)
	} else {
		fmt.Printf("  %s❌ Assertions: FAILED%s\n", colorRed, colorReset)
	}
	return statusOK && passed
}

func printHeaders(header map[string][]string) {
	var keys []string
	for k := range header {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		for _, v := range header[k] {
			fmt.Printf("  %s%s:%s %s\n", colorYellow, k, colorReset, v)
		}
	}
}

func printFormattedJSON(s string, prefix string) {
	var jsonObj interface{}
	if err := json.Unmarshal([]byte(s), &jsonObj); err == nil {
		pretty, err := json.MarshalIndent(jsonObj, prefix, "  ")
		if err == nil {
			fmt.Printf("%s%s\n", prefix, string(pretty))
			return
		}
	}
	lines := strings.Split(s, "\n")
	for _, line := range lines {
		fmt.Printf("%s%s\n", prefix, line)
	}
}
