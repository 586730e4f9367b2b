package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

type loadConfig struct {
	BaseURL         string
	ConcurrentUsers int
	DurationSeconds int
}

type loadResult struct {
	totalRequests  int64
	failedRequests int64
	completedFlows int64

	mu            sync.Mutex
	responseTimes []time.Duration
}

func main() {
	cfg := &loadConfig{}
	flag.StringVar(&cfg.BaseURL, "base-url", "http://localhost:8080", "Service base URL")
	flag.IntVar(&cfg.ConcurrentUsers, "users", 50, "Concurrent simulated shoppers")
	flag.IntVar(&cfg.DurationSeconds, "duration", 60, "Test duration in seconds")
	flag.Parse()

	fmt.Printf("Base URL: %s, users: %d, duration: %ds\n\n", cfg.BaseURL, cfg.ConcurrentUsers, cfg.DurationSeconds)

	result := &loadResult{}
	client := &http.Client{Timeout: 10 * time.Second}
	deadline := time.Now().Add(time.Duration(cfg.DurationSeconds) * time.Second)

	var wg sync.WaitGroup
	for i := 0; i < cfg.ConcurrentUsers; i++ {
		wg.Add(1)
		go func(userIndex int) {
			defer wg.Done()
			for time.Now().Before(deadline) {
				runCheckoutFlow(client, cfg.BaseURL, fmt.Sprintf("load-user-%d", userIndex), result)
			}
		}(i)
	}
	wg.Wait()

	report(result)
}

// runCheckoutFlow walks one shopper through the whole funnel: begin a
// session, fill shipping, pick cash, confirm.
func runCheckoutFlow(client *http.Client, baseURL, userID string, result *loadResult) {
	sessionID, ok := beginSession(client, baseURL, userID, result)
	if !ok {
		return
	}

	steps := []struct {
		method string
		path   string
		body   map[string]string
	}{
		{http.MethodPost, "/advance", nil},
		{http.MethodPut, "/shipping", map[string]string{
			"full_name": "Load Tester",
			"email":     "load@example.com",
			"phone":     "+15550100",
			"address":   "1 Test Way",
		}},
		{http.MethodPost, "/advance", nil},
		{http.MethodPut, "/payment", map[string]string{"method": "cash"}},
		{http.MethodPost, "/confirm", nil},
	}

	for _, step := range steps {
		if !doRequest(client, step.method, baseURL+"/checkout/sessions/"+sessionID+step.path, step.body, result) {
			return
		}
	}

	atomic.AddInt64(&result.completedFlows, 1)
}

func beginSession(client *http.Client, baseURL, userID string, result *loadResult) (string, bool) {
	var payload bytes.Buffer
	json.NewEncoder(&payload).Encode(map[string]string{"user_id": userID})

	start := time.Now()
	resp, err := client.Post(baseURL+"/checkout/sessions", "application/json", &payload)
	if err != nil {
		record(result, start, false)
		return "", false
	}
	record(result, start, resp.StatusCode < 400)
	defer resp.Body.Close()

	var envelope struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil || envelope.Data.ID == "" {
		return "", false
	}
	return envelope.Data.ID, true
}

func doRequest(client *http.Client, method, url string, body map[string]string, result *loadResult) bool {
	var payload io.Reader
	if body != nil {
		buf := &bytes.Buffer{}
		json.NewEncoder(buf).Encode(body)
		payload = buf
	}

	req, err := http.NewRequest(method, url, payload)
	if err != nil {
		return false
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		record(result, start, false)
		return false
	}
	ok := resp.StatusCode < 400
	record(result, start, ok)
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return ok
}

func record(result *loadResult, start time.Time, ok bool) {
	atomic.AddInt64(&result.totalRequests, 1)
	if !ok {
		atomic.AddInt64(&result.failedRequests, 1)
	}

	result.mu.Lock()
	result.responseTimes = append(result.responseTimes, time.Since(start))
	result.mu.Unlock()
}

func report(result *loadResult) {
	result.mu.Lock()
	defer result.mu.Unlock()

	total := atomic.LoadInt64(&result.totalRequests)
	failed := atomic.LoadInt64(&result.failedRequests)
	flows := atomic.LoadInt64(&result.completedFlows)

	fmt.Printf("Total requests:   %d\n", total)
	fmt.Printf("Failed requests:  %d\n", failed)
	fmt.Printf("Completed flows:  %d\n", flows)

	if len(result.responseTimes) == 0 {
		os.Exit(1)
	}

	sort.Slice(result.responseTimes, func(i, j int) bool {
		return result.responseTimes[i] < result.responseTimes[j]
	})
	fmt.Printf("P50 latency:      %s\n", percentile(result.responseTimes, 50))
	fmt.Printf("P95 latency:      %s\n", percentile(result.responseTimes, 95))
	fmt.Printf("P99 latency:      %s\n", percentile(result.responseTimes, 99))
}

func percentile(sorted []time.Duration, p int) time.Duration {
	idx := len(sorted) * p / 100
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}
