package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"math/rand"
	"net/http"
	"sync"
	"time"
)

// transferRequest is the POST /transfers payload
type transferRequest struct {
	FromUserID string `json:"fromUserId"`
	ToUserID   string `json:"toUserId"`
	Amount     string `json:"amount"`
}

// createUserRequest is the POST /users payload
type createUserRequest struct {
	UserID         string `json:"userId"`
	InitialBalance string `json:"initialBalance"`
}

// transferResponse is the subset of the API response the script inspects
type transferResponse struct {
	ID     uint64 `json:"id"`
	Status string `json:"status"`
}

// testResult contains metrics for a single request
type testResult struct {
	Success      bool
	Cancelled    bool
	ResponseTime time.Duration
	StatusCode   int
	Error        error
}

// testStats contains aggregated test statistics
type testStats struct {
	TotalRequests      int
	SuccessfulRequests int
	FailedRequests     int
	CancelledTransfers int
	TotalTime          time.Duration
	MinResponseTime    time.Duration
	MaxResponseTime    time.Duration
	TotalResponseTime  time.Duration
	ResponseTimes      []time.Duration
	ErrorCounts        map[string]int
	Lock               sync.Mutex
}

func main() {
	concurrency := flag.Int("c", 5, "Number of concurrent goroutines")
	totalRequests := flag.Int("n", 100, "Total number of transfers to submit")
	userCount := flag.Int("users", 5, "Number of load-test users to create")
	initialBalance := flag.String("balance", "1000.00", "Initial balance for each load-test user")
	baseURL := flag.String("url", "http://localhost:8080", "Base URL for the API")
	cancelPct := flag.Int("cancel", 10, "Percentage of submitted transfers to cancel immediately")
	delayMs := flag.Int("delay", 100, "Delay between requests in milliseconds")
	flag.Parse()

	client := &http.Client{Timeout: 10 * time.Second}

	// Seed users. Conflicts are fine on re-runs, the users already exist.
	runID := time.Now().Unix()
	userIDs := make([]string, 0, *userCount)
	for i := 0; i < *userCount; i++ {
		userID := fmt.Sprintf("loadtest-%d-%d", runID, i)
		if err := createUser(client, *baseURL, userID, *initialBalance); err != nil {
			fmt.Printf("Failed to create user %s: %v\n", userID, err)
			return
		}
		userIDs = append(userIDs, userID)
	}

	amounts := []string{"0.50", "1.00", "5.25", "10.00", "25.00"}

	fmt.Printf("Load testing transfers across %d users\n", len(userIDs))
	fmt.Printf("Concurrency: %d goroutines\n", *concurrency)
	fmt.Printf("Total transfers: %d\n", *totalRequests)
	fmt.Printf("Cancel rate: %d%%\n", *cancelPct)
	fmt.Printf("Delay between requests: %d ms\n", *delayMs)

	stats := &testStats{
		TotalRequests:   *totalRequests,
		MinResponseTime: time.Hour,
		ErrorCounts:     make(map[string]int),
		ResponseTimes:   make([]time.Duration, 0, *totalRequests),
	}

	results := make(chan testResult, *totalRequests)
	jobs := make(chan int, *totalRequests)

	var wg sync.WaitGroup
	for i := 0; i < *concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			worker(client, *baseURL, *delayMs, *cancelPct, userIDs, amounts, jobs, results)
		}()
	}

	go func() {
		for i := 0; i < *totalRequests; i++ {
			jobs <- i
		}
		close(jobs)
	}()

	go func() {
		for result := range results {
			stats.Lock.Lock()
			if result.Success {
				stats.SuccessfulRequests++
			} else {
				stats.FailedRequests++
				errMsg := "unknown"
				if result.Error != nil {
					errMsg = result.Error.Error()
				}
				stats.ErrorCounts[errMsg]++
			}
			if result.Cancelled {
				stats.CancelledTransfers++
			}

			stats.ResponseTimes = append(stats.ResponseTimes, result.ResponseTime)
			stats.TotalResponseTime += result.ResponseTime

			if result.ResponseTime < stats.MinResponseTime {
				stats.MinResponseTime = result.ResponseTime
			}
			if result.ResponseTime > stats.MaxResponseTime {
				stats.MaxResponseTime = result.ResponseTime
			}
			stats.Lock.Unlock()
		}
	}()

	startTime := time.Now()
	fmt.Println("Test running...")

	wg.Wait()
	close(results)

	stats.TotalTime = time.Since(startTime)
	printResults(stats)
}

func createUser(client *http.Client, baseURL, userID, balance string) error {
	body, err := json.Marshal(createUserRequest{UserID: userID, InitialBalance: balance})
	if err != nil {
		return err
	}

	resp, err := client.Post(baseURL+"/users", "application/json", bytes.NewReader(body))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusConflict {
		return fmt.Errorf("HTTP status code %d", resp.StatusCode)
	}
	return nil
}

func worker(client *http.Client, baseURL string, delayMs, cancelPct int,
	userIDs, amounts []string, jobs <-chan int, results chan<- testResult) {

	for range jobs {
		if delayMs > 0 {
			time.Sleep(time.Duration(delayMs) * time.Millisecond)
		}

		// Pick a distinct sender and receiver
		from := userIDs[rand.Intn(len(userIDs))]
		to := userIDs[rand.Intn(len(userIDs))]
		for to == from {
			to = userIDs[rand.Intn(len(userIDs))]
		}

		payload := transferRequest{
			FromUserID: from,
			ToUserID:   to,
			Amount:     amounts[rand.Intn(len(amounts))],
		}

		jsonData, err := json.Marshal(payload)
		if err != nil {
			results <- testResult{Success: false, Error: err}
			continue
		}

		startTime := time.Now()
		resp, err := client.Post(baseURL+"/transfers", "application/json", bytes.NewReader(jsonData))
		responseTime := time.Since(startTime)

		result := testResult{ResponseTime: responseTime}

		if err != nil {
			result.Error = err
			results <- result
			continue
		}

		result.StatusCode = resp.StatusCode
		result.Success = resp.StatusCode >= 200 && resp.StatusCode < 300
		if !result.Success {
			result.Error = fmt.Errorf("HTTP status code %d", resp.StatusCode)
			resp.Body.Close()
			results <- result
			continue
		}

		var created transferResponse
		decodeErr := json.NewDecoder(resp.Body).Decode(&created)
		resp.Body.Close()

		// Cancel a slice of the submitted transfers to exercise the
		// cancellation path while they are still pending
		if decodeErr == nil && rand.Intn(100) < cancelPct {
			cancelURL := fmt.Sprintf("%s/transfers/%d/cancel", baseURL, created.ID)
			cancelResp, cancelErr := client.Post(cancelURL, "application/json", nil)
			if cancelErr == nil {
				if cancelResp.StatusCode == http.StatusOK {
					result.Cancelled = true
				}
				cancelResp.Body.Close()
			}
		}

		results <- result
	}
}

func printResults(stats *testStats) {
	rawTps := float64(stats.SuccessfulRequests) / stats.TotalTime.Seconds()
	theoreticalTps := float64(stats.TotalRequests) / stats.TotalTime.Seconds()

	var avgResponseTime time.Duration
	if len(stats.ResponseTimes) > 0 {
		avgResponseTime = stats.TotalResponseTime / time.Duration(len(stats.ResponseTimes))
	}

	var p50, p90, p95, p99 time.Duration
	if len(stats.ResponseTimes) > 0 {
		sortedTimes := make([]time.Duration, len(stats.ResponseTimes))
		copy(sortedTimes, stats.ResponseTimes)

		// Simple bubble sort (OK for small datasets)
		for i := 0; i < len(sortedTimes); i++ {
			for j := i + 1; j < len(sortedTimes); j++ {
				if sortedTimes[i] > sortedTimes[j] {
					sortedTimes[i], sortedTimes[j] = sortedTimes[j], sortedTimes[i]
				}
			}
		}

		p50 = sortedTimes[len(sortedTimes)*50/100]
		p90 = sortedTimes[len(sortedTimes)*90/100]
		p95 = sortedTimes[len(sortedTimes)*95/100]
		p99 = sortedTimes[len(sortedTimes)*99/100]
	}

	fmt.Println("\n================= TEST RESULTS =================")
	fmt.Printf("Total Transfers:     %d\n", stats.TotalRequests)
	fmt.Printf("Accepted:            %d (%.1f%%)\n", stats.SuccessfulRequests,
		float64(stats.SuccessfulRequests)/float64(stats.TotalRequests)*100)
	fmt.Printf("Rejected/Failed:     %d (%.1f%%)\n", stats.FailedRequests,
		float64(stats.FailedRequests)/float64(stats.TotalRequests)*100)
	fmt.Printf("Cancelled:           %d\n", stats.CancelledTransfers)
	fmt.Printf("Total Test Time:     %.2f seconds\n", stats.TotalTime.Seconds())

	fmt.Println("\n----------------- PERFORMANCE -----------------")
	fmt.Printf("Raw TPS:             %.2f (accepted transfers / total time)\n", rawTps)
	fmt.Printf("Theoretical TPS:     %.2f (if all submissions were accepted)\n", theoreticalTps)

	fmt.Println("\n----------------- RESPONSE TIMES -----------------")
	fmt.Printf("Average Response:    %v\n", avgResponseTime)
	fmt.Printf("Minimum Response:    %v\n", stats.MinResponseTime)
	fmt.Printf("Maximum Response:    %v\n", stats.MaxResponseTime)
	fmt.Printf("P50 Response:        %v\n", p50)
	fmt.Printf("P90 Response:        %v\n", p90)
	fmt.Printf("P95 Response:        %v\n", p95)
	fmt.Printf("P99 Response:        %v\n", p99)

	if stats.FailedRequests > 0 {
		fmt.Println("\n----------------- ERROR DISTRIBUTION -----------------")
		for errMsg, count := range stats.ErrorCounts {
			fmt.Printf("%-40s: %d (%.1f%%)\n", errMsg, count,
				float64(count)/float64(stats.TotalRequests)*100)
		}
	}
}
