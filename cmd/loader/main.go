// The loader is a one-shot bulk uploader: it reads a JSON file of users and
// metric records and pushes them to the dashboard server in gzip-compressed
// batches over a pool of concurrent workers.
package main

import (
	"bytes"
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/Schera-ole/perfboard/internal/bufpool"
	"github.com/Schera-ole/perfboard/internal/config"
	models "github.com/Schera-ole/perfboard/internal/model"
)

func loadRecordsFile(path string) (models.IngestRequest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return models.IngestRequest{}, fmt.Errorf("error reading records file: %w", err)
	}
	var request models.IngestRequest
	if err := json.Unmarshal(data, &request); err != nil {
		return models.IngestRequest{}, fmt.Errorf("error parsing records file: %w", err)
	}
	return request, nil
}

// splitBatches turns one loaded file into the requests to send: users ride
// in their own request, records are chunked by batchSize. The server
// tolerates records arriving before their user.
func splitBatches(request models.IngestRequest, batchSize int) []models.IngestRequest {
	var batches []models.IngestRequest
	if len(request.Users) > 0 {
		batches = append(batches, models.IngestRequest{Users: request.Users})
	}
	for start := 0; start < len(request.Records); start += batchSize {
		end := min(start+batchSize, len(request.Records))
		batches = append(batches, models.IngestRequest{Records: request.Records[start:end]})
	}
	return batches
}

func sendBatch(client *http.Client, url string, payload models.IngestRequest, pool *bufpool.Pool[*bytes.Buffer]) error {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("error creating json: %w", err)
	}

	compressed := pool.Get()
	defer pool.Put(compressed)

	gzipWriter := gzip.NewWriter(compressed)
	if _, err := gzipWriter.Write(jsonData); err != nil {
		return fmt.Errorf("error compressing data: %w", err)
	}
	if err := gzipWriter.Close(); err != nil {
		return fmt.Errorf("error closing gzip writer: %w", err)
	}

	request, err := http.NewRequest(http.MethodPost, url, compressed)
	if err != nil {
		return fmt.Errorf("error creating request for %s: %w", url, err)
	}
	request.Header.Set("Content-Type", "application/json")
	request.Header.Set("Content-Encoding", "gzip")

	response, err := client.Do(request)
	if err != nil {
		return fmt.Errorf("error sending request for %s: %w", url, err)
	}
	defer response.Body.Close()

	body, err := io.ReadAll(response.Body)
	if err != nil {
		return fmt.Errorf("error reading response body: %w", err)
	}
	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return fmt.Errorf("server returned error status %d: %s", response.StatusCode, string(body))
	}
	return nil
}

func worker(client *http.Client, url string, jobs <-chan models.IngestRequest,
	pool *bufpool.Pool[*bytes.Buffer], logger *zap.SugaredLogger,
	wg *sync.WaitGroup, failed *atomic.Int64) {
	defer wg.Done()
	for job := range jobs {
		if err := sendBatch(client, url, job, pool); err != nil {
			failed.Add(1)
			logger.Errorw("Error sending batch", "error", err)
		}
	}
}

func main() {
	loaderConfig, err := config.NewLoaderConfig()
	if err != nil {
		log.Fatal("Failed to parse configuration: ", err)
	}

	zapLogger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatal("Failed to initialize logger: ", err)
	}
	defer zapLogger.Sync()
	logger := zapLogger.Sugar()

	if loaderConfig.BatchSize <= 0 {
		logger.Fatalw("Batch size must be positive", "batch_size", loaderConfig.BatchSize)
	}
	if loaderConfig.RateLimit <= 0 {
		logger.Fatalw("Rate limit must be positive", "rate_limit", loaderConfig.RateLimit)
	}

	request, err := loadRecordsFile(loaderConfig.File)
	if err != nil {
		logger.Fatalw("Failed to load records file", "path", loaderConfig.File, "error", err)
	}

	batches := splitBatches(request, loaderConfig.BatchSize)
	logger.Infow("Loaded records file",
		"path", loaderConfig.File,
		"users", len(request.Users),
		"records", len(request.Records),
		"batches", len(batches))

	client := &http.Client{}
	url := "http://" + loaderConfig.Address + "/api/ingest"
	pool := bufpool.New(func() *bytes.Buffer { return &bytes.Buffer{} })

	jobs := make(chan models.IngestRequest, 20)
	var wg sync.WaitGroup
	var failed atomic.Int64

	for w := 1; w <= loaderConfig.RateLimit; w++ {
		wg.Add(1)
		go worker(client, url, jobs, pool, logger, &wg, &failed)
	}
	for _, batch := range batches {
		jobs <- batch
	}
	close(jobs)
	wg.Wait()

	if n := failed.Load(); n > 0 {
		logger.Fatalw("Upload finished with failures", "failed_batches", n, "total_batches", len(batches))
	}
	logger.Infow("Upload complete", "batches", len(batches))
}
