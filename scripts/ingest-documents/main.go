package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"

	"policy-training-assistant/config"
	"policy-training-assistant/internal/model"
	"policy-training-assistant/pkg/log"
	pkgQdrant "policy-training-assistant/pkg/qdrant"
	"policy-training-assistant/pkg/voyage"
)

// embedBatchSize keeps a single Voyage request well under the API input limit.
const embedBatchSize = 32

// chunk is one line of the input JSONL file: a document fragment ready for
// indexing into the collection of its domain.
type chunk struct {
	DocID           string `json:"doc_id"`
	Domain          string `json:"domain"`
	Title           string `json:"title"`
	Snippet         string `json:"snippet"`
	StructuralLabel string `json:"structural_label"`
	StructuralPath  string `json:"structural_path"`
}

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: go run scripts/ingest-documents/main.go <path/to/chunks.jsonl>")
		fmt.Println("Each line: {\"doc_id\":..., \"domain\":\"POLICY\", \"title\":..., \"snippet\":..., \"structural_label\":..., \"structural_path\":...}")
		os.Exit(1)
	}
	chunksPath := os.Args[1]

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := log.Init(log.ZapConfig{
		Level:        "info",
		Mode:         "development",
		ColorEnabled: true,
	})

	ctx := context.Background()

	qdrantClient := pkgQdrant.NewClient(cfg.Qdrant.URL)
	embeddingClient, err := voyage.New(cfg.Voyage.APIKey)
	if err != nil {
		logger.Fatalf(ctx, "Failed to initialize Voyage API: %v", err)
	}
	embeddingClient.WithModel(cfg.Voyage.Model)

	chunks, err := readChunks(chunksPath)
	if err != nil {
		logger.Fatalf(ctx, "Failed to read chunks: %v", err)
	}
	logger.Infof(ctx, "Found %d chunks to ingest", len(chunks))

	// Group by target collection so each domain's chunks land in its own
	// collection per retrieval.scopes.
	byCollection := map[string][]chunk{}
	for _, ch := range chunks {
		domain := model.Domain(strings.ToUpper(ch.Domain))
		collection, ok := cfg.Retrieval.Scopes[domain]
		if !ok {
			logger.Warnf(ctx, "Skipping chunk %s: unknown domain %q", ch.DocID, ch.Domain)
			continue
		}
		byCollection[collection] = append(byCollection[collection], ch)
	}

	for collection, group := range byCollection {
		if err := qdrantClient.CreateCollection(ctx, pkgQdrant.CreateCollectionRequest{
			Name: collection,
			Vectors: pkgQdrant.VectorConfig{
				Size:     cfg.Qdrant.VectorSize,
				Distance: "Cosine",
			},
		}); err != nil {
			logger.Warnf(ctx, "Could not create collection %s (may already exist): %v", collection, err)
		}

		success := 0
		for start := 0; start < len(group); start += embedBatchSize {
			end := start + embedBatchSize
			if end > len(group) {
				end = len(group)
			}
			batch := group[start:end]

			texts := make([]string, len(batch))
			for i, ch := range batch {
				texts[i] = ch.Title + "\n" + ch.Snippet
			}

			vectors, err := embeddingClient.Embed(ctx, texts)
			if err != nil {
				logger.Errorf(ctx, "Failed to embed batch for %s: %v", collection, err)
				continue
			}

			points := make([]pkgQdrant.Point, len(batch))
			for i, ch := range batch {
				points[i] = pkgQdrant.Point{
					ID:     uuid.NewString(),
					Vector: vectors[i],
					Payload: map[string]interface{}{
						"doc_id":           ch.DocID,
						"title":            ch.Title,
						"snippet":          ch.Snippet,
						"structural_label": ch.StructuralLabel,
						"structural_path":  ch.StructuralPath,
					},
				}
			}

			if err := qdrantClient.UpsertPoints(ctx, collection, pkgQdrant.UpsertPointsRequest{Points: points}); err != nil {
				logger.Errorf(ctx, "Failed to upsert batch into %s: %v", collection, err)
				continue
			}
			success += len(batch)
		}

		logger.Infof(ctx, "Collection %s: %d/%d chunks ingested", collection, success, len(group))
	}

	logger.Info(ctx, "Ingest complete")
}

// readChunks parses the JSONL file, skipping blank lines.
func readChunks(path string) ([]chunk, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var chunks []chunk
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var ch chunk
		if err := json.Unmarshal([]byte(line), &ch); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		chunks = append(chunks, ch)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return chunks, nil
}
