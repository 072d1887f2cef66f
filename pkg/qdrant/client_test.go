package qdrant_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"policy-training-assistant/pkg/qdrant"
)

func TestSearchPoints(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Content-Type") != "application/json" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if r.Method != http.MethodPost || !strings.Contains(r.URL.Path, "/points/search") {
			w.WriteHeader(http.StatusNotFound)
			return
		}

		var req qdrant.SearchRequest
		json.NewDecoder(r.Body).Decode(&req)
		if req.Limit == 999 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}

		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{
			"result": [
				{
					"id": "doc-1",
					"score": 0.91,
					"payload": {"title": "연차휴가 관리 규정", "domain": "POLICY"}
				}
			]
		}`))
	}))
	defer ts.Close()

	client := qdrant.NewClient(ts.URL)

	t.Run("Success Flow", func(t *testing.T) {
		resp, err := client.SearchPoints(context.Background(), "internal-regulations", qdrant.SearchRequest{
			Vector:      []float32{0.1, 0.2},
			Limit:       5,
			WithPayload: true,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(resp.Result) != 1 {
			t.Fatalf("expected 1 result, got %d", len(resp.Result))
		}
		if resp.Result[0].Score != 0.91 {
			t.Errorf("unexpected score: %v", resp.Result[0].Score)
		}
		if resp.Result[0].Payload["title"] != "연차휴가 관리 규정" {
			t.Errorf("unexpected payload: %v", resp.Result[0].Payload)
		}
	})

	t.Run("Server Error", func(t *testing.T) {
		_, err := client.SearchPoints(context.Background(), "internal-regulations", qdrant.SearchRequest{
			Vector: []float32{0.1},
			Limit:  999,
		})
		if err == nil {
			t.Error("expected error on 500")
		}
	})
}

func TestUpsertPoints(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path

		if r.Method == http.MethodPut && strings.HasSuffix(path, "/points") {
			var req qdrant.UpsertPointsRequest
			json.NewDecoder(r.Body).Decode(&req)
			if len(req.Points) == 0 {
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			w.WriteHeader(http.StatusOK)
			return
		}

		if r.Method == http.MethodPut && strings.Contains(path, "/collections/") {
			w.WriteHeader(http.StatusCreated)
			return
		}

		w.WriteHeader(http.StatusNotFound)
	}))
	defer ts.Close()

	client := qdrant.NewClient(ts.URL)

	t.Run("Create Collection", func(t *testing.T) {
		err := client.CreateCollection(context.Background(), qdrant.CreateCollectionRequest{
			Name:    "internal-regulations",
			Vectors: qdrant.VectorConfig{Size: 1024, Distance: "Cosine"},
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("Upsert Success", func(t *testing.T) {
		err := client.UpsertPoints(context.Background(), "internal-regulations", qdrant.UpsertPointsRequest{
			Points: []qdrant.Point{
				{
					ID:      "7a6cfb6e-9f55-4f6f-8f3a-2f6f1f9d2a01",
					Vector:  []float32{0.1, 0.2},
					Payload: map[string]interface{}{"doc_id": "policy-hr-013", "title": "연차휴가 관리 규정"},
				},
			},
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("Upsert Server Error", func(t *testing.T) {
		err := client.UpsertPoints(context.Background(), "internal-regulations", qdrant.UpsertPointsRequest{})
		if err == nil {
			t.Error("expected error on 500")
		}
	})
}
