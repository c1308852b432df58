package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"readiness-workers/internal/models"

	"github.com/elastic/go-elasticsearch/v8"
)

// ElasticsearchPartnerStore searches the partner index, filtering by category.
type ElasticsearchPartnerStore struct {
	client  *elasticsearch.Client
	index   string
	maxPool int
}

func NewElasticsearchPartnerStore(client *elasticsearch.Client, index string, maxPool int) *ElasticsearchPartnerStore {
	return &ElasticsearchPartnerStore{client: client, index: index, maxPool: maxPool}
}

type partnerSearchResponse struct {
	Hits struct {
		Hits []struct {
			ID     string               `json:"_id"`
			Source models.PartnerRecord `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

func (s *ElasticsearchPartnerStore) buildQuery(categories []string) map[string]interface{} {
	filters := []interface{}{}
	if len(categories) > 0 {
		lowered := make([]string, len(categories))
		for i, c := range categories {
			lowered[i] = models.Normalize(c)
		}
		filters = append(filters, map[string]interface{}{
			"terms": map[string]interface{}{"category": lowered},
		})
	}

	size := s.maxPool
	if size <= 0 {
		size = 10000
	}

	return map[string]interface{}{
		"size": size,
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"filter":   filters,
				"must_not": []interface{}{map[string]interface{}{"term": map[string]interface{}{"active": false}}},
			},
		},
		"sort": []interface{}{map[string]interface{}{"id": "asc"}},
	}
}

func (s *ElasticsearchPartnerStore) ListPartners(ctx context.Context, categories []string) ([]models.PartnerRecord, error) {
	var body bytes.Buffer
	if err := json.NewEncoder(&body).Encode(s.buildQuery(categories)); err != nil {
		return nil, fmt.Errorf("failed to encode partner query: %w", err)
	}

	res, err := s.client.Search(
		s.client.Search.WithContext(ctx),
		s.client.Search.WithIndex(s.index),
		s.client.Search.WithBody(&body),
	)
	if err != nil {
		return nil, fmt.Errorf("partner search failed: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("partner search error: %s", res.Status())
	}

	var parsed partnerSearchResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode partner search: %w", err)
	}

	partners := make([]models.PartnerRecord, 0, len(parsed.Hits.Hits))
	for _, hit := range parsed.Hits.Hits {
		p := hit.Source
		if p.ID == "" {
			p.ID = hit.ID
		}
		partners = append(partners, p)
	}
	return partners, nil
}
