package es

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/elastic/go-elasticsearch/v9"

	"github.com/smartedu/smartedu/internal/models"
)

// IndexTeacherProfile writes the profile document, keyed by profile id so
// updates overwrite the previous version.
func IndexTeacherProfile(ctx context.Context, client *elasticsearch.Client, index string, profile *models.TeacherProfile) error {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(profile); err != nil {
		return err
	}

	res, err := client.Index(
		index,
		&buf,
		client.Index.WithContext(ctx),
		client.Index.WithDocumentID(strconv.Itoa(int(profile.ID))),
	)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("es index: %s", res.Status())
	}
	return nil
}

// SearchTeachers runs a fuzzy full-text query over indexed teacher
// descriptions.
func SearchTeachers(ctx context.Context, client *elasticsearch.Client, index, query string, from, size int) (int64, []models.TeacherProfile, error) {
	body := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":     query,
				"fields":    []string{"description"},
				"fuzziness": "AUTO",
			},
		},
		"from": from,
		"size": size,
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return 0, nil, err
	}

	res, err := client.Search(
		client.Search.WithContext(ctx),
		client.Search.WithIndex(index),
		client.Search.WithBody(&buf),
	)
	if err != nil {
		return 0, nil, err
	}
	defer res.Body.Close()
	if res.IsError() {
		return 0, nil, fmt.Errorf("es search: %s", res.Status())
	}

	var r struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source models.TeacherProfile `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return 0, nil, err
	}

	profiles := make([]models.TeacherProfile, len(r.Hits.Hits))
	for i, hit := range r.Hits.Hits {
		profiles[i] = hit.Source
	}
	return r.Hits.Total.Value, profiles, nil
}
