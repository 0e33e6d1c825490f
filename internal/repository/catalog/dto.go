package catalog

import (
	"bytes"
	"encoding/json"
	"strconv"

	"github.com/kailas-cloud/resindex/internal/domain/match"
	"github.com/kailas-cloud/resindex/internal/domain/resource"
)

// flexString decodes a JSON scalar into text. null, "", false and numeric zero
// decode to the empty string, which the domain treats as absent.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0, bytes.Equal(data, []byte("null")), bytes.Equal(data, []byte("false")):
		*f = ""
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexString(s)
	case bytes.Equal(data, []byte("true")):
		*f = "true"
	default:
		if n, err := strconv.ParseFloat(string(data), 64); err == nil && n == 0 {
			*f = ""
			return nil
		}
		*f = flexString(data)
	}
	return nil
}

type metadataRow struct {
	Level           flexString `json:"level"`
	PopularPrograms []string   `json:"popular_programs"`
	Location        flexString `json:"location"`
}

func (m *metadataRow) toDomain() *resource.Metadata {
	if m == nil {
		return nil
	}
	return &resource.Metadata{
		Level:           string(m.Level),
		PopularPrograms: m.PopularPrograms,
		Location:        string(m.Location),
	}
}

// resourceRow is the wire shape of a catalog record.
type resourceRow struct {
	ID          flexString   `json:"id"`
	Title       flexString   `json:"title"`
	Category    flexString   `json:"category"`
	Description flexString   `json:"description"`
	Institution flexString   `json:"institution"`
	Amount      flexString   `json:"amount"`
	Eligibility flexString   `json:"eligibility"`
	Metadata    *metadataRow `json:"metadata"`
	Tags        []string     `json:"tags"`
}

func (r resourceRow) toDomain() (resource.Resource, error) {
	return resource.New(string(r.ID), string(r.Title), string(r.Category), resource.Details{
		Description: string(r.Description),
		Institution: string(r.Institution),
		Amount:      string(r.Amount),
		Eligibility: string(r.Eligibility),
		Metadata:    r.Metadata.toDomain(),
		Tags:        r.Tags,
	})
}

// embeddingRow is the insert payload for the embeddings table.
type embeddingRow struct {
	ResourceID string    `json:"resource_id"`
	Content    string    `json:"content"`
	Embedding  []float32 `json:"embedding"`
}

// matchArgs are the named arguments of the similarity function.
type matchArgs struct {
	QueryEmbedding []float32 `json:"query_embedding"`
	MatchThreshold float64   `json:"match_threshold"`
	MatchCount     int       `json:"match_count"`
	MatchCategory  string    `json:"match_category,omitempty"`
}

// matchRow is one row returned by the similarity function.
type matchRow struct {
	ResourceID  flexString `json:"resource_id"`
	Title       flexString `json:"title"`
	Category    flexString `json:"category"`
	Institution flexString `json:"institution"`
	Description flexString `json:"description"`
	Amount      flexString `json:"amount"`
	URL         flexString `json:"url"`
	Similarity  float64    `json:"similarity"`
}

func (m matchRow) toDomain() match.Result {
	return match.Result{
		ResourceID:  string(m.ResourceID),
		Title:       string(m.Title),
		Category:    string(m.Category),
		Institution: string(m.Institution),
		Description: string(m.Description),
		Amount:      string(m.Amount),
		URL:         string(m.URL),
		Similarity:  m.Similarity,
	}
}
