package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/seqwell/fastqparse/pkg/fastq"
)

// QualityRequest represents a quality decoding request.
type QualityRequest struct {
	Encoded  string `json:"encoded"`
	Encoding string `json:"encoding,omitempty"` // "phred33" or "phred64"
}

// QualityResponse represents the response for quality decoding.
type QualityResponse struct {
	Scores []int `json:"scores"`
	Length int   `json:"length"`
}

func encodingFromName(name string) (fastq.Encoding, bool) {
	switch name {
	case "", "phred33":
		return fastq.Phred33, true
	case "phred64":
		return fastq.Phred64, true
	default:
		return fastq.EncodingNone, false
	}
}

// DecodeQualityHandler handles quality decoding requests.
func DecodeQualityHandler(w http.ResponseWriter, r *http.Request) {
	var req QualityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error": "invalid request body"}`, http.StatusBadRequest)
		return
	}
	if req.Encoded == "" {
		http.Error(w, `{"error": "encoded is required"}`, http.StatusBadRequest)
		return
	}

	enc, ok := encodingFromName(req.Encoding)
	if !ok {
		http.Error(w, `{"error": "unknown encoding, use 'phred33' or 'phred64'"}`, http.StatusBadRequest)
		return
	}

	scores, err := fastq.DecodeQuality(req.Encoded, enc)
	if err != nil {
		http.Error(w, `{"error": "`+err.Error()+`"}`, http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(QualityResponse{
		Scores: scores.Values,
		Length: scores.Len(),
	})
}

// QualityStatsResponse represents the response for quality statistics.
type QualityStatsResponse struct {
	Count            int     `json:"count"`
	Min              int     `json:"min"`
	Max              int     `json:"max"`
	Mean             float64 `json:"mean"`
	Median           int     `json:"median"`
	HighQualityRatio float64 `json:"high_quality_ratio"`
	Category         string  `json:"category"`
}

// QualityStatsHandler handles quality statistics requests.
func QualityStatsHandler(w http.ResponseWriter, r *http.Request) {
	var req QualityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error": "invalid request body"}`, http.StatusBadRequest)
		return
	}
	if req.Encoded == "" {
		http.Error(w, `{"error": "encoded is required"}`, http.StatusBadRequest)
		return
	}

	enc, ok := encodingFromName(req.Encoding)
	if !ok {
		http.Error(w, `{"error": "unknown encoding, use 'phred33' or 'phred64'"}`, http.StatusBadRequest)
		return
	}

	scores, err := fastq.DecodeQuality(req.Encoded, enc)
	if err != nil {
		http.Error(w, `{"error": "`+err.Error()+`"}`, http.StatusBadRequest)
		return
	}

	stats := scores.Statistics()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(QualityStatsResponse{
		Count:            stats.Count,
		Min:              stats.MinScore,
		Max:              stats.MaxScore,
		Mean:             stats.Mean,
		Median:           stats.Median,
		HighQualityRatio: stats.HighQualityRatio,
		Category:         stats.Category.String(),
	})
}
