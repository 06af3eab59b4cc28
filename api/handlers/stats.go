package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/seqwell/fastqparse/pkg/fastq"
)

// RunStatsResponse represents the response for run statistics.
type RunStatsResponse struct {
	Records       int     `json:"records"`
	Primary       int     `json:"primary"`
	Secondary     int     `json:"secondary"`
	Unnumbered    int     `json:"unnumbered"`
	WithSpotGroup int     `json:"with_spot_group"`
	LowQuality    int     `json:"low_quality"`
	Colorspace    int     `json:"colorspace"`
	TotalBases    int     `json:"total_bases"`
	MinLength     int     `json:"min_length"`
	MaxLength     int     `json:"max_length"`
	MeanLength    float64 `json:"mean_length"`
	MedianLength  int     `json:"median_length"`
	N50           int     `json:"n50"`
	MeanGCContent float64 `json:"mean_gc_content"`
	MeanQuality   float64 `json:"mean_quality"`
}

// RunStatsHandler parses FASTQ content and returns run statistics.
func RunStatsHandler(w http.ResponseWriter, r *http.Request) {
	var req ParseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error": "invalid request body"}`, http.StatusBadRequest)
		return
	}
	if req.Content == "" {
		http.Error(w, `{"error": "content is required"}`, http.StatusBadRequest)
		return
	}

	cfg := configFromRequest(&req)
	records, err := fastq.ParseBytes([]byte(req.Content), cfg)
	if err != nil {
		writeParseError(w, err)
		return
	}

	summary, err := fastq.Summarize(records, fastq.Encoding(cfg.PhredOffset))
	if err != nil {
		writeParseError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(RunStatsResponse{
		Records:       summary.Records,
		Primary:       summary.Primary,
		Secondary:     summary.Secondary,
		Unnumbered:    summary.Unnumbered,
		WithSpotGroup: summary.WithSpotGroup,
		LowQuality:    summary.LowQuality,
		Colorspace:    summary.Colorspace,
		TotalBases:    summary.TotalBases,
		MinLength:     summary.MinLength,
		MaxLength:     summary.MaxLength,
		MeanLength:    summary.MeanLength,
		MedianLength:  summary.MedianLength,
		N50:           summary.N50,
		MeanGCContent: summary.MeanGCContent,
		MeanQuality:   summary.MeanQuality,
	})
}
