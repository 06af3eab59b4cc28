package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/seqwell/fastqparse/pkg/fastq"
)

// ParseRequest represents a FASTQ parsing request.
type ParseRequest struct {
	Content     string `json:"content"`
	PhredOffset int    `json:"phred_offset,omitempty"` // 0 (off), 33 or 64
	MaxPhred    int    `json:"max_phred,omitempty"`    // raw ceiling char override
	PacBio      bool   `json:"pacbio,omitempty"`
	SkipInvalid bool   `json:"skip_invalid,omitempty"`
}

// RecordResponse is one parsed record.
type RecordResponse struct {
	Name       string `json:"name"`
	SpotGroup  string `json:"spot_group,omitempty"`
	ReadNumber int    `json:"read_number"`
	Colorspace bool   `json:"colorspace,omitempty"`
	LowQuality bool   `json:"low_quality,omitempty"`
	Read       string `json:"read"`
	Quality    string `json:"quality"`
	Line       int    `json:"line"`
}

// ParseResponse represents the response for FASTQ parsing.
type ParseResponse struct {
	Records []RecordResponse `json:"records"`
	Count   int              `json:"count"`
	Skipped int              `json:"skipped"`
}

// ParseError is the error payload for failed parses.
type ParseError struct {
	Error string `json:"error"`
	Line  int    `json:"line,omitempty"`
}

func configFromRequest(req *ParseRequest) fastq.Config {
	cfg := fastq.Config{
		PhredOffset: req.PhredOffset,
		MaxPhred:    byte(req.MaxPhred),
	}
	if req.PacBio {
		cfg.DefaultReadNumber = fastq.PacBioReadNumber
	}
	return cfg
}

func writeParseError(w http.ResponseWriter, err error) {
	payload := ParseError{Error: err.Error()}
	var syntaxErr *fastq.SyntaxError
	if errors.As(err, &syntaxErr) {
		payload.Line = syntaxErr.Line
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	json.NewEncoder(w).Encode(payload)
}

// ParseHandler handles FASTQ parsing requests.
func ParseHandler(w http.ResponseWriter, r *http.Request) {
	var req ParseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error": "invalid request body"}`, http.StatusBadRequest)
		return
	}
	if req.Content == "" {
		http.Error(w, `{"error": "content is required"}`, http.StatusBadRequest)
		return
	}

	session, err := fastq.NewSession([]byte(req.Content), configFromRequest(&req))
	if err != nil {
		writeParseError(w, err)
		return
	}

	sink := &recordCollector{}
	skipped, err := session.Drain(sink, req.SkipInvalid)
	if err != nil {
		writeParseError(w, err)
		return
	}

	records := make([]RecordResponse, len(sink.records))
	for i, rec := range sink.records {
		records[i] = RecordResponse{
			Name:       rec.Name,
			SpotGroup:  rec.SpotGroup,
			ReadNumber: rec.ReadNumber,
			Colorspace: rec.IsColorspace,
			LowQuality: rec.LowQuality,
			Read:       rec.Read,
			Quality:    rec.Quality,
			Line:       rec.Line,
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(ParseResponse{
		Records: records,
		Count:   len(records),
		Skipped: skipped,
	})
}

type recordCollector struct {
	records []*fastq.Record
}

func (c *recordCollector) Write(rec *fastq.Record) error {
	c.records = append(c.records, rec)
	return nil
}
