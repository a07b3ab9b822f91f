package service

import (
	"encoding/csv"
	"io"
	"strings"
	"time"

	"github.com/jszwec/csvutil"
	"github.com/rotisserie/eris"

	appErrors "github.com/unclebandit/leadreach-backend/internal/errors"
	"github.com/unclebandit/leadreach-backend/internal/model"
)

// leadRecord is one CSV row of an exported lead.
type leadRecord struct {
	Name            string  `csv:"name"`
	Phone           string  `csv:"phone"`
	BusinessName    string  `csv:"business_name"`
	BusinessType    string  `csv:"business_type"`
	Source          string  `csv:"source"`
	RelevanceScore  float64 `csv:"relevance_score"`
	Status          string  `csv:"status"`
	MatchedKeywords string  `csv:"matched_keywords"`
	CreatedAt       string  `csv:"created_at"`
}

// ExportLeadsCSV writes a header and one record per lead. An empty list is
// ErrNothingToExport and writes nothing.
func ExportLeadsCSV(w io.Writer, leads []model.Lead) error {
	if len(leads) == 0 {
		return appErrors.ErrNothingToExport
	}

	cw := csv.NewWriter(w)
	enc := csvutil.NewEncoder(cw)
	for _, l := range leads {
		rec := leadRecord{
			Name:            l.Name,
			Phone:           l.Phone,
			BusinessName:    l.BusinessName,
			BusinessType:    l.BusinessType(),
			Source:          l.Source,
			RelevanceScore:  l.RelevanceScore,
			Status:          string(l.Status),
			MatchedKeywords: strings.Join(l.MatchedKeywords, "; "),
			CreatedAt:       l.CreatedAt.UTC().Format(time.RFC3339),
		}
		if err := enc.Encode(rec); err != nil {
			return eris.Wrap(err, "export: encode lead")
		}
	}
	cw.Flush()
	return eris.Wrap(cw.Error(), "export: flush csv")
}
