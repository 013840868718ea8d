package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/lovincyrus/passwords101/internal/generator"
	"github.com/lovincyrus/passwords101/internal/store"
)

var ErrMalformedImport = errors.New("import text is neither a JSON settings object nor legacy backslash format")

// Record is one parsed import entry.
type Record struct {
	Site        string
	SpecialChar string
	MaxLength   int
}

// ImportResult counts per-record outcomes.
type ImportResult struct {
	Saved  int `json:"saved"`
	Failed int `json:"failed"`
}

// Export returns every stored record as a JSON object keyed by site.
func (a *App) Export(ctx context.Context) ([]byte, error) {
	all, err := a.env.Store.GetAll(ctx)
	if err != nil {
		a.report(err)
		return nil, err
	}
	data, err := json.Marshal(all)
	if err != nil {
		a.report(err)
		return nil, err
	}
	return data, nil
}

// Import parses text and saves every record independently. Unparseable text
// is reported and rejected as a whole; a failed save is reported, counted and
// skipped. Empty text is a no-op.
func (a *App) Import(ctx context.Context, text string) (ImportResult, error) {
	var res ImportResult
	if strings.TrimSpace(text) == "" {
		return res, nil
	}

	records, err := ParseImport(text)
	if err != nil {
		a.report(err)
		return res, err
	}

	for _, r := range records {
		if err := a.env.Store.Save(ctx, r.Site, r.SpecialChar, r.MaxLength); err != nil {
			a.report(fmt.Errorf("importing %s: %w", r.Site, err))
			res.Failed++
			continue
		}
		res.Saved++
	}
	a.logger.Info("import finished", "saved", res.Saved, "failed", res.Failed)
	return res, nil
}

// ParseImport accepts the JSON export format and falls back to the legacy
// backslash format. Records are sorted by site.
func ParseImport(text string) ([]Record, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal([]byte(text), &raw); err == nil {
		if raw == nil {
			return nil, ErrMalformedImport
		}
		return parseJSONRecords(raw), nil
	} else if json.Valid([]byte(text)) {
		// Valid JSON, but not an object.
		return nil, ErrMalformedImport
	}
	return ParseLegacy(text)
}

func parseJSONRecords(raw map[string]json.RawMessage) []Record {
	records := make([]Record, 0, len(raw))
	for site, msg := range raw {
		var fields map[string]any
		// Entries that are not objects import with default settings.
		_ = json.Unmarshal(msg, &fields)

		r := Record{Site: site, MaxLength: generator.NoLimit}
		if s, ok := fields["specialChar"].(string); ok {
			r.SpecialChar = s
		}
		if n, ok := fields["maxLength"].(float64); ok {
			r.MaxLength = clampLength(n)
		}
		records = append(records, r)
	}
	sort.Slice(records, func(i, j int) bool { return records[i].Site < records[j].Site })
	return records
}

func clampLength(n float64) int {
	if math.IsNaN(n) || n <= 0 || n > math.MaxInt32 {
		return generator.NoLimit
	}
	return int(n)
}

// ParseLegacy reads "site\suffix\maxLength\" triples. A trailing delimiter
// and groups with an empty site are ignored; an unreadable max length means
// no limit. Text without any delimiter is rejected.
//
//	google.com\!\5\wikipedia.com\\-1\
func ParseLegacy(text string) ([]Record, error) {
	if !strings.Contains(text, `\`) {
		return nil, ErrMalformedImport
	}
	values := strings.Split(text, `\`)

	bySite := make(map[string]Record)
	for i := 0; i < len(values); i += 3 {
		site := values[i]
		if site == "" {
			continue
		}
		r := Record{Site: site, MaxLength: generator.NoLimit}
		if i+1 < len(values) {
			r.SpecialChar = values[i+1]
		}
		if i+2 < len(values) {
			r.MaxLength = ParseMaxLength(values[i+2])
		}
		bySite[site] = r
	}
	if len(bySite) == 0 {
		return nil, ErrMalformedImport
	}

	records := make([]Record, 0, len(bySite))
	for _, r := range bySite {
		records = append(records, r)
	}
	sort.Slice(records, func(i, j int) bool { return records[i].Site < records[j].Site })
	return records, nil
}

// ParseMaxLength reads a max length the way the settings form does: leading
// decimal digits count, anything else (or a value <= 0) means no limit.
func ParseMaxLength(raw string) int {
	s := strings.TrimSpace(raw)
	neg := false
	if s != "" && (s[0] == '-' || s[0] == '+') {
		neg = s[0] == '-'
		s = s[1:]
	}
	n, digits := 0, 0
	for ; digits < len(s) && s[digits] >= '0' && s[digits] <= '9'; digits++ {
		if n > math.MaxInt32/10 {
			return generator.NoLimit
		}
		n = n*10 + int(s[digits]-'0')
	}
	if digits == 0 || neg || n <= 0 {
		return generator.NoLimit
	}
	return n
}

// Settings converts a record to its stored form.
func (r Record) Settings() store.Settings {
	return store.NewSettings(r.SpecialChar, r.MaxLength)
}
