// Package normalize converts raw header+rows grids from a tabular source
// into typed domain records. Header spellings vary across sheet revisions,
// so field names are canonicalized before any typing rules apply.
package normalize

import (
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/rapidoqa/coach-server/internal/domain"
	"github.com/rapidoqa/coach-server/internal/source"
	"go.uber.org/zap"
)

// timestampLayouts are tried in order when parsing a "timestamp" cell.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
	"1/2/2006 15:04:05",
	"1/2/2006",
}

// CamelKey canonicalizes a header cell: all whitespace is stripped, the first
// rune is lower-cased and a trailing all-caps "ID" collapses to "Id", so
// "Audit ID", "AuditID" and "auditId" all map onto the same key.
func CamelKey(header string) string {
	var b strings.Builder
	for _, r := range header {
		if !unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}
	s := b.String()
	if s == "" {
		return ""
	}
	runes := []rune(s)
	runes[0] = unicode.ToLower(runes[0])
	s = string(runes)
	if strings.HasSuffix(s, "ID") {
		s = s[:len(s)-2] + "Id"
	}
	return s
}

// record is one normalized row before it is shaped into a domain type.
type record struct {
	strs     map[string]string
	nums     map[string]float64
	ts       time.Time
	tsSeen   bool
	tsValid  bool
	feedback string
}

func (r record) str(key string) string  { return r.strs[key] }
func (r record) num(key string) float64 { return r.nums[key] }
func (r record) has(key string) bool    { _, ok := r.strs[key]; return ok }

func parseTimestamp(value string) (time.Time, bool) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// rows applies the per-field coercion rules to every data row. When
// mergeFeedback is set, every column whose original header contains
// "feedback" (case-insensitive) is concatenated into a single feedback value
// instead of the columns overwriting each other.
func rows(grid source.Grid, mergeFeedback bool, logger *zap.Logger) []record {
	header := grid.Header()
	keys := make([]string, len(header))
	for i, h := range header {
		keys[i] = CamelKey(strings.TrimSpace(h))
	}

	out := make([]record, 0, len(grid.Rows()))
	for _, raw := range grid.Rows() {
		rec := record{
			strs: make(map[string]string),
			nums: make(map[string]float64),
		}
		var feedbackParts []string

		for i, h := range header {
			if i >= len(raw) {
				break
			}
			value := strings.TrimSpace(raw[i])
			if value == "" || strings.EqualFold(value, "null") || strings.EqualFold(value, "undefined") {
				continue
			}

			if mergeFeedback && strings.Contains(strings.ToLower(h), "feedback") {
				feedbackParts = append(feedbackParts, value)
				continue
			}

			key := keys[i]
			switch {
			case key == "agentEmail" || key == "auditorEmail":
				rec.strs[key] = strings.ToLower(value)
			case strings.Contains(strings.ToLower(key), "score"):
				n, err := strconv.ParseFloat(value, 64)
				if err != nil {
					logger.Debug("dropping unparsable score field",
						zap.String("field", key),
						zap.String("value", value))
					continue
				}
				rec.nums[key] = n
				rec.strs[key] = value
			case key == "timestamp":
				rec.tsSeen = true
				rec.ts, rec.tsValid = parseTimestamp(value)
				if !rec.tsValid {
					logger.Debug("unparsable timestamp", zap.String("value", value))
				}
			default:
				rec.strs[key] = value
			}
		}

		if len(feedbackParts) > 0 {
			rec.feedback = strings.Join(feedbackParts, ". ")
		}
		out = append(out, rec)
	}
	return out
}

// Agents shapes the agents table. Rows without an email are unusable and
// dropped.
func Agents(grid source.Grid) []domain.Agent {
	agents := make([]domain.Agent, 0, len(grid.Rows()))
	for _, rec := range rows(grid, false, zap.NewNop()) {
		if !rec.has("agentEmail") {
			continue
		}
		agents = append(agents, domain.Agent{
			AgentEmail: rec.str("agentEmail"),
			AgentName:  rec.str("agentName"),
			TeamLead:   rec.str("teamLead"),
		})
	}
	return agents
}

// Audits shapes the audits table. An audit is discarded when its timestamp
// failed to parse, its agent email is absent, or its overall score is missing
// or unparsable, since it cannot participate in any cache-wide aggregation.
// A fabricated zero score would both qualify the audit for coaching and drag
// the leaderboard average down.
func Audits(grid source.Grid, logger *zap.Logger) []domain.Audit {
	if logger == nil {
		logger = zap.NewNop()
	}
	audits := make([]domain.Audit, 0, len(grid.Rows()))
	for _, rec := range rows(grid, true, logger) {
		if !rec.tsSeen || !rec.tsValid || !rec.has("agentEmail") || !rec.has("overallScore") {
			logger.Debug("discarding audit row",
				zap.String("auditId", rec.str("auditId")),
				zap.Bool("timestampValid", rec.tsSeen && rec.tsValid),
				zap.Bool("agentEmailPresent", rec.has("agentEmail")),
				zap.Bool("scorePresent", rec.has("overallScore")))
			continue
		}
		audits = append(audits, domain.Audit{
			AuditID:      rec.str("auditId"),
			Timestamp:    rec.ts,
			AgentEmail:   rec.str("agentEmail"),
			AuditorEmail: rec.str("auditorEmail"),
			TicketID:     rec.str("ticketId"),
			OverallScore: rec.num("overallScore"),
			Feedback:     rec.feedback,
		})
	}
	return audits
}

// legacyErrorPrefix is how older revisions of the coaching sheet embedded a
// generation failure inside the tips text. Decoded here into the tagged form
// so downstream consumers never parse markers out of free text.
const legacyErrorPrefix = "ERROR: "

// CoachingTips shapes the coaching-tips table.
func CoachingTips(grid source.Grid) []domain.CoachingTip {
	tips := make([]domain.CoachingTip, 0, len(grid.Rows()))
	for _, rec := range rows(grid, false, zap.NewNop()) {
		tip := domain.CoachingTip{
			CoachingID: rec.str("coachingId"),
			AuditID:    rec.str("auditId"),
		}
		if rec.tsSeen && rec.tsValid {
			tip.Timestamp = rec.ts
		}
		text := rec.str("generatedCoachingTips")
		if strings.HasPrefix(text, legacyErrorPrefix) {
			tip.ErrorMessage = strings.TrimPrefix(text, legacyErrorPrefix)
		} else {
			tip.Tips = text
		}
		tips = append(tips, tip)
	}
	return tips
}
