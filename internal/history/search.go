package history

import (
	"context"
	"fmt"
	"strings"
	"unicode"
)

type Result struct {
	Exchange
	Snippet string
	Rank    float64
}

type Options struct {
	Query     string
	SessionID string // "" = all sessions
	VideoURL  string // substring match, "" = all
	Since     string // "" = no filter, e.g. "2024-01-01"
	Limit     int
}

// containsCJK returns true if the string contains any CJK Unified Ideograph.
func containsCJK(s string) bool {
	for _, r := range s {
		if unicode.Is(unicode.Han, r) {
			return true
		}
	}
	return false
}

// makeSnippet extracts a snippet around the first occurrence of query in text.
func makeSnippet(text, query string, contextChars int) string {
	lower := strings.ToLower(text)
	qLower := strings.ToLower(query)
	idx := strings.Index(lower, qLower)
	if idx < 0 || query == "" {
		if len([]rune(text)) > contextChars*2 {
			return string([]rune(text)[:contextChars*2]) + "..."
		}
		return text
	}
	runes := []rune(text)
	qRunes := []rune(query)
	runePos := len([]rune(text[:idx]))
	start := runePos - contextChars
	if start < 0 {
		start = 0
	}
	end := runePos + len(qRunes) + contextChars
	if end > len(runes) {
		end = len(runes)
	}
	prefix := ""
	suffix := ""
	if start > 0 {
		prefix = "..."
	}
	if end < len(runes) {
		suffix = "..."
	}
	snippet := string(runes[start:runePos]) +
		">>>" + string(runes[runePos:runePos+len(qRunes)]) + "<<<" +
		string(runes[runePos+len(qRunes):end])
	return prefix + snippet + suffix
}

// ftsQuery quotes each whitespace-separated term so punctuation in the
// query is matched as text instead of parsed as FTS5 syntax. Quoted terms
// are implicitly ANDed.
func ftsQuery(q string) string {
	terms := strings.Fields(q)
	for i, t := range terms {
		terms[i] = `"` + strings.ReplaceAll(t, `"`, `""`) + `"`
	}
	return strings.Join(terms, " ")
}

// filters returns the shared WHERE conditions for session, url and date.
func (o Options) filters() ([]string, []any) {
	var conditions []string
	var args []any
	if o.SessionID != "" {
		conditions = append(conditions, "e.session_id = ?")
		args = append(args, o.SessionID)
	}
	if o.VideoURL != "" {
		conditions = append(conditions, "e.video_url LIKE ?")
		args = append(args, "%"+o.VideoURL+"%")
	}
	if o.Since != "" {
		conditions = append(conditions, "e.asked_at >= ?")
		args = append(args, o.Since)
	}
	return conditions, args
}

// List returns exchanges newest first.
func (d *DB) List(ctx context.Context, opts Options) ([]Result, error) {
	if opts.Limit <= 0 {
		opts.Limit = 100
	}
	conditions, args := opts.filters()
	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}

	query := fmt.Sprintf(`
		SELECT e.id, e.session_id, e.video_url, e.question, e.answer, e.follow_up, e.asked_at
		FROM exchanges e
		%s
		ORDER BY e.id DESC
		LIMIT ?
	`, where)
	args = append(args, opts.Limit)

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list query: %w", err)
	}
	defer rows.Close()

	var results []Result
	for rows.Next() {
		ex, err := scanExchange(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, Result{Exchange: *ex, Snippet: makeSnippet(ex.Answer, "", 40)})
	}
	return results, rows.Err()
}

// Search runs a full-text query over questions and answers. CJK queries use
// substring matching because unicode61 does not segment them.
func (d *DB) Search(ctx context.Context, opts Options) ([]Result, error) {
	if strings.TrimSpace(opts.Query) == "" {
		return d.List(ctx, opts)
	}
	if opts.Limit <= 0 {
		opts.Limit = 100
	}
	if containsCJK(opts.Query) {
		return d.searchLike(ctx, opts)
	}
	return d.searchFTS(ctx, opts)
}

func (d *DB) searchFTS(ctx context.Context, opts Options) ([]Result, error) {
	conditions, args := opts.filters()
	conditions = append([]string{"exchanges_fts MATCH ?"}, conditions...)
	args = append([]any{ftsQuery(opts.Query)}, args...)

	query := fmt.Sprintf(`
		SELECT
			e.id, e.session_id, e.video_url, e.question, e.answer, e.follow_up, e.asked_at,
			snippet(exchanges_fts, -1, '>>>', '<<<', '...', 24) AS snip,
			bm25(exchanges_fts, 2.0, 1.0) AS rank
		FROM exchanges_fts
		JOIN exchanges e ON exchanges_fts.rowid = e.id
		WHERE %s
		ORDER BY rank
		LIMIT ?
	`, strings.Join(conditions, " AND "))
	args = append(args, opts.Limit)

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("search query: %w", err)
	}
	defer rows.Close()

	var results []Result
	for rows.Next() {
		var r Result
		var followUp int
		var askedAt string
		if err := rows.Scan(
			&r.ID, &r.SessionID, &r.VideoURL, &r.Question, &r.Answer, &followUp, &askedAt,
			&r.Snippet, &r.Rank,
		); err != nil {
			return nil, err
		}
		r.FollowUp = followUp != 0
		r.AskedAt = parseTime(askedAt)
		results = append(results, r)
	}
	return results, rows.Err()
}

func (d *DB) searchLike(ctx context.Context, opts Options) ([]Result, error) {
	conditions, args := opts.filters()
	conditions = append([]string{"(e.question LIKE ? OR e.answer LIKE ?)"}, conditions...)
	pattern := "%" + opts.Query + "%"
	args = append([]any{pattern, pattern}, args...)

	query := fmt.Sprintf(`
		SELECT e.id, e.session_id, e.video_url, e.question, e.answer, e.follow_up, e.asked_at
		FROM exchanges e
		WHERE %s
		ORDER BY e.id DESC
		LIMIT ?
	`, strings.Join(conditions, " AND "))
	args = append(args, opts.Limit)

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("search query: %w", err)
	}
	defer rows.Close()

	var results []Result
	for rows.Next() {
		ex, err := scanExchange(rows)
		if err != nil {
			return nil, err
		}
		text := ex.Answer
		if strings.Contains(strings.ToLower(ex.Question), strings.ToLower(opts.Query)) {
			text = ex.Question
		}
		results = append(results, Result{Exchange: *ex, Snippet: makeSnippet(text, opts.Query, 30)})
	}
	return results, rows.Err()
}
