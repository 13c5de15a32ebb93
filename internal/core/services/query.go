package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/debaditya-mohankudo/get-insights-from-notification-mails-using-llm/internal/core/domain"
	"github.com/debaditya-mohankudo/get-insights-from-notification-mails-using-llm/internal/core/ports/driven"
	"github.com/debaditya-mohankudo/get-insights-from-notification-mails-using-llm/internal/core/ports/driving"
	"github.com/debaditya-mohankudo/get-insights-from-notification-mails-using-llm/internal/logger"
)

// Ensure QueryService implements the interface.
var _ driving.QueryService = (*QueryService)(nil)

const (
	// defaultSearchLimit is the result count when the caller asks for none.
	defaultSearchLimit = 10

	// defaultAskContext is how many records back a generated answer.
	defaultAskContext = 5

	// contextBytesPerRecord caps each record's contribution to a prompt so
	// a handful of giant merged bodies cannot blow the context window.
	contextBytesPerRecord = 5000
)

// Exact-match weights, per query token. A token can earn each weight at
// most once: tags are the strongest signal, then hard references (PR
// numbers, tickets, commits), then plain text overlap.
const (
	tagWeight       = 3
	referenceWeight = 2
	textWeight      = 1
)

// contextInstructions frames every generated answer. The model must answer
// from the retrieved emails alone, not from what it knows of the projects.
const contextInstructions = "You are an assistant answering questions about engineering work from archived pull-request emails. Use ONLY the context."

const askPromptFormat = contextInstructions + `

Context:
%s

Question: %s

Answer concisely. Point out what the relevant emails are about, the
actions they ask for (merge, review, security fix, bug fix) and the
actionable insight.`

// QueryService answers free-text queries and questions over the indexed
// records: exact-match scoring first, vector similarity to fill the rest,
// and the LLM on top for ask and chat.
type QueryService struct {
	records  driven.RecordStore
	vectors  driven.VectorIndex
	embedder driven.EmbeddingService
	llm      driven.LLMService
	history  driven.HistoryStore
}

// NewQueryService creates a query service. The embedder, llm and history
// stores are optional: without an embedder search degrades to exact
// matching, and without an llm Ask and Chat are unavailable.
func NewQueryService(
	records driven.RecordStore,
	vectors driven.VectorIndex,
	embedder driven.EmbeddingService,
	llm driven.LLMService,
	history driven.HistoryStore,
) *QueryService {
	return &QueryService{
		records:  records,
		vectors:  vectors,
		embedder: embedder,
		llm:      llm,
		history:  history,
	}
}

// Search ranks records for a free-text query. Records hit by the exact
// scorer come first, by score then store order; vector neighbours fill the
// remaining slots. A dead embedding service degrades to exact-only.
func (s *QueryService) Search(ctx context.Context, query string, opts domain.SearchOptions) ([]domain.SearchResult, error) {
	logger.Section("Search")
	logger.Debug("Query: %q", query)

	query = strings.TrimSpace(query)
	if query == "" {
		return []domain.SearchResult{}, nil
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	records, err := s.records.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("load records: %w", err)
	}
	if len(records) == 0 {
		logger.Debug("Record store is empty")
		return []domain.SearchResult{}, nil
	}

	var results []domain.SearchResult
	selected := make(map[string]struct{})

	if !opts.SemanticOnly {
		results = exactMatches(records, query, limit)
		for _, r := range results {
			selected[r.Record.ID] = struct{}{}
		}
		logger.Debug("Exact matches: %d", len(results))
	}

	if len(results) < limit {
		semantic, err := s.semanticFill(ctx, records, query, limit-len(results), selected)
		if err != nil {
			if opts.SemanticOnly {
				return nil, err
			}
			logger.Warn("Semantic search unavailable: %v", err)
		}
		results = append(results, semantic...)
	}

	if results == nil {
		results = []domain.SearchResult{}
	}
	logger.Info("Search results: %d", len(results))
	return results, nil
}

// Ask retrieves the k best-matching records and has the LLM answer the
// question from them alone.
func (s *QueryService) Ask(ctx context.Context, question string, k int) (domain.Answer, error) {
	if s.llm == nil {
		return domain.Answer{}, domain.ErrLLMUnavailable
	}
	question = strings.TrimSpace(question)
	if question == "" {
		return domain.Answer{}, fmt.Errorf("%w: empty question", domain.ErrInvalidInput)
	}
	if k <= 0 {
		k = defaultAskContext
	}

	logger.Section("Ask")

	results, err := s.Search(ctx, question, domain.SearchOptions{Limit: k})
	if err != nil {
		return domain.Answer{}, err
	}

	prompt := fmt.Sprintf(askPromptFormat, buildContext(results), question)
	logger.Debug("Prompt: %d bytes over %d context records", len(prompt), len(results))

	text, err := s.llm.Generate(ctx, prompt)
	if err != nil {
		return domain.Answer{}, fmt.Errorf("generate answer: %w", err)
	}

	return domain.Answer{Text: text, Sources: results}, nil
}

// Chat is Ask with conversation memory: the stored turns are replayed
// before the new question, and the exchange is appended afterwards.
func (s *QueryService) Chat(ctx context.Context, conversationID, question string) (domain.Answer, error) {
	if s.llm == nil {
		return domain.Answer{}, domain.ErrLLMUnavailable
	}
	if s.history == nil {
		return domain.Answer{}, fmt.Errorf("%w: no history store", domain.ErrStoreUnavailable)
	}
	if conversationID == "" {
		return domain.Answer{}, fmt.Errorf("%w: empty conversation ID", domain.ErrInvalidInput)
	}
	question = strings.TrimSpace(question)
	if question == "" {
		return domain.Answer{}, fmt.Errorf("%w: empty question", domain.ErrInvalidInput)
	}

	logger.Section("Chat")
	logger.Debug("Conversation: %s", conversationID)

	turns, err := s.history.Turns(ctx, conversationID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return domain.Answer{}, fmt.Errorf("load conversation: %w", err)
	}
	logger.Debug("Replaying %d stored turns", len(turns))

	results, err := s.Search(ctx, question, domain.SearchOptions{Limit: defaultAskContext})
	if err != nil {
		return domain.Answer{}, err
	}

	msgs := make([]driven.ChatMessage, 0, len(turns)+2)
	msgs = append(msgs, driven.ChatMessage{
		Role:    "system",
		Content: contextInstructions + "\n\nContext:\n" + buildContext(results),
	})
	for _, turn := range turns {
		msgs = append(msgs, driven.ChatMessage{Role: turn.Role, Content: turn.Content})
	}
	msgs = append(msgs, driven.ChatMessage{Role: domain.RoleUser, Content: question})

	text, err := s.llm.Chat(ctx, msgs)
	if err != nil {
		return domain.Answer{}, fmt.Errorf("generate answer: %w", err)
	}

	s.appendExchange(ctx, conversationID, question, text)
	return domain.Answer{Text: text, Sources: results}, nil
}

// appendExchange stores the question and answer. Best effort: the caller
// already has the answer, so a history failure only logs.
func (s *QueryService) appendExchange(ctx context.Context, conversationID, question, answer string) {
	if err := s.history.Append(ctx, conversationID, domain.ChatTurn{Role: domain.RoleUser, Content: question}); err != nil {
		logger.Warn("Failed to store user turn: %v", err)
		return
	}
	if err := s.history.Append(ctx, conversationID, domain.ChatTurn{Role: domain.RoleAssistant, Content: answer}); err != nil {
		logger.Warn("Failed to store assistant turn: %v", err)
	}
}

// semanticFill returns up to k vector neighbours of the query, skipping
// records already selected by the exact pass.
func (s *QueryService) semanticFill(ctx context.Context, records []domain.Record, query string, k int, selected map[string]struct{}) ([]domain.SearchResult, error) {
	if s.embedder == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}
	if s.vectors == nil || s.vectors.Len() == 0 {
		return nil, domain.ErrVectorIndexUnavailable
	}

	qvec, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	// Ask for extra neighbours to cover the already-selected ones.
	hits, err := s.vectors.Search(qvec, k+len(selected))
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}
	logger.Debug("Vector search: %d hits", len(hits))

	byID := make(map[string]*domain.Record, len(records))
	for i := range records {
		byID[records[i].ID] = &records[i]
	}

	out := make([]domain.SearchResult, 0, k)
	for _, hit := range hits {
		if len(out) >= k {
			break
		}
		if _, dup := selected[hit.ID]; dup {
			continue
		}
		rec, ok := byID[hit.ID]
		if !ok {
			// Vector for a record that no longer exists.
			continue
		}
		out = append(out, domain.SearchResult{
			Record: *rec,
			Score:  1 / (1 + float64(hit.Score)),
			Origin: domain.OriginSemantic,
		})
	}
	return out, nil
}

// scoredRecord pairs a record's position in the store with its exact score.
type scoredRecord struct {
	idx   int
	score float64
}

// exactMatches scores every record against the query tokens and returns
// the positive ones, best first. Equal scores keep store order.
func exactMatches(records []domain.Record, query string, limit int) []domain.SearchResult {
	tokens := queryTokens(query)
	if len(tokens) == 0 {
		return nil
	}

	var scored []scoredRecord
	for i := range records {
		if sc := exactScore(&records[i], tokens); sc > 0 {
			scored = append(scored, scoredRecord{idx: i, score: sc})
		}
	}

	sort.SliceStable(scored, func(a, b int) bool { return scored[a].score > scored[b].score })

	if limit < len(scored) {
		scored = scored[:limit]
	}
	out := make([]domain.SearchResult, len(scored))
	for n, sr := range scored {
		out[n] = domain.SearchResult{
			Record: records[sr.idx],
			Score:  sr.score,
			Origin: domain.OriginExact,
		}
	}
	return out
}

// queryTokens lowercases and splits the query, keeps tokens longer than
// two characters and strips the '#' off PR-number references.
func queryTokens(query string) []string {
	fields := strings.Fields(strings.ToLower(query))
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if len(f) <= 2 {
			continue
		}
		if rest, ok := strings.CutPrefix(f, "#"); ok && isDigits(rest) {
			f = rest
		}
		tokens = append(tokens, f)
	}
	return tokens
}

func exactScore(rec *domain.Record, tokens []string) float64 {
	var score float64
	for _, tok := range tokens {
		if matchesTag(rec, tok) {
			score += tagWeight
		}
		if matchesReference(rec, tok) {
			score += referenceWeight
		}
		if matchesText(rec, tok) {
			score += textWeight
		}
	}
	return score
}

// matchesTag reports whether the token equals one of the record's tags.
func matchesTag(rec *domain.Record, tok string) bool {
	for _, tag := range rec.Tags {
		if strings.EqualFold(tag, tok) {
			return true
		}
	}
	return false
}

// matchesReference reports whether the token names a PR number, a ticket
// or a commit. Commit references need at least seven hex characters, the
// short-SHA length.
func matchesReference(rec *domain.Record, tok string) bool {
	if isDigits(tok) {
		if n, err := strconv.Atoi(tok); err == nil && rec.HasPR(n) {
			return true
		}
	}
	for _, ticket := range rec.Tickets {
		if strings.EqualFold(ticket, tok) {
			return true
		}
	}
	if len(tok) >= 7 && isHex(tok) {
		for _, c := range rec.Commits {
			if strings.HasPrefix(strings.ToLower(c.SHA), tok) {
				return true
			}
		}
	}
	return false
}

// matchesText reports whether the token appears as a title word, equals a
// file segment, is contained in a repo name or names a contributor.
func matchesText(rec *domain.Record, tok string) bool {
	for _, word := range strings.Fields(strings.ToLower(rec.PRTitle)) {
		if strings.Trim(word, ".,:;!?") == tok {
			return true
		}
	}
	for _, seg := range rec.FilesModified {
		if strings.EqualFold(seg, tok) {
			return true
		}
	}
	for _, repo := range rec.Repos {
		if strings.Contains(strings.ToLower(repo), tok) {
			return true
		}
	}
	for _, c := range rec.Contributors {
		if strings.EqualFold(strings.TrimPrefix(c, "@"), strings.TrimPrefix(tok, "@")) {
			return true
		}
	}
	return false
}

// buildContext renders the retrieved records into numbered blocks: the
// mail headers, then the composed full text capped per record.
func buildContext(results []domain.SearchResult) string {
	if len(results) == 0 {
		return "(no matching emails)"
	}

	var b strings.Builder
	for i := range results {
		rec := &results[i].Record
		fmt.Fprintf(&b, "--- EMAIL %d ---\n", i+1)
		fmt.Fprintf(&b, "Subject: %s\n", rec.Subject)
		if rec.Sender != "" {
			fmt.Fprintf(&b, "From: %s\n", rec.Sender)
		}
		if rec.Date != "" {
			fmt.Fprintf(&b, "Date: %s\n", rec.Date)
		}
		b.WriteString("\n")
		b.WriteString(truncate(rec.FullText(), contextBytesPerRecord))
		b.WriteString("\n\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// isHex expects its input already lowercased.
func isHex(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
		case r >= 'a' && r <= 'f':
		default:
			return false
		}
	}
	return true
}
