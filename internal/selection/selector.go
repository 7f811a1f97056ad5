package selection

import (
	"context"
	"errors"
	"log/slog"
	"math/rand"
	"sync"

	"mockquiz-service/internal/models"
	"mockquiz-service/internal/repository"
)

// ErrNoQuestions means no requested subject produced any candidate
// questions, so there is nothing to build a quiz from.
var ErrNoQuestions = errors.New("no questions found for the requested subjects and chapters")

// maxInClauseValues caps how many chapters go into a single store query.
// Wider chapter filters are split into concurrent queries of this size.
const maxInClauseValues = 10

// Selector picks quiz questions per subject, preferring questions the
// student has not seen in any previous quiz.
type Selector struct {
	questions repository.QuestionStore
	usage     repository.UsageStore
	rng       *rand.Rand
	logger    *slog.Logger
}

// NewSelector builds a Selector. rng drives the shuffle; pass a seeded
// source in tests for deterministic picks, or nil for the global source.
func NewSelector(questions repository.QuestionStore, usage repository.UsageStore, rng *rand.Rand, logger *slog.Logger) *Selector {
	if logger == nil {
		logger = slog.Default()
	}
	return &Selector{questions: questions, usage: usage, rng: rng, logger: logger}
}

// Select fills each subject request independently. Subjects with an empty
// candidate pool are skipped; only a fully empty run is an error. A
// subject can return fewer questions than requested when the pool is
// smaller than the ask.
func (s *Selector) Select(ctx context.Context, userID string, requests []SubjectRequest) (*Result, error) {
	result := &Result{}
	for _, req := range requests {
		if req.Count <= 0 {
			continue
		}
		picked, err := s.selectForSubject(ctx, userID, req)
		if err != nil {
			return nil, err
		}
		if len(picked) == 0 {
			s.logger.Warn("no questions available for subject, skipping",
				"user_id", userID,
				"subject", req.Subject,
				"chapters", len(req.Chapters))
			continue
		}
		result.Selected = append(result.Selected, picked...)
		result.SubjectsProcessed++
	}
	if len(result.Selected) == 0 {
		return nil, ErrNoQuestions
	}
	return result, nil
}

func (s *Selector) selectForSubject(ctx context.Context, userID string, req SubjectRequest) ([]models.Question, error) {
	pool, err := s.fetchPool(ctx, req.Subject, req.Chapters)
	if err != nil {
		return nil, err
	}
	if len(pool) == 0 {
		return nil, nil
	}

	usage, err := s.usage.FindByUserAndSubject(ctx, userID, req.Subject)
	if err != nil {
		return nil, err
	}
	used := usage.UsedSet()

	var unseen, seen []models.Question
	for _, q := range pool {
		if used[q.ID] {
			seen = append(seen, q)
		} else {
			unseen = append(unseen, q)
		}
	}
	s.shuffle(unseen)
	s.shuffle(seen)

	picked := make([]models.Question, 0, req.Count)
	for _, q := range unseen {
		if len(picked) == req.Count {
			break
		}
		q.ApplyDefaults()
		picked = append(picked, q)
	}
	for _, q := range seen {
		if len(picked) == req.Count {
			break
		}
		q.ApplyDefaults()
		picked = append(picked, q)
	}

	if len(picked) < req.Count {
		s.logger.Info("subject pool smaller than requested count",
			"subject", req.Subject,
			"requested", req.Count,
			"available", len(picked))
	}
	return picked, nil
}

// fetchPool loads all candidates for a subject. Chapter filters wider than
// maxInClauseValues are split into chunks queried concurrently; results are
// deduplicated by question ID since retries and overlapping data can
// surface the same document twice.
func (s *Selector) fetchPool(ctx context.Context, subject string, chapters []string) ([]models.Question, error) {
	if len(chapters) == 0 {
		return s.dedupe(s.questions.FindBySubject(ctx, subject))
	}

	chunks := chunkChapters(chapters, maxInClauseValues)
	if len(chunks) == 1 {
		return s.dedupe(s.questions.FindBySubjectAndChapters(ctx, subject, chunks[0]))
	}

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		pool     []models.Question
		firstErr error
	)
	for _, chunk := range chunks {
		wg.Add(1)
		go func(chapters []string) {
			defer wg.Done()
			qs, err := s.questions.FindBySubjectAndChapters(ctx, subject, chapters)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if firstErr == nil {
					firstErr = err
				}
				return
			}
			pool = append(pool, qs...)
		}(chunk)
	}
	wg.Wait()
	if firstErr != nil {
		return nil, firstErr
	}
	return s.dedupe(pool, nil)
}

func (s *Selector) dedupe(pool []models.Question, err error) ([]models.Question, error) {
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool, len(pool))
	out := pool[:0]
	for _, q := range pool {
		if seen[q.ID] {
			continue
		}
		seen[q.ID] = true
		out = append(out, q)
	}
	return out, nil
}

func (s *Selector) shuffle(qs []models.Question) {
	swap := func(i, j int) { qs[i], qs[j] = qs[j], qs[i] }
	if s.rng != nil {
		s.rng.Shuffle(len(qs), swap)
		return
	}
	rand.Shuffle(len(qs), swap)
}

func chunkChapters(chapters []string, size int) [][]string {
	var chunks [][]string
	for start := 0; start < len(chapters); start += size {
		end := start + size
		if end > len(chapters) {
			end = len(chapters)
		}
		chunks = append(chunks, chapters[start:end])
	}
	return chunks
}
