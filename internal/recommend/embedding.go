package recommend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/G1ebS/rosatom-nko-sub000/internal/domain"
)

// MinAPIKeyLength is the shortest key the embedding strategy accepts.
const MinAPIKeyLength = 10

var (
	ErrNoAPIKey          = errors.New("embeddings api key missing or too short")
	ErrModelLoading      = errors.New("embeddings model is loading")
	ErrMalformedResponse = errors.New("malformed embeddings response")
)

// Embedding ranks candidates by cosine similarity between the embedding of
// a synthesised user description and the embedding of each candidate. Any
// failure falls back to the heuristic.
type Embedding struct {
	url          string
	apiKey       string
	http         *http.Client
	loadingDelay time.Duration
	fallback     Heuristic
}

func NewEmbedding(url, apiKey string, loadingDelay time.Duration, fallback Heuristic) (*Embedding, error) {
	if len(strings.TrimSpace(apiKey)) < MinAPIKeyLength {
		return nil, ErrNoAPIKey
	}

	return &Embedding{
		url:          url,
		apiKey:       apiKey,
		http:         &http.Client{Timeout: 30 * time.Second},
		loadingDelay: loadingDelay,
		fallback:     fallback,
	}, nil
}

// New picks the embedding strategy when it is configured and the heuristic
// otherwise.
func New(url, apiKey string, loadingDelay time.Duration, h Heuristic) Strategy {
	if url == "" {
		return h
	}
	e, err := NewEmbedding(url, apiKey, loadingDelay, h)
	if err != nil {
		zap.L().Info("embedding recommendations disabled", zap.Error(err))
		return h
	}

	return e
}

func (e *Embedding) Recommend(ctx context.Context, p Profile, candidates []domain.Organization) Result {
	if len(candidates) == 0 {
		return Result{Organizations: []domain.Organization{}, Strategy: StrategyEmbedding}
	}

	ranked, err := e.Rank(ctx, p, candidates)
	if err != nil {
		zap.L().Warn("embedding ranking failed, falling back to heuristic", zap.Error(err))
		return e.fallback.Recommend(ctx, p, candidates)
	}

	return Result{Organizations: ranked, Strategy: StrategyEmbedding}
}

func (e *Embedding) Rank(ctx context.Context, p Profile, candidates []domain.Organization) ([]domain.Organization, error) {
	texts := make([]string, 0, len(candidates)+1)
	texts = append(texts, UserDescription(p))
	for _, c := range candidates {
		texts = append(texts, CandidateText(c))
	}

	vectors, err := e.embedWithRetry(ctx, texts)
	if err != nil {
		return nil, err
	}
	if len(vectors) == 0 || len(vectors[0]) == 0 {
		return nil, ErrMalformedResponse
	}

	type scored struct {
		org   domain.Organization
		score float64
	}
	list := make([]scored, 0, len(candidates))
	for i, c := range candidates {
		var s float64
		if i+1 < len(vectors) {
			s = Cosine(vectors[0], vectors[i+1])
		}
		list = append(list, scored{org: c, score: s})
	}
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].score > list[j].score
	})

	n := min(Limit, len(list))
	out := make([]domain.Organization, 0, n)
	for _, s := range list[:n] {
		out = append(out, s.org)
	}

	return out, nil
}

// embedWithRetry retries once, after loadingDelay, when the model is still
// loading. Other errors are final.
func (e *Embedding) embedWithRetry(ctx context.Context, texts []string) ([][]float64, error) {
	b := backoff.WithContext(backoff.WithMaxRetries(backoff.NewConstantBackOff(e.loadingDelay), 1), ctx)

	return backoff.RetryNotifyWithData(func() ([][]float64, error) {
		vectors, err := e.embed(ctx, texts)
		if err != nil && !errors.Is(err, ErrModelLoading) {
			return nil, backoff.Permanent(err)
		}
		return vectors, err
	}, b, func(err error, wait time.Duration) {
		zap.L().Info("embeddings model loading, retrying", zap.Duration("wait", wait), zap.Error(err))
	})
}

func (e *Embedding) embed(ctx context.Context, texts []string) ([][]float64, error) {
	body, err := json.Marshal(map[string][]string{"inputs": texts})
	if err != nil {
		return nil, fmt.Errorf("json.Marshal -> %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("http.NewRequestWithContext -> %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+e.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("e.http.Do -> %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("io.ReadAll -> %w", err)
	}

	if resp.StatusCode == http.StatusServiceUnavailable {
		return nil, fmt.Errorf("%w: %s", ErrModelLoading, bytes.TrimSpace(data))
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("embeddings request failed: %d - %s", resp.StatusCode, bytes.TrimSpace(data))
	}

	var vectors [][]float64
	if err = json.Unmarshal(data, &vectors); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}

	return vectors, nil
}

func UserDescription(p Profile) string {
	return fmt.Sprintf("Пользователь интересуется: %s. Город: %s", strings.Join(p.Interests, ", "), p.City)
}

func CandidateText(o domain.Organization) string {
	category := o.Category.Name
	if category == "" {
		category = o.Category.Slug
	}

	return fmt.Sprintf("%s. %s. %s", o.Name, category, o.ShortDescription)
}

// Cosine is the cosine similarity of a and b over their common length, or 0
// when either vector has no magnitude.
func Cosine(a, b []float64) float64 {
	n := min(len(a), len(b))

	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
