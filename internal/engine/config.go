package engine

import "errors"

// Config holds all pipeline configuration and collaborators, injected from main.
// Tunables default via normalize(); collaborators other than LLM are optional
// (nil VideoSearch disables link resolution, nil Events disables analytics).
type Config struct {
	LLM         ChatCompleter
	VideoSearch VideoSearcher
	Events      EventRecorder

	Model         string // primary completion model
	FallbackModel string // tried when the primary exhausts its attempts
	SanitizeModel string // model used for description cleaning batches

	MaxAttempts         int // attempts per model before moving on
	SampleSize          int // max tracks sampled into the prompt
	SimilarityThreshold int // 0-100; strictly greater rejects a candidate
	SanitizeBatchSize   int // descriptions per cleaning call
	MaxTokens           int // completion cap per recommendation call
}

const (
	defaultFallbackModel       = "gpt-3.5-turbo"
	defaultMaxAttempts         = 3
	defaultSampleSize          = 200
	defaultSimilarityThreshold = 85
	defaultSanitizeBatchSize   = 50
	defaultMaxTokens           = 150
)

func (c *Config) normalize() {
	if c.FallbackModel == "" {
		c.FallbackModel = defaultFallbackModel
	}
	if c.SanitizeModel == "" {
		c.SanitizeModel = c.FallbackModel
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = defaultMaxAttempts
	}
	if c.SampleSize <= 0 {
		c.SampleSize = defaultSampleSize
	}
	if c.SimilarityThreshold <= 0 {
		c.SimilarityThreshold = defaultSimilarityThreshold
	}
	if c.SanitizeBatchSize <= 0 {
		c.SanitizeBatchSize = defaultSanitizeBatchSize
	}
	if c.MaxTokens <= 0 {
		c.MaxTokens = defaultMaxTokens
	}
}

func (c *Config) validate() error {
	if c.LLM == nil {
		return errors.New("engine: text-completion client is required")
	}
	if c.Model == "" {
		return errors.New("engine: primary model is required")
	}
	if c.SimilarityThreshold > 100 {
		return errors.New("engine: similarity threshold must be 1-100")
	}
	return nil
}

// Pipeline is the recommendation pipeline. Construct with NewPipeline;
// safe for concurrent use — all per-invocation state lives in Recommend.
type Pipeline struct {
	cfg Config
}

// NewPipeline validates cfg and returns a ready pipeline.
// Configuration problems surface here, at construction, not mid-request.
func NewPipeline(cfg Config) (*Pipeline, error) {
	cfg.normalize()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &Pipeline{cfg: cfg}, nil
}

// models returns the ordered list of models to try.
func (p *Pipeline) models() []string {
	if p.cfg.FallbackModel == "" || p.cfg.FallbackModel == p.cfg.Model {
		return []string{p.cfg.Model}
	}
	return []string{p.cfg.Model, p.cfg.FallbackModel}
}
