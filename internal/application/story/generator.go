package story

import (
	"context"
	"fmt"
	"time"

	"velours-story-api/internal/config"
	"velours-story-api/internal/domain/entity"
	"velours-story-api/pkg/logger"
	"velours-story-api/pkg/metrics"
)

// Result 一次生成的最终产物:清洗后的正文、生成元数据,
// 以及实际生效的画像(含默认值与问卷推导)。
type Result struct {
	Content  string
	Profile  *entity.UserProfile
	Metadata entity.GenerationMetadata
}

// Generator 故事生成编排器:校验请求、归一化画像、拼装提示、
// 抽样采样参数、调用网关、清洗文本并触发成稿通知。
type Generator struct {
	gateway    CompletionGateway
	dispatcher Dispatcher
	defaults   config.ProfileDefaultsConfig
}

// NewGenerator dispatcher 可为 nil,表示不投递成稿通知。
func NewGenerator(gateway CompletionGateway, dispatcher Dispatcher, defaults config.ProfileDefaultsConfig) *Generator {
	return &Generator{
		gateway:    gateway,
		dispatcher: dispatcher,
		defaults:   defaults,
	}
}

// Generate 执行完整生成流程。任一步失败立即返回,
// 成稿通知在结果返回前异步触发,不阻塞也不影响结果。
func (g *Generator) Generate(ctx context.Context, req *Request) (*Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	profile := NormalizeProfile(req.Profile, g.defaults)
	if len(req.SensoryAnswers) > 0 {
		profile.DominantStyle = ScoreSensoryAnswers(req.SensoryAnswers)
	}
	if len(req.ExcitationAnswers) > 0 {
		profile.ExcitationType = ScoreExcitationAnswers(req.ExcitationAnswers)
	}

	readingTime := req.effectiveReadingTime()
	eroticism := req.effectiveEroticism()

	systemPrompt := BuildSystemPrompt(profile, req.Kind, eroticism)
	userPrompt := BuildUserPrompt(UserPromptInput{
		Profile:       profile,
		SelectedKinks: req.SelectedKinks,
		Situation:     req.Situation,
		Character:     req.Character,
		Place:         req.Place,
		FantasyText:   req.FantasyText,
		CustomPrompt:  req.CustomPrompt,
		ReadingTime:   readingTime,
	}, g.defaults.Orientation)
	if req.Kind == entity.StoryKindGuided {
		userPrompt += "\n" + BuildGuidedAddendum(req.Tone, req.Context, req.Length)
	}

	temperature := SampleTemperature(req.Kind)
	seed := SampleSeed()

	kind := string(req.Kind)
	start := time.Now()
	completion, err := g.gateway.Complete(ctx, CompletionRequest{
		SystemPrompt: systemPrompt,
		UserPrompt:   userPrompt,
		Temperature:  temperature,
		Seed:         seed,
	})
	if err != nil {
		metrics.StoryGenerationTotal.WithLabelValues(kind, "error").Inc()
		logger.FromContext(ctx).Error("story generation failed",
			"kind", kind,
			"error", err,
		)
		return nil, fmt.Errorf("generate %s story: %w", kind, err)
	}

	content := CleanStoryText(completion.Content)
	elapsed := time.Since(start)
	metrics.StoryGenerationTotal.WithLabelValues(kind, "success").Inc()
	metrics.StoryGenerationDuration.WithLabelValues(kind).Observe(elapsed.Seconds())
	metrics.StoryLength.WithLabelValues(kind).Observe(float64(len([]rune(content))))
	logger.FromContext(ctx).Info("story generated",
		"kind", kind,
		"model", completion.Model,
		"fallback", completion.Fallback,
		"duration_ms", elapsed.Milliseconds(),
		"length", len(content),
	)

	if g.dispatcher != nil {
		g.dispatcher.Dispatch(content)
	}

	return &Result{
		Content: content,
		Profile: profile,
		Metadata: entity.GenerationMetadata{
			Model:       completion.Model,
			Fallback:    completion.Fallback,
			Temperature: temperature,
			Seed:        seed,
			GeneratedAt: time.Now().UTC(),
		},
	}, nil
}
