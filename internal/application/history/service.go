// Package history 提供用户历史的应用服务
package history

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"velours-story-api/internal/application/story"
	"velours-story-api/internal/domain/entity"
	"velours-story-api/internal/domain/repository"
	apperrors "velours-story-api/pkg/errors"
	"velours-story-api/pkg/logger"
)

// statsTTL 统计缓存有效期。统计只在写路径后失效,短 TTL 兜底。
const statsTTL = 5 * time.Minute

// StatsCache 历史统计缓存端口,Redis 实现满足该接口。
type StatsCache interface {
	GetOrLoadSafe(ctx context.Context, key string, ttl time.Duration, loader func() (interface{}, error)) ([]byte, error)
	UserStatsKey(userID string) string
	InvalidateUserHistory(ctx context.Context, userID string) error
}

// Service 用户历史服务:故事留痕、问卷存档、聚合查询与统计。
// cache 可为 nil,此时统计直接落库。
type Service struct {
	repo  repository.HistoryRepository
	cache StatsCache
}

// NewService 创建历史服务
func NewService(repo repository.HistoryRepository, cache StatsCache) *Service {
	return &Service{repo: repo, cache: cache}
}

// RecordStory 生成成功后留痕:故事主记录、勾选偏好与自由文本各入各表。
// 留痕失败只记日志,不向上冒泡,生成结果已交付给用户。
func (s *Service) RecordStory(ctx context.Context, userID string, req *story.Request, res *story.Result) {
	if userID == "" {
		return
	}

	record := &entity.GeneratedStoryRecord{
		UserID:        userID,
		Kind:          req.Kind,
		Content:       res.Content,
		ReadingTime:   req.ReadingTime,
		Eroticism:     req.Eroticism,
		SelectedKinks: req.SelectedKinks,
		CustomPrompt:  req.CustomPrompt,
		FreeText:      req.FantasyText,
		Metadata:      &res.Metadata,
	}
	// 取生成时实际生效的画像,问卷推导的风格才会落到记录里
	profile := res.Profile
	if profile == nil {
		profile = req.Profile
	}
	if profile != nil {
		record.DominantStyle = string(profile.DominantStyle)
		record.ExcitationType = string(profile.ExcitationType)
	}
	if err := s.repo.AppendStory(ctx, record); err != nil {
		logger.FromContext(ctx).Error("failed to record story", "user_id", userID, "error", err)
		return
	}

	if len(req.SelectedKinks) > 0 {
		fantasies := make([]*entity.SelectedFantasyRecord, 0, len(req.SelectedKinks))
		for _, kink := range req.SelectedKinks {
			fantasies = append(fantasies, &entity.SelectedFantasyRecord{
				UserID:   userID,
				Category: kink,
				Context:  string(req.Kind),
			})
		}
		if err := s.repo.AppendFantasies(ctx, fantasies); err != nil {
			logger.FromContext(ctx).Warn("failed to record fantasies", "user_id", userID, "error", err)
		}
	}

	if strings.TrimSpace(req.FantasyText) != "" {
		freeText := &entity.FreeTextRecord{
			UserID:  userID,
			Kind:    string(req.Kind),
			Content: req.FantasyText,
		}
		if err := s.repo.AppendFreeText(ctx, freeText); err != nil {
			logger.FromContext(ctx).Warn("failed to record free text", "user_id", userID, "error", err)
		}
	}

	s.invalidate(ctx, userID)
}

// SaveQuestionnaire 存档问卷作答,同一用户同一类型覆盖旧档。
func (s *Service) SaveQuestionnaire(ctx context.Context, userID string, kind entity.QuestionnaireKind, questions []string, answers entity.QuestionnaireAnswers) (*entity.QuestionnaireRecord, error) {
	if kind != entity.QuestionnaireSensory && kind != entity.QuestionnaireExcitation {
		return nil, apperrors.New(apperrors.CodeQuestionnaireInvalid, "unknown questionnaire type").WithDetail(string(kind))
	}
	if len(answers) == 0 {
		return nil, apperrors.New(apperrors.CodeQuestionnaireInvalid, "questionnaire answers are required")
	}

	record := &entity.QuestionnaireRecord{
		UserID:    userID,
		Kind:      kind,
		Questions: questions,
		Answers:   answers,
	}
	if err := s.repo.UpsertQuestionnaire(ctx, record); err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "failed to save questionnaire")
	}

	s.invalidate(ctx, userID)
	return record, nil
}

// ProfileFromQuestionnaires 由已存档问卷推导用户画像偏好,缺档部分留空。
func (s *Service) ProfileFromQuestionnaires(ctx context.Context, userID string) (*entity.UserProfile, error) {
	profile := &entity.UserProfile{}

	sensory, err := s.repo.GetQuestionnaire(ctx, userID, entity.QuestionnaireSensory)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "failed to load sensory questionnaire")
	}
	if sensory != nil {
		profile.DominantStyle = story.ScoreSensoryAnswers(sensory.Answers)
	}

	excitation, err := s.repo.GetQuestionnaire(ctx, userID, entity.QuestionnaireExcitation)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "failed to load excitation questionnaire")
	}
	if excitation != nil {
		profile.ExcitationType = story.ScoreExcitationAnswers(excitation.Answers)
	}

	return profile, nil
}

// ListStories 分页列出用户故事
func (s *Service) ListStories(ctx context.Context, userID string, page, pageSize int) (*repository.PagedResult[*entity.GeneratedStoryRecord], error) {
	result, err := s.repo.ListStories(ctx, userID, repository.NewPagination(page, pageSize))
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "failed to list stories")
	}
	return result, nil
}

// GetHistory 聚合用户全部历史,不分页,导出依赖完整性
func (s *Service) GetHistory(ctx context.Context, userID string) (*entity.UserHistory, error) {
	stories, err := s.repo.ListAllStories(ctx, userID)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "failed to load stories")
	}
	questionnaires, err := s.repo.ListQuestionnaires(ctx, userID)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "failed to load questionnaires")
	}
	fantasies, err := s.repo.ListFantasies(ctx, userID)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "failed to load fantasies")
	}
	freeTexts, err := s.repo.ListFreeTexts(ctx, userID)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "failed to load free texts")
	}

	history := &entity.UserHistory{
		UserID:         userID,
		Stories:        stories,
		Questionnaires: questionnaires,
		Fantasies:      fantasies,
		FreeTexts:      freeTexts,
	}
	history.LastUpdated = lastActivity(history)
	return history, nil
}

// Export 导出用户全部历史,与聚合查询同构。
func (s *Service) Export(ctx context.Context, userID string) (*entity.UserHistory, error) {
	return s.GetHistory(ctx, userID)
}

// Stats 用户历史统计,Redis 缓存加 singleflight 抵挡重复计算。
func (s *Service) Stats(ctx context.Context, userID string) (*entity.UserStats, error) {
	if s.cache == nil {
		return s.computeStats(ctx, userID)
	}

	raw, err := s.cache.GetOrLoadSafe(ctx, s.cache.UserStatsKey(userID), statsTTL, func() (interface{}, error) {
		return s.computeStats(ctx, userID)
	})
	if err != nil {
		// 缓存不可用时退回直查
		logger.FromContext(ctx).Warn("stats cache unavailable, falling back to direct query",
			"user_id", userID, "error", err)
		return s.computeStats(ctx, userID)
	}

	var stats entity.UserStats
	if err := json.Unmarshal(raw, &stats); err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeCacheError, "failed to decode cached stats")
	}
	return &stats, nil
}

// DeleteUser 删除用户全部历史并使缓存失效
func (s *Service) DeleteUser(ctx context.Context, userID string) error {
	if err := s.repo.DeleteUser(ctx, userID); err != nil {
		return apperrors.Wrap(err, apperrors.CodeDatabaseError, "failed to delete user history")
	}
	s.invalidate(ctx, userID)
	return nil
}

func (s *Service) computeStats(ctx context.Context, userID string) (*entity.UserStats, error) {
	history, err := s.GetHistory(ctx, userID)
	if err != nil {
		return nil, err
	}

	stats := &entity.UserStats{
		TotalStories:            len(history.Stories),
		TotalFantasies:          len(history.Fantasies),
		TotalFreeTexts:          len(history.FreeTexts),
		QuestionnairesCompleted: len(history.Questionnaires),
		StoriesByType:           make(map[string]int),
		MostUsedFantasies:       make(map[string]int),
	}
	for _, st := range history.Stories {
		stats.StoriesByType[string(st.Kind)]++
	}
	for _, f := range history.Fantasies {
		stats.MostUsedFantasies[f.Category]++
	}
	stats.LastActivity = lastActivity(history)
	return stats, nil
}

func (s *Service) invalidate(ctx context.Context, userID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateUserHistory(ctx, userID); err != nil {
		logger.FromContext(ctx).Warn("failed to invalidate history cache", "user_id", userID, "error", err)
	}
}

// lastActivity 取各表最新时间戳
func lastActivity(h *entity.UserHistory) *time.Time {
	var latest time.Time
	consider := func(t time.Time) {
		if t.After(latest) {
			latest = t
		}
	}
	for _, st := range h.Stories {
		consider(st.CreatedAt)
	}
	for _, q := range h.Questionnaires {
		consider(q.CompletedAt)
	}
	for _, f := range h.Fantasies {
		consider(f.CreatedAt)
	}
	for _, ft := range h.FreeTexts {
		consider(ft.CreatedAt)
	}
	if latest.IsZero() {
		return nil
	}
	return &latest
}
