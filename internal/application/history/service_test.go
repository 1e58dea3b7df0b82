package history

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"velours-story-api/internal/application/story"
	"velours-story-api/internal/domain/entity"
	"velours-story-api/internal/domain/repository"
)

// memoryRepo 内存仓储,测试专用。
type memoryRepo struct {
	stories        []*entity.GeneratedStoryRecord
	questionnaires map[string]*entity.QuestionnaireRecord
	fantasies      []*entity.SelectedFantasyRecord
	freeTexts      []*entity.FreeTextRecord
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{questionnaires: make(map[string]*entity.QuestionnaireRecord)}
}

func (m *memoryRepo) AppendStory(_ context.Context, record *entity.GeneratedStoryRecord) error {
	record.CreatedAt = time.Now()
	m.stories = append(m.stories, record)
	return nil
}

func (m *memoryRepo) ListStories(_ context.Context, userID string, p repository.Pagination) (*repository.PagedResult[*entity.GeneratedStoryRecord], error) {
	var items []*entity.GeneratedStoryRecord
	for _, st := range m.stories {
		if st.UserID == userID {
			items = append(items, st)
		}
	}
	total := int64(len(items))
	start := p.Offset()
	if start > len(items) {
		start = len(items)
	}
	end := start + p.Limit()
	if end > len(items) {
		end = len(items)
	}
	return repository.NewPagedResult(items[start:end], total, p), nil
}

func (m *memoryRepo) ListAllStories(_ context.Context, userID string) ([]*entity.GeneratedStoryRecord, error) {
	var items []*entity.GeneratedStoryRecord
	for _, st := range m.stories {
		if st.UserID == userID {
			items = append(items, st)
		}
	}
	return items, nil
}

func (m *memoryRepo) UpsertQuestionnaire(_ context.Context, record *entity.QuestionnaireRecord) error {
	record.CompletedAt = time.Now()
	m.questionnaires[record.UserID+"/"+string(record.Kind)] = record
	return nil
}

func (m *memoryRepo) ListQuestionnaires(_ context.Context, userID string) ([]*entity.QuestionnaireRecord, error) {
	var out []*entity.QuestionnaireRecord
	for _, q := range m.questionnaires {
		if q.UserID == userID {
			out = append(out, q)
		}
	}
	return out, nil
}

func (m *memoryRepo) GetQuestionnaire(_ context.Context, userID string, kind entity.QuestionnaireKind) (*entity.QuestionnaireRecord, error) {
	return m.questionnaires[userID+"/"+string(kind)], nil
}

func (m *memoryRepo) AppendFantasies(_ context.Context, records []*entity.SelectedFantasyRecord) error {
	m.fantasies = append(m.fantasies, records...)
	return nil
}

func (m *memoryRepo) ListFantasies(_ context.Context, userID string) ([]*entity.SelectedFantasyRecord, error) {
	var out []*entity.SelectedFantasyRecord
	for _, f := range m.fantasies {
		if f.UserID == userID {
			out = append(out, f)
		}
	}
	return out, nil
}

func (m *memoryRepo) AppendFreeText(_ context.Context, record *entity.FreeTextRecord) error {
	m.freeTexts = append(m.freeTexts, record)
	return nil
}

func (m *memoryRepo) ListFreeTexts(_ context.Context, userID string) ([]*entity.FreeTextRecord, error) {
	var out []*entity.FreeTextRecord
	for _, ft := range m.freeTexts {
		if ft.UserID == userID {
			out = append(out, ft)
		}
	}
	return out, nil
}

func (m *memoryRepo) DeleteUser(_ context.Context, userID string) error {
	var stories []*entity.GeneratedStoryRecord
	for _, st := range m.stories {
		if st.UserID != userID {
			stories = append(stories, st)
		}
	}
	m.stories = stories
	var fantasies []*entity.SelectedFantasyRecord
	for _, f := range m.fantasies {
		if f.UserID != userID {
			fantasies = append(fantasies, f)
		}
	}
	m.fantasies = fantasies
	var freeTexts []*entity.FreeTextRecord
	for _, ft := range m.freeTexts {
		if ft.UserID != userID {
			freeTexts = append(freeTexts, ft)
		}
	}
	m.freeTexts = freeTexts
	for k, q := range m.questionnaires {
		if q.UserID == userID {
			delete(m.questionnaires, k)
		}
	}
	return nil
}

func TestRecordStoryPersistsAllFacets(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo, nil)
	ctx := context.Background()

	req := &story.Request{
		Kind:          entity.StoryKindRandom,
		SelectedKinks: []string{"lingerie", "massage"},
		FantasyText:   "un fantasme décrit",
		ReadingTime:   3,
		Eroticism:     2,
	}
	res := &story.Result{
		Content:  "un récit",
		Metadata: entity.GenerationMetadata{Model: "grok-4-0709", Temperature: 0.8, Seed: 12},
	}
	svc.RecordStory(ctx, "user-1", req, res)

	if len(repo.stories) != 1 {
		t.Fatalf("expected one story record, got %d", len(repo.stories))
	}
	st := repo.stories[0]
	if st.Content != "un récit" || st.Kind != entity.StoryKindRandom {
		t.Errorf("story record mismatch: %+v", st)
	}
	if st.Metadata == nil || st.Metadata.Model != "grok-4-0709" {
		t.Error("generation metadata should be persisted")
	}
	if len(repo.fantasies) != 2 {
		t.Errorf("expected two fantasy records, got %d", len(repo.fantasies))
	}
	if len(repo.freeTexts) != 1 {
		t.Errorf("expected one free text record, got %d", len(repo.freeTexts))
	}
}

func TestRecordStoryUsesEffectiveProfile(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo, nil)
	ctx := context.Background()

	req := &story.Request{
		Kind:    entity.StoryKindRandom,
		Profile: &entity.UserProfile{DominantStyle: entity.StyleVisuel},
	}
	res := &story.Result{
		Content: "un récit",
		Profile: &entity.UserProfile{
			DominantStyle:  entity.StyleAuditif,
			ExcitationType: entity.ExcitationImaginatif,
		},
	}
	svc.RecordStory(ctx, "u", req, res)

	if len(repo.stories) != 1 {
		t.Fatalf("expected 1 story record, got %d", len(repo.stories))
	}
	if repo.stories[0].DominantStyle != "AUDITIF" || repo.stories[0].ExcitationType != "IMAGINATIF" {
		t.Errorf("record must carry the profile in effect at generation time, got %s/%s",
			repo.stories[0].DominantStyle, repo.stories[0].ExcitationType)
	}
}

func TestRecordStorySkipsAnonymous(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo, nil)

	svc.RecordStory(context.Background(), "", &story.Request{Kind: entity.StoryKindFree}, &story.Result{Content: "x"})
	if len(repo.stories) != 0 {
		t.Error("anonymous generations must not be recorded")
	}
}

func TestSaveQuestionnaireValidation(t *testing.T) {
	svc := NewService(newMemoryRepo(), nil)
	ctx := context.Background()

	if _, err := svc.SaveQuestionnaire(ctx, "u", entity.QuestionnaireKind("astro"), nil, entity.QuestionnaireAnswers{"q1": "A"}); err == nil {
		t.Error("unknown questionnaire kind should be rejected")
	}
	if _, err := svc.SaveQuestionnaire(ctx, "u", entity.QuestionnaireSensory, nil, nil); err == nil {
		t.Error("empty answers should be rejected")
	}
	if _, err := svc.SaveQuestionnaire(ctx, "u", entity.QuestionnaireSensory, nil, entity.QuestionnaireAnswers{"q1": "A"}); err != nil {
		t.Errorf("valid questionnaire rejected: %v", err)
	}
}

func TestSaveQuestionnaireOverwrites(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo, nil)
	ctx := context.Background()

	_, _ = svc.SaveQuestionnaire(ctx, "u", entity.QuestionnaireSensory, nil, entity.QuestionnaireAnswers{"q1": "A"})
	_, _ = svc.SaveQuestionnaire(ctx, "u", entity.QuestionnaireSensory, nil, entity.QuestionnaireAnswers{"q1": "B"})

	all, _ := repo.ListQuestionnaires(context.Background(), "u")
	if len(all) != 1 {
		t.Fatalf("same kind should keep a single record, got %d", len(all))
	}
	if all[0].Answers["q1"] != "B" {
		t.Error("latest answers should win")
	}
}

func TestProfileFromQuestionnaires(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo, nil)
	ctx := context.Background()

	_, _ = svc.SaveQuestionnaire(ctx, "u", entity.QuestionnaireSensory, nil,
		entity.QuestionnaireAnswers{"q1": "C", "q2": "C", "q3": "A"})
	_, _ = svc.SaveQuestionnaire(ctx, "u", entity.QuestionnaireExcitation, nil,
		entity.QuestionnaireAnswers{"q1": "D", "q2": "D", "q3": "A"})

	profile, err := svc.ProfileFromQuestionnaires(ctx, "u")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if profile.DominantStyle != entity.StyleAuditif {
		t.Errorf("expected AUDITIF from answers, got %s", profile.DominantStyle)
	}
	if profile.ExcitationType != entity.ExcitationSensoriel {
		t.Errorf("expected SENSORIEL from answers, got %s", profile.ExcitationType)
	}

	empty, err := svc.ProfileFromQuestionnaires(ctx, "nobody")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if empty.DominantStyle != "" || empty.ExcitationType != "" {
		t.Error("missing questionnaires should leave the profile empty")
	}
}

// recordingCache 记录键访问的缓存桩,总是穿透到 loader。
type recordingCache struct {
	requestedKeys  []string
	invalidatedFor []string
}

func (c *recordingCache) GetOrLoadSafe(_ context.Context, key string, _ time.Duration, loader func() (interface{}, error)) ([]byte, error) {
	c.requestedKeys = append(c.requestedKeys, key)
	v, err := loader()
	if err != nil {
		return nil, err
	}
	return json.Marshal(v)
}

func (c *recordingCache) UserStatsKey(userID string) string {
	return "history:stats:" + userID
}

func (c *recordingCache) InvalidateUserHistory(_ context.Context, userID string) error {
	c.invalidatedFor = append(c.invalidatedFor, userID)
	return nil
}

func TestStatsUsesCacheKeyFromPort(t *testing.T) {
	repo := newMemoryRepo()
	cache := &recordingCache{}
	svc := NewService(repo, cache)
	ctx := context.Background()

	svc.RecordStory(ctx, "u", &story.Request{Kind: entity.StoryKindRandom}, &story.Result{Content: "a"})

	if _, err := svc.Stats(ctx, "u"); err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if len(cache.requestedKeys) != 1 || cache.requestedKeys[0] != cache.UserStatsKey("u") {
		t.Errorf("stats must be cached under the port's key, got %v", cache.requestedKeys)
	}
	if len(cache.invalidatedFor) != 1 || cache.invalidatedFor[0] != "u" {
		t.Errorf("write path must invalidate the user's cache, got %v", cache.invalidatedFor)
	}
}

func TestStatsAggregation(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo, nil)
	ctx := context.Background()

	svc.RecordStory(ctx, "u", &story.Request{Kind: entity.StoryKindRandom, SelectedKinks: []string{"massage", "massage"}}, &story.Result{Content: "a"})
	svc.RecordStory(ctx, "u", &story.Request{Kind: entity.StoryKindFree, FantasyText: "texte"}, &story.Result{Content: "b"})
	svc.RecordStory(ctx, "u", &story.Request{Kind: entity.StoryKindRandom}, &story.Result{Content: "c"})

	stats, err := svc.Stats(ctx, "u")
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.TotalStories != 3 {
		t.Errorf("expected 3 stories, got %d", stats.TotalStories)
	}
	if stats.StoriesByType["random"] != 2 || stats.StoriesByType["free"] != 1 {
		t.Errorf("stories by type mismatch: %v", stats.StoriesByType)
	}
	if stats.MostUsedFantasies["massage"] != 2 {
		t.Errorf("fantasy usage mismatch: %v", stats.MostUsedFantasies)
	}
	if stats.TotalFreeTexts != 1 {
		t.Errorf("expected 1 free text, got %d", stats.TotalFreeTexts)
	}
	if stats.LastActivity == nil {
		t.Error("last activity should be set")
	}
}

func TestDeleteUserClearsHistory(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo, nil)
	ctx := context.Background()

	svc.RecordStory(ctx, "u", &story.Request{Kind: entity.StoryKindFree, FantasyText: "x"}, &story.Result{Content: "a"})
	if err := svc.DeleteUser(ctx, "u"); err != nil {
		t.Fatalf("DeleteUser: %v", err)
	}

	history, err := svc.GetHistory(ctx, "u")
	if err != nil {
		t.Fatalf("GetHistory: %v", err)
	}
	if len(history.Stories) != 0 || len(history.FreeTexts) != 0 {
		t.Error("history should be empty after deletion")
	}
	if history.LastUpdated != nil {
		t.Error("empty history has no last activity")
	}
}

func TestDeleteUserKeepsOtherUsers(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo, nil)
	ctx := context.Background()

	svc.RecordStory(ctx, "u1", &story.Request{Kind: entity.StoryKindFree, FantasyText: "x", SelectedKinks: []string{"massage"}}, &story.Result{Content: "a"})
	svc.RecordStory(ctx, "u2", &story.Request{Kind: entity.StoryKindFree, FantasyText: "y", SelectedKinks: []string{"lingerie"}}, &story.Result{Content: "b"})

	if err := svc.DeleteUser(ctx, "u1"); err != nil {
		t.Fatalf("DeleteUser: %v", err)
	}

	history, err := svc.GetHistory(ctx, "u2")
	if err != nil {
		t.Fatalf("GetHistory: %v", err)
	}
	if len(history.Stories) != 1 || len(history.Fantasies) != 1 || len(history.FreeTexts) != 1 {
		t.Errorf("other user's history must survive, got %d/%d/%d records",
			len(history.Stories), len(history.Fantasies), len(history.FreeTexts))
	}
}

func TestGetHistoryNotTruncated(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo, nil)
	ctx := context.Background()

	for i := 0; i < 150; i++ {
		svc.RecordStory(ctx, "u", &story.Request{Kind: entity.StoryKindRandom}, &story.Result{Content: "récit"})
	}

	history, err := svc.GetHistory(ctx, "u")
	if err != nil {
		t.Fatalf("GetHistory: %v", err)
	}
	if len(history.Stories) != 150 {
		t.Errorf("aggregate must return every story, got %d", len(history.Stories))
	}

	export, err := svc.Export(ctx, "u")
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if len(export.Stories) != 150 {
		t.Errorf("export must be complete, got %d", len(export.Stories))
	}
}
