// Package dto 提供 HTTP 层数据传输对象
package dto

import (
	"velours-story-api/internal/application/story"
	"velours-story-api/internal/domain/entity"
)

// PersonalInfo 请求中的用户画像字段
type PersonalInfo struct {
	Name        string `json:"name"`
	Gender      string `json:"gender"`
	Orientation string `json:"orientation"`
	Tone        string `json:"tone"`
	Context     string `json:"context"`
	Length      string `json:"length"`
}

// GenerateStoryRequest 故事生成请求
type GenerateStoryRequest struct {
	Type              string            `json:"type" binding:"required"`
	UserID            string            `json:"user_id"`
	PersonalInfo      *PersonalInfo     `json:"personal_info"`
	DominantStyle     string            `json:"dominant_style"`
	ExcitationType    string            `json:"excitation_type"`
	SensoryAnswers    map[string]string `json:"sensory_answers"`
	ExcitationAnswers map[string]string `json:"excitation_answers"`
	SelectedKinks     []string          `json:"selected_kinks"`
	Situation         string            `json:"situation"`
	Character         string            `json:"character"`
	Place             string            `json:"place"`
	FantasyText       string            `json:"fantasy_text"`
	CustomPrompt      string            `json:"custom_prompt"`
	ReadingTime       int               `json:"reading_time"`
	EroticismLevel    int               `json:"eroticism_level"`
}

// ToApplication 转换为应用层请求
func (r *GenerateStoryRequest) ToApplication() *story.Request {
	req := &story.Request{
		UserID:            r.UserID,
		Kind:              entity.StoryKind(r.Type),
		SensoryAnswers:    entity.QuestionnaireAnswers(r.SensoryAnswers),
		ExcitationAnswers: entity.QuestionnaireAnswers(r.ExcitationAnswers),
		SelectedKinks:     r.SelectedKinks,
		Situation:         r.Situation,
		Character:         r.Character,
		Place:             r.Place,
		FantasyText:       r.FantasyText,
		CustomPrompt:      r.CustomPrompt,
		ReadingTime:       r.ReadingTime,
		Eroticism:         r.EroticismLevel,
	}

	profile := &entity.UserProfile{
		DominantStyle:  entity.DominantStyle(r.DominantStyle),
		ExcitationType: entity.ExcitationType(r.ExcitationType),
	}
	if r.PersonalInfo != nil {
		profile.Name = r.PersonalInfo.Name
		profile.Gender = r.PersonalInfo.Gender
		profile.Orientation = r.PersonalInfo.Orientation
		req.Tone = r.PersonalInfo.Tone
		req.Context = r.PersonalInfo.Context
		req.Length = r.PersonalInfo.Length
	}
	req.Profile = profile

	return req
}

// GenerationMetadata 响应中的生成元数据
type GenerationMetadata struct {
	Model       string  `json:"model"`
	Fallback    bool    `json:"fallback"`
	Temperature float64 `json:"temperature"`
	Seed        int     `json:"seed"`
	GeneratedAt string  `json:"generated_at"`
}

// GenerateStoryResponse 故事生成响应
type GenerateStoryResponse struct {
	Story    string              `json:"story"`
	Type     string              `json:"type"`
	Metadata *GenerationMetadata `json:"metadata,omitempty"`
}

// NewGenerateStoryResponse 由应用层结果构建响应
func NewGenerateStoryResponse(kind string, res *story.Result) *GenerateStoryResponse {
	return &GenerateStoryResponse{
		Story: res.Content,
		Type:  kind,
		Metadata: &GenerationMetadata{
			Model:       res.Metadata.Model,
			Fallback:    res.Metadata.Fallback,
			Temperature: res.Metadata.Temperature,
			Seed:        res.Metadata.Seed,
			GeneratedAt: res.Metadata.GeneratedAt.Format("2006-01-02T15:04:05Z07:00"),
		},
	}
}
