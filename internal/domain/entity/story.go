// Package entity 定义领域实体
package entity

import "time"

// StoryKind 故事请求类型，决定模板模块与必填字段
type StoryKind string

const (
	StoryKindGuided StoryKind = "guided"
	StoryKindRandom StoryKind = "random"
	StoryKindCustom StoryKind = "custom"
	StoryKindFree   StoryKind = "free"
)

// Valid 判断是否为已知请求类型
func (k StoryKind) Valid() bool {
	switch k {
	case StoryKindGuided, StoryKindRandom, StoryKindCustom, StoryKindFree:
		return true
	}
	return false
}

// GenerationMetadata 生成元数据
type GenerationMetadata struct {
	Model       string    `json:"model,omitempty"`
	Fallback    bool      `json:"fallback,omitempty"`
	Temperature float64   `json:"temperature,omitempty"`
	Seed        int       `json:"seed,omitempty"`
	GeneratedAt time.Time `json:"generated_at,omitempty"`
}
