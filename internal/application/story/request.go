package story

import (
	"errors"
	"fmt"
	"strings"

	"velours-story-api/internal/domain/entity"
)

// ValidationError 请求校验失败,Field 指向第一个缺失或非法的字段。
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid story request: field %q %s", e.Field, e.Reason)
}

// IsValidationError 判断错误链中是否存在校验错误。
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// Request 一次故事生成请求。不同类型使用不同的字段子集,
// 模板分支会解引用的字段必须齐备,校验在 Validate 完成。
type Request struct {
	UserID  string
	Kind    entity.StoryKind
	Profile *entity.UserProfile

	// 引导式
	Tone              string
	Context           string
	Length            string
	SensoryAnswers    entity.QuestionnaireAnswers
	ExcitationAnswers entity.QuestionnaireAnswers

	// 随机式
	SelectedKinks []string

	// 定制式
	Situation string
	Character string
	Place     string

	// 自由式
	FantasyText string

	CustomPrompt string
	ReadingTime  int
	Eroticism    int
}

// Validate 校验请求完整性。越界的露骨档位不在此报错,
// 模板拼装时统一回退第 2 档。
func (r *Request) Validate() error {
	if !r.Kind.Valid() {
		return &ValidationError{Field: "kind", Reason: "must be one of guided, random, custom, free"}
	}
	if r.ReadingTime < 0 {
		return &ValidationError{Field: "reading_time", Reason: "must not be negative"}
	}

	switch r.Kind {
	case entity.StoryKindGuided:
		if strings.TrimSpace(r.Tone) == "" {
			return &ValidationError{Field: "tone", Reason: "is required for guided stories"}
		}
		if strings.TrimSpace(r.Context) == "" {
			return &ValidationError{Field: "context", Reason: "is required for guided stories"}
		}
		if strings.TrimSpace(r.Length) == "" {
			return &ValidationError{Field: "length", Reason: "is required for guided stories"}
		}
	case entity.StoryKindCustom:
		if strings.TrimSpace(r.Situation) == "" {
			return &ValidationError{Field: "situation", Reason: "is required for custom stories"}
		}
		if strings.TrimSpace(r.Character) == "" {
			return &ValidationError{Field: "character", Reason: "is required for custom stories"}
		}
		if strings.TrimSpace(r.Place) == "" {
			return &ValidationError{Field: "place", Reason: "is required for custom stories"}
		}
	case entity.StoryKindFree:
		if strings.TrimSpace(r.FantasyText) == "" {
			return &ValidationError{Field: "fantasy_text", Reason: "is required for free stories"}
		}
	}
	return nil
}

// effectiveReadingTime 未指定时按类型取默认:引导式由篇幅推导,其余 2 分钟。
func (r *Request) effectiveReadingTime() int {
	if r.ReadingTime > 0 {
		return r.ReadingTime
	}
	if r.Kind == entity.StoryKindGuided {
		return ReadingTimeForLength(r.Length)
	}
	return 2
}

// effectiveEroticism 未指定时引导式由语气推导,其余取均衡档。
func (r *Request) effectiveEroticism() int {
	if r.Eroticism != 0 {
		return r.Eroticism
	}
	if r.Kind == entity.StoryKindGuided {
		return EroticismForTone(r.Tone)
	}
	return 2
}
