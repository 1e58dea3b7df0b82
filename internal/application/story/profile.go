package story

import (
	"fmt"
	"strings"

	"velours-story-api/internal/config"
	"velours-story-api/internal/domain/entity"
)

// sensoryAnswerStyles 感官问卷答案到主导风格的映射。
var sensoryAnswerStyles = map[string]entity.DominantStyle{
	"A": entity.StyleVisuel,
	"B": entity.StyleSensoriel,
	"C": entity.StyleAuditif,
}

// excitationAnswerTypes 兴奋问卷答案到兴奋类型的映射。
var excitationAnswerTypes = map[string]entity.ExcitationType{
	"A": entity.ExcitationEmotionnel,
	"B": entity.ExcitationImaginatif,
	"C": entity.ExcitationDominanceDouce,
	"D": entity.ExcitationSensoriel,
}

// ScoreSensoryAnswers 多数票决出主导风格。未知答案忽略,
// 平票或无有效答案时回退 VISUEL。
func ScoreSensoryAnswers(answers entity.QuestionnaireAnswers) entity.DominantStyle {
	counts := make(map[entity.DominantStyle]int, 3)
	for _, raw := range answers {
		if style, ok := sensoryAnswerStyles[strings.ToUpper(strings.TrimSpace(raw))]; ok {
			counts[style]++
		}
	}
	best := entity.StyleVisuel
	bestCount := counts[entity.StyleVisuel]
	for _, style := range []entity.DominantStyle{entity.StyleSensoriel, entity.StyleAuditif} {
		if counts[style] > bestCount {
			best, bestCount = style, counts[style]
		}
	}
	return best
}

// ScoreExcitationAnswers 多数票决出兴奋类型,回退 ÉMOTIONNEL。
func ScoreExcitationAnswers(answers entity.QuestionnaireAnswers) entity.ExcitationType {
	counts := make(map[entity.ExcitationType]int, 4)
	for _, raw := range answers {
		if typ, ok := excitationAnswerTypes[strings.ToUpper(strings.TrimSpace(raw))]; ok {
			counts[typ]++
		}
	}
	best := entity.ExcitationEmotionnel
	bestCount := counts[entity.ExcitationEmotionnel]
	for _, typ := range []entity.ExcitationType{
		entity.ExcitationImaginatif,
		entity.ExcitationDominanceDouce,
		entity.ExcitationSensoriel,
	} {
		if counts[typ] > bestCount {
			best, bestCount = typ, counts[typ]
		}
	}
	return best
}

// NormalizeProfile 用配置默认值补齐画像缺失字段,返回副本,不修改入参。
// nil 画像视为全默认画像。
func NormalizeProfile(p *entity.UserProfile, defaults config.ProfileDefaultsConfig) *entity.UserProfile {
	out := entity.UserProfile{}
	if p != nil {
		out = *p
	}
	if strings.TrimSpace(out.Name) == "" {
		out.Name = defaults.Name
	}
	if strings.TrimSpace(out.Gender) == "" {
		out.Gender = defaults.Gender
	}
	if strings.TrimSpace(out.Orientation) == "" {
		out.Orientation = defaults.Orientation
	}
	if out.DominantStyle == "" {
		out.DominantStyle = entity.DominantStyle(defaults.DominantStyle)
	}
	if out.ExcitationType == "" {
		out.ExcitationType = entity.ExcitationType(defaults.ExcitationType)
	}
	return &out
}

// EroticismForTone 语气映射露骨档位:doux=1,passionne=3,其余 2。
func EroticismForTone(tone string) int {
	switch strings.ToLower(strings.TrimSpace(tone)) {
	case "doux":
		return 1
	case "passionne", "passionné":
		return 3
	default:
		return 2
	}
}

// ReadingTimeForLength 篇幅映射朗读分钟数,未知值取最长档。
func ReadingTimeForLength(length string) int {
	switch strings.ToLower(strings.TrimSpace(length)) {
	case "short":
		return 2
	case "medium":
		return 3
	case "long":
		return 5
	default:
		return 5
	}
}

// toneDescriptions 引导式故事的语气描述。
var toneDescriptions = map[string]string{
	"doux":      "tendre et enveloppant, tout en douceur et en patience",
	"sensuel":   "sensuel et charnel, attentif à chaque sensation",
	"passionne": "passionné et intense, porté par l'urgence du désir",
}

// contextDescriptions 引导式故事的情境描述。
var contextDescriptions = map[string]string{
	"soir":    "un récit du soir, pour accompagner l'endormissement",
	"detente": "un moment de détente volé au quotidien",
	"couple":  "un moment partagé, pensé pour être écouté à deux",
}

// BuildGuidedAddendum 引导式故事附加在用户提示后的画像参数段。
func BuildGuidedAddendum(tone, storyContext, length string) string {
	toneDesc, ok := toneDescriptions[strings.ToLower(strings.TrimSpace(tone))]
	if !ok {
		toneDesc = toneDescriptions["sensuel"]
	}
	ctxDesc, ok := contextDescriptions[strings.ToLower(strings.TrimSpace(storyContext))]
	if !ok {
		ctxDesc = contextDescriptions["detente"]
	}
	minutes := ReadingTimeForLength(length)
	return fmt.Sprintf(`
PARAMÈTRES DU PROFIL :
- Ton du récit : %s.
- Contexte d'écoute : %s.
- Durée visée : environ %d minutes de lecture à voix haute.
La progression suit ces paramètres du premier au dernier paragraphe.`, toneDesc, ctxDesc, minutes)
}
