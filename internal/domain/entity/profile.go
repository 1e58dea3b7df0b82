// Package entity 定义领域实体
package entity

// DominantStyle 主导感官风格，由感官问卷多数票得出
type DominantStyle string

const (
	StyleVisuel    DominantStyle = "VISUEL"
	StyleSensoriel DominantStyle = "SENSORIEL"
	StyleAuditif   DominantStyle = "AUDITIF"
)

// ExcitationType 兴奋类型，由兴奋问卷多数票得出
type ExcitationType string

const (
	ExcitationEmotionnel     ExcitationType = "ÉMOTIONNEL"
	ExcitationImaginatif     ExcitationType = "IMAGINATIF"
	ExcitationDominanceDouce ExcitationType = "DOMINANCE_DOUCE"
	ExcitationSensoriel      ExcitationType = "SENSORIEL"
)

// UserProfile 用户档案
// 进入一次生成请求后不可变，归调用方所有；缺失字段由编排器统一补默认值。
type UserProfile struct {
	Name           string         `json:"name,omitempty"`
	Gender         string         `json:"gender,omitempty"`
	Orientation    string         `json:"orientation,omitempty"`
	DominantStyle  DominantStyle  `json:"dominant_style,omitempty"`
	ExcitationType ExcitationType `json:"excitation_type,omitempty"`
}

// QuestionnaireAnswers 问卷编码答案，键为题号、值为选项编码（A/B/C/D）
type QuestionnaireAnswers map[string]string
