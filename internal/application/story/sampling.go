package story

import (
	"math/rand"

	"velours-story-api/internal/domain/entity"
)

const (
	temperatureFloor  = 0.70
	guidedTempCeiling = 0.90
	otherTempCeiling  = 1.00
	seedSpace         = 10000
)

// SampleTemperature 按类型抽样温度:引导式 [0.70,0.90),其余 [0.70,1.00)。
func SampleTemperature(kind entity.StoryKind) float64 {
	ceiling := otherTempCeiling
	if kind == entity.StoryKindGuided {
		ceiling = guidedTempCeiling
	}
	return temperatureFloor + rand.Float64()*(ceiling-temperatureFloor)
}

// SampleSeed 抽样 [0,10000) 的整数种子,避免供应方缓存命中导致的重复文本。
func SampleSeed() int {
	return rand.Intn(seedSpace)
}
