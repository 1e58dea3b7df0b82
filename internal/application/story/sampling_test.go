package story

import (
	"testing"

	"velours-story-api/internal/domain/entity"
)

func TestSampleTemperatureRanges(t *testing.T) {
	for i := 0; i < 1000; i++ {
		guided := SampleTemperature(entity.StoryKindGuided)
		if guided < 0.70 || guided >= 0.90 {
			t.Fatalf("guided temperature %f out of [0.70, 0.90)", guided)
		}
		free := SampleTemperature(entity.StoryKindFree)
		if free < 0.70 || free >= 1.00 {
			t.Fatalf("free temperature %f out of [0.70, 1.00)", free)
		}
	}
}

func TestSampleSeedRange(t *testing.T) {
	for i := 0; i < 1000; i++ {
		seed := SampleSeed()
		if seed < 0 || seed >= 10000 {
			t.Fatalf("seed %d out of [0, 10000)", seed)
		}
	}
}
