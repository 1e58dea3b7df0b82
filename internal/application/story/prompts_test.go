package story

import (
	"strings"
	"testing"

	"velours-story-api/internal/domain/entity"
)

func testProfile() *entity.UserProfile {
	return &entity.UserProfile{
		Name:           "Camille",
		Gender:         "femme",
		Orientation:    "hétérosexuelle",
		DominantStyle:  entity.StyleVisuel,
		ExcitationType: entity.ExcitationEmotionnel,
	}
}

func TestBuildSystemPromptBlockOrder(t *testing.T) {
	prompt := BuildSystemPrompt(testProfile(), entity.StoryKindGuided, 2)

	markers := []string{
		"narratrice experte",
		"TYPE DE RÉCIT : GUIDÉ",
		"OUVERTURE",
		"MONTÉE",
		"VARIÉTÉ",
		"CANAL DOMINANT : VISUEL",
		"INTENSITÉ : NIVEAU 2",
		"VOCABULAIRE",
		"RYTHME HYPNOTIQUE",
		"PERSONNALISATION",
		"TYPE D'EXCITATION : ÉMOTIONNEL",
	}
	last := -1
	for _, m := range markers {
		idx := strings.Index(prompt, m)
		if idx < 0 {
			t.Fatalf("system prompt missing block %q", m)
		}
		if idx <= last {
			t.Fatalf("block %q out of order (index %d, previous %d)", m, idx, last)
		}
		last = idx
	}
}

func TestBuildSystemPromptSensorielMapsToKinesthesique(t *testing.T) {
	p := testProfile()
	p.DominantStyle = entity.StyleSensoriel
	prompt := BuildSystemPrompt(p, entity.StoryKindRandom, 2)

	if !strings.Contains(prompt, "CANAL DOMINANT : KINESTHÉSIQUE") {
		t.Error("SENSORIEL style should render the kinesthésique block")
	}
	if strings.Contains(prompt, "CANAL DOMINANT : VISUEL") {
		t.Error("unexpected visual block for SENSORIEL style")
	}
}

func TestBuildSystemPromptUnknownStyleFallsBackToVisuel(t *testing.T) {
	p := testProfile()
	p.DominantStyle = entity.DominantStyle("OLFACTIF")
	prompt := BuildSystemPrompt(p, entity.StoryKindFree, 2)

	if !strings.Contains(prompt, "CANAL DOMINANT : VISUEL") {
		t.Error("unknown style should fall back to the visual block")
	}
}

func TestBuildSystemPromptOutOfRangeEroticism(t *testing.T) {
	for _, level := range []int{0, -1, 4, 99} {
		prompt := BuildSystemPrompt(testProfile(), entity.StoryKindCustom, level)
		if !strings.Contains(prompt, "INTENSITÉ : NIVEAU 2") {
			t.Errorf("level %d should fall back to tier 2", level)
		}
	}
}

func TestBuildSystemPromptIncludesName(t *testing.T) {
	p := testProfile()
	p.Name = "Élodie"
	prompt := BuildSystemPrompt(p, entity.StoryKindGuided, 1)

	if !strings.Contains(prompt, "Élodie") {
		t.Error("system prompt should carry the listener name")
	}
}

func TestBuildUserPromptMandatoryLines(t *testing.T) {
	prompt := BuildUserPrompt(UserPromptInput{
		Profile:     testProfile(),
		ReadingTime: 3,
	}, "hétérosexuelle")

	if !strings.Contains(prompt, "environ 3 minutes de lecture") {
		t.Error("reading time line is mandatory")
	}
	if !strings.Contains(prompt, "Directives finales") {
		t.Error("closing directives are mandatory")
	}
	if !strings.Contains(prompt, "Camille, femme.") {
		t.Errorf("default orientation should be omitted from salutation, got:\n%s", prompt)
	}
}

func TestBuildUserPromptNonDefaultOrientation(t *testing.T) {
	p := testProfile()
	p.Orientation = "bisexuelle"
	prompt := BuildUserPrompt(UserPromptInput{Profile: p, ReadingTime: 2}, "hétérosexuelle")

	if !strings.Contains(prompt, "Camille, femme bisexuelle.") {
		t.Errorf("non-default orientation should appear in salutation, got:\n%s", prompt)
	}
}

func TestBuildUserPromptOptionalSections(t *testing.T) {
	full := BuildUserPrompt(UserPromptInput{
		Profile:       testProfile(),
		SelectedKinks: []string{"lingerie", "jeux de rôle"},
		Situation:     "une rencontre dans un train de nuit",
		Character:     "un inconnu élégant",
		Place:         "un compartiment privé",
		FantasyText:   "être emportée loin de tout",
		CustomPrompt:  "beaucoup de dialogues",
		ReadingTime:   5,
	}, "hétérosexuelle")

	for _, want := range []string{
		"lingerie, jeux de rôle",
		"Situation : une rencontre dans un train de nuit",
		"Personnage : un inconnu élégant",
		"Lieu : un compartiment privé",
		"être emportée loin de tout",
		"beaucoup de dialogues",
	} {
		if !strings.Contains(full, want) {
			t.Errorf("user prompt missing %q", want)
		}
	}

	bare := BuildUserPrompt(UserPromptInput{Profile: testProfile(), ReadingTime: 2}, "hétérosexuelle")
	for _, section := range []string{"Préférences", "Scénario imposé", "Fantasme décrit", "Consigne supplémentaire"} {
		if strings.Contains(bare, section) {
			t.Errorf("empty input should omit section %q", section)
		}
	}
}

func TestBuildGuidedAddendum(t *testing.T) {
	addendum := BuildGuidedAddendum("doux", "soir", "short")
	if !strings.Contains(addendum, "tendre et enveloppant") {
		t.Error("addendum missing tone description")
	}
	if !strings.Contains(addendum, "récit du soir") {
		t.Error("addendum missing context description")
	}
	if !strings.Contains(addendum, "environ 2 minutes") {
		t.Error("short length should map to 2 minutes")
	}

	fallback := BuildGuidedAddendum("inconnu", "inconnu", "inconnu")
	if !strings.Contains(fallback, "sensuel et charnel") {
		t.Error("unknown tone should fall back to sensuel")
	}
	if !strings.Contains(fallback, "détente") {
		t.Error("unknown context should fall back to détente")
	}
	if !strings.Contains(fallback, "environ 5 minutes") {
		t.Error("unknown length should map to 5 minutes")
	}
}
