package story

import (
	"fmt"
	"strings"

	"velours-story-api/internal/domain/entity"
)

// 提示词模板库: 系统提示由固定顺序的文本块拼装而成,任何输入组合都必须
// 产出完整的分层提示,不得因缺失字段而中断。

// corePromptBlock 核心叙事设定,所有故事类型共享。
const corePromptBlock = `Tu es une narratrice experte en récits sensuels destinés à un public adulte consentant.
Tu écris en français, à la deuxième personne du singulier, au présent de l'indicatif.
Ton récit s'adresse directement à l'auditrice et doit être immersif du premier au dernier mot.
Règles absolues :
- Jamais de titre, de liste, de balise ni de commentaire méta : uniquement le récit.
- Une progression continue, sans rupture de rythme ni saut temporel brutal.
- Un vocabulaire adulte assumé mais jamais dégradant, toujours dans le consentement.`

// kindPromptBlocks 按故事类型追加的引导块。
var kindPromptBlocks = map[entity.StoryKind]string{
	entity.StoryKindGuided: `TYPE DE RÉCIT : GUIDÉ.
Le récit suit fidèlement le profil sensoriel de l'auditrice établi par ses questionnaires.
Chaque scène doit exploiter son canal dominant et son type d'excitation, décrits plus bas.`,
	entity.StoryKindRandom: `TYPE DE RÉCIT : ALÉATOIRE.
Le récit s'articule autour des préférences sélectionnées, intégrées naturellement à la trame.
Surprends l'auditrice : un angle inattendu, un décor original, une tension qui monte autrement.`,
	entity.StoryKindCustom: `TYPE DE RÉCIT : PERSONNALISÉ.
Le récit respecte scrupuleusement la situation, le personnage et le lieu fournis par l'auditrice.
Ces trois éléments sont le squelette du récit : développe-les, ne les remplace jamais.`,
	entity.StoryKindFree: `TYPE DE RÉCIT : FANTASME LIBRE.
L'auditrice a décrit son fantasme avec ses propres mots : c'est la matière première exclusive du récit.
Reste au plus près de sa formulation, enrichis sans trahir.`,
}

// introPromptBlock 开场结构要求。
const introPromptBlock = `OUVERTURE :
Commence in medias res, dans une scène concrète où l'auditrice est déjà présente.
Les trois premières phrases installent le lieu, l'atmosphère et une première sensation physique.`

// preliminariesPromptBlock 前奏节奏要求。
const preliminariesPromptBlock = `MONTÉE :
Consacre une vraie place aux préliminaires : regards, effleurements, souffle, anticipation.
La tension doit croître par paliers, chaque palier plus précis que le précédent.`

// varietyPromptBlock 场景多样性要求。
const varietyPromptBlock = `VARIÉTÉ :
Varie les positions, les angles et les rythmes au fil du récit.
Aucune scène ne doit ressembler à la précédente ; chaque transition reste fluide et motivée.`

// stylePromptBlocks 感官主导风格块,键为画像中的主导风格。
// SENSORIEL 在叙事里映射为动觉(kinesthésique)描写。
var stylePromptBlocks = map[entity.DominantStyle]string{
	entity.StyleVisuel: `CANAL DOMINANT : VISUEL.
Privilégie ce que l'auditrice voit : lumières, reflets, courbes, regards soutenus, miroirs.
Chaque moment clé passe d'abord par une image précise avant toute autre sensation.`,
	entity.StyleSensoriel: `CANAL DOMINANT : KINESTHÉSIQUE.
Privilégie ce que l'auditrice ressent sur sa peau : textures, températures, pressions, frissons.
Chaque moment clé passe d'abord par une sensation tactile détaillée.`,
	entity.StyleAuditif: `CANAL DOMINANT : AUDITIF.
Privilégie ce que l'auditrice entend : murmures, souffles, mots prononcés à son oreille.
Chaque moment clé passe d'abord par un son, une voix, un silence habité.`,
}

// explicitnessPromptBlocks 三档露骨程度,越界取第 2 档。
var explicitnessPromptBlocks = map[int]string{
	1: `INTENSITÉ : NIVEAU 1 — SUGGESTIF.
Langage suggestif et élégant. L'érotisme naît de l'évocation, de l'ellipse et du sous-entendu.
Les gestes intimes sont suggérés plus que décrits.`,
	2: `INTENSITÉ : NIVEAU 2 — ÉQUILIBRÉ.
Langage sensuel direct mais raffiné. Les scènes intimes sont décrites clairement,
avec un équilibre constant entre émotion et sensation.`,
	3: `INTENSITÉ : NIVEAU 3 — INTENSE.
Langage adulte très direct, sans euphémisme inutile, toujours respectueux.
Les scènes intimes sont décrites avec précision et intensité croissante.`,
}

// vocabularyPromptBlock 词汇规范。
const vocabularyPromptBlock = `VOCABULAIRE :
Emploie un lexique riche et varié ; bannis les répétitions mécaniques.
Alterne termes tendres et termes charnels selon la montée du récit, jamais de vulgarité gratuite.`

// hypnoticPromptBlock 催眠式节奏。
const hypnoticPromptBlock = `RYTHME HYPNOTIQUE :
Utilise des phrases au rythme enveloppant, des répétitions douces, des ancrages sensoriels récurrents.
L'auditrice doit se sentir guidée, portée, comme dans une transe légère.`

// excitationPromptBlocks 兴奋类型适配块。
var excitationPromptBlocks = map[entity.ExcitationType]string{
	entity.ExcitationEmotionnel: `TYPE D'EXCITATION : ÉMOTIONNEL.
Le désir passe par la connexion : regards chargés, mots vrais, vulnérabilité partagée.
Fais monter l'émotion avant la sensation, jamais l'inverse.`,
	entity.ExcitationImaginatif: `TYPE D'EXCITATION : IMAGINATIF.
Le désir passe par le scénario : jeux de rôle, décors inattendus, situations transgressives mais sûres.
Soigne la mise en scène autant que les corps.`,
	entity.ExcitationDominanceDouce: `TYPE D'EXCITATION : DOMINANCE DOUCE.
Le désir passe par le lâcher-prise : une voix qui guide, des consignes murmurées, un contrôle bienveillant.
L'auditrice se laisse conduire, toujours en confiance.`,
	entity.ExcitationSensoriel: `TYPE D'EXCITATION : SENSORIEL.
Le désir passe par les cinq sens : chaque matière, chaque odeur, chaque goût compte.
Sature le récit de détails sensoriels concrets.`,
}

// BuildSystemPrompt 按固定顺序拼装系统提示:核心块、类型块、开场、前奏、
// 多样性、风格块、露骨档位、词汇、催眠节奏、姓名个性化、兴奋适配。
// profile 必须已归一化(见 NormalizeProfile)。
func BuildSystemPrompt(profile *entity.UserProfile, kind entity.StoryKind, eroticism int) string {
	blocks := make([]string, 0, 11)
	blocks = append(blocks, corePromptBlock)

	if block, ok := kindPromptBlocks[kind]; ok {
		blocks = append(blocks, block)
	}

	blocks = append(blocks, introPromptBlock, preliminariesPromptBlock, varietyPromptBlock)

	styleBlock, ok := stylePromptBlocks[profile.DominantStyle]
	if !ok {
		styleBlock = stylePromptBlocks[entity.StyleVisuel]
	}
	blocks = append(blocks, styleBlock)

	tierBlock, ok := explicitnessPromptBlocks[eroticism]
	if !ok {
		tierBlock = explicitnessPromptBlocks[2]
	}
	blocks = append(blocks, tierBlock)

	blocks = append(blocks, vocabularyPromptBlock, hypnoticPromptBlock)

	blocks = append(blocks, fmt.Sprintf(`PERSONNALISATION :
L'auditrice s'appelle %s. Utilise son prénom avec parcimonie, aux moments de plus forte intensité,
jamais plus d'une fois par paragraphe.`, profile.Name))

	if block, ok := excitationPromptBlocks[profile.ExcitationType]; ok {
		blocks = append(blocks, block)
	} else {
		blocks = append(blocks, excitationPromptBlocks[entity.ExcitationEmotionnel])
	}

	return strings.Join(blocks, "\n\n")
}

// UserPromptInput 用户提示的可选素材,空字段对应的段落整体省略。
type UserPromptInput struct {
	Profile       *entity.UserProfile
	SelectedKinks []string
	Situation     string
	Character     string
	Place         string
	FantasyText   string
	CustomPrompt  string
	ReadingTime   int
}

// BuildUserPrompt 生成用户提示:称呼行、可选素材段落、强制的阅读时长行与收尾指令。
// 性取向仅在非默认值时并入称呼,避免冗余限定。
func BuildUserPrompt(in UserPromptInput, defaultOrientation string) string {
	var b strings.Builder

	p := in.Profile
	fmt.Fprintf(&b, "Écris un récit sensuel pour %s, %s", p.Name, p.Gender)
	if p.Orientation != "" && p.Orientation != defaultOrientation {
		fmt.Fprintf(&b, " %s", p.Orientation)
	}
	b.WriteString(".\n")

	if len(in.SelectedKinks) > 0 {
		fmt.Fprintf(&b, "\nPréférences à intégrer naturellement au récit : %s.\n",
			strings.Join(in.SelectedKinks, ", "))
	}
	if in.Situation != "" || in.Character != "" || in.Place != "" {
		b.WriteString("\nScénario imposé :\n")
		if in.Situation != "" {
			fmt.Fprintf(&b, "- Situation : %s\n", in.Situation)
		}
		if in.Character != "" {
			fmt.Fprintf(&b, "- Personnage : %s\n", in.Character)
		}
		if in.Place != "" {
			fmt.Fprintf(&b, "- Lieu : %s\n", in.Place)
		}
	}
	if in.FantasyText != "" {
		fmt.Fprintf(&b, "\nFantasme décrit par l'auditrice, à suivre fidèlement :\n%s\n", in.FantasyText)
	}
	if in.CustomPrompt != "" {
		fmt.Fprintf(&b, "\nConsigne supplémentaire de l'auditrice : %s\n", in.CustomPrompt)
	}

	fmt.Fprintf(&b, "\nLe récit doit correspondre à environ %d minutes de lecture à voix haute.\n", in.ReadingTime)
	b.WriteString(`
Directives finales :
- Commence directement par le récit, sans préambule ni titre.
- Termine sur une chute douce et apaisée, jamais abrupte.
- Reste en français du début à la fin.`)

	return b.String()
}
