package prompt

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/shouni/gemini-image-studio/pkg/domain"
)

const (
	clauseSeparator = ", "
	avoidSeparator  = ". avoid: "
)

var styleSuffixes = map[domain.Style]string{
	domain.StyleNone:           "",
	domain.StylePhotorealistic: "photorealistic, ultra-detailed photograph, natural lighting, 8k",
	domain.StyleAnime:          "anime style, vibrant, detailed illustration",
	domain.StyleWatercolor:     "watercolor painting, soft edges, delicate brush strokes",
	domain.StyleCyberpunk:      "cyberpunk style, neon lights, futuristic atmosphere",
	domain.StyleOilPainting:    "oil painting, rich textures, classical brushwork",
}

var aspectClauses = map[domain.AspectRatio]string{
	domain.AspectSquare:   "a square 1:1 image",
	domain.AspectWide:     "a widescreen 16:9 cinematic image",
	domain.AspectPortrait: "a tall vertical 9:16 portrait image",
}

// styleOrder は UI に並べる順序です。
var styleOrder = []domain.Style{
	domain.StyleNone,
	domain.StylePhotorealistic,
	domain.StyleAnime,
	domain.StyleWatercolor,
	domain.StyleCyberpunk,
	domain.StyleOilPainting,
}

var aspectOrder = []domain.AspectRatio{
	domain.AspectSquare,
	domain.AspectWide,
	domain.AspectPortrait,
}

// Styles は選択可能な画風を返します。
func Styles() []domain.Style {
	return append([]domain.Style(nil), styleOrder...)
}

// AspectRatios は選択可能な縦横比を返します。
func AspectRatios() []domain.AspectRatio {
	return append([]domain.AspectRatio(nil), aspectOrder...)
}

// ParseStyle は文字列を Style に変換します。大文字小文字は区別しません。
func ParseStyle(s string) (domain.Style, error) {
	for _, st := range styleOrder {
		if strings.EqualFold(string(st), strings.TrimSpace(s)) {
			return st, nil
		}
	}
	return "", fmt.Errorf("未対応のスタイルです: %q", s)
}

// ParseAspectRatio は文字列を AspectRatio に変換します。
func ParseAspectRatio(s string) (domain.AspectRatio, error) {
	ar := domain.AspectRatio(strings.TrimSpace(s))
	if _, ok := aspectClauses[ar]; !ok {
		return "", fmt.Errorf("未対応のアスペクト比です: %q", s)
	}
	return ar, nil
}

// Compose は最終プロンプトを組み立てます。
// 順序は 本文, 縦横比の説明, 画風の接尾辞, そして否定プロンプトがあれば avoid 句です。
// 未知の選択肢は句を追加しません。
func Compose(base, negative string, style domain.Style, aspect domain.AspectRatio) string {
	var sb strings.Builder
	sb.WriteString(base)

	if clause := aspectClauses[aspect]; clause != "" {
		sb.WriteString(clauseSeparator)
		sb.WriteString(clause)
	}
	if suffix := styleSuffixes[style]; suffix != "" {
		sb.WriteString(clauseSeparator)
		sb.WriteString(suffix)
	}
	if negative != "" {
		sb.WriteString(avoidSeparator)
		sb.WriteString(negative)
	}
	return sb.String()
}

var surprisePrompts = []string{
	"a cat wearing sunglasses lounging on a sunny beach",
	"a lighthouse on a cliff during a thunderstorm, dramatic waves",
	"an astronaut riding a horse across a field of glowing flowers",
	"a cozy library inside a giant hollow tree at dusk",
	"a steampunk airship sailing above a city of copper domes",
	"a red fox sleeping in fresh snow under the northern lights",
	"a floating island with waterfalls pouring into the clouds",
	"a tiny dragon drinking tea from a porcelain cup",
}

// Surprise はお任せ用のプロンプトを1つ返します。
func Surprise() string {
	return surprisePrompts[rand.IntN(len(surprisePrompts))]
}
