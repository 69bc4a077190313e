package domain

// Style は画風の選択肢です。
type Style string

const (
	StyleNone           Style = "None"
	StylePhotorealistic Style = "Photorealistic"
	StyleAnime          Style = "Anime"
	StyleWatercolor     Style = "Watercolor"
	StyleCyberpunk      Style = "Cyberpunk"
	StyleOilPainting    Style = "Oil Painting"
)

// AspectRatio は出力画像の縦横比の選択肢です。
type AspectRatio string

const (
	AspectSquare   AspectRatio = "1:1"
	AspectWide     AspectRatio = "16:9"
	AspectPortrait AspectRatio = "9:16"
)

const (
	DefaultStyle  = StyleNone
	DefaultAspect = AspectSquare
)
