package generator

const (
	DefaultModel            = "gemini-2.5-flash-image"
	ImageCompressionQuality = 75
)

// ImageOutput は Core の内部解析結果
type ImageOutput struct {
	Data     []byte
	MimeType string
}
