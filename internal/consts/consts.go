package consts

const (
	// ApplicationName 应用名称
	ApplicationName = "SnapVault Gallery Server"

	// ApplicationVersion 后端版本号
	ApplicationVersion = "1.0.0"

	// UploadFieldName 批量上传接口的 multipart 字段名
	UploadFieldName = "photos"

	// MaxUploadFiles 单次上传允许的最大文件数
	MaxUploadFiles = 10

	// WatermarkScaleRatio 水印宽度相对原图宽度的比例
	WatermarkScaleRatio = 0.2

	// WatermarkMargin 水印距离图片右边缘与下边缘的像素间距
	WatermarkMargin = 10

	// WatermarkOpacity 水印叠加透明度 (0-255，128 即 50%)
	WatermarkOpacity = 128
)
