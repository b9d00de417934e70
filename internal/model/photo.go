package model

type Photo struct {
	ID uint `json:"id" gorm:"primaryKey"`
	// Filename 服务端生成的存储文件名，唯一对应 uploads 目录下的一个文件
	Filename string `json:"filename" gorm:"not null;unique"`
	// OriginalName 客户端上传时的原始文件名，仅作展示，不参与存储与鉴权
	OriginalName string `json:"original_name"`
	Size         int64  `json:"size" gorm:"not null"`
	MimeType     string `json:"mime_type"`
	UploadedAt   int64  `json:"uploaded_at" gorm:"not null;index"`
	UserID       uint   `json:"user_id" gorm:"not null;index"`
	User         User   `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE;" json:"-"`
}
