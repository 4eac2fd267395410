package dbmodels

type FileType string

const (
	LeaveDocumentFileType FileType = "LEAVE_DOCUMENT"
)

// FileStorage - метаданные файла, приложенного к заявке на отпуск.
// Содержимое лежит в S3, ключ объекта равен ID записи.
// Жизненный цикл привязан к заявке
type FileStorage struct {
	BaseSpaceModel
	RequestID string   `gorm:"type:varchar(36);index"`
	FileName  string   `gorm:"type:varchar(255)"`
	FileType  FileType `gorm:"type:varchar(20)"`
	// ContentType - MIME-тип, указанный при загрузке
	ContentType string `gorm:"type:varchar(100)"`
	FileSize    int64
}
