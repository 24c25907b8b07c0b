package wizard

import "time"

type BannerKind int

const (
	BannerSuccess BannerKind = iota
	BannerError
)

func (k BannerKind) String() string {
	if k == BannerError {
		return "error"
	}
	return "success"
}

// Banner is a transient notification shown above the form.
type Banner struct {
	Kind    BannerKind
	Message string
}

// TTL is how long the banner stays on screen.
func (b Banner) TTL() time.Duration {
	if b.Kind == BannerError {
		return 8 * time.Second
	}
	return 5 * time.Second
}

const (
	MsgIncomplete   = "В анкете есть незаполненные обязательные поля. Проверьте разделы, отмеченные красным."
	MsgDownloaded   = "PDF файл успешно скачан!"
	MsgCleared      = "Форма очищена"
	msgSubmitError  = "Ошибка: "
	msgDownloadFail = "Ошибка при скачивании PDF: "
)
