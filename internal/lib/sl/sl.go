// Package sl содержит вспомогательные функции для структурированного
// логирования через slog.
package sl

import "log/slog"

// Err возвращает атрибут лога с ключом "error" и текстом ошибки,
// чтобы ошибки во всех сервисах логировались единообразно:
//
//	log.Error("failed to register payment", sl.Err(err))
func Err(err error) slog.Attr {
	return slog.Attr{
		Key:   "error",
		Value: slog.StringValue(err.Error()),
	}
}
