package domain

import "context"

// Message — единица обмена через брокер, входящая и исходящая.
//
// Name выбирает consumer, Data — непрозрачная бизнес-нагрузка.
// Кодирование на проводе — пакет codec.
type Message struct {
	Name string         `json:"name"`
	Data map[string]any `json:"data"`
}

// MessageHandler обрабатывает декодированное входящее сообщение.
// nil — сообщение подтверждается (ack), ошибка — отклоняется.
type MessageHandler func(ctx context.Context, msg Message) error
