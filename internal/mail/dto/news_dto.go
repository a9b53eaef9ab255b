package dto

import (
	maildomain "github.com/KrasilnikovaKateryna/detect-autogenerated-emails-bot/internal/mail/domain"
)

type AutoNewsResponse struct {
	News   []*maildomain.AutoNews `json:"news"`
	Limit  int                    `json:"limit"`
	Offset int                    `json:"offset"`
	Total  int64                  `json:"total"`
}

type UserNewsResponse struct {
	News   []*maildomain.UserNews `json:"news"`
	Limit  int                    `json:"limit"`
	Offset int                    `json:"offset"`
	Total  int64                  `json:"total"`
}
