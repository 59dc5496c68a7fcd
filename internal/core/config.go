package core

import "time"

type AppConfig interface {
	GetRuntimePath() string
	GetDatabasePath() string
	GetVectorPath() string
	GetHistoryCapacity() int
	GetLocation() *time.Location
}

type TelegramConfig interface {
	GetTelegramToken() string
	GetAllowedIDs() []int64
}
