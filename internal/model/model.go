package model

import (
	"github.com/LeonardoBeccarini/smartbin/internal/model/entities"
	"github.com/LeonardoBeccarini/smartbin/internal/model/messages"
)

// Aliases exposing the common types to the services.

type (
	FillReport = messages.FillReport
	BinStatus  = messages.BinStatus
	Bin        = entities.Bin
	Point      = entities.Point
)

var (
	DecodeFillReport = messages.DecodeFillReport
	ErrInvalidReport = messages.ErrInvalidReport
)
