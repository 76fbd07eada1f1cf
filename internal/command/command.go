package command

import (
	"context"
	"time"

	"github.com/kapu/poketeam-kakao-bot-go/internal/adapter"
	"github.com/kapu/poketeam-kakao-bot-go/internal/domain"
	"github.com/kapu/poketeam-kakao-bot-go/internal/pager"
	"github.com/kapu/poketeam-kakao-bot-go/internal/service"
	"go.uber.org/zap"
)

type Command interface {
	Name() string
	Description() string
	Execute(ctx context.Context, cmdCtx *domain.CommandContext, params map[string]any) error
}

type Dependencies struct {
	Teams            *service.TeamService
	Rosters          service.RosterResolver
	NLU              *service.NLUEngine
	Sessions         *pager.Manager
	Formatter        *adapter.ResponseFormatter
	SendMessage      func(room, message string) error
	SendError        func(room, message string) error
	ExecuteCommand   func(ctx context.Context, cmdCtx *domain.CommandContext, cmdType domain.CommandType, params map[string]any) error
	PasteHostPrefix  string
	AddTeamAdminOnly bool
	PagerTimeout     time.Duration
	PageSize         int
	Logger           *zap.Logger
}
