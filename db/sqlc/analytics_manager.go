package sqlc

import (
	"context"
	"fmt"
	"net"

	"github.com/sqlc-dev/pqtype"

	mb "github.com/saeidalz13/battleship-solo/models/battleship"
)

// AnalyticsManager keeps the per-server game counters. A manager
// without queries records nothing, which is how the server runs
// when no database is configured.
type AnalyticsManager struct {
	queries     Querier
	serverIpNet pqtype.Inet
}

func NewAnalyticsManager(queries Querier, serverIpNet net.IPNet) *AnalyticsManager {
	return &AnalyticsManager{
		queries:     queries,
		serverIpNet: pqtype.Inet{IPNet: serverIpNet, Valid: true},
	}
}

func (a *AnalyticsManager) Enabled() bool {
	return a != nil && a.queries != nil
}

func (a *AnalyticsManager) ServerIpNet() pqtype.Inet {
	return a.serverIpNet
}

func (a *AnalyticsManager) RecordGameCreated(ctx context.Context) error {
	if !a.Enabled() {
		return nil
	}
	return a.queries.IncrementGamesCreatedCount(ctx, a.serverIpNet)
}

func (a *AnalyticsManager) RecordGameWinner(ctx context.Context, winner string) error {
	if !a.Enabled() {
		return nil
	}

	switch winner {
	case mb.WinnerPlayer:
		return a.queries.IncrementGamesWonByPlayerCount(ctx, a.serverIpNet)
	case mb.WinnerOpponent:
		return a.queries.IncrementGamesWonByOpponentCount(ctx, a.serverIpNet)
	default:
		return fmt.Errorf("cannot record winner %q", winner)
	}
}

func (a *AnalyticsManager) GetGamesCreatedCount(ctx context.Context) (int64, error) {
	if !a.Enabled() {
		return 0, nil
	}
	return a.queries.GetGamesCreatedCount(ctx, a.serverIpNet)
}

func (a *AnalyticsManager) GetGameServerAnalytics(ctx context.Context) (GameServerAnalytic, error) {
	if !a.Enabled() {
		return GameServerAnalytic{ServerIp: a.serverIpNet}, nil
	}
	return a.queries.GetGameServerAnalytics(ctx, a.serverIpNet)
}
