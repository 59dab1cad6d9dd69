package wallet

import (
	"context"
	"strings"
	"time"

	"tempo/internal/errorx"
	"tempo/internal/middleware"
	"tempo/internal/model"
	"tempo/internal/svc"
	"tempo/internal/types"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"github.com/zeromicro/go-zero/core/logx"
)

var walletTypes = map[string]bool{
	"metamask":      true,
	"walletconnect": true,
	"coinbase":      true,
	"rabby":         true,
	"injected":      true,
}

type ConnectionsLogic struct {
	ctx    context.Context
	svcCtx *svc.ServiceContext
	logx.Logger
}

func NewConnectionsLogic(ctx context.Context, svcCtx *svc.ServiceContext) *ConnectionsLogic {
	return &ConnectionsLogic{
		ctx:    ctx,
		svcCtx: svcCtx,
		Logger: logx.WithContext(ctx),
	}
}

func (l *ConnectionsLogic) Connect(req *types.ConnectWalletReq) (*types.ConnectWalletResp, error) {
	userId := middleware.UserIdFrom(l.ctx)
	if userId == "" {
		return nil, errorx.Unauthorized("authentication required")
	}
	address, err := l.validate(req.Address, req.Chain)
	if err != nil {
		return nil, err
	}
	walletType := strings.ToLower(req.WalletType)
	if !walletTypes[walletType] {
		return nil, errorx.BadRequest("unsupported wallet type: " + req.WalletType)
	}

	now := time.Now().UTC()
	row := &model.WalletConnections{
		Id:          uuid.NewString(),
		UserId:      userId,
		Address:     address,
		Chain:       req.Chain,
		WalletType:  walletType,
		IsActive:    true,
		ConnectedAt: now,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := l.svcCtx.WalletConnectionsDao.Upsert(l.ctx, row); err != nil {
		l.Errorf("connect wallet %s for %s: %v", address, userId, err)
		return nil, err
	}

	// On conflict the stored id is the original one.
	active, err := l.svcCtx.WalletConnectionsDao.FindActiveByUser(l.ctx, userId)
	if err == nil {
		for _, c := range active {
			if c.Address == address && c.Chain == req.Chain {
				row = c
				break
			}
		}
	}

	l.Infof("user %s connected %s wallet %s on %s", userId, walletType, address, req.Chain)
	return &types.ConnectWalletResp{Connection: toConnection(row)}, nil
}

func (l *ConnectionsLogic) Disconnect(req *types.DisconnectWalletReq) (*types.DisconnectWalletResp, error) {
	userId := middleware.UserIdFrom(l.ctx)
	if userId == "" {
		return nil, errorx.Unauthorized("authentication required")
	}
	address, err := l.validate(req.Address, req.Chain)
	if err != nil {
		return nil, err
	}

	n, err := l.svcCtx.WalletConnectionsDao.Deactivate(l.ctx, userId, address, req.Chain)
	if err != nil {
		l.Errorf("disconnect wallet %s for %s: %v", address, userId, err)
		return nil, err
	}
	if n == 0 {
		return nil, errorx.NotFound("wallet connection not found")
	}
	return &types.DisconnectWalletResp{Disconnected: true}, nil
}

func (l *ConnectionsLogic) List() (*types.ConnectionsResp, error) {
	userId := middleware.UserIdFrom(l.ctx)
	if userId == "" {
		return nil, errorx.Unauthorized("authentication required")
	}

	rows, err := l.svcCtx.WalletConnectionsDao.FindActiveByUser(l.ctx, userId)
	if err != nil {
		l.Errorf("list wallets for %s: %v", userId, err)
		return nil, err
	}
	resp := &types.ConnectionsResp{Connections: make([]types.WalletConnection, 0, len(rows))}
	for _, row := range rows {
		resp.Connections = append(resp.Connections, toConnection(row))
	}
	return resp, nil
}

func (l *ConnectionsLogic) validate(address, chainKey string) (string, error) {
	if !common.IsHexAddress(address) {
		return "", errorx.BadRequest("invalid wallet address")
	}
	if _, ok := l.svcCtx.Config.Chain(chainKey); !ok {
		return "", errorx.BadRequest("unsupported chain: " + chainKey)
	}
	return strings.ToLower(common.HexToAddress(address).Hex()), nil
}

func toConnection(row *model.WalletConnections) types.WalletConnection {
	return types.WalletConnection{
		Id:          row.Id,
		Address:     row.Address,
		Chain:       row.Chain,
		WalletType:  row.WalletType,
		ConnectedAt: row.ConnectedAt.UTC().Format(time.RFC3339),
	}
}
