package profile

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"tempo/internal/errorx"
	"tempo/internal/middleware"
	"tempo/internal/model"
	"tempo/internal/svc"
	"tempo/internal/types"

	"github.com/zeromicro/go-zero/core/logx"
)

const (
	maxDisplayNameLen = 64
	defaultChain      = "ethereum"
)

type ProfileLogic struct {
	ctx    context.Context
	svcCtx *svc.ServiceContext
	logx.Logger
}

func NewProfileLogic(ctx context.Context, svcCtx *svc.ServiceContext) *ProfileLogic {
	return &ProfileLogic{
		ctx:    ctx,
		svcCtx: svcCtx,
		Logger: logx.WithContext(ctx),
	}
}

// Get returns the caller's profile. A user who never saved one gets an empty
// profile on the default chain.
func (l *ProfileLogic) Get() (*types.Profile, error) {
	userId := middleware.UserIdFrom(l.ctx)
	if userId == "" {
		return nil, errorx.Unauthorized("authentication required")
	}

	row, err := l.load(userId)
	if err != nil {
		return nil, err
	}
	return toProfile(row), nil
}

// Update overwrites the fields present in req and keeps the rest.
func (l *ProfileLogic) Update(req *types.UpdateProfileReq) (*types.Profile, error) {
	userId := middleware.UserIdFrom(l.ctx)
	if userId == "" {
		return nil, errorx.Unauthorized("authentication required")
	}

	row, err := l.load(userId)
	if err != nil {
		return nil, err
	}

	if name := strings.TrimSpace(req.DisplayName); name != "" {
		if utf8.RuneCountInString(name) > maxDisplayNameLen {
			return nil, errorx.BadRequest("display_name is too long")
		}
		row.DisplayName = name
	}
	if avatar := strings.TrimSpace(req.AvatarUrl); avatar != "" {
		u, err := url.Parse(avatar)
		if err != nil || (u.Scheme != "https" && u.Scheme != "http") || u.Host == "" {
			return nil, errorx.BadRequest("avatar_url must be an http(s) URL")
		}
		row.AvatarUrl = avatar
	}
	if chainKey := strings.ToLower(strings.TrimSpace(req.PreferredChain)); chainKey != "" {
		if _, ok := l.svcCtx.Config.Chain(chainKey); !ok {
			return nil, errorx.BadRequest("unsupported chain: " + chainKey)
		}
		row.PreferredChain = chainKey
	}

	now := time.Now().UTC()
	if row.CreatedAt.IsZero() {
		row.CreatedAt = now
	}
	row.UpdatedAt = now

	if err := l.svcCtx.ProfilesDao.Upsert(l.ctx, row); err != nil {
		l.Errorf("upsert profile %s: %v", userId, err)
		return nil, err
	}
	return toProfile(row), nil
}

func (l *ProfileLogic) load(userId string) (*model.Profiles, error) {
	row, err := l.svcCtx.ProfilesDao.FindOne(l.ctx, userId)
	if errors.Is(err, model.ErrNotFound) {
		return &model.Profiles{Id: userId, PreferredChain: defaultChain}, nil
	}
	if err != nil {
		l.Errorf("find profile %s: %v", userId, err)
		return nil, err
	}
	return row, nil
}

func toProfile(row *model.Profiles) *types.Profile {
	p := &types.Profile{
		Id:             row.Id,
		DisplayName:    row.DisplayName,
		AvatarUrl:      row.AvatarUrl,
		PreferredChain: row.PreferredChain,
	}
	if !row.UpdatedAt.IsZero() {
		p.UpdatedAt = row.UpdatedAt.Format(time.RFC3339)
	}
	return p
}
