package calculator

import (
	"context"
	"math"

	"tempo/internal/constant"
	"tempo/internal/errorx"
	"tempo/internal/svc"
	"tempo/internal/types"

	"github.com/zeromicro/go-zero/core/logx"
)

const (
	maxDevices         = 1_000_000
	maxCompoundsPerDay = 24
	maxKwhPerDevice    = 1_000_000
	maxUsd             = 1e15
)

var errResultOutOfRange = errorx.BadRequest("result out of range")

// Finite reports whether every value is a real number.
func Finite(values ...float64) bool {
	for _, v := range values {
		if math.IsInf(v, 0) || math.IsNaN(v) {
			return false
		}
	}
	return true
}

type CalculatorLogic struct {
	ctx    context.Context
	svcCtx *svc.ServiceContext
	logx.Logger
}

func NewCalculatorLogic(ctx context.Context, svcCtx *svc.ServiceContext) *CalculatorLogic {
	return &CalculatorLogic{
		ctx:    ctx,
		svcCtx: svcCtx,
		Logger: logx.WithContext(ctx),
	}
}

func (l *CalculatorLogic) Earnings(req *types.EarningsReq) (*types.EarningsResp, error) {
	if req.Devices <= 0 || req.Devices > maxDevices {
		return nil, errorx.BadRequest("devices must be between 1 and 1000000")
	}
	if req.KwhPerDevice < 0 || req.KwhPerDevice > maxKwhPerDevice {
		return nil, errorx.BadRequest("kwh_per_device must be between 0 and 1000000")
	}
	if req.Rate < 0 || req.Multiplier < 0 {
		return nil, errorx.BadRequest("rate and multiplier must not be negative")
	}
	if req.UptimePct < 0 || req.UptimePct > 100 {
		return nil, errorx.BadRequest("uptime_pct must be between 0 and 100")
	}

	rate := req.Rate
	if rate == 0 {
		rate = l.svcCtx.Config.Depin.RatePerKwh
	}
	multiplier := req.Multiplier
	if multiplier == 0 {
		deviceType := req.DeviceType
		if deviceType == "" {
			deviceType = string(constant.DeviceSolar)
		}
		m, ok := constant.DeviceMultiplier(deviceType)
		if !ok {
			return nil, errorx.BadRequest("unsupported device type: " + req.DeviceType)
		}
		multiplier = m
	}
	bonus := UptimeBonus(req.UptimePct)

	daily := DailyEarnings(req.Devices, req.KwhPerDevice, rate, multiplier, bonus)
	if !Finite(daily * DaysPerYear) {
		return nil, errResultOutOfRange
	}
	return &types.EarningsResp{
		Daily:       daily,
		Monthly:     daily * DaysPerMonth,
		Yearly:      daily * DaysPerYear,
		Rate:        rate,
		Multiplier:  multiplier,
		UptimeBonus: bonus,
	}, nil
}

func (l *CalculatorLogic) Roi(req *types.RoiReq) (*types.RoiResp, error) {
	if req.InvestmentUsd <= 0 || req.InvestmentUsd > maxUsd {
		return nil, errorx.BadRequest("investment_usd must be greater than 0 and at most 1e15")
	}
	if req.DailyEarningsUsd < 0 || req.OperatingCostUsd < 0 {
		return nil, errorx.BadRequest("earnings and costs must not be negative")
	}
	if req.DailyEarningsUsd > maxUsd || req.OperatingCostUsd > maxUsd {
		return nil, errorx.BadRequest("earnings and costs must be at most 1e15")
	}

	net, payback, annual := Roi(req.InvestmentUsd, req.DailyEarningsUsd, req.OperatingCostUsd)
	if !Finite(net, payback, annual) {
		return nil, errResultOutOfRange
	}
	return &types.RoiResp{
		NetDailyUsd:  net,
		PaybackDays:  payback,
		AnnualRoiPct: annual,
		Profitable:   net > 0,
	}, nil
}

func (l *CalculatorLogic) Yield(req *types.YieldReq) (*types.YieldResp, error) {
	if req.Principal <= 0 || req.Principal > maxUsd {
		return nil, errorx.BadRequest("principal must be greater than 0 and at most 1e15")
	}
	if req.Apy < 0 || req.Apy > 10000 {
		return nil, errorx.BadRequest("apy must be between 0 and 10000")
	}
	if req.Days <= 0 || req.Days > 36500 {
		return nil, errorx.BadRequest("days must be between 1 and 36500")
	}
	if req.CompoundsPerYear <= 0 || req.CompoundsPerYear > DaysPerYear*maxCompoundsPerDay {
		return nil, errorx.BadRequest("compounds_per_year must be between 1 and 8760")
	}

	final, effective := CompoundYield(req.Principal, req.Apy, req.Days, req.CompoundsPerYear)
	if !Finite(final, effective) {
		return nil, errResultOutOfRange
	}
	return &types.YieldResp{
		FinalValue:   final,
		Earnings:     final - req.Principal,
		EffectiveApy: effective,
	}, nil
}
